package scoring

import (
	"github.com/dotcommander/igbcscore/internal/catalog"
	"github.com/dotcommander/igbcscore/internal/project"
	"github.com/dotcommander/igbcscore/internal/types"
)

// CreditScore is the evaluated score of one credit
type CreditScore struct {
	ID        types.CreditID   `json:"id"`
	Category  types.CategoryID `json:"category"`
	Title     string           `json:"title"`
	Points    int              `json:"points"`     // capped at MaxPoints
	MaxPoints int              `json:"max_points"` // from the catalog
	Details   []ScoringMetric  `json:"details"`    // per-part breakdown
}

// Complete reports whether the credit earns its maximum.
func (c CreditScore) Complete() bool {
	return c.Points >= c.MaxPoints
}

// Detail returns the breakdown entry for a part.
func (c CreditScore) Detail(part string) (ScoringMetric, bool) {
	for _, d := range c.Details {
		if d.Part == part {
			return d, true
		}
	}
	return ScoringMetric{}, false
}

// ScoringMetric represents a single scored part of a credit
type ScoringMetric struct {
	Part      string  `json:"part"`           // stable key, e.g. "non-roof"
	Name      string  `json:"name"`           // Human-readable name
	Points    int     `json:"points"`         // Actual points earned
	MaxPoints int     `json:"max_points"`     // Maximum possible points
	Passed    bool    `json:"passed"`         // Whether the part earns its maximum
	Metric    float64 `json:"metric"`         // Derived value compared to thresholds
	Unit      string  `json:"unit,omitempty"` // Unit of Metric
	Note      string  `json:"note,omitempty"` // Optional note/reason
}

// Scorer evaluates one credit from a project snapshot
type Scorer interface {
	Score(in project.Input) CreditScore
}

// ScorerFunc adapts a function to Scorer
type ScorerFunc func(in project.Input) CreditScore

// Score calls f(in)
func (f ScorerFunc) Score(in project.Input) CreditScore { return f(in) }

// newCreditScore fills catalog data and caps the points at the credit maximum.
func newCreditScore(id types.CreditID, points int, details []ScoringMetric) CreditScore {
	def, _ := catalog.Lookup(id)
	if points > def.MaxPoints {
		points = def.MaxPoints
	}
	if points < 0 {
		points = 0
	}
	return CreditScore{
		ID:        id,
		Category:  def.Category,
		Title:     def.Title,
		Points:    points,
		MaxPoints: def.MaxPoints,
		Details:   details,
	}
}

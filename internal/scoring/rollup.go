package scoring

import (
	"github.com/dotcommander/igbcscore/internal/catalog"
	"github.com/dotcommander/igbcscore/internal/project"
	"github.com/dotcommander/igbcscore/internal/types"
)

// CategoryScore is the rolled-up score of one category
type CategoryScore struct {
	ID        types.CategoryID `json:"id"`
	Title     string           `json:"title"`
	Points    int              `json:"points"`
	MaxPoints int              `json:"max_points"`
}

// Result is the full evaluation of a project snapshot
type Result struct {
	Credits    []CreditScore   `json:"credits"`
	Categories []CategoryScore `json:"categories"`
	Total      int             `json:"total"`
	MaxTotal   int             `json:"max_total"`
}

// Credit returns the score of one credit.
func (r Result) Credit(id types.CreditID) (CreditScore, bool) {
	for _, c := range r.Credits {
		if c.ID == id {
			return c, true
		}
	}
	return CreditScore{}, false
}

// Category returns the score of one category.
func (r Result) Category(id types.CategoryID) (CategoryScore, bool) {
	for _, c := range r.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return CategoryScore{}, false
}

// Scorers maps every credit to its evaluator.
var Scorers = map[types.CreditID]Scorer{
	types.SDCredit1: ScorerFunc(ScoreTopography),
	types.SDCredit2: ScorerFunc(ScoreHeatIsland),
	types.SDCredit3: ScorerFunc(ScorePassiveArchitecture),
	types.SDCredit4: ScorerFunc(ScoreUniversalDesign),
	types.SDCredit5: ScorerFunc(ScoreGreenParking),
	types.SDCredit6: ScorerFunc(ScoreAmenities),
	types.SDCredit7: ScorerFunc(ScoreWorkforce),
	types.SDCredit8: ScorerFunc(ScoreEducation),
	types.EECredit1: ScorerFunc(ScoreEnhancedEnergy),
	types.EECredit2: ScorerFunc(ScoreWaterHeating),
	types.EECredit3: ScorerFunc(ScoreRenewable),
	types.EECredit4: ScorerFunc(ScoreEquipment),
	types.EECredit5: ScorerFunc(ScoreMonitoring),
}

// ScoreCredit evaluates a single credit.
func ScoreCredit(id types.CreditID, in project.Input) (CreditScore, bool) {
	s, ok := Scorers[id]
	if !ok {
		return CreditScore{}, false
	}
	return s.Score(in), true
}

// Evaluate scores every credit in catalog order and rolls up the totals.
func Evaluate(in project.Input) Result {
	credits := make([]CreditScore, 0, len(catalog.Credits))
	for _, def := range catalog.Credits {
		if score, ok := ScoreCredit(def.ID, in); ok {
			credits = append(credits, score)
		}
	}
	return Rollup(credits)
}

// Rollup sums credit points into categories and the grand total. Credit
// points are already capped, so no cap applies here.
func Rollup(credits []CreditScore) Result {
	r := Result{Credits: credits, MaxTotal: catalog.MaxTotal()}
	for _, cat := range catalog.Categories {
		cs := CategoryScore{ID: cat.ID, Title: cat.Title, MaxPoints: cat.MaxPoints}
		for _, c := range credits {
			if c.Category == cat.ID {
				cs.Points += c.Points
			}
		}
		r.Categories = append(r.Categories, cs)
		r.Total += cs.Points
	}
	return r
}

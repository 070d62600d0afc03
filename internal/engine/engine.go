// Package engine ties scoring and insight generation into a single report and
// keeps editable sessions around a project snapshot.
package engine

import (
	"github.com/dotcommander/igbcscore/internal/insight"
	"github.com/dotcommander/igbcscore/internal/project"
	"github.com/dotcommander/igbcscore/internal/scoring"
	"github.com/dotcommander/igbcscore/internal/types"
)

// Report is the full evaluation of one snapshot.
type Report struct {
	scoring.Result
	Insights []insight.Insight `json:"insights"`
}

// Evaluate scores every credit and derives its insights. It holds no state:
// the same snapshot always yields the same report.
func Evaluate(in project.Input) Report {
	r := scoring.Evaluate(in)
	return Report{Result: r, Insights: insight.Analyze(in, r)}
}

// InsightsFor returns the insights of one credit.
func (r Report) InsightsFor(id types.CreditID) []insight.Insight {
	var out []insight.Insight
	for _, i := range r.Insights {
		if i.Credit == id {
			out = append(out, i)
		}
	}
	return out
}

// Percent returns the total as a percentage of the maximum.
func (r Report) Percent() float64 {
	if r.MaxTotal == 0 {
		return 0
	}
	return float64(r.Total) * 100 / float64(r.MaxTotal)
}

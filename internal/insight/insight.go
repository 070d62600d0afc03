// Package insight computes next-point guidance: for every credit short of its
// maximum it reports how much more of each raw input is needed to reach the
// next threshold tier.
package insight

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dotcommander/igbcscore/internal/catalog"
	"github.com/dotcommander/igbcscore/internal/project"
	"github.com/dotcommander/igbcscore/internal/scoring"
	"github.com/dotcommander/igbcscore/internal/types"
)

// CompleteMessage is shown for a credit at its maximum.
const CompleteMessage = "Congratulations! You've achieved the compliance for this measure."

// Verbs used in shortfall messages.
const (
	VerbProvide  = "Provide"
	VerbSelect   = "Select"
	VerbIncrease = "Increase"
	VerbReduce   = "Reduce"
)

// Insight is one piece of next-point guidance.
type Insight struct {
	Credit       types.CreditID `json:"credit"`
	Part         string         `json:"part,omitempty"`
	Kind         string         `json:"kind"`
	Amount       float64        `json:"amount,omitempty"`
	Unit         string         `json:"unit,omitempty"`
	Verb         string         `json:"verb,omitempty"`
	Message      string         `json:"message"`
	TargetPoints int            `json:"target_points,omitempty"`
}

// String returns the display message.
func (i Insight) String() string { return i.Message }

// IsComplete reports whether the insight marks a credit as complete.
func (i Insight) IsComplete() bool { return i.Kind == types.InsightComplete }

// Complete builds the terminal insight of a credit.
func Complete(id types.CreditID) Insight {
	return Insight{Credit: id, Kind: types.InsightComplete, Message: CompleteMessage}
}

// Message builds a static instruction for gates without a numeric threshold.
func Message(id types.CreditID, part, text string) Insight {
	return Insight{Credit: id, Part: part, Kind: types.InsightMessage, Message: text}
}

// Shortfall builds a numeric insight. A negative amount is reported as 0.
func Shortfall(id types.CreditID, part, verb string, amount float64, unit string, target int) Insight {
	amount = math.Max(amount, 0)
	return Insight{
		Credit:       id,
		Part:         part,
		Kind:         types.InsightShortfall,
		Amount:       amount,
		Unit:         unit,
		Verb:         verb,
		Message:      fmt.Sprintf("%s %s more %s to achieve compliance.", verb, FormatAmount(amount), unit),
		TargetPoints: target,
	}
}

// Reduction builds a numeric insight for lower-is-better inputs.
func Reduction(id types.CreditID, part, subject string, amount float64, unit string, target int) Insight {
	amount = math.Max(amount, 0)
	return Insight{
		Credit:       id,
		Part:         part,
		Kind:         types.InsightShortfall,
		Amount:       amount,
		Unit:         unit,
		Verb:         VerbReduce,
		Message:      fmt.Sprintf("Reduce %s by %s %s to achieve compliance.", subject, FormatAmount(amount), unit),
		TargetPoints: target,
	}
}

// FormatAmount renders an amount with at most two decimals.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// analyzer produces the insights of one credit that is short of its maximum.
type analyzer func(in project.Input, c scoring.CreditScore) []Insight

var analyzers = map[types.CreditID]analyzer{
	types.SDCredit1: topography,
	types.SDCredit2: heatIsland,
	types.SDCredit3: passiveArchitecture,
	types.SDCredit4: universalDesign,
	types.SDCredit5: greenParking,
	types.SDCredit6: amenities,
	types.SDCredit7: workforce,
	types.SDCredit8: education,
	types.EECredit1: enhancedEnergy,
	types.EECredit2: waterHeating,
	types.EECredit3: renewable,
	types.EECredit4: equipment,
	types.EECredit5: monitoring,
}

// Analyze returns the insights of every credit in result order.
func Analyze(in project.Input, r scoring.Result) []Insight {
	var out []Insight
	for _, c := range r.Credits {
		out = append(out, ForCredit(in, c)...)
	}
	return out
}

// ForCredit returns the insights of one scored credit. A credit at its
// maximum, or whose every part is at its own maximum, yields a single
// complete insight.
func ForCredit(in project.Input, c scoring.CreditScore) []Insight {
	if c.Complete() || allPassed(c.Details) {
		return []Insight{Complete(c.ID)}
	}
	a, ok := analyzers[c.ID]
	if !ok {
		return nil
	}
	return a(in, c)
}

// ByCredit groups insights by credit.
func ByCredit(insights []Insight) map[types.CreditID][]Insight {
	out := make(map[types.CreditID][]Insight)
	for _, i := range insights {
		out[i.Credit] = append(out[i.Credit], i)
	}
	return out
}

func allPassed(details []scoring.ScoringMetric) bool {
	if len(details) == 0 {
		return false
	}
	for _, d := range details {
		if !d.Passed {
			return false
		}
	}
	return true
}

// unmet returns the details that have not reached their own maximum.
func unmet(c scoring.CreditScore) []scoring.ScoringMetric {
	var out []scoring.ScoringMetric
	for _, d := range c.Details {
		if !d.Passed {
			out = append(out, d)
		}
	}
	return out
}

// areaShortfall inverts an at-least ladder for a continuous quantity: the
// next tier's percentage is converted back to an amount of den.
func areaShortfall(l catalog.Ladder, points int, current, den float64) (float64, int, bool) {
	next, ok := l.Next(points)
	if !ok {
		return 0, 0, false
	}
	return den*next.Value/100 - current, next.Points, true
}

// countShortfall is areaShortfall for discrete items; the requirement is
// rounded up to a whole item.
func countShortfall(l catalog.Ladder, points, current, total int) (float64, int, bool) {
	next, ok := l.Next(points)
	if !ok {
		return 0, 0, false
	}
	required := ceilShare(float64(total), next.Value)
	return float64(required - current), next.Points, true
}

// limitShortfall inverts an at-most ladder: the reduction needed to reach the
// next tier's limit.
func limitShortfall(l catalog.Ladder, points int, current float64) (float64, int, bool) {
	next, ok := l.Next(points)
	if !ok {
		return 0, 0, false
	}
	return current - next.Value, next.Points, true
}

package catalog

// Direction says which side of a threshold value earns the points.
type Direction int

const (
	// AtLeast ladders award points when the metric reaches the threshold.
	AtLeast Direction = iota
	// AtMost ladders award points when the metric stays at or below the
	// threshold (lower is better).
	AtMost
)

// tolerance absorbs float error when a metric is computed exactly at a boundary.
const tolerance = 1e-9

// Threshold is one tier of a ladder.
type Threshold struct {
	Value  float64 `json:"value" yaml:"value"`
	Points int     `json:"points" yaml:"points"`
}

// Ladder is an ordered list of thresholds, lowest points first.
type Ladder struct {
	Name      string      `json:"name" yaml:"name"`
	Unit      string      `json:"unit" yaml:"unit"`
	Direction Direction   `json:"direction" yaml:"direction"`
	Steps     []Threshold `json:"steps" yaml:"steps"`
}

// Meets reports whether metric satisfies the threshold value in the
// ladder's direction.
func (l Ladder) Meets(metric, value float64) bool {
	if l.Direction == AtMost {
		return metric <= value+tolerance
	}
	return metric >= value-tolerance
}

// Points returns the points of the highest tier the metric reaches, or 0.
func (l Ladder) Points(metric float64) int {
	for i := len(l.Steps) - 1; i >= 0; i-- {
		if l.Meets(metric, l.Steps[i].Value) {
			return l.Steps[i].Points
		}
	}
	return 0
}

// Next returns the lowest tier awarding more than the given points.
func (l Ladder) Next(points int) (Threshold, bool) {
	for _, step := range l.Steps {
		if step.Points > points {
			return step, true
		}
	}
	return Threshold{}, false
}

// MaxPoints returns the points of the top tier.
func (l Ladder) MaxPoints() int {
	if len(l.Steps) == 0 {
		return 0
	}
	return l.Steps[len(l.Steps)-1].Points
}

// percentLadder builds an AtLeast ladder from threshold percentages, awarding
// 1, 2, ... points in order.
func percentLadder(name string, values ...float64) Ladder {
	steps := make([]Threshold, len(values))
	for i, v := range values {
		steps[i] = Threshold{Value: v, Points: i + 1}
	}
	return Ladder{Name: name, Unit: "%", Direction: AtLeast, Steps: steps}
}

package scoring

import (
	"fmt"

	"github.com/dotcommander/igbcscore/internal/catalog"
)

// ScoreLadder scores a metric against a threshold ladder.
func ScoreLadder(part, name string, l catalog.Ladder, metric float64) (int, ScoringMetric) {
	points := l.Points(metric)
	top := l.MaxPoints()
	return points, ScoringMetric{
		Part:      part,
		Name:      name,
		Points:    points,
		MaxPoints: top,
		Passed:    points >= top,
		Metric:    metric,
		Unit:      l.Unit,
	}
}

// ScoreGate awards one point when passed.
func ScoreGate(part, name string, passed bool, note string) (int, ScoringMetric) {
	points := boolToInt(passed)
	return points, ScoringMetric{
		Part:      part,
		Name:      name,
		Points:    points,
		MaxPoints: 1,
		Passed:    passed,
		Metric:    float64(points),
		Note:      note,
	}
}

// ScoreAnyOf awards one point when at least required items are selected.
func ScoreAnyOf(part, name string, count, required int) (int, ScoringMetric) {
	passed := count >= required
	points := boolToInt(passed)
	return points, ScoringMetric{
		Part:      part,
		Name:      name,
		Points:    points,
		MaxPoints: 1,
		Passed:    passed,
		Metric:    float64(count),
		Unit:      "selected",
		Note:      fmt.Sprintf("%d of %d required", count, required),
	}
}

// ScoreAllOf awards one point when every listed item is selected.
func ScoreAllOf(part, name string, count, total int) (int, ScoringMetric) {
	_, m := ScoreAnyOf(part, name, count, total)
	return m.Points, m
}

// ScoreFloorTiers awards one point per full group of selections, up to limit.
func ScoreFloorTiers(part, name string, count, groupSize, limit int) (int, ScoringMetric) {
	points := 0
	if groupSize > 0 && count > 0 {
		points = min(count/groupSize, limit)
	}
	return points, ScoringMetric{
		Part:      part,
		Name:      name,
		Points:    points,
		MaxPoints: limit,
		Passed:    points >= limit,
		Metric:    float64(count),
		Unit:      "selected",
		Note:      fmt.Sprintf("1 point per %d selected", groupSize),
	}
}

// unscored records a part that cannot score because its option is unknown.
func unscored(part, name string, maxPoints int, note string) (int, ScoringMetric) {
	return 0, ScoringMetric{Part: part, Name: name, MaxPoints: maxPoints, Note: note}
}

// boolToInt converts a boolean to 0 or 1
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func sumPoints(details []ScoringMetric) int {
	total := 0
	for _, d := range details {
		total += d.Points
	}
	return total
}

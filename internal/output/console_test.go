package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/igbcscore/internal/baseline"
	"github.com/dotcommander/igbcscore/internal/engine"
	"github.com/dotcommander/igbcscore/internal/insight"
	"github.com/dotcommander/igbcscore/internal/project"
	"github.com/dotcommander/igbcscore/internal/types"
)

// defaultsSummary scores the preset snapshot under each file name.
func defaultsSummary(failUnder int, files ...string) *Summary {
	r := engine.Evaluate(project.Defaults())
	s := &Summary{FailUnder: failUnder, StartTime: time.Now()}
	for _, f := range files {
		s.Results = append(s.Results, Result{File: f, Report: r})
	}
	return s
}

func renderConsole(t *testing.T, s *Summary, quiet, verbose, showInsights, showDetails bool) string {
	t.Helper()
	var buf bytes.Buffer
	f := NewConsoleFormatter(quiet, verbose, showInsights, showDetails)
	f.SetColor(false)
	f.SetOutput(&buf)
	require.NoError(t, f.Format(s))
	return buf.String()
}

func TestConsoleFormatter_Format(t *testing.T) {
	tests := []struct {
		name            string
		summary         *Summary
		quiet           bool
		verbose         bool
		showInsights    bool
		showDetails     bool
		wantContains    []string
		wantNotContains []string
	}{
		{
			name:            "quiet mode - no output",
			summary:         defaultsSummary(0, "tower.igbc.yaml"),
			quiet:           true,
			wantNotContains: []string{"tower.igbc.yaml", "points"},
		},
		{
			name:    "score tree",
			summary: defaultsSummary(0, "tower.igbc.yaml"),
			wantContains: []string{
				"tower.igbc.yaml  20/40 points (50.0%)",
				"Sustainable Design  4/20",
				"Energy Efficiency  16/20",
				"✓ ee-cr-1",
				"● sd-cr-1",
				"✗ sd-cr-3",
				"Natural Topography & Vegetation",
			},
			wantNotContains: []string{"→", "·", "average"},
		},
		{
			name:         "insights",
			summary:      defaultsSummary(0, "tower.igbc.yaml"),
			showInsights: true,
			wantContains: []string{"→ ", "to achieve compliance."},
			wantNotContains: []string{
				insight.CompleteMessage,
			},
		},
		{
			name:         "verbose insights include complete credits",
			summary:      defaultsSummary(0, "tower.igbc.yaml"),
			showInsights: true,
			verbose:      true,
			wantContains: []string{insight.CompleteMessage},
		},
		{
			name:         "details",
			summary:      defaultsSummary(0, "tower.igbc.yaml"),
			showDetails:  true,
			wantContains: []string{"        · "},
		},
		{
			name:         "no files",
			summary:      &Summary{},
			wantContains: []string{"No snapshot files found"},
		},
		{
			name:         "multi-file summary",
			summary:      defaultsSummary(0, "a.igbc.yaml", "b.igbc.yaml"),
			wantContains: []string{"2 snapshots, average 20.0/40"},
		},
		{
			name:    "below threshold",
			summary: defaultsSummary(25, "tower.igbc.yaml"),
			wantContains: []string{
				"1 snapshot, average 20.0/40, 1 below 25",
				"✗ 1 of 1 snapshot failed",
			},
		},
		{
			name:         "at threshold",
			summary:      defaultsSummary(20, "tower.igbc.yaml"),
			wantContains: []string{"✓ All snapshots at or above 20 points"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderConsole(t, tt.summary, tt.quiet, tt.verbose, tt.showInsights, tt.showDetails)
			if tt.quiet {
				assert.Empty(t, out)
			}
			for _, want := range tt.wantContains {
				assert.Contains(t, out, want)
			}
			for _, notWant := range tt.wantNotContains {
				assert.NotContains(t, out, notWant)
			}
		})
	}
}

func TestConsoleFormatter_Regressions(t *testing.T) {
	s := defaultsSummary(0, "tower.igbc.yaml")
	s.Results[0].Regressions = []baseline.Regression{
		{File: "tower.igbc.yaml", Credit: types.SDCredit1, Title: "Natural Topography & Vegetation", Before: 3, After: 1},
	}

	out := renderConsole(t, s, false, false, false, false)
	assert.Contains(t, out, "✘ regression sd-cr-1 Natural Topography & Vegetation: 3 -> 1")
	assert.Contains(t, out, "1 regression")
	assert.Contains(t, out, "✗ 1 of 1 snapshot failed")
}

func TestNewConsoleFormatter(t *testing.T) {
	f := NewConsoleFormatter(true, false, true, false)
	assert.True(t, f.quiet)
	assert.False(t, f.verbose)
	assert.True(t, f.showInsights)
	assert.False(t, f.showDetails)
	assert.NotNil(t, f.out)
	assert.False(t, f.startTime.IsZero())
}

func TestCompactFormatter_Format(t *testing.T) {
	s := defaultsSummary(25, "sites/a.igbc.yaml", "b.igbc.yaml")
	s.Results[1].Report.Total = 30

	var buf bytes.Buffer
	f := NewCompactFormatter(false, false)
	f.SetColor(false)
	f.SetOutput(&buf)
	require.NoError(t, f.Format(s))
	out := buf.String()

	assert.Contains(t, out, "✗ sites/a.igbc.yaml  █████░░░░░ 20/40  SD 4/20  EE 16/20")
	assert.Contains(t, out, "✓ b.igbc.yaml        ███████░░░ 30/40")
	assert.Contains(t, out, "1/2 passed, average 25.0/40")
	assert.NotContains(t, out, "Regressions:")

	buf.Reset()
	f = NewCompactFormatter(true, false)
	f.SetOutput(&buf)
	require.NoError(t, f.Format(s))
	assert.Empty(t, buf.String())
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		count, total int
		want         string
	}{
		{0, 40, "░░░░░░░░░░"},
		{1, 40, "█░░░░░░░░░"},
		{20, 40, "█████░░░░░"},
		{40, 40, "██████████"},
		{50, 40, "██████████"},
		{3, 0, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RenderBar(tt.count, tt.total, "10", false))
	}
}

func TestSummaryAggregates(t *testing.T) {
	s := defaultsSummary(21, "a.igbc.yaml", "b.igbc.yaml")
	s.Results[1].Report.Total = 40

	assert.InDelta(t, 30, s.Average(), 1e-9)
	assert.Equal(t, 40, s.MaxTotal())
	assert.Equal(t, 1, s.FailedFiles())
	assert.False(t, s.Perfect())
	assert.True(t, s.Results[0].BelowThreshold(21))
	assert.False(t, s.Results[0].BelowThreshold(0))

	s.Results = s.Results[1:]
	assert.True(t, s.Perfect())
	assert.False(t, (&Summary{}).Perfect())
	assert.Equal(t, 0.0, (&Summary{}).Average())
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, ColorEnabled("always", &buf))
	assert.False(t, ColorEnabled("never", &buf))
	assert.False(t, ColorEnabled("auto", &buf), "buffers are not terminals")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250ms", formatDuration(250*time.Millisecond))
	assert.Equal(t, "1.5s", formatDuration(1500*time.Millisecond))
}

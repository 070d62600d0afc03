package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// CompactFormatter formats many snapshots one line each, summary first.
type CompactFormatter struct {
	quiet     bool
	verbose   bool
	colorize  bool
	out       io.Writer
	startTime time.Time
}

// NewCompactFormatter creates a new CompactFormatter.
func NewCompactFormatter(quiet, verbose bool) *CompactFormatter {
	return &CompactFormatter{
		quiet:     quiet,
		verbose:   verbose,
		colorize:  isTerminal(os.Stdout),
		out:       os.Stdout,
		startTime: time.Now(),
	}
}

// SetColor overrides terminal detection.
func (f *CompactFormatter) SetColor(on bool) { f.colorize = on }

// SetOutput redirects the formatter.
func (f *CompactFormatter) SetOutput(w io.Writer) { f.out = w }

// Format prints one status line per snapshot, then regressions and a summary line.
func (f *CompactFormatter) Format(summary *Summary) error {
	if f.quiet {
		return nil
	}
	if !summary.StartTime.IsZero() {
		f.startTime = summary.StartTime
	}

	maxNameLen := 0
	for _, r := range summary.Results {
		if len(r.File) > maxNameLen {
			maxNameLen = len(r.File)
		}
	}

	fmt.Fprintln(f.out)
	for _, r := range summary.Results {
		f.printStatusLine(r, summary.FailUnder, maxNameLen)
	}

	f.printRegressions(summary)
	f.printSummaryLine(summary)
	return nil
}

// printStatusLine prints a single status line with appropriate styling.
func (f *CompactFormatter) printStatusLine(r Result, failUnder, maxNameLen int) {
	icon, st := "✓", greenStyle
	if r.Failed(failUnder) {
		icon, st = "✗", redStyle
	}

	var cats []string
	for _, c := range r.Report.Categories {
		cats = append(cats, fmt.Sprintf("%s %d/%d", strings.ToUpper(string(c.ID)), c.Points, c.MaxPoints))
	}

	padding := strings.Repeat(" ", maxNameLen-len(r.File))
	score := fmt.Sprintf("%2d/%d", r.Report.Total, r.Report.MaxTotal)
	bar := RenderBar(r.Report.Total, r.Report.MaxTotal, "10", f.colorize)

	if f.colorize {
		fmt.Fprintf(f.out, "  %s %s%s  %s %s  %s\n",
			st.Render(icon), r.File, padding, bar, st.Render(score), dimStyle.Render(strings.Join(cats, "  ")))
	} else {
		fmt.Fprintf(f.out, "  %s %s%s  %s %s  %s\n", icon, r.File, padding, bar, score, strings.Join(cats, "  "))
	}
}

// printRegressions prints regressions grouped by file.
func (f *CompactFormatter) printRegressions(summary *Summary) {
	if summary.TotalRegressions() == 0 {
		return
	}

	fmt.Fprintln(f.out)
	if f.colorize {
		fmt.Fprintln(f.out, boldStyle.Render("Regressions:"))
	} else {
		fmt.Fprintln(f.out, "Regressions:")
	}
	for _, r := range summary.Results {
		if len(r.Regressions) == 0 {
			continue
		}
		fmt.Fprintf(f.out, "  %s\n", r.File)
		for _, reg := range r.Regressions {
			fmt.Fprintf(f.out, "    ✘ %s %s: %d -> %d\n", reg.Credit, reg.Title, reg.Before, reg.After)
		}
	}
}

// printSummaryLine prints the final summary line with celebration for full marks.
func (f *CompactFormatter) printSummaryLine(summary *Summary) {
	duration := time.Since(f.startTime)
	fmt.Fprintln(f.out)

	total := len(summary.Results)
	failed := summary.FailedFiles()
	text := fmt.Sprintf("%d/%d passed, average %.1f/%d", total-failed, total, summary.Average(), summary.MaxTotal())
	text += fmt.Sprintf(" (%s)", formatDuration(duration))

	switch {
	case f.colorize && summary.Perfect() && isTerminal(f.out):
		printCelebration(f.out, text)
	case f.colorize && failed > 0:
		fmt.Fprintln(f.out, redStyle.Render(text))
	case f.colorize:
		fmt.Fprintln(f.out, greenStyle.Render(text))
	default:
		fmt.Fprintln(f.out, text)
	}
}

// RenderBar draws a ten-cell bar for count out of total.
func RenderBar(count, total int, color string, colorize bool) string {
	if total == 0 {
		return ""
	}
	barWidth := 10
	filled := (count * barWidth) / total
	if count > 0 && filled == 0 {
		filled = 1
	}
	if filled > barWidth {
		filled = barWidth
	}
	full := strings.Repeat("█", filled)
	empty := strings.Repeat("░", barWidth-filled)
	if !colorize {
		return full + empty
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	return style.Render(full) + dimStyle.Render(empty)
}

// pluralizeCount returns singular or plural form based on count.
func pluralizeCount(s string, count int) string {
	if count == 1 {
		return s
	}
	return s + "s"
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

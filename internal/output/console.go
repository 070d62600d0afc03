package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotcommander/igbcscore/internal/insight"
	"github.com/dotcommander/igbcscore/internal/scoring"
)

// ConsoleFormatter formats output for console display
type ConsoleFormatter struct {
	quiet        bool
	verbose      bool
	colorize     bool
	showInsights bool
	showDetails  bool
	out          io.Writer
	startTime    time.Time
}

// NewConsoleFormatter creates a new ConsoleFormatter writing to stdout.
// Colors are on when stdout is a terminal.
func NewConsoleFormatter(quiet, verbose, showInsights, showDetails bool) *ConsoleFormatter {
	return &ConsoleFormatter{
		quiet:        quiet,
		verbose:      verbose,
		colorize:     isTerminal(os.Stdout),
		showInsights: showInsights,
		showDetails:  showDetails,
		out:          os.Stdout,
		startTime:    time.Now(),
	}
}

// SetColor overrides terminal detection.
func (f *ConsoleFormatter) SetColor(on bool) { f.colorize = on }

// SetOutput redirects the formatter.
func (f *ConsoleFormatter) SetOutput(w io.Writer) { f.out = w }

// Format formats the score summary for console output
func (f *ConsoleFormatter) Format(summary *Summary) error {
	if f.quiet {
		// exit code only
		return nil
	}
	if !summary.StartTime.IsZero() {
		f.startTime = summary.StartTime
	}

	if len(summary.Results) == 0 {
		fmt.Fprintln(f.out, "No snapshot files found")
		return nil
	}

	for i, r := range summary.Results {
		if i > 0 {
			fmt.Fprintln(f.out)
		}
		f.printResult(r, summary.FailUnder)
	}

	f.printSummary(summary)
	f.printConclusion(summary)
	return nil
}

// style returns s unless colors are off.
func (f *ConsoleFormatter) style(s lipgloss.Style) lipgloss.Style {
	if !f.colorize {
		return lipgloss.NewStyle()
	}
	return s
}

var (
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
)

// printResult prints the score tree of one snapshot.
func (f *ConsoleFormatter) printResult(r Result, failUnder int) {
	rep := r.Report
	headerStyle := greenStyle
	if r.Failed(failUnder) {
		headerStyle = redStyle
	}
	fmt.Fprintf(f.out, "%s  %s\n",
		f.style(boldStyle).Render(r.File),
		f.style(headerStyle).Render(fmt.Sprintf("%d/%d points (%.1f%%)", rep.Total, rep.MaxTotal, rep.Percent())))

	for _, cat := range rep.Categories {
		fmt.Fprintf(f.out, "  %s  %d/%d\n", f.style(boldStyle).Render(cat.Title), cat.Points, cat.MaxPoints)
		for _, c := range rep.Credits {
			if c.Category != cat.ID {
				continue
			}
			f.printCredit(r, c)
		}
	}

	for _, reg := range r.Regressions {
		fmt.Fprintf(f.out, "  %s regression %s %s: %d -> %d\n",
			f.style(redStyle).Render("✘"), reg.Credit, reg.Title, reg.Before, reg.After)
	}
}

func (f *ConsoleFormatter) printCredit(r Result, c scoring.CreditScore) {
	icon, st := creditStatus(c)
	fmt.Fprintf(f.out, "    %s %-8s %-45s %d/%d\n", f.style(st).Render(icon), c.ID, c.Title, c.Points, c.MaxPoints)

	if f.showDetails {
		for _, d := range c.Details {
			line := fmt.Sprintf("%s  %d/%d", d.Name, d.Points, d.MaxPoints)
			if d.Unit != "" {
				line += fmt.Sprintf("  (%s %s)", insight.FormatAmount(d.Metric), d.Unit)
			}
			if d.Note != "" {
				line += "  " + d.Note
			}
			fmt.Fprintf(f.out, "        · %s\n", f.style(dimStyle).Render(line))
		}
	}

	if f.showInsights {
		for _, in := range r.Report.InsightsFor(c.ID) {
			if in.IsComplete() && !f.verbose {
				continue
			}
			fmt.Fprintf(f.out, "        → %s\n", in.Message)
		}
	}
}

// creditStatus picks the icon and color for a credit.
func creditStatus(c scoring.CreditScore) (string, lipgloss.Style) {
	switch {
	case c.Complete():
		return "✓", greenStyle
	case c.Points > 0:
		return "●", yellowStyle
	default:
		return "✗", redStyle
	}
}

// printSummary prints the summary statistics for multi-file runs and
// whenever something failed.
func (f *ConsoleFormatter) printSummary(summary *Summary) {
	if len(summary.Results) < 2 && summary.FailedFiles() == 0 {
		return
	}

	duration := time.Since(f.startTime)
	text := fmt.Sprintf("%d %s, average %.1f/%d",
		len(summary.Results), pluralizeCount("snapshot", len(summary.Results)),
		summary.Average(), summary.MaxTotal())
	if summary.FailUnder > 0 {
		below := 0
		for _, r := range summary.Results {
			if r.BelowThreshold(summary.FailUnder) {
				below++
			}
		}
		text += fmt.Sprintf(", %d below %d", below, summary.FailUnder)
	}
	if n := summary.TotalRegressions(); n > 0 {
		text += fmt.Sprintf(", %d %s", n, pluralizeCount("regression", n))
	}
	fmt.Fprintf(f.out, "\n%s (%s)\n", text, formatDuration(duration))
}

// printConclusion prints the conclusion message
func (f *ConsoleFormatter) printConclusion(summary *Summary) {
	failed := summary.FailedFiles()
	switch {
	case failed > 0:
		fmt.Fprintf(f.out, "\n%s\n", f.style(redStyle.Bold(true)).Render(
			fmt.Sprintf("✗ %d of %d %s failed", failed, len(summary.Results), pluralizeCount("snapshot", len(summary.Results)))))
	case summary.Perfect() && f.colorize && isTerminal(f.out):
		fmt.Fprintln(f.out)
		printCelebration(f.out, "✓ Full marks")
	case summary.FailUnder > 0:
		fmt.Fprintf(f.out, "\n%s\n", f.style(greenStyle.Bold(true)).Render(
			fmt.Sprintf("✓ All snapshots at or above %d points", summary.FailUnder)))
	}
}

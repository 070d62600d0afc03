package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dotcommander/igbcscore/internal/insight"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	quiet      bool
	verbose    bool
	outputFile string
	out        io.Writer
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(quiet, verbose bool, outputFile string) *MarkdownFormatter {
	return &MarkdownFormatter{
		quiet:      quiet,
		verbose:    verbose,
		outputFile: outputFile,
		out:        os.Stdout,
	}
}

// SetOutput redirects stdout output.
func (f *MarkdownFormatter) SetOutput(w io.Writer) { f.out = w }

// Format formats the score summary as Markdown
func (f *MarkdownFormatter) Format(summary *Summary) error {
	var b strings.Builder

	start := summary.StartTime
	if start.IsZero() {
		start = time.Now()
	}

	// Header
	b.WriteString("# IGBC Green Homes Score Report\n\n")
	b.WriteString(fmt.Sprintf("**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("**Version:** %s\n\n", Version))
	b.WriteString(fmt.Sprintf("**Duration:** %v\n\n", time.Since(start).Round(time.Millisecond)))
	b.WriteString(strings.Repeat("-", 50) + "\n\n")

	// Summary table
	b.WriteString("## Summary\n\n")
	b.WriteString("| Snapshot | Score | % | Status |\n")
	b.WriteString("|----------|-------|---|--------|\n")
	for _, r := range summary.Results {
		b.WriteString(fmt.Sprintf("| %s | %d/%d | %.1f | %s |\n",
			r.File, r.Report.Total, r.Report.MaxTotal, r.Report.Percent(), getStatusEmoji(!r.Failed(summary.FailUnder))))
	}
	b.WriteString("\n")

	// Detailed results
	b.WriteString("## Detailed Results\n\n")
	if len(summary.Results) == 0 {
		b.WriteString("*No snapshot files found.*\n\n")
	} else {
		if len(summary.Results) > 1 {
			b.WriteString("### Snapshots\n\n")
			for _, r := range summary.Results {
				b.WriteString(fmt.Sprintf("- [%s](#%s)\n", r.File, createAnchor(r.File)))
			}
			b.WriteString("\n")
		}
		for _, r := range summary.Results {
			f.writeResult(&b, r)
		}
	}

	// Conclusion
	b.WriteString("## Conclusion\n\n")
	failed := summary.FailedFiles()
	switch {
	case failed > 0:
		b.WriteString(fmt.Sprintf("✗ %d of %d snapshots failed\n", failed, len(summary.Results)))
	case summary.FailUnder > 0:
		b.WriteString(fmt.Sprintf("✓ All snapshots at or above %d points\n", summary.FailUnder))
	default:
		b.WriteString(fmt.Sprintf("Average score %.1f/%d\n", summary.Average(), summary.MaxTotal()))
	}

	return writeOutput(f.out, f.outputFile, []byte(b.String()))
}

func (f *MarkdownFormatter) writeResult(b *strings.Builder, r Result) {
	rep := r.Report
	b.WriteString(fmt.Sprintf("### %s\n\n", r.File))
	b.WriteString(fmt.Sprintf("Score: **%d/%d** (%.1f%%)\n\n", rep.Total, rep.MaxTotal, rep.Percent()))

	b.WriteString("| Credit | Title | Points |\n")
	b.WriteString("|--------|-------|--------|\n")
	for _, c := range rep.Credits {
		b.WriteString(fmt.Sprintf("| %s | %s | %d/%d |\n", c.ID, c.Title, c.Points, c.MaxPoints))
	}
	b.WriteString("\n")

	for _, cat := range rep.Categories {
		b.WriteString(fmt.Sprintf("- **%s:** %d/%d\n", cat.Title, cat.Points, cat.MaxPoints))
	}
	b.WriteString("\n")

	if f.verbose {
		b.WriteString("#### Breakdown\n\n")
		for _, c := range rep.Credits {
			for _, d := range c.Details {
				b.WriteString(fmt.Sprintf("- `%s` %s: %d/%d", c.ID, d.Name, d.Points, d.MaxPoints))
				if d.Unit != "" {
					b.WriteString(fmt.Sprintf(" (%s %s)", insight.FormatAmount(d.Metric), d.Unit))
				}
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	if !f.quiet {
		var lines []string
		for _, in := range rep.Insights {
			if in.IsComplete() {
				continue
			}
			lines = append(lines, fmt.Sprintf("- `%s` %s\n", in.Credit, in.Message))
		}
		if len(lines) > 0 {
			b.WriteString("#### Next Steps\n\n")
			for _, l := range lines {
				b.WriteString(l)
			}
			b.WriteString("\n")
		}
	}

	if len(r.Regressions) > 0 {
		b.WriteString("#### Regressions\n\n")
		for _, reg := range r.Regressions {
			b.WriteString(fmt.Sprintf("- `%s` %s: %d → %d\n", reg.Credit, reg.Title, reg.Before, reg.After))
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
}

// getStatusEmoji returns an emoji for the status
func getStatusEmoji(success bool) string {
	if success {
		return "✅"
	}
	return "❌"
}

// createAnchor creates a markdown-safe anchor
func createAnchor(text string) string {
	anchor := strings.ToLower(text)
	anchor = strings.ReplaceAll(anchor, " ", "-")
	anchor = strings.ReplaceAll(anchor, ".", "")
	anchor = strings.ReplaceAll(anchor, "/", "")
	return anchor
}

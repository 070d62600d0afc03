package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dotcommander/igbcscore/internal/catalog"
	"github.com/dotcommander/igbcscore/internal/engine"
	"github.com/dotcommander/igbcscore/internal/output"
	"github.com/dotcommander/igbcscore/internal/types"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [paths...]",
	Short: "Show a score summary across many snapshots",
	Long: `Summary scores every snapshot under the given paths and aggregates them: the
average of each category, the distribution of totals, the credits that earn
the smallest share of their points and the lowest scoring snapshots.`,
	Args: cobra.ArbitraryArgs,
	Run: runE(func(cmd *cobra.Command, args []string) error {
		return runSummary(cmd.OutOrStdout(), args)
	}),
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

// SnapshotSummary holds aggregated data for the summary report
type SnapshotSummary struct {
	TotalSnapshots int
	TotalPoints    int
	TierCounts     map[string]int
	CategoryPoints map[types.CategoryID]int
	CreditPoints   map[types.CreditID]int
	LowestScoring  []ScoredSnapshot
}

// ScoredSnapshot represents a snapshot with its total for sorting
type ScoredSnapshot struct {
	File  string
	Total int
	Tier  string
}

// CreditShare is a credit's average points against its maximum.
type CreditShare struct {
	Credit  catalog.Credit
	Average float64
}

// Tiers of the point distribution, best first.
var summaryTiers = []struct {
	name  string
	label string
	min   int
	color string
}{
	{"A", "A (30-40)", 30, "10"},
	{"B", "B (20-29)", 20, "12"},
	{"C", "C (10-19)", 10, "3"},
	{"D", "D (<10)  ", 0, "9"},
}

func tierFor(total int) string {
	for _, t := range summaryTiers {
		if total >= t.min {
			return t.name
		}
	}
	return summaryTiers[len(summaryTiers)-1].name
}

func newSnapshotSummary() *SnapshotSummary {
	return &SnapshotSummary{
		TierCounts:     make(map[string]int),
		CategoryPoints: make(map[types.CategoryID]int),
		CreditPoints:   make(map[types.CreditID]int),
	}
}

func runSummary(out io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	snaps, err := loadSnapshots(cfg, args)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Fprintln(out, "No snapshot files found")
		return nil
	}

	summary := newSnapshotSummary()
	for _, s := range snaps {
		summary.add(s.file, engine.Evaluate(s.in))
	}

	// Sort lowest scoring
	sort.SliceStable(summary.LowestScoring, func(i, j int) bool {
		return summary.LowestScoring[i].Total < summary.LowestScoring[j].Total
	})

	printSummaryReport(out, summary, newPrintStyles(output.ColorEnabled(cfg.Color, out)))
	return nil
}

func (s *SnapshotSummary) add(file string, r engine.Report) {
	s.TotalSnapshots++
	s.TotalPoints += r.Total

	tier := tierFor(r.Total)
	s.TierCounts[tier]++
	s.LowestScoring = append(s.LowestScoring, ScoredSnapshot{File: file, Total: r.Total, Tier: tier})

	for _, c := range r.Categories {
		s.CategoryPoints[c.ID] += c.Points
	}
	for _, c := range r.Credits {
		s.CreditPoints[c.ID] += c.Points
	}
}

// Average returns the mean total.
func (s *SnapshotSummary) Average() float64 {
	if s.TotalSnapshots == 0 {
		return 0
	}
	return float64(s.TotalPoints) / float64(s.TotalSnapshots)
}

// CategoryAverage returns the mean points of a category.
func (s *SnapshotSummary) CategoryAverage(id types.CategoryID) float64 {
	if s.TotalSnapshots == 0 {
		return 0
	}
	return float64(s.CategoryPoints[id]) / float64(s.TotalSnapshots)
}

// WeakestCredits returns credits ordered by the share of their maximum they
// earn on average, smallest first. Ties keep catalog order.
func (s *SnapshotSummary) WeakestCredits() []CreditShare {
	shares := make([]CreditShare, 0, len(catalog.Credits))
	for _, c := range catalog.Credits {
		avg := 0.0
		if s.TotalSnapshots > 0 {
			avg = float64(s.CreditPoints[c.ID]) / float64(s.TotalSnapshots)
		}
		shares = append(shares, CreditShare{Credit: c, Average: avg})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Average/float64(shares[i].Credit.MaxPoints) < shares[j].Average/float64(shares[j].Credit.MaxPoints)
	})
	return shares
}

// printStyles holds all the styles used in command output.
type printStyles struct {
	colorize bool
	header   lipgloss.Style
	good     lipgloss.Style
	bad      lipgloss.Style
	tierC    lipgloss.Style
	dim      lipgloss.Style
}

// newPrintStyles creates a new set of print styles. Without color every
// style renders plain text.
func newPrintStyles(colorize bool) printStyles {
	if !colorize {
		plain := lipgloss.NewStyle()
		return printStyles{header: plain, good: plain, bad: plain, tierC: plain, dim: plain}
	}
	return printStyles{
		colorize: true,
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		good:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		bad:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		tierC:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func printSummaryReport(w io.Writer, summary *SnapshotSummary, styles printStyles) {
	printReportHeader(w, styles)
	printSnapshotCounts(w, summary)
	printCategoryAverages(w, summary, styles)
	printScoreDistribution(w, summary, styles)
	printWeakestCredits(w, summary, styles)
	printLowestScoring(w, summary, styles)
	printReportFooter(w, styles)
}

func printReportHeader(w io.Writer, styles printStyles) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.header.Render("╔═══════════════════════════════════════════════════════════╗"))
	fmt.Fprintln(w, styles.header.Render("║              GREEN HOMES SCORE SUMMARY                    ║"))
	fmt.Fprintln(w, styles.header.Render("╠═══════════════════════════════════════════════════════════╣"))
}

func printSnapshotCounts(w io.Writer, summary *SnapshotSummary) {
	fmt.Fprintf(w, "║ Snapshots Analyzed: %-38d ║\n", summary.TotalSnapshots)
	fmt.Fprintf(w, "║ Average Total: %-43s ║\n", fmt.Sprintf("%.1f/%d", summary.Average(), catalog.MaxTotal()))
}

func printCategoryAverages(w io.Writer, summary *SnapshotSummary, styles printStyles) {
	fmt.Fprintln(w, styles.header.Render("╠───────────────────────────────────────────────────────────╣"))
	fmt.Fprintln(w, "║ CATEGORY AVERAGES                                         ║")

	for _, c := range catalog.Categories {
		avg := summary.CategoryAverage(c.ID)
		fmt.Fprintf(w, "║   %-20s %9s  %s                  ║\n",
			c.Title, fmt.Sprintf("%.1f/%d", avg, c.MaxPoints),
			output.RenderBar(int(avg+0.5), c.MaxPoints, "12", styles.colorize))
	}
}

func printScoreDistribution(w io.Writer, summary *SnapshotSummary, styles printStyles) {
	fmt.Fprintln(w, styles.header.Render("╠───────────────────────────────────────────────────────────╣"))
	fmt.Fprintln(w, "║ SCORE DISTRIBUTION                                        ║")

	total := float64(summary.TotalSnapshots)
	if total == 0 {
		total = 1
	}

	for _, t := range summaryTiers {
		count := summary.TierCounts[t.name]
		label := t.label
		if styles.colorize {
			label = lipgloss.NewStyle().Foreground(lipgloss.Color(t.color)).Render(label)
		}
		fmt.Fprintf(w, "║   %s: %-4d (%5.1f%%)  %s                         ║\n",
			label, count, float64(count)/total*100,
			output.RenderBar(count, summary.TotalSnapshots, t.color, styles.colorize))
	}
}

func printWeakestCredits(w io.Writer, summary *SnapshotSummary, styles printStyles) {
	fmt.Fprintln(w, styles.header.Render("╠───────────────────────────────────────────────────────────╣"))
	fmt.Fprintln(w, "║ WEAKEST CREDITS                                           ║")

	for i, cs := range summary.WeakestCredits() {
		if i >= 5 {
			break
		}
		title := cs.Credit.Title
		if len(title) > 32 {
			title = title[:29] + "..."
		}
		fmt.Fprintf(w, "║   %s %-8s %-32s %9s ║\n",
			styles.dim.Render(fmt.Sprintf("%d.", i+1)),
			cs.Credit.ID, title,
			fmt.Sprintf("%.1f/%d", cs.Average, cs.Credit.MaxPoints))
	}
}

func printLowestScoring(w io.Writer, summary *SnapshotSummary, styles printStyles) {
	fmt.Fprintln(w, styles.header.Render("╠───────────────────────────────────────────────────────────╣"))
	fmt.Fprintln(w, "║ LOWEST SCORING SNAPSHOTS                                  ║")

	for i, snap := range summary.LowestScoring {
		if i >= 5 {
			break
		}
		tierStyle := styles.bad
		switch snap.Tier {
		case "A":
			tierStyle = styles.good
		case "B", "C":
			tierStyle = styles.tierC
		}
		truncated := snap.File
		if len(truncated) > 40 {
			truncated = "..." + truncated[len(truncated)-37:]
		}
		fmt.Fprintf(w, "║   %s %-40s %s %2d/%d ║\n",
			styles.dim.Render(fmt.Sprintf("%d.", i+1)),
			truncated,
			tierStyle.Render(snap.Tier),
			snap.Total, catalog.MaxTotal())
	}
}

func printReportFooter(w io.Writer, styles printStyles) {
	fmt.Fprintln(w, styles.header.Render("╚═══════════════════════════════════════════════════════════╝"))
	fmt.Fprintln(w)
}

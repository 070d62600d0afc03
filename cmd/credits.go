package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/igbcscore/internal/catalog"
	"github.com/dotcommander/igbcscore/internal/insight"
	"github.com/dotcommander/igbcscore/internal/output"
	"github.com/dotcommander/igbcscore/internal/types"
)

var creditsCmd = &cobra.Command{
	Use:   "credits",
	Short: "List the credits, their maximum points and thresholds",
	Long: `Credits prints the rating system's catalog: both categories, every credit with
its maximum points and the threshold ladders its points are read from.

Use --format json for a machine-readable catalog.`,
	Args: cobra.NoArgs,
	Run: runE(func(cmd *cobra.Command, args []string) error {
		return runCredits(cmd.OutOrStdout())
	}),
}

func init() {
	rootCmd.AddCommand(creditsCmd)
}

// creditLadders are the threshold ladders each credit is scored with.
var creditLadders = map[types.CreditID][]catalog.Ladder{
	types.SDCredit1: {catalog.TopographyOptionA, catalog.TopographyOptionB},
	types.SDCredit2: {catalog.HeatIslandNonRoof, catalog.HeatIslandRoof},
	types.SDCredit3: {catalog.ExteriorOpenings, catalog.Skylights, catalog.Daylighting},
	types.SDCredit5: {catalog.EVCharging, catalog.BicycleParking},
	types.EECredit1: {catalog.RETV, catalog.RoofUValue, catalog.LPDReduction, catalog.EnergySavings},
	types.EECredit2: {catalog.WaterHeating},
	types.EECredit3: {catalog.RenewableEnergy},
}

type creditEntry struct {
	catalog.Credit
	Ladders []catalog.Ladder `json:"ladders,omitempty"`
}

type creditsDocument struct {
	Categories []catalog.Category `json:"categories"`
	Credits    []creditEntry      `json:"credits"`
	MaxTotal   int                `json:"max_total"`
}

func runCredits(out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Format == types.FormatJSON {
		doc := creditsDocument{Categories: catalog.Categories, MaxTotal: catalog.MaxTotal()}
		for _, c := range catalog.Credits {
			doc.Credits = append(doc.Credits, creditEntry{Credit: c, Ladders: creditLadders[c.ID]})
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling catalog: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	styles := newPrintStyles(output.ColorEnabled(cfg.Color, out))
	for _, cat := range catalog.Categories {
		fmt.Fprintf(out, "%s  %d points\n", styles.header.Render(cat.Title), cat.MaxPoints)
		for _, c := range catalog.CreditsIn(cat.ID) {
			fmt.Fprintf(out, "  %-8s %-45s %2d\n", c.ID, c.Title, c.MaxPoints)
			if cfg.Quiet {
				continue
			}
			for _, l := range creditLadders[c.ID] {
				fmt.Fprintf(out, "           %s\n", styles.dim.Render(formatLadder(l)))
			}
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Maximum total: %d points\n", catalog.MaxTotal())
	return nil
}

// formatLadder renders a ladder as "Name: ≥ 15% → 1, ≥ 25% → 2".
func formatLadder(l catalog.Ladder) string {
	op := "≥"
	if l.Direction == catalog.AtMost {
		op = "≤"
	}
	unit := l.Unit
	if unit != "%" && unit != "" {
		unit = " " + unit
	}
	steps := make([]string, len(l.Steps))
	for i, s := range l.Steps {
		steps[i] = fmt.Sprintf("%s %s%s → %d", op, insight.FormatAmount(s.Value), unit, s.Points)
	}
	return l.Name + ": " + strings.Join(steps, ", ")
}

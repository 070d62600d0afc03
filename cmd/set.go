package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/igbcscore/internal/config"
	"github.com/dotcommander/igbcscore/internal/engine"
	"github.com/dotcommander/igbcscore/internal/output"
	"github.com/dotcommander/igbcscore/internal/outputters"
	"github.com/dotcommander/igbcscore/internal/project"
)

var setCmd = &cobra.Command{
	Use:   "set <file> <field>=<value>...",
	Short: "Edit snapshot fields and rescore",
	Long: `Set applies typed edits to a snapshot file, saves it and prints the new score.
Edits are applied in order; if any is rejected the file is left unchanged.

Fields are dotted paths. Option sets take the option key as the last segment:

  igbcscore set project.igbc.yaml topography.naturalArea=250
  igbcscore set project.igbc.yaml amenities.playArea=true amenities.nearby.bank=false
  igbcscore set project.igbc.yaml enhancedEnergy.ac=5-star

Fields of a group on its preset source are locked; switch the group to custom
with "igbcscore source" first.`,
	Args: cobra.MinimumNArgs(2),
	Run: runE(func(cmd *cobra.Command, args []string) error {
		return runSet(cmd.OutOrStdout(), args[0], args[1:])
	}),
}

func init() {
	rootCmd.AddCommand(setCmd)
}

// parseEdits turns field=value arguments into typed edits.
func parseEdits(args []string) ([]project.Edit, error) {
	edits := make([]project.Edit, 0, len(args))
	for _, arg := range args {
		path, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid edit %q: expected field=value", arg)
		}
		f, err := project.ParseField(strings.TrimSpace(path))
		if err != nil {
			return nil, err
		}
		v, err := project.ParseValue(f, strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		edits = append(edits, project.Edit{Field: f, Value: v})
	}
	return edits, nil
}

func runSet(out io.Writer, path string, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	edits, err := parseEdits(args)
	if err != nil {
		return err
	}

	in, err := project.Load(path)
	if err != nil {
		return err
	}
	next, err := project.ApplyAll(in, edits...)
	if err != nil {
		return err
	}
	if err := project.Save(path, next); err != nil {
		return err
	}
	for _, e := range edits {
		logger.Debug("edit applied", "file", path, "field", e.Field.Path, "value", e.Value.String())
	}

	return printUpdate(out, cfg, path, in, next)
}

// printUpdate prints the change in total, then the new report in the
// configured format.
func printUpdate(out io.Writer, cfg *config.Config, path string, before, after project.Input) error {
	was := engine.Evaluate(before)
	report := engine.Evaluate(after)
	if !cfg.Quiet && cfg.Format == "console" {
		fmt.Fprintf(out, "Updated %s: %d -> %d points\n\n", path, was.Total, report.Total)
	}

	summary := &output.Summary{Results: []output.Result{{File: path, Report: report}}}
	return outputters.NewOutputter(cfg).Format(summary, cfg.Format)
}

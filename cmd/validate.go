package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/igbcscore/internal/cue"
	"github.com/dotcommander/igbcscore/internal/discovery"
	"github.com/dotcommander/igbcscore/internal/output"
)

var validateCmd = &cobra.Command{
	Use:   "validate [paths...]",
	Short: "Check snapshot files against the snapshot schema",
	Long: `Validate checks snapshot files against the embedded CUE schema without scoring
them: unknown fields, wrong types and out-of-range choices are reported with
their dotted field path.

Exits 1 when any file has a schema error.`,
	Args: cobra.ArbitraryArgs,
	Run: runE(func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.OutOrStdout(), args)
	}),
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// schemaErrors are the schema violations of a run.
type schemaErrors []cue.ValidationError

func (e schemaErrors) Error() string {
	lines := make([]string, 0, len(e)+1)
	lines = append(lines, fmt.Sprintf("%d schema error(s)", len(e)))
	for _, v := range e {
		lines = append(lines, "  "+v.String())
	}
	return strings.Join(lines, "\n")
}

// validateFiles checks every file against the snapshot schema. Errors carry
// the file's relative path.
func validateFiles(files []discovery.File) (schemaErrors, error) {
	v := cue.NewValidator()
	if err := v.LoadSchemas(); err != nil {
		return nil, fmt.Errorf("error loading schemas: %w", err)
	}

	var all schemaErrors
	for _, f := range files {
		errs, err := v.ValidateFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("error validating %s: %w", f.RelPath, err)
		}
		for i := range errs {
			errs[i].File = f.RelPath
		}
		all = append(all, errs...)
	}
	return all, nil
}

func runValidate(out io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	files, err := discovery.Collect(args, cfg.Discovery.Patterns, cfg.FollowSymlinks)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No snapshot files found")
		return nil
	}

	errs, err := validateFiles(files)
	if err != nil {
		return err
	}

	byFile := make(map[string][]cue.ValidationError)
	for _, e := range errs {
		byFile[e.File] = append(byFile[e.File], e)
	}

	styles := newPrintStyles(output.ColorEnabled(cfg.Color, out))
	for _, f := range files {
		fileErrs := byFile[f.RelPath]
		if len(fileErrs) == 0 {
			if !cfg.Quiet {
				fmt.Fprintf(out, "%s %s\n", styles.good.Render("✓"), f.RelPath)
			}
			continue
		}
		fmt.Fprintf(out, "%s %s\n", styles.bad.Render("✗"), f.RelPath)
		for _, e := range fileErrs {
			where := e.Path
			if where == "" {
				where = "(document)"
			}
			fmt.Fprintf(out, "    %s: %s\n", styles.dim.Render(where), e.Message)
		}
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "\n%d file(s) validated, %d error(s)\n", len(files), len(errs))
	}
	if len(errs) > 0 {
		return errChecksFailed
	}
	return nil
}

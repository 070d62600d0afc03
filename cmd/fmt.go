package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/igbcscore/internal/discovery"
	"github.com/dotcommander/igbcscore/internal/format"
)

var (
	fmtCheck bool
	fmtWrite bool
	fmtDiff  bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [paths...]",
	Short: "Format snapshot files canonically",
	Long: `Format snapshot files with canonical style.

FORMATTING RULES:

  - Every field of the snapshot is written, missing ones with empty values
  - Keys are written in a stable order
  - Groups on their preset source carry the preset values
  - Files end with exactly one newline

USAGE MODES:

  igbcscore fmt                    # Print formatted snapshots to stdout
  igbcscore fmt -w                 # Write changes in place
  igbcscore fmt --diff a.igbc.yaml # Show what would change
  igbcscore fmt --check            # Exit 1 if files need formatting (CI)`,
	Args: cobra.ArbitraryArgs,
	Run: runE(func(cmd *cobra.Command, args []string) error {
		return runFmt(cmd.OutOrStdout(), args)
	}),
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "Exit 1 if files would change (for CI)")
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Write changes in place")
	fmtCmd.Flags().BoolVar(&fmtDiff, "diff", false, "Show diff of what would change")
}

func runFmt(out io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	files, err := discovery.Collect(args, cfg.Discovery.Patterns, cfg.FollowSymlinks)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files to format")
	}

	// Track if any files need changes
	var needsFormatting []string

	for _, f := range files {
		content, err := os.ReadFile(f.Path)
		if err != nil {
			return fmt.Errorf("error reading %s: %w", f.RelPath, err)
		}

		formatter := format.NewSnapshotFormatter(f.Format)
		formatted, err := formatter.Format(content)
		if err != nil {
			if !cfg.Quiet {
				fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", f.RelPath, err)
			}
			continue
		}

		if string(content) == string(formatted) {
			if cfg.Verbose {
				fmt.Fprintf(out, "%s already formatted\n", f.RelPath)
			}
			continue
		}
		needsFormatting = append(needsFormatting, f.RelPath)

		switch {
		case fmtCheck:
			if !cfg.Quiet {
				fmt.Fprintf(out, "%s needs formatting\n", f.RelPath)
			}
		case fmtDiff:
			fmt.Fprint(out, format.Diff(string(content), string(formatted), f.RelPath))
		case fmtWrite:
			if err := os.WriteFile(f.Path, formatted, 0644); err != nil {
				return fmt.Errorf("error writing %s: %w", f.RelPath, err)
			}
			logger.Debug("snapshot formatted", "file", f.RelPath)
			if !cfg.Quiet {
				fmt.Fprintf(out, "Formatted %s\n", f.RelPath)
			}
		default:
			fmt.Fprint(out, string(formatted))
		}
	}

	if !cfg.Quiet && len(files) > 1 {
		switch {
		case len(needsFormatting) == 0:
			fmt.Fprintf(out, "\nAll %d files already formatted\n", len(files))
		case fmtWrite:
			fmt.Fprintf(out, "\nFormatted %d of %d files\n", len(needsFormatting), len(files))
		default:
			fmt.Fprintf(out, "\n%d of %d files need formatting\n", len(needsFormatting), len(files))
		}
	}

	// Check mode: exit 1 if files need formatting
	if fmtCheck && len(needsFormatting) > 0 {
		return errChecksFailed
	}
	return nil
}

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dotcommander/igbcscore/internal/baseline"
	"github.com/dotcommander/igbcscore/internal/config"
	"github.com/dotcommander/igbcscore/internal/discovery"
	"github.com/dotcommander/igbcscore/internal/engine"
	"github.com/dotcommander/igbcscore/internal/git"
	"github.com/dotcommander/igbcscore/internal/output"
	"github.com/dotcommander/igbcscore/internal/outputters"
	"github.com/dotcommander/igbcscore/internal/project"
)

var (
	useBaseline    bool
	createBaseline bool
	scoreDefaults  bool
	scoreStaged    bool
	scoreChanged   bool
)

// errChecksFailed means snapshots fell below the threshold, regressed or
// failed validation. The report has already been printed.
var errChecksFailed = errors.New("checks failed")

// defaultsName labels the preset starting snapshot in reports.
const defaultsName = "(defaults)"

var scoreCmd = &cobra.Command{
	Use:   "score [paths...]",
	Short: "Score snapshot files against the rating system",
	Long: `Score evaluates every snapshot file found under the given paths (default: the
current directory) and prints each credit's points, the category and overall
totals, and insights naming the shortfall to the next point.

Directories are searched with the discovery patterns (default: **/*.igbc.yaml,
**/*.igbc.yml, **/*.igbc.json, **/*.igbc.toml). Files are validated against
the snapshot schema before scoring unless schemas.enabled is false.

EXAMPLES:

  igbcscore score                          # every snapshot below .
  igbcscore score towers/a.igbc.yaml       # one file
  igbcscore score --fail-under 25          # exit 1 below 25 points
  igbcscore score --create-baseline        # record current credit points
  igbcscore score --baseline               # exit 1 when a credit lost points
  igbcscore score --defaults               # the scheme's starting snapshot
  igbcscore score --staged --baseline      # pre-commit: staged snapshots only`,
	Args: cobra.ArbitraryArgs,
	Run: runE(func(cmd *cobra.Command, args []string) error {
		return runScore(cmd.OutOrStdout(), args)
	}),
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().Bool("insights", true, "Show next-point insights")
	scoreCmd.Flags().Bool("details", false, "Show the per-part breakdown of every credit")
	scoreCmd.Flags().Int("fail-under", 0, "Fail when a snapshot totals fewer points (0 disables)")
	scoreCmd.Flags().BoolVar(&useBaseline, "baseline", false, "Fail on credits that lost points since the baseline")
	scoreCmd.Flags().BoolVar(&createBaseline, "create-baseline", false, "Record current credit points as the baseline")
	scoreCmd.Flags().BoolVar(&scoreDefaults, "defaults", false, "Score the preset starting snapshot instead of files")
	scoreCmd.Flags().BoolVar(&scoreStaged, "staged", false, "Score only snapshot files staged in git")
	scoreCmd.Flags().BoolVar(&scoreChanged, "changed", false, "Score only snapshot files with uncommitted changes")
	scoreCmd.MarkFlagsMutuallyExclusive("staged", "changed", "defaults")

	_ = viper.BindPFlag("showInsights", scoreCmd.Flags().Lookup("insights"))
	_ = viper.BindPFlag("showDetails", scoreCmd.Flags().Lookup("details"))
	_ = viper.BindPFlag("failUnder", scoreCmd.Flags().Lookup("fail-under"))
}

// snapshot is a loaded snapshot and the name it is reported under.
type snapshot struct {
	file string
	in   project.Input
}

func runScore(out io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	start := time.Now()

	var snaps []snapshot
	if scoreDefaults {
		snaps = []snapshot{{file: defaultsName, in: project.Defaults()}}
	} else {
		if scoreStaged || scoreChanged {
			args, err = gitSnapshots(cfg)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				if !cfg.Quiet {
					fmt.Fprintln(out, "No changed snapshot files")
				}
				return nil
			}
		}
		snaps, err = loadSnapshots(cfg, args)
		if err != nil {
			return err
		}
	}

	var b *baseline.Baseline
	if useBaseline {
		b, err = baseline.LoadBaseline(cfg.Baseline.Path)
		if err != nil {
			return fmt.Errorf("error loading baseline: %w", err)
		}
	}

	summary := &output.Summary{FailUnder: cfg.FailUnder, StartTime: start}
	reports := make(map[string]engine.Report, len(snaps))
	for _, s := range snaps {
		report := engine.Evaluate(s.in)
		reports[s.file] = report

		result := output.Result{File: s.file, Report: report}
		if b != nil {
			result.Regressions = b.Compare(s.file, report)
		}
		logger.Debug("snapshot scored", "file", s.file, "total", report.Total, "regressions", len(result.Regressions))
		summary.Results = append(summary.Results, result)
	}

	if err := outputters.NewOutputter(cfg).Format(summary, cfg.Format); err != nil {
		return err
	}

	// Create the baseline before judging the run; creating one accepts the
	// current state.
	if createBaseline {
		nb := baseline.CreateBaseline(reports)
		if err := nb.SaveBaseline(cfg.Baseline.Path); err != nil {
			return fmt.Errorf("failed to save baseline: %w", err)
		}
		if !cfg.Quiet {
			fmt.Fprintf(out, "\nBaseline created: %s (%d snapshots)\n", cfg.Baseline.Path, len(nb.Entries))
		}
		return nil
	}

	if summary.FailedFiles() > 0 {
		return errChecksFailed
	}
	return nil
}

// loadSnapshots discovers, validates and loads the snapshot files named by
// args.
func loadSnapshots(cfg *config.Config, args []string) ([]snapshot, error) {
	files, err := discovery.Collect(args, cfg.Discovery.Patterns, cfg.FollowSymlinks)
	if err != nil {
		return nil, err
	}

	if cfg.Schemas.Enabled {
		errs, err := validateFiles(files)
		if err != nil {
			return nil, err
		}
		if len(errs) > 0 {
			return nil, errs
		}
	}

	snaps := make([]snapshot, 0, len(files))
	for _, f := range files {
		in, err := project.Load(f.Path)
		if err != nil {
			return nil, err
		}
		logger.Debug("snapshot loaded", "file", f.RelPath, "format", f.Format)
		snaps = append(snaps, snapshot{file: f.RelPath, in: in})
	}
	return snaps, nil
}

// gitSnapshots lists the snapshots git reports as staged (or changed),
// relative to the working directory so names match baseline entries.
func gitSnapshots(cfg *config.Config) ([]string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	var files []string
	if scoreStaged {
		files, err = git.StagedSnapshots(wd, cfg.Discovery.Patterns)
	} else {
		files, err = git.ChangedSnapshots(wd, cfg.Discovery.Patterns)
	}
	if err != nil {
		return nil, err
	}
	for i, f := range files {
		if rel, err := filepath.Rel(wd, f); err == nil {
			files[i] = rel
		}
	}
	logger.Debug("git snapshots", "staged", scoreStaged, "count", len(files))
	return files, nil
}

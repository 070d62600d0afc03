package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dotcommander/igbcscore/internal/config"
	"github.com/dotcommander/igbcscore/internal/output"
)

var (
	configFile   string
	quiet        bool
	verbose      bool
	outputFormat string
	outputFile   string
	colorMode    string
)

// exitFunc is swapped out by tests.
var exitFunc = os.Exit

// logger is replaced by initLogging once flags are parsed.
var logger = slog.New(slog.DiscardHandler)

var rootCmd = &cobra.Command{
	Use:   "igbcscore",
	Short: "IGBC Green Homes credit scoring",
	Long: `igbcscore scores residential project snapshots against the IGBC Green Homes
rating system (Sustainable Design and Energy Efficiency categories, 40 points).

Snapshots are YAML, JSON or TOML files named *.igbc.yaml, *.igbc.json or
*.igbc.toml. Each credit is scored from its inputs, capped at its maximum and
summed into category and overall totals. Insights name the shortfall to the
next point.

Start with "igbcscore init" to write the scheme's starting snapshot, edit it,
then run "igbcscore score".`,
	Version:           output.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initLogging,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitFunc(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default: first of .igbcrc.yaml, .igbcrc.yml, .igbcrc.json)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "console", "Output format for reports (console|json|markdown)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Output file for reports (json and markdown only)")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "Colorize console output (auto|always|never)")

	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))
}

// initLogging installs the stderr logger. Quiet keeps errors only, verbose
// adds debug events.
func initLogging(cmd *cobra.Command, args []string) error {
	logger = newLogger(os.Stderr, viper.GetBool("verbose"), viper.GetBool("quiet"))
	slog.SetDefault(logger)
	return nil
}

func newLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig loads configuration for a command run.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	return cfg, nil
}

// runE adapts a run function to cobra's Run, printing the error and exiting
// non-zero the way every command does. errChecksFailed exits quietly: the
// report already says what failed.
func runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := fn(cmd, args); err != nil {
			if !errors.Is(err, errChecksFailed) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			exitFunc(1)
		}
	}
}

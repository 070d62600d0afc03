package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dotcommander/igbcscore/internal/engine"
	"github.com/dotcommander/igbcscore/internal/project"
)

// defaultSnapshotFile is written by init when no file is named.
const defaultSnapshotFile = "project.igbc.yaml"

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write the scheme's starting snapshot",
	Long: `Init writes the rating system's starting snapshot to a file (default:
project.igbc.yaml). The encoding follows the extension: .yaml, .yml, .json or
.toml.

Preset groups (RETV, U-value, lighting power density, lighting controls,
alternate water heating litres and renewable generation) start on their
preset values; switch a group to custom with "igbcscore source" before
editing its fields.`,
	Args: cobra.MaximumNArgs(1),
	Run: runE(func(cmd *cobra.Command, args []string) error {
		return runInit(cmd.OutOrStdout(), args)
	}),
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file")
}

func runInit(out io.Writer, args []string) error {
	path := defaultSnapshotFile
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := project.FormatFromPath(path); err != nil {
		return err
	}
	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	in := project.Defaults()
	if err := project.Save(path, in); err != nil {
		return err
	}
	report := engine.Evaluate(in)
	logger.Debug("snapshot created", "file", path, "total", report.Total)

	if !viper.GetBool("quiet") {
		fmt.Fprintf(out, "Created %s (%d/%d points)\n", path, report.Total, report.MaxTotal)
	}
	return nil
}

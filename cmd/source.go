package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/igbcscore/internal/catalog"
	"github.com/dotcommander/igbcscore/internal/project"
	"github.com/dotcommander/igbcscore/internal/types"
)

var sourceCmd = &cobra.Command{
	Use:   "source <file> <group> <preset|custom>",
	Short: "Switch a preset group between preset and custom values",
	Long: `Source switches a preset group of a snapshot file. "preset" overwrites the
group's fields with the scheme's preset values and locks them; "custom" keeps
the current values and unlocks them for editing.

Groups: retv, uValue, lpd, lightingControls, alternateLitres, renewableGeneration`,
	Args: cobra.ExactArgs(3),
	Run: runE(func(cmd *cobra.Command, args []string) error {
		return runSource(cmd.OutOrStdout(), args[0], args[1], args[2])
	}),
}

func init() {
	rootCmd.AddCommand(sourceCmd)
}

func runSource(out io.Writer, path, group, source string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	g, ok := catalog.ParsePresetGroup(group)
	if !ok {
		names := make([]string, len(catalog.PresetGroups))
		for i, pg := range catalog.PresetGroups {
			names[i] = string(pg)
		}
		return fmt.Errorf("%w: %q (groups: %s)", project.ErrUnknownSourceGroup, group, strings.Join(names, ", "))
	}

	in, err := project.Load(path)
	if err != nil {
		return err
	}
	next, err := project.SetSource(in, g, types.Source(source))
	if err != nil {
		return err
	}
	if err := project.Save(path, next); err != nil {
		return err
	}
	logger.Debug("source changed", "file", path, "group", g, "source", source)

	return printUpdate(out, cfg, path, in, next)
}

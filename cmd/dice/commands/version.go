package commands

import (
	"fmt"
	"runtime"

	"github.com/dicengine/dice/internal/cli/output"
	"github.com/dicengine/dice/pkg/buildinfo"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display the dice version, build information, and system details.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d := buildinfo.Current()
		out := cmd.OutOrStdout()

		if versionShort {
			_, _ = fmt.Fprintln(out, d.Version)
			return nil
		}

		_, _ = color.New(color.Bold).Fprintf(out, "dice %s\n", d.Version)
		return output.SimpleTable(out, [][2]string{
			{"Revision", d.Revision},
			{"Built", d.BuildDate},
			{"Go version", runtime.Version()},
			{"OS/Arch", runtime.GOOS + "/" + runtime.GOARCH},
		})
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show only version number")
}

package commands

import (
	"github.com/dicengine/dice/internal/cli/output"
	"github.com/dicengine/dice/pkg/buildinfo"
	"github.com/spf13/cobra"
)

var infoOutput string

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the build configuration",
	Long: `Show how this binary was built: distributed runtime, working and
storage precision, data layout and source revision.

Examples:
  dice info
  dice info -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(infoOutput)
		if err != nil {
			return err
		}
		return output.NewPrinter(cmd.OutOrStdout(), format, false).Print(buildinfo.Current())
	},
}

func init() {
	infoCmd.Flags().StringVarP(&infoOutput, "output", "o", "table", "Output format (table, json, yaml)")
}

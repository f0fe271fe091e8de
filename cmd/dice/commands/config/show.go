package config

import (
	"github.com/dicengine/dice/internal/cli/output"
	"github.com/dicengine/dice/pkg/config"
	"github.com/spf13/cobra"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after file, environment variables and defaults
have been merged.

Examples:
  dice config show
  DICE_LOGGING_LEVEL=debug dice config show -o json`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "yaml", "Output format (yaml, json)")
}

func runShow(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(showOutput)
	if err != nil {
		return err
	}

	cfg, err := config.MustLoad(configPath(cmd))
	if err != nil {
		return err
	}

	return output.NewPrinter(cmd.OutOrStdout(), format, false).Print(cfg)
}

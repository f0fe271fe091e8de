package config

import (
	"fmt"

	"github.com/dicengine/dice/internal/cli/output"
	"github.com/dicengine/dice/pkg/buildinfo"
	"github.com/dicengine/dice/pkg/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the DICe configuration file.

Checks for syntax errors, missing required fields, and invalid values.

Examples:
  # Validate default config
  dice config validate

  # Validate specific config file
  dice config validate --config /etc/dice/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := configPath(cmd)

	cfg, err := config.MustLoad(path)
	if err != nil {
		return err
	}

	displayPath := path
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	var warnings []string
	if !buildinfo.DistributedEnabled() {
		warnings = append(warnings, "binary built without dice_dist - distributed settings are ignored")
	}
	if cfg.Telemetry.Profiling.Enabled && !cfg.Telemetry.Enabled {
		warnings = append(warnings, "profiling enabled while tracing is disabled")
	}

	out := cmd.OutOrStdout()
	printer := output.NewPrinter(out, output.FormatTable, false)
	_, _ = fmt.Fprintf(out, "Configuration file: %s\n", displayPath)
	printer.Success("Validation: OK")

	if len(warnings) > 0 {
		_, _ = fmt.Fprintln(out, "\nWarnings:")
		for _, w := range warnings {
			printer.Warning("  - " + w)
		}
	}

	_, _ = fmt.Fprintln(out, "\nConfiguration summary:")
	return output.SimpleTable(out, [][2]string{
		{"Log level", cfg.Logging.Level},
		{"Coordinator", cfg.Distributed.Coordinator},
		{"Start timeout", cfg.Distributed.StartTimeout.String()},
		{"Barrier timeout", cfg.Distributed.BarrierTimeout.String()},
		{"Metrics", fmt.Sprintf("%t (port %d)", cfg.Metrics.Enabled, cfg.Metrics.Port)},
	})
}

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dicengine/dice/internal/logger"
	"github.com/dicengine/dice/internal/telemetry"
	"github.com/dicengine/dice/pkg/buildinfo"
	"github.com/dicengine/dice/pkg/config"
	"github.com/dicengine/dice/pkg/dist"
	"github.com/dicengine/dice/pkg/lifecycle"
	"github.com/spf13/cobra"
)

var runVerbose bool

var runCmd = &cobra.Command{
	Use:   "run [args...]",
	Short: "Initialize and finalize a DICe process",
	Long: `Bring a DICe process up on the distributed runtime compiled into this
binary, then shut it down again.

Every rank of a distributed job must run this command. Rank and world size
come from the launcher (DICE_RANK/DICE_WORLD_SIZE, Open MPI, MPICH or PMIx
variables); rank 0 serves the coordinator at distributed.coordinator.

With -v or --verbose, rank 0 prints the build banner to stdout. Unknown
arguments are passed through to the process untouched.

Examples:
  # Single process with banner
  dice run -v

  # Four ranks on one host
  for r in 0 1 2 3; do DICE_RANK=$r DICE_WORLD_SIZE=4 dice run --verbose & done; wait

  # Override the coordinator address
  DICE_DISTRIBUTED_COORDINATOR=node0:7400 dice run`,
	Args: cobra.ArbitraryArgs,
	FParseErrWhitelist: cobra.FParseErrWhitelist{
		UnknownFlags: true,
	},
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print the build banner on rank 0")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	desc := buildinfo.Current()
	rtCfg := cfg.Distributed.RuntimeConfig()

	// Tracing and profiling start before the runtime does, so they are
	// tagged with the rank the launcher announced.
	rank, size := 0, 1
	if buildinfo.DistributedEnabled() {
		if r, n, err := dist.LauncherRank(rtCfg); err == nil {
			rank, size = r, n
		}
	}

	telemetryCfg := telemetry.Config{
		Enabled:            cfg.Telemetry.Enabled,
		ServiceName:        "dice",
		ServiceVersion:     desc.Version,
		Endpoint:           cfg.Telemetry.Endpoint,
		Insecure:           cfg.Telemetry.Insecure,
		SampleRate:         cfg.Telemetry.SampleRate,
		Rank:               rank,
		ResourceAttributes: telemetry.BuildAttributes(desc),
	}
	telemetryShutdown, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	if telemetry.IsEnabled() {
		logger.Info("Tracing enabled", "endpoint", cfg.Telemetry.Endpoint, logger.KeyRank, rank, logger.KeyWorldSize, size)
	}
	defer func() {
		if err := telemetryShutdown(context.Background()); err != nil {
			logger.Error("telemetry shutdown error", logger.Err(err))
		}
	}()

	profilingCfg := telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "dice",
		ServiceVersion: desc.Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
		Rank:           rank,
		WorldSize:      size,
	}
	profilingShutdown, err := telemetry.InitProfiling(profilingCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", logger.Err(err))
		}
	}()

	logger.Debug("Configuration loaded",
		"source", getConfigSource(GetConfigFile()),
		logger.KeyVerbose, runVerbose)
	logger.Debug("Build configuration",
		logger.KeyRevision, desc.Revision,
		logger.KeyVersion, desc.Version,
		logger.KeyWorking, desc.Working.String(),
		logger.KeyStorage, desc.Storage.String())

	metricsResult, err := config.InitializeMetrics(cfg)
	if err != nil {
		return err
	}
	if metricsResult.Server != nil {
		logger.Info("Metrics enabled", "addr", metricsResult.Server.Addr())
		go func() {
			if err := metricsResult.Server.Serve(); err != nil {
				logger.Error("Metrics server error", logger.Err(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := metricsResult.Server.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown error", logger.Err(err))
			}
		}()
	}

	proc, err := lifecycle.Initialize(ctx, dist.Default(rtCfg), processArgs,
		lifecycle.WithOutput(cmd.OutOrStdout()),
		lifecycle.WithDescriptor(desc),
		lifecycle.WithMetrics(metricsResult.Lifecycle),
	)
	if err != nil {
		return err
	}

	logger.Debug("Process running",
		logger.Rank(proc.Rank()),
		logger.WorldSize(proc.Size()),
		logger.KeyArgs, len(args))

	return proc.Finalize(ctx)
}

package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/systmms/vector-aws-secrets/internal/backend"
	"github.com/systmms/vector-aws-secrets/internal/config"
	"github.com/systmms/vector-aws-secrets/internal/logging"
	"github.com/systmms/vector-aws-secrets/internal/metrics"
	"github.com/systmms/vector-aws-secrets/internal/resolve"
	"github.com/systmms/vector-aws-secrets/internal/server"
)

var backendDescriptions = map[backend.Kind]string{
	backend.KindSSM:            "Resolve secrets as AWS Systems Manager Parameter Store parameters",
	backend.KindSecretsManager: "Resolve secrets as AWS Secrets Manager secrets",
}

func (a *app) newBackendCommand(kind backend.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   kind.String(),
		Short: backendDescriptions[kind],
		Long: backendDescriptions[kind] + `.

The backend is fixed for the life of the process. Requests are read from
stdin until end of input. Supported backends: ` + kindsUsage() + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd, kind)
		},
	}
}

func (a *app) serve(cmd *cobra.Command, kind backend.Kind) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := a.newLogger(cfg)
	if err != nil {
		return err
	}
	logger = logger.With("backend", kind.String())

	ctx := cmd.Context()
	b, err := a.newBackend(ctx, kind, cfg, logger)
	if err != nil {
		return err
	}

	m := metrics.New()
	defer func() {
		if cfg.MetricsFile == "" {
			return
		}
		if werr := m.WriteTextfile(cfg.MetricsFile); werr != nil {
			logger.Warn("Failed to write metrics to %s: %v", cfg.MetricsFile, werr)
		}
	}()

	r := resolve.New(b,
		resolve.WithLogger(logger),
		resolve.WithMetrics(m),
		resolve.WithConcurrency(cfg.Concurrency),
		resolve.WithTimeoutMs(cfg.TimeoutMs),
	)
	srv := server.New(r, server.WithLogger(logger), server.WithMetrics(m))

	logger.Debug("Ready, reading requests from stdin")
	return srv.Serve(ctx, a.in, a.out)
}

// loadConfig reads the config file, then applies explicitly set flags on top.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := a.flags.configFile
	if path == "" {
		path = os.Getenv(config.PathEnv)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	setString := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	setInt := func(name string, dst *int, v int) {
		if flags.Changed(name) {
			*dst = v
		}
	}

	setString("region", &cfg.Region, a.flags.region)
	setString("profile", &cfg.Profile, a.flags.profile)
	setString("endpoint-url", &cfg.EndpointURL, a.flags.endpointURL)
	setString("assume-role", &cfg.AssumeRole, a.flags.assumeRole)
	setString("external-id", &cfg.ExternalID, a.flags.externalID)
	setString("role-session-name", &cfg.RoleSessionName, a.flags.roleSessionName)
	setString("metrics-file", &cfg.MetricsFile, a.flags.metricsFile)
	setString("log-level", &cfg.LogLevel, a.flags.logLevel)
	setInt("timeout-ms", &cfg.TimeoutMs, a.flags.timeoutMs)
	setInt("concurrency", &cfg.Concurrency, a.flags.concurrency)
	setInt("max-attempts", &cfg.MaxAttempts, a.flags.maxAttempts)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) newLogger(cfg *config.Config) (*logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if a.flags.debug {
		level = slog.LevelDebug
	}
	return logging.NewWithLevel(a.errOut, level, a.flags.noColor), nil
}

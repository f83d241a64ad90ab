// Package commands wires the command line: a root command plus one
// subcommand per secrets backend.
package commands

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/systmms/vector-aws-secrets/internal/backend"
	"github.com/systmms/vector-aws-secrets/internal/config"
	dserrors "github.com/systmms/vector-aws-secrets/internal/errors"
	"github.com/systmms/vector-aws-secrets/internal/logging"
	"github.com/systmms/vector-aws-secrets/internal/validation"
)

// BackendFactory builds the backend for the selected kind.
type BackendFactory func(ctx context.Context, kind backend.Kind, cfg *config.Config, logger *logging.Logger) (backend.Backend, error)

// DefaultBackendFactory talks to AWS using cfg.
func DefaultBackendFactory(ctx context.Context, kind backend.Kind, cfg *config.Config, logger *logging.Logger) (backend.Backend, error) {
	opts := append(cfg.BackendOptions(kind), backend.WithLogger(logger))
	return backend.New(ctx, kind, cfg.AWSOptions(), opts...)
}

// globalFlags holds the persistent flags shared by every backend subcommand.
type globalFlags struct {
	configFile      string
	region          string
	profile         string
	endpointURL     string
	assumeRole      string
	externalID      string
	roleSessionName string
	timeoutMs       int
	concurrency     int
	maxAttempts     int
	metricsFile     string
	logLevel        string
	debug           bool
	noColor         bool
}

type app struct {
	in         io.Reader
	out        io.Writer
	errOut     io.Writer
	newBackend BackendFactory
	flags      globalFlags
}

// Option configures the root command.
type Option func(*app)

// WithStreams replaces stdin, stdout and stderr.
func WithStreams(in io.Reader, out, errOut io.Writer) Option {
	return func(a *app) {
		a.in = in
		a.out = out
		a.errOut = errOut
	}
}

// WithBackendFactory replaces the AWS backend construction.
func WithBackendFactory(f BackendFactory) Option {
	return func(a *app) {
		a.newBackend = f
	}
}

// NewRootCommand builds the command tree. version is shown by --version.
func NewRootCommand(version string, opts ...Option) *cobra.Command {
	a := &app{
		in:         os.Stdin,
		out:        os.Stdout,
		errOut:     os.Stderr,
		newBackend: DefaultBackendFactory,
	}
	for _, opt := range opts {
		opt(a)
	}

	rootCmd := &cobra.Command{
		Use:   "vector-aws-secrets <backend>",
		Short: "Vector exec secrets backend for AWS SSM Parameter Store and Secrets Manager",
		Long: `vector-aws-secrets resolves secrets for Vector's exec secrets backend.

It reads one JSON request per line from stdin and writes one JSON reply per
line to stdout. Logs go to stderr.

Secret names may contain ` + validation.Describe() + `.

Examples:
  # vector.yaml
  secret:
    aws:
      type: exec
      command: ["/usr/bin/vector-aws-secrets", "ssm"]

  # Manual check
  echo '{"version":"1.0","secrets":["db.password"]}' | vector-aws-secrets ssm --region us-east-1`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return dserrors.ConfigError{
					Field:      "backend",
					Message:    "no secrets backend selected",
					Suggestion: "Run '" + cmd.Root().Name() + " ssm' or '" + cmd.Root().Name() + " secretsmanager'",
				}
			}
			// ParseKind always fails here: known backends are subcommands.
			_, err := backend.ParseKind(args[0])
			return err
		},
	}
	// Only backend names are accepted as positional commands.
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:    "no-help",
		Hidden: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := backend.ParseKind(cmd.Name())
			return err
		},
	})

	rootCmd.SetIn(a.in)
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.errOut)

	f := rootCmd.PersistentFlags()
	f.StringVar(&a.flags.configFile, "config", "", "Config file path (default $"+config.PathEnv+")")
	f.StringVar(&a.flags.region, "region", "", "AWS region")
	f.StringVar(&a.flags.profile, "profile", "", "AWS shared config profile")
	f.StringVar(&a.flags.endpointURL, "endpoint-url", "", "Override the AWS service endpoint (e.g. LocalStack)")
	f.StringVar(&a.flags.assumeRole, "assume-role", "", "IAM role ARN to assume")
	f.StringVar(&a.flags.externalID, "external-id", "", "External ID for --assume-role")
	f.StringVar(&a.flags.roleSessionName, "role-session-name", "", "Session name for --assume-role")
	f.IntVar(&a.flags.timeoutMs, "timeout-ms", config.DefaultTimeoutMs, "Timeout per secret fetch in milliseconds")
	f.IntVar(&a.flags.concurrency, "concurrency", config.DefaultConcurrency, "Maximum concurrent fetches per request")
	f.IntVar(&a.flags.maxAttempts, "max-attempts", 0, "Maximum AWS SDK attempts per call (0 keeps the SDK default)")
	f.StringVar(&a.flags.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
	f.StringVar(&a.flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.BoolVar(&a.flags.debug, "debug", false, "Enable debug logging")
	f.BoolVar(&a.flags.noColor, "no-color", false, "Disable colored log output")

	for _, kind := range backend.Kinds() {
		rootCmd.AddCommand(a.newBackendCommand(kind))
	}

	return rootCmd
}

func kindsUsage() string {
	names := make([]string, 0, len(backend.Kinds()))
	for _, k := range backend.Kinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, " | ")
}

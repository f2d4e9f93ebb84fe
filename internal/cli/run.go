package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AnatoleLucet/vars"
	"github.com/AnatoleLucet/vars/internal/scenario"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario and print its trace",
		Long: `Run a scenario file and print every set, transaction boundary and
listener invocation in the order it happened, followed by the final values.

With --verbose, transaction begin/commit/rollback events are logged to stderr.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runScenario(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	s, err := scenario.Load(path)
	if err != nil {
		return formatter.Error(loadExitCode(err), "failed to load scenario", err)
	}

	if opts.Verbose {
		logger := newLogger(cmd)
		vars.SetLogger(logger)
		defer func() {
			_ = logger.Sync()
			vars.SetLogger(nil)
		}()
	}

	result, err := scenario.Run(s)
	if err != nil {
		return formatter.Error(ExitFailure, "failed to run scenario", err)
	}

	return formatter.Success(result, result.Text())
}

func newLogger(cmd *cobra.Command) *zap.Logger {
	config := zap.NewDevelopmentEncoderConfig()
	config.TimeKey = ""

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(config),
		zapcore.AddSync(cmd.ErrOrStderr()),
		zapcore.DebugLevel,
	)
	return zap.New(core).Named("vars")
}

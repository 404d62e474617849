// Package cli implements the rtsim command line.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"rtsim/internal/logging"
	"rtsim/internal/sched"
)

var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string

	cfg    sched.Config
	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for rtsim.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rtsim",
		Short: "Tick-driven real-time scheduling simulator",
		Long:  "rtsim runs EDF and round-robin schedulers over a described multiprocessor system and reports per-task and per-processor statistics.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = sched.Load(flagConfig)
			if err != nil {
				return err
			}
			// flags win over the config file
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = flagLogLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat = flagLogFormat
			}
			logger = logging.NewLoggerWithWriter(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, cmd.ErrOrStderr())
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Simulator config file (YAML)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(),
		newValidateCmd(),
	)

	return root
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"rtsim/internal/builder"
	"rtsim/internal/job"
	"rtsim/internal/monitor"
	"rtsim/internal/sched"
	"rtsim/internal/system"
)

type runOptions struct {
	horizon   int64
	tracePath string
	graspPath string
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <system.yaml>",
		Short: "Simulate a system and print its statistics",
		Long: `Builds the schedulers, processors and tasks of a system description,
runs the tick loop up to the horizon and prints task and processor
statistics to stdout.

Without --horizon (or horizon in the config file) the run covers the
latest first release plus two hyperperiods.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("horizon") {
				cfg.Horizon = opts.horizon
			}
			return runSystem(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().Int64Var(&opts.horizon, "horizon", 0, "Number of ticks to simulate (default: computed from the task set)")
	cmd.Flags().StringVar(&opts.tracePath, "trace", "", "Write a CSV event trace to this file")
	cmd.Flags().StringVar(&opts.graspPath, "grasp", "", "Write a Grasp trace to this file")

	return cmd
}

func runSystem(ctx context.Context, out io.Writer, path string, opts runOptions) error {
	sys, err := loadSystem(path)
	if err != nil {
		return err
	}

	runID := uuid.New()
	runLogger := logger.With("run_id", runID.String())

	d := sched.NewDriver(cfg, runLogger)
	b, err := builder.New(sys, d, cfg, runLogger)
	if err != nil {
		return fmt.Errorf("build system: %w", err)
	}
	bodies := make(map[string]*job.Phased)
	_, err = b.Build(func(t *system.Task) sched.Body {
		p := job.NewPhased(t.Name, t.ReadDelay, t.WCET, t.WriteDelay)
		bodies[t.Name] = p
		return p
	})
	if err != nil {
		return fmt.Errorf("build system: %w", err)
	}

	stats := monitor.NewStatsMonitor()
	d.AddObserver(stats)

	var trace *monitor.TraceMonitor
	if opts.tracePath != "" {
		f, err := os.Create(opts.tracePath)
		if err != nil {
			return fmt.Errorf("create trace: %w", err)
		}
		defer f.Close()
		trace = monitor.NewTraceMonitor(f, runID)
		d.AddObserver(trace)
	}

	var grasp *monitor.GraspMonitor
	if opts.graspPath != "" {
		f, err := os.Create(opts.graspPath)
		if err != nil {
			return fmt.Errorf("create grasp trace: %w", err)
		}
		defer f.Close()
		grasp = monitor.NewGraspMonitor(f)
		d.AddObserver(grasp)
	}

	horizon := cfg.Horizon
	if horizon == 0 {
		horizon = b.DefaultHorizon()
	}
	if err := d.Run(ctx, horizon); err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}

	if trace != nil {
		if err := trace.Err(); err != nil {
			return fmt.Errorf("write trace: %w", err)
		}
	}
	if grasp != nil {
		if err := grasp.Err(); err != nil {
			return fmt.Errorf("write grasp trace: %w", err)
		}
	}

	for _, t := range sys.Tasks {
		p := bodies[t.Name]
		runLogger.Debug("task activations", "task", t.Name, "activations", p.Activations(), "worked", p.Worked())
	}

	stats.WriteStats(out)
	return nil
}

package monitor

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rtsim/internal/sched"
)

type taskSpec struct {
	name   string
	params sched.Params
}

// simulate runs the given tasks under s for ticks and returns them by name.
func simulate(t *testing.T, s sched.Scheduler, procs []string, specs []taskSpec, ticks int64, observers ...sched.Observer) map[string]*sched.Task {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	d := sched.NewDriver(sched.DefaultConfig(), logger)
	for _, o := range observers {
		d.AddObserver(o)
	}
	d.AddScheduler(s)
	for _, name := range procs {
		p := sched.NewProcessor(name)
		require.NoError(t, s.AddProcessor(p))
		d.AddProcessor(p)
	}
	tasks := make(map[string]*sched.Task)
	for i, spec := range specs {
		task := sched.NewTask(sched.TaskID(i+1), spec.name, nil)
		d.AddTask(task)
		require.NoError(t, s.AddTask(task, spec.params))
		d.ConfigureTask(task, spec.params)
		tasks[spec.name] = task
	}
	require.NoError(t, d.Run(context.Background(), ticks))
	return tasks
}

func migrationSet() []taskSpec {
	return []taskSpec{
		{"T1", sched.Params{WCET: 4, Period: 8, Deadline: 8}},
		{"T2", sched.Params{WCET: 4, Period: 8, Deadline: 7}},
		{"T3", sched.Params{WCET: 1, Period: 8, Deadline: 2, StartTime: 1}},
	}
}

func TestStatsMonitor_ExecutionMigrationsUtilization(t *testing.T) {
	m := NewStatsMonitor()
	s := sched.NewGlobalEDF("gedf", nil)
	tasks := simulate(t, s, []string{"cpu0", "cpu1"}, migrationSet(), 8, m)

	assert.Equal(t, TaskStats{ExecutionTime: 4, Migrations: 1}, pub(m.Task(tasks["T1"])))
	assert.Equal(t, TaskStats{ExecutionTime: 4, Migrations: 1}, pub(m.Task(tasks["T2"])))
	assert.Equal(t, TaskStats{ExecutionTime: 1, Migrations: 0}, pub(m.Task(tasks["T3"])))

	procs := s.Processors()
	assert.InDelta(t, 5.0/8.0, m.Utilization(procs[0]), 1e-9)
	assert.InDelta(t, 4.0/8.0, m.Utilization(procs[1]), 1e-9)
	assert.Equal(t, int64(8), m.Now())
}

func TestStatsMonitor_FlushesRunningTasks(t *testing.T) {
	m := NewStatsMonitor()
	s := sched.NewPartitionedEDF("edf", nil)
	tasks := simulate(t, s, []string{"cpu0"}, []taskSpec{
		{"busy", sched.Params{WCET: 2, Period: 2, Deadline: 2}},
		{"never", sched.Params{WCET: 1, Period: 4, Deadline: 4, StartTime: 100}},
	}, 6, m)

	assert.Equal(t, int64(6), m.Task(tasks["busy"]).ExecutionTime)
	assert.Equal(t, int64(0), m.Task(tasks["never"]).ExecutionTime)
	assert.InDelta(t, 1.0, m.Utilization(s.Processors()[0]), 1e-9)
}

func TestStatsMonitor_UnplacedTaskHasNoMigrations(t *testing.T) {
	m := NewStatsMonitor()
	tasks := simulate(t, sched.NewPartitionedEDF("edf", nil), []string{"cpu0"}, []taskSpec{
		{"busy", sched.Params{WCET: 1, Period: 2, Deadline: 2}},
		{"never", sched.Params{WCET: 1, Period: 4, Deadline: 4, StartTime: 100}},
	}, 4, m)

	assert.Equal(t, TaskStats{}, pub(m.Task(tasks["never"])))
	assert.Equal(t, 0, m.Task(tasks["busy"]).Migrations)
}

func TestStatsMonitor_WriteStats(t *testing.T) {
	m := NewStatsMonitor()
	simulate(t, sched.NewPartitionedEDF("edf", nil), []string{"cpu0"}, []taskSpec{
		{"T", sched.Params{WCET: 3, Period: 4, Deadline: 2}},
	}, 4, m)

	var out bytes.Buffer
	m.WriteStats(&out)
	text := out.String()

	assert.Contains(t, text, "Task statistics")
	assert.Contains(t, text, "Processor statistics")
	assert.Contains(t, text, "| T                  | Execution time     | 3                  |")
	assert.Contains(t, text, "|                    | Deadline misses    | 1                  |")
	assert.Contains(t, text, "| cpu0               | Utilization        | 0.750000           |")
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if line == "" {
			continue
		}
		assert.Len(t, line, 64, "line %q", line)
	}
}

func TestGraspMonitor_Trace(t *testing.T) {
	var out bytes.Buffer
	m := NewGraspMonitor(&out)
	simulate(t, sched.NewPartitionedEDF("edf", nil), []string{"cpu0"}, []taskSpec{
		{"T1", sched.Params{WCET: 2, Period: 4, Deadline: 4}},
		{"T2", sched.Params{WCET: 1, Period: 4, Deadline: 2}},
	}, 6, m)
	require.NoError(t, m.Err())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		`newProcessor p0 -name "cpu0"`,
		`newTask t1 -name "T1" -color #666666`,
		`newTask t2 -name "T2" -color #EEEEEE`,
		`plot 0 jobArrived t2.0 t2 -processor p0`,
		`plot 0 jobResumed t2.0 -processor p0`,
		`plot 1 jobPreempted t2.0`,
		`plot 1 jobCompleted t2.0`,
		`plot 0 jobArrived t1.0 t1 -processor p0`,
		`plot 1 jobResumed t1.0 -processor p0`,
		`plot 3 jobPreempted t1.0`,
		`plot 3 jobCompleted t1.0`,
		`plot 4 jobArrived t2.0 t2 -processor p0`,
		`plot 4 jobResumed t2.0 -processor p0`,
		`plot 5 jobPreempted t2.0`,
		`plot 5 jobCompleted t2.0`,
		`plot 4 jobArrived t1.0 t1 -processor p0`,
		`plot 5 jobResumed t1.0 -processor p0`,
		`plot 6 jobPreempted t1.0`,
	}, lines)
}

func TestTraceMonitor_CSV(t *testing.T) {
	var out bytes.Buffer
	runID := uuid.New()
	m := NewTraceMonitor(&out, runID)
	simulate(t, sched.NewPartitionedEDF("edf", nil), []string{"cpu0"}, []taskSpec{
		{"T", sched.Params{WCET: 3, Period: 4, Deadline: 2}},
	}, 4, m)
	require.NoError(t, m.Err())

	records, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"run_id", "tick", "event", "task", "processor"},
		{runID.String(), "0", "resume", "T", "cpu0"},
		{runID.String(), "2", "deadline_miss", "T", "cpu0"},
		{runID.String(), "3", "preempt", "T", "cpu0"},
	}, records)
	assert.Len(t, m.Events(), 3)
}

// pub drops the unexported bookkeeping so values compare by their metrics.
func pub(ts TaskStats) TaskStats {
	return TaskStats{
		ExecutionTime:  ts.ExecutionTime,
		Migrations:     ts.Migrations,
		DeadlineMisses: ts.DeadlineMisses,
	}
}

package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
schedulers:
  - name: gedf
    algorithm: EDF
    type: global
    mapping: shared
tasks:
  - name: T1
    wcet: 3
    read_delay: 1
    start_time: 0
    period: 8
    deadline: 8
    priority: 1
    type: migrating
  - name: T2
    wcet: 2
    start_time: 1
    period: 4
    deadline: 4
    priority: 2
    type: fixed
processors:
  - name: cpu0
    scheduler: gedf
  - name: cpu1
    scheduler: gedf
mappings:
  - name: shared
    processors:
      - name: cpu0
        tasks: [T1, T2]
      - name: cpu1
        tasks: [T1]
fifos:
  - name: T1_to_T2
    size: 3
`

func TestParse_ResolvesReferences(t *testing.T) {
	sys, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, Validate(sys))

	assert.Equal(t, "1 schedulers, 2 tasks, 2 processors, 1 mappings, 1 fifos", sys.String())

	s := sys.Scheduler("gedf")
	require.NotNil(t, s)
	assert.Equal(t, AlgorithmEDF, s.Algorithm)
	assert.Equal(t, TopologyGlobal, s.Type)
	assert.Same(t, sys.Mapping("shared"), s.ResolvedMapping())

	assert.Same(t, s, sys.Processor("cpu1").ResolvedScheduler())

	task := sys.Task("T1")
	require.NotNil(t, task)
	assert.Equal(t, int64(3), task.WCET)
	assert.Equal(t, int64(1), task.ReadDelay)
	assert.Equal(t, TaskMigrating, task.Type)

	m := sys.Mapping("shared")
	require.Len(t, m.Entries, 2)
	assert.Same(t, sys.Processor("cpu0"), m.Entries[0].ResolvedProcessor())
	assert.Equal(t, []*Task{sys.Task("T1"), sys.Task("T2")}, m.Entries[0].ResolvedTasks())
	assert.True(t, m.Contains("T2"))
	assert.False(t, m.Contains("T3"))

	assert.Equal(t, 3, sys.Fifo("T1_to_T2").Size)
	assert.Nil(t, sys.Fifo("missing"))
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("tasks:\n  - name: T1\n    budget: 3\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	sys, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, sys.Tasks, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	sys := &System{
		Schedulers: []*Scheduler{
			{Name: "s", Algorithm: "LLF", Type: "clustered", Mapping: "nowhere"},
		},
		Tasks: []*Task{
			{Name: "bad task", WCET: 5, Period: 4, Deadline: 3, Priority: 0, Type: "pinned"},
			{Name: "ok", WCET: 1, Period: 4, Deadline: 4, Priority: 1, Type: TaskFixed},
			{Name: "ok", WCET: 1, Period: 4, Deadline: 4, Priority: 1, Type: TaskFixed},
		},
		Processors: []*Processor{{Name: "cpu0", Scheduler: "other"}},
		Mappings: []*Mapping{
			{Name: "m", Entries: []*MappingEntry{{Processor: "cpu9", Tasks: []string{"ghost"}}}},
		},
		Fifos: []*Fifo{{Name: "f", Size: 0}},
	}

	err := Validate(sys)
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		`invalid algorithm "LLF" for scheduler "s"`,
		`invalid scheduler type "clustered" for scheduler "s"`,
		`mapping "nowhere" for scheduler "s" not found`,
		`invalid task name "bad task"`,
		`duplicate task name "ok"`,
		`priority for task "bad task" should be > 0`,
		`wcet for task "bad task" should be <= period`,
		`wcet for task "bad task" should be <= deadline`,
		`invalid task type "pinned" for task "bad task"`,
		`scheduler "other" for processor "cpu0" not found`,
		`processor "cpu9" for mapping "m" not found`,
		`task "ghost" for mapping "m" not found`,
		`size for fifo "f" should be > 0`,
	} {
		assert.Contains(t, msg, want)
	}
	assert.NotContains(t, msg, `deadline for task "bad task" should be <= period`)
}

func TestValidate_Valid(t *testing.T) {
	sys, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.NoError(t, Validate(sys))
}

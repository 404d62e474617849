package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func systemPath(name string) string {
	return filepath.Join("..", "..", "systems", name)
}

func TestValidate_OK(t *testing.T) {
	out, _, err := execute(t, "validate", systemPath("partitioned_edf.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "OK (2 schedulers, 5 tasks, 3 processors, 2 mappings, 0 fifos)")
}

func TestValidate_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tasks:
  - {name: T1, wcet: 9, period: 4, deadline: 4, priority: 1, type: fixed}
`), 0o644))

	_, _, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `wcet for task "T1" should be <= period`)
}

func TestRun_WritesStatsAndTraces(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "trace.csv")
	graspPath := filepath.Join(dir, "run.grasp")

	out, logs, err := execute(t, "run", systemPath("global_edf.yaml"),
		"--horizon", "8", "--trace", tracePath, "--grasp", graspPath, "--log-format", "json")
	require.NoError(t, err)

	assert.Contains(t, out, "Task statistics")
	assert.Contains(t, out, "Processor statistics")
	assert.Contains(t, logs, `"msg":"simulation finished"`)
	assert.Contains(t, logs, `"ticks":8`)

	trace, err := os.ReadFile(tracePath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(trace)), "\n")
	assert.Equal(t, "run_id,tick,event,task,processor", lines[0])
	assert.Contains(t, string(trace), ",1,resume,T3,cpu0\n")

	grasp, err := os.ReadFile(graspPath)
	require.NoError(t, err)
	assert.Contains(t, string(grasp), "newProcessor")
}

func TestRun_DefaultHorizon(t *testing.T) {
	_, logs, err := execute(t, "run", systemPath("global_edf.yaml"))
	require.NoError(t, err)
	assert.Contains(t, logs, "ticks=17")
}

func TestRun_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("horizon: 5\nlog_level: warn\n"), 0o644))

	out, logs, err := execute(t, "run", systemPath("partitioned_edf.yaml"), "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Task statistics")
	assert.NotContains(t, logs, "simulation finished")
}

func TestRun_MissingSystem(t *testing.T) {
	_, _, err := execute(t, "run", filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

package executor_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"poshell/internal/executor"
	"poshell/internal/pipeline"
)

func newExecutor() *executor.Executor {
	return executor.New(zap.NewNop())
}

func TestRunEmptyPipelineReturnsZero(t *testing.T) {
	e := newExecutor()
	assert.Equal(t, 0, e.Run(pipeline.Pipeline{}))
}

func TestRunSingleCommandSuccess(t *testing.T) {
	e := newExecutor()
	status := e.Run(pipeline.Pipeline{Commands: []pipeline.Command{
		{Argv: []string{"true"}},
	}})
	assert.Equal(t, 0, status)
}

func TestRunSingleCommandFailureStatus(t *testing.T) {
	e := newExecutor()
	status := e.Run(pipeline.Pipeline{Commands: []pipeline.Command{
		{Argv: []string{"sh", "-c", "exit 3"}},
	}})
	assert.Equal(t, 3, status)
}

func TestRunProgramNotFoundStatus(t *testing.T) {
	e := newExecutor()
	status := e.Run(pipeline.Pipeline{Commands: []pipeline.Command{
		{Argv: []string{"poshell-no-such-program-xyz"}},
	}})
	assert.Equal(t, 127, status)
}

func TestRunPipelineWiring(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")

	e := newExecutor()
	status := e.Run(pipeline.Pipeline{Commands: []pipeline.Command{
		{Argv: []string{"sh", "-c", "printf 'a\\nb\\nc\\n'"}},
		{Argv: []string{"grep", "b"}, OutputFile: out},
	}})
	require.Equal(t, 0, status)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "b\n", string(content))
}

func TestRunInputRedirection(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(in, []byte("hello\n"), 0644))
	out := filepath.Join(dir, "out.txt")

	e := newExecutor()
	status := e.Run(pipeline.Pipeline{Commands: []pipeline.Command{
		{Argv: []string{"cat"}, InputFile: in, OutputFile: out},
	}})
	require.Equal(t, 0, status)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(content))
}

func TestRunAppendRedirection(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(out, []byte("first\n"), 0644))

	e := newExecutor()
	status := e.Run(pipeline.Pipeline{Commands: []pipeline.Command{
		{Argv: []string{"sh", "-c", "printf 'second\\n'"}, OutputFile: out, AppendOutput: true},
	}})
	require.Equal(t, 0, status)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(content))
}

func TestRunBackgroundReturnsImmediatelyAndAnnouncesPID(t *testing.T) {
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	e := newExecutor()
	status := e.Run(pipeline.Pipeline{Commands: []pipeline.Command{
		{Argv: []string{"sh", "-c", "sleep 0.05"}, Background: true},
	}})

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)

	assert.Equal(t, 0, status)
	assert.Regexp(t, `^\[\d+\]\n$`, buf.String())

	_ = exec.Command("sh", "-c", "sleep 0.1").Run() // give the detached child time to exit
}

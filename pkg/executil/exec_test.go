package executil

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealExecutor_Run(t *testing.T) {
	e := &RealExecutor{}
	ctx := context.Background()

	t.Run("successful command", func(t *testing.T) {
		out, err := e.Run(ctx, "echo", "hello")
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(out))
	})

	t.Run("command not found", func(t *testing.T) {
		_, err := e.Run(ctx, "nonexistent-command-12345")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exec nonexistent-command-12345")
	})

	t.Run("exit code preserved", func(t *testing.T) {
		_, err := e.Run(ctx, "sh", "-c", "exit 2")
		require.Error(t, err)

		var exitErr *exec.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.ExitCode())
	})
}

func TestRealExecutor_RunInput(t *testing.T) {
	out, err := (&RealExecutor{}).RunInput(context.Background(), []byte("<p>page</p>"), "cat")

	require.NoError(t, err)
	assert.Equal(t, "<p>page</p>", string(out))
}

func TestRealExecutor_StderrCapped(t *testing.T) {
	long := strings.Repeat("A", maxStderrLen*2)

	_, err := (&RealExecutor{}).Run(context.Background(), "sh", "-c", "printf '%s' \"$0\" >&2; exit 1", long)
	require.Error(t, err)

	assert.Contains(t, err.Error(), strings.Repeat("A", maxStderrLen))
	assert.NotContains(t, err.Error(), strings.Repeat("A", maxStderrLen+1))
}

func TestRecordingExecutor(t *testing.T) {
	t.Run("records commands and input", func(t *testing.T) {
		e := &RecordingExecutor{}
		ctx := context.Background()

		_, _ = e.Run(ctx, "lpstat", "-d")
		_, _ = e.RunInput(ctx, []byte("page"), "lp", "-t", "doc")

		got := e.Recorded()
		require.Len(t, got, 2)
		assert.Equal(t, "lpstat", got[0].Cmd)
		assert.Empty(t, got[0].Input)
		assert.Equal(t, []string{"-t", "doc"}, got[1].Args)
		assert.Equal(t, "page", string(got[1].Input))
	})

	t.Run("returns configured output and error", func(t *testing.T) {
		boom := errors.New("printer offline")
		e := &RecordingExecutor{
			Outputs: map[string][]byte{"lp": []byte("request id is 7")},
			Errors:  map[string]error{"lpr": boom},
		}
		ctx := context.Background()

		out, err := e.Run(ctx, "lp")
		require.NoError(t, err)
		assert.Equal(t, "request id is 7", string(out))

		_, err = e.RunInput(ctx, nil, "lpr")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("reset", func(t *testing.T) {
		e := &RecordingExecutor{}
		_, _ = e.Run(context.Background(), "x")
		e.Reset()
		assert.Empty(t, e.Recorded())
	})
}

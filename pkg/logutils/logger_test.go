package logutils

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AppendsToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "csword.log")

	for _, msg := range []string{"first", "second"} {
		l, closer, err := New("info", file)
		require.NoError(t, err)
		l.Info().Msg(msg)
		l.Debug().Msg("filtered")
		closer()
	}

	f, err := os.Open(file)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	var messages []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		assert.Contains(t, entry, "time")
		messages = append(messages, entry["message"].(string))
	}
	assert.Equal(t, []string{"first", "second"}, messages)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, closer, err := New("loud", "")

	require.Error(t, err)
	assert.NotNil(t, closer)
}

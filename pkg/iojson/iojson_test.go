package iojson

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, map[string]int{"words": 3}))

	assert.Equal(t, "{\n  \"words\": 3\n}\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestWriteWith_EncodeFailure(t *testing.T) {
	var out, errOut bytes.Buffer

	err := WriteWith(&out, &errOut, map[string]any{"bad": make(chan int)})

	require.Error(t, err)
	assert.Empty(t, out.String())

	var e Error
	require.NoError(t, json.Unmarshal(errOut.Bytes(), &e))
	assert.Equal(t, "encode output", e.Message)
	assert.Contains(t, e.Data["error"], "unsupported type")
}

func TestMarshalError_Unencodable(t *testing.T) {
	got := MarshalError("boom", map[string]any{"fn": func() {}})

	var e Error
	require.NoError(t, json.Unmarshal([]byte(got), &e))
	assert.Equal(t, "boom", e.Message)
	assert.Contains(t, e.Data, "json_error")
}

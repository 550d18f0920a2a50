package resultwriter

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/cchexcode/bobr/internal/multiplex"
	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *multiplex.Result {
	return &multiplex.Result{
		Metadata: multiplex.Metadata{
			Started: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			Ended:   time.Date(2025, 6, 1, 12, 0, 5, 0, time.UTC),
		},
		Tasks: map[int]multiplex.TaskResult{
			0: {Stdout: "hello\n"},
			1: {Stdout: ""},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Write(buf, FormatJSON, sampleResult()))

	var decoded multiplex.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "hello\n", decoded.Tasks[0].Stdout)
	assert.True(t, decoded.Metadata.Ended.After(decoded.Metadata.Started))
}

func TestWriteYAML(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Write(buf, FormatYAML, sampleResult()))

	var decoded multiplex.Result
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "hello\n", decoded.Tasks[0].Stdout)
	assert.Contains(t, buf.String(), "metadata:")
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "toml", sampleResult())
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormats(t *testing.T) {
	for _, f := range Formats() {
		assert.True(t, Supported(f))
	}

	assert.False(t, Supported("xml"))
}

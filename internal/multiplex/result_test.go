package multiplex

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMetadataTimestamps(t *testing.T) {
	started := time.Date(2025, 6, 1, 12, 0, 0, 123456789, time.UTC)
	ended := started.Add(1500 * time.Millisecond)

	calls := 0
	stubs := gostub.Stub(&nowFunc, func() time.Time {
		calls++
		if calls == 1 {
			return started
		}

		return ended
	})
	defer stubs.Reset()

	m := New(shProgram, []string{"true"})

	res, err := m.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, started, res.Metadata.Started)
	assert.Equal(t, ended, res.Metadata.Ended)
}

func TestResultJSONRoundTrip(t *testing.T) {
	res := &Result{
		Metadata: Metadata{
			Started: time.Date(2025, 6, 1, 12, 0, 0, 123456789, time.UTC),
			Ended:   time.Date(2025, 6, 1, 12, 0, 1, 987654321, time.UTC),
		},
		Tasks: map[int]TaskResult{
			0: {Stdout: ""},
			1: {Stdout: "test\n"},
			2: {Stdout: "multi\nline\n"},
		},
	}

	first, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded Result
	require.NoError(t, json.Unmarshal(first, &decoded))

	second, err := json.Marshal(&decoded)
	require.NoError(t, err)

	// Serialize, deserialize, re-serialize: byte-for-byte identical, with no
	// precision loss in the timestamps.
	assert.Equal(t, first, second)
	assert.True(t, res.Metadata.Started.Equal(decoded.Metadata.Started))
	assert.True(t, res.Metadata.Ended.Equal(decoded.Metadata.Ended))
}

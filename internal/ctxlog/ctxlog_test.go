package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		logger *slog.Logger
	}{
		{name: "with custom logger", logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))},
		{name: "with nil logger should use default", logger: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := New(context.Background(), tt.logger)

			got := Logger(ctx)
			require.NotNil(t, got)

			if tt.logger != nil {
				assert.Same(t, tt.logger, got)
			} else {
				assert.Same(t, DefaultLogger, got)
			}
		})
	}
}

func TestLoggerFallsBackToDefault(t *testing.T) {
	got := Logger(context.Background())
	assert.Same(t, DefaultLogger, got)
}

func TestPrettyHandlerWritesRecord(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewPrettyHandler(&slog.HandlerOptions{Level: slog.LevelDebug}, buf))

	logger.Info("hello", "task", 3)

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "task")
	assert.Contains(t, out, "3")
}

func TestPrettyHandlerWithAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewPrettyHandler(&slog.HandlerOptions{Level: slog.LevelDebug}, buf))

	logger.With("component", "reporter").Warn("slow consumer")

	out := buf.String()
	assert.Contains(t, out, "slow consumer")
	assert.Contains(t, out, "component")
	assert.Contains(t, out, "reporter")
}

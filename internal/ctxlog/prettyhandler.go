package ctxlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/TylerBrock/colorjson"
	"github.com/cchexcode/bobr/internal/color"
)

var (
	// ErrMarshalAttrs is returned when record attributes cannot be marshaled.
	ErrMarshalAttrs = errors.New("failed to marshal log attributes")
	// ErrWriteRecord is returned when the formatted record cannot be written.
	ErrWriteRecord = errors.New("failed to write log record")
)

// TimeFormat is the format used for timestamps in log messages.
const TimeFormat = "[15:04:05.000]"

var attrFormatter = func() *colorjson.Formatter {
	f := colorjson.NewFormatter()
	f.Indent = 0
	f.DisabledColor = !color.Enabled()

	return f
}()

// PrettyHandler is a slog.Handler that writes human-readable, colorized log
// lines. Attributes are rendered as compact JSON via an inner JSON handler.
type PrettyHandler struct {
	inner  slog.Handler
	buf    *bytes.Buffer
	mu     *sync.Mutex
	writer io.Writer
}

// NewPrettyHandler creates a PrettyHandler writing to w.
func NewPrettyHandler(opts *slog.HandlerOptions, w io.Writer) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	buf := &bytes.Buffer{}

	return &PrettyHandler{
		inner: slog.NewJSONHandler(buf, &slog.HandlerOptions{
			Level:       opts.Level,
			AddSource:   opts.AddSource,
			ReplaceAttr: suppressDefaults(opts.ReplaceAttr),
		}),
		buf:    buf,
		mu:     &sync.Mutex{},
		writer: w,
	}
}

// Enabled implements slog.Handler.
func (h *PrettyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// WithAttrs implements slog.Handler.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &PrettyHandler{inner: h.inner.WithAttrs(attrs), buf: h.buf, mu: h.mu, writer: h.writer}
}

// WithGroup implements slog.Handler.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{inner: h.inner.WithGroup(name), buf: h.buf, mu: h.mu, writer: h.writer}
}

// Handle implements slog.Handler.
func (h *PrettyHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs, err := h.computeAttrs(ctx, r)
	if err != nil {
		return err
	}

	out := strings.Builder{}
	out.WriteString(color.Colorize(r.Time.Format(TimeFormat), color.Faint))
	out.WriteString(" ")
	out.WriteString(levelString(r.Level))
	out.WriteString(" ")
	out.WriteString(color.Colorize(r.Message, color.FgHiWhite))

	if len(attrs) > 0 {
		rendered, err := attrFormatter.Marshal(attrs)
		if err != nil {
			return errors.Join(ErrMarshalAttrs, err)
		}

		out.WriteString(" ")
		out.Write(rendered)
	}

	out.WriteString("\n")

	if _, err := io.WriteString(h.writer, out.String()); err != nil {
		return errors.Join(ErrWriteRecord, err)
	}

	return nil
}

// computeAttrs round-trips the record through the inner JSON handler to get a
// map of all attributes, including those added with WithAttrs and WithGroup.
func (h *PrettyHandler) computeAttrs(ctx context.Context, r slog.Record) (map[string]any, error) {
	h.mu.Lock()
	defer func() {
		h.buf.Reset()
		h.mu.Unlock()
	}()

	if err := h.inner.Handle(ctx, r); err != nil {
		return nil, fmt.Errorf("inner handler: %w", err)
	}

	var attrs map[string]any
	if err := json.Unmarshal(h.buf.Bytes(), &attrs); err != nil {
		return nil, errors.Join(ErrMarshalAttrs, err)
	}

	return attrs, nil
}

func levelString(level slog.Level) string {
	label := level.String() + ":"

	switch {
	case level <= slog.LevelDebug:
		return color.Colorize(label, color.FgWhite)
	case level <= slog.LevelInfo:
		return color.Colorize(label, color.FgCyan)
	case level < slog.LevelError:
		return color.Colorize(label, color.FgYellow)
	default:
		return color.Colorize(label, color.FgRed)
	}
}

func suppressDefaults(next func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey || a.Key == slog.LevelKey || a.Key == slog.MessageKey {
			return slog.Attr{}
		}

		if next == nil {
			return a
		}

		return next(groups, a)
	}
}

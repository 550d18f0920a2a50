// Package resultwriter serializes a finished run for consumption by other
// tools. JSON output is colorized when it goes straight to a terminal.
package resultwriter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/TylerBrock/colorjson"
	"github.com/cchexcode/bobr/internal/multiplex"
	"github.com/goccy/go-yaml"
	"golang.org/x/term"
)

const (
	// FormatJSON identifies JSON output.
	FormatJSON = "json"
	// FormatYAML identifies YAML output.
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned when the requested format is not supported.
var ErrUnknownFormat = errors.New("unknown result format")

// Formats returns the supported format names.
func Formats() []string {
	return []string{FormatJSON, FormatYAML}
}

// Supported reports whether format names a supported output format.
func Supported(format string) bool {
	return format == FormatJSON || format == FormatYAML
}

// Write serializes res to w in the given format.
func Write(w io.Writer, format string, res *multiplex.Result) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, res)
	case FormatYAML:
		return writeYAML(w, res)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeJSON(w io.Writer, res *multiplex.Result) error {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return writeColorJSON(w, res)
	}

	enc := json.NewEncoder(w)

	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("failed to encode result as JSON: %w", err)
	}

	return nil
}

// writeColorJSON pretty-prints the result with syntax coloring. colorjson
// only understands generic values, so the result is round-tripped through
// encoding/json first.
func writeColorJSON(w io.Writer, res *multiplex.Result) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to encode result as JSON: %w", err)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("failed to decode result for colorization: %w", err)
	}

	formatter := colorjson.NewFormatter()
	formatter.Indent = 2

	colored, err := formatter.Marshal(generic)
	if err != nil {
		return fmt.Errorf("failed to colorize result: %w", err)
	}

	if _, err := w.Write(append(colored, '\n')); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	return nil
}

func writeYAML(w io.Writer, res *multiplex.Result) error {
	out, err := yaml.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to encode result as YAML: %w", err)
	}

	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	return nil
}

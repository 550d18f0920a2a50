package commandfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cchexcode/bobr/internal/ctxlog"
	"github.com/hashicorp/go-getter/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

var (
	// ErrUnsupportedFormat is returned when no codec is registered for a
	// file's extension.
	ErrUnsupportedFormat = errors.New("unsupported command file format")
	// ErrReadFile is returned when a command file cannot be read or fetched.
	ErrReadFile = errors.New("failed to read command file")
	// ErrParseFile is returned when a command file cannot be parsed.
	ErrParseFile = errors.New("failed to parse command file")
)

// FsFactory returns the filesystem used for local command files. It is a
// package variable so tests can substitute an in-memory filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Load reads one command-list file and returns its commands in file order.
func Load(ctx context.Context, path string) ([]string, error) {
	codec, ok := lookup(extensionOf(path))
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			ErrUnsupportedFormat, path, strings.Join(Extensions(), ", "))
	}

	data, err := fetch(ctx, path)
	if err != nil {
		return nil, errors.Join(ErrReadFile, err)
	}

	doc, err := codec(data)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrParseFile, path, err)
	}

	commands := make([]string, 0, len(doc.Commands))
	for _, entry := range doc.Commands {
		commands = append(commands, entry.Command)
	}

	ctxlog.Debug(ctx, "loaded command file", "path", path, "commands", len(commands))

	return commands, nil
}

// LoadAll loads every file in the given order and concatenates their
// commands. All files are attempted; per-file errors are aggregated so the
// caller sees every problem at once.
func LoadAll(ctx context.Context, paths []string) ([]string, error) {
	var (
		commands []string
		merr     *multierror.Error
	)

	for _, path := range paths {
		loaded, err := Load(ctx, path)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}

		commands = append(commands, loaded...)
	}

	return commands, merr.ErrorOrNil()
}

// fetch returns the file's content. Anything that looks like a URL goes
// through go-getter into a temporary directory; plain paths are read from the
// configured filesystem.
func fetch(ctx context.Context, path string) ([]byte, error) {
	if !strings.Contains(path, "://") {
		return afero.ReadFile(FsFactory(), path)
	}

	tmpDir, err := os.MkdirTemp("", "bobr-getter-*")
	if err != nil {
		return nil, err
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	dst := filepath.Join(tmpDir, filepath.Base(strippedQuery(path)))

	client := getter.Client{
		DisableSymlinks: true,
	}

	if _, err := client.Get(ctx, &getter.Request{
		Src:     path,
		Dst:     dst,
		GetMode: getter.ModeFile,
	}); err != nil {
		return nil, err
	}

	return os.ReadFile(dst)
}

// extensionOf returns the file extension, ignoring any go-getter query
// string, e.g. "commands.yaml?ref=v1" maps to ".yaml".
func extensionOf(path string) string {
	return filepath.Ext(strippedQuery(path))
}

func strippedQuery(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}

	return path
}

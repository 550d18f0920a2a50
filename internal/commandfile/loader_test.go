package commandfile

import (
	"context"
	"testing"

	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memFsWithFiles(t *testing.T, files map[string]string) *gostub.Stubs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	return gostub.Stub(&FsFactory, func() afero.Fs { return fs })
}

func TestLoadYAML(t *testing.T) {
	stubs := memFsWithFiles(t, map[string]string{
		"commands.yaml": "commands:\n  - command: echo one\n  - command: echo two\n",
	})
	defer stubs.Reset()

	commands, err := Load(context.Background(), "commands.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"echo one", "echo two"}, commands)
}

func TestLoadJSON(t *testing.T) {
	stubs := memFsWithFiles(t, map[string]string{
		"commands.json": `{"commands":[{"command":"sleep 1"},{"command":"echo test"}]}`,
	})
	defer stubs.Reset()

	commands, err := Load(context.Background(), "commands.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"sleep 1", "echo test"}, commands)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	stubs := memFsWithFiles(t, map[string]string{"commands.txt": "echo hi\n"})
	defer stubs.Reset()

	_, err := Load(context.Background(), "commands.txt")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadMissingFile(t *testing.T) {
	stubs := memFsWithFiles(t, nil)
	defer stubs.Reset()

	_, err := Load(context.Background(), "absent.yaml")
	require.ErrorIs(t, err, ErrReadFile)
}

func TestLoadParseError(t *testing.T) {
	stubs := memFsWithFiles(t, map[string]string{
		"broken.json": `{"commands": [`,
	})
	defer stubs.Reset()

	_, err := Load(context.Background(), "broken.json")
	require.ErrorIs(t, err, ErrParseFile)
}

func TestLoadAllPreservesOrder(t *testing.T) {
	stubs := memFsWithFiles(t, map[string]string{
		"a.yaml": "commands:\n  - command: first\n  - command: second\n",
		"b.json": `{"commands":[{"command":"third"}]}`,
	})
	defer stubs.Reset()

	commands, err := LoadAll(context.Background(), []string{"a.yaml", "b.json"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, commands)
}

func TestLoadAllAggregatesErrors(t *testing.T) {
	stubs := memFsWithFiles(t, map[string]string{
		"ok.yaml":  "commands:\n  - command: fine\n",
		"bad.json": `not json`,
	})
	defer stubs.Reset()

	commands, err := LoadAll(context.Background(), []string{"ok.yaml", "bad.json", "absent.yml"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParseFile)
	assert.ErrorIs(t, err, ErrReadFile)

	// Loadable files still contribute their commands.
	assert.Equal(t, []string{"fine"}, commands)
}

func TestExtensionOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "commands.yaml", want: ".yaml"},
		{path: "dir/commands.yml", want: ".yml"},
		{path: "git::https://example.com/repo//commands.json?ref=v1", want: ".json"},
		{path: "noext", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, extensionOf(tt.path))
		})
	}
}

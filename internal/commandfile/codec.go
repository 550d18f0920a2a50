package commandfile

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/goccy/go-yaml"
)

// Document is the schema shared by every command-list format.
type Document struct {
	Commands []Entry `yaml:"commands" json:"commands"`
}

// Entry is one command record in a command-list file.
type Entry struct {
	Command string `yaml:"command" json:"command"`
}

// Codec parses raw file content into a Document.
type Codec func(data []byte) (*Document, error)

var (
	codecMu sync.RWMutex
	codecs  = map[string]Codec{}
)

// Register associates a file extension (including the leading dot) with a
// codec. Registering an extension twice panics; codecs are wired up in
// package init and a duplicate is a programming error.
func Register(ext string, codec Codec) {
	codecMu.Lock()
	defer codecMu.Unlock()

	if _, ok := codecs[ext]; ok {
		panic(fmt.Sprintf("commandfile: codec already registered for %q", ext))
	}

	codecs[ext] = codec
}

// Extensions returns the registered extensions, sorted.
func Extensions() []string {
	codecMu.RLock()
	defer codecMu.RUnlock()

	exts := make([]string, 0, len(codecs))
	for ext := range codecs {
		exts = append(exts, ext)
	}

	sort.Strings(exts)

	return exts
}

func lookup(ext string) (Codec, bool) {
	codecMu.RLock()
	defer codecMu.RUnlock()

	codec, ok := codecs[ext]

	return codec, ok
}

func init() {
	Register(".yaml", decodeYAML)
	Register(".yml", decodeYAML)
	Register(".json", decodeJSON)
}

func decodeYAML(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}

	return &doc, nil
}

func decodeJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}

	return &doc, nil
}

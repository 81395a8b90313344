// Package persistence reads item snapshots supplied at process start.
package persistence

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gcbaptista/record-search/model"
)

// Format is the encoding of a snapshot file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the snapshot format from the file extension. Anything that
// is not .yaml or .yml is read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadSnapshot reads the item array stored at path.
// If the file does not exist the returned error wraps os.ErrNotExist.
func LoadSnapshot(path string) ([]model.Item, error) {
	file, err := os.Open(path) // #nosec G304 -- path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	items, err := ReadSnapshot(file, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	return items, nil
}

// ReadSnapshot decodes an item array from r. An empty document yields an empty slice.
func ReadSnapshot(r io.Reader, format Format) ([]model.Item, error) {
	items := []model.Item{}
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&items); err != nil && err != io.EOF {
			return nil, fmt.Errorf("yaml decode: %w", err)
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&items); err != nil && err != io.EOF {
			return nil, fmt.Errorf("json decode: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown snapshot format %q", format)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

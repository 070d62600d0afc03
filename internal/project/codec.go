package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for snapshot files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported snapshot format")

// Format is a snapshot file encoding.
type Format string

// Snapshot formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// DecodeDocument parses snapshot bytes into a generic document.
func DecodeDocument(data []byte, f Format) (map[string]any, error) {
	doc := map[string]any{}
	var err error
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing %s snapshot: %w", f, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// FromDocument converts a generic document into a snapshot. Missing fields
// keep the blank snapshot's values and preset groups are re-applied.
func FromDocument(doc map[string]any) (Input, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return Input{}, fmt.Errorf("error encoding snapshot document: %w", err)
	}
	in := New()
	if err := json.Unmarshal(data, &in); err != nil {
		return Input{}, fmt.Errorf("error decoding snapshot: %w", err)
	}
	return Normalize(in), nil
}

// Decode parses snapshot bytes of the given format.
func Decode(data []byte, f Format) (Input, error) {
	doc, err := DecodeDocument(data, f)
	if err != nil {
		return Input{}, err
	}
	return FromDocument(doc)
}

// Encode renders a snapshot in the given format.
func Encode(in Input, f Format) ([]byte, error) {
	if f == FormatJSON {
		data, err := json.MarshalIndent(in, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("error encoding snapshot: %w", err)
		}
		return append(data, '\n'), nil
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("error encoding snapshot: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("error encoding snapshot: %w", err)
	}
	switch f {
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatTOML:
		return toml.Marshal(doc)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

// ReadDocument reads a snapshot file into a generic document, for schema
// validation before conversion.
func ReadDocument(path string) (map[string]any, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading snapshot %s: %w", path, err)
	}
	return DecodeDocument(data, f)
}

// Load reads a snapshot file.
func Load(path string) (Input, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return Input{}, err
	}
	in, err := FromDocument(doc)
	if err != nil {
		return Input{}, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

// Save writes a snapshot file, choosing the format from the extension.
func Save(path string, in Input) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Encode(in, f)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing snapshot %s: %w", path, err)
	}
	return nil
}

package addon

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"go.yaml.in/yaml/v3"
)

var errTrailingData = errors.New("unmarshaling JSON: trailing data after top-level object")

// Format is the encoding of an addon manifest.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatOf derives the manifest format from a file name.
func FormatOf(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes a manifest in the given format.
func Parse(data []byte, format Format) (*Descriptor, error) {
	var d Descriptor
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("unmarshaling YAML: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&d); err != nil {
			return nil, fmt.Errorf("unmarshaling JSON: %w", err)
		}
		if _, err := dec.Token(); err != io.EOF {
			return nil, errTrailingData
		}
	}
	return &d, nil
}

// ParseFile reads and decodes the manifest at name within fsys. The format
// follows the file extension.
func ParseFile(fsys fs.FS, name string) (*Descriptor, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading addon manifest %s: %w", name, err)
	}
	d, err := Parse(data, FormatOf(name))
	if err != nil {
		return nil, fmt.Errorf("parsing addon manifest %s: %w", name, err)
	}
	return d, nil
}

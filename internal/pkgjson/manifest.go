package pkgjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// FileName is the project manifest every generated app carries.
const FileName = "package.json"

// ErrManifestRead is wrapped by every failure to load a project manifest,
// whether the file is absent or not a single valid JSON object.
var ErrManifestRead = errors.New("cannot read project manifest")

type field struct {
	key   string
	value json.RawMessage
}

// Manifest is a package.json document. Top-level key order and fields the
// scaffolder does not understand are preserved across a read/write cycle.
type Manifest struct {
	fields []field
}

// Parse decodes a package.json document.
func Parse(data []byte) (*Manifest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestRead, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: top level must be an object", ErrManifestRead)
	}

	m := &Manifest{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrManifestRead, err)
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrManifestRead, key, err)
		}
		m.setRaw(key, raw)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestRead, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after top-level object", ErrManifestRead)
	}

	return m, nil
}

// Read loads the manifest at path from fsys.
func Read(fsys afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrManifestRead, path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Write saves the manifest to path with two-space indentation.
func (m *Manifest) Write(fsys afero.Fs, path string) error {
	data, err := m.Bytes()
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fsys, path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Keys returns the top-level keys in document order.
func (m *Manifest) Keys() []string {
	keys := make([]string, len(m.fields))
	for i, f := range m.fields {
		keys[i] = f.key
	}
	return keys
}

// Raw returns the encoded value of a top-level key.
func (m *Manifest) Raw(key string) (json.RawMessage, bool) {
	for _, f := range m.fields {
		if f.key == key {
			return f.value, true
		}
	}
	return nil, false
}

// Set encodes v and stores it under key, keeping the key's position if it
// already exists.
func (m *Manifest) Set(key string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	m.setRaw(key, bytes.TrimRight(buf.Bytes(), "\n"))
	return nil
}

// Name returns the "name" field, or "" when absent or not a string.
func (m *Manifest) Name() string {
	raw, ok := m.Raw("name")
	if !ok {
		return ""
	}
	var name string
	_ = json.Unmarshal(raw, &name)
	return name
}

// Dependencies returns the "dependencies" block.
func (m *Manifest) Dependencies() (Deps, error) { return m.deps("dependencies") }

// DevDependencies returns the "devDependencies" block.
func (m *Manifest) DevDependencies() (Deps, error) { return m.deps("devDependencies") }

// SetDependencies replaces the "dependencies" block.
func (m *Manifest) SetDependencies(d Deps) error { return m.Set("dependencies", d) }

// SetDevDependencies replaces the "devDependencies" block.
func (m *Manifest) SetDevDependencies(d Deps) error { return m.Set("devDependencies", d) }

// MergeDependencies merges deps and devDeps over the existing blocks.
// Both blocks are always written, matching how npm tooling expects them.
func (m *Manifest) MergeDependencies(deps, devDeps Deps) error {
	cur, err := m.Dependencies()
	if err != nil {
		return err
	}
	curDev, err := m.DevDependencies()
	if err != nil {
		return err
	}
	if err := m.SetDependencies(Merge(cur, deps)); err != nil {
		return err
	}
	return m.SetDevDependencies(Merge(curDev, devDeps))
}

// Bytes renders the manifest with two-space indentation and a trailing newline.
func (m *Manifest) Bytes() ([]byte, error) {
	if len(m.fields) == 0 {
		return []byte("{}\n"), nil
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, f := range m.fields {
		k, err := quote(f.key)
		if err != nil {
			return nil, err
		}
		buf.WriteString("  ")
		buf.Write(k)
		buf.WriteString(": ")
		if err := json.Indent(&buf, f.value, "  ", "  "); err != nil {
			return nil, fmt.Errorf("formatting %q: %w", f.key, err)
		}
		if i < len(m.fields)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func (m *Manifest) deps(key string) (Deps, error) {
	var d Deps
	raw, ok := m.Raw(key)
	if !ok {
		return d, nil
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		return d, fmt.Errorf("%w: %s: %v", ErrManifestRead, key, err)
	}
	return d, nil
}

func (m *Manifest) setRaw(key string, raw json.RawMessage) {
	for i := range m.fields {
		if m.fields[i].key == key {
			m.fields[i].value = raw
			return
		}
	}
	m.fields = append(m.fields, field{key: key, value: raw})
}

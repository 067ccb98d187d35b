package pkgjson

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Dep is a single name → version range entry.
type Dep struct {
	Name    string
	Version string
}

// Deps is a string-keyed map that remembers insertion order, the way a
// package.json dependency block does. The zero value is an empty map.
type Deps struct {
	entries []Dep
}

// NewDeps builds a Deps from name/version pairs in the given order.
// Later duplicates overwrite earlier ones in place.
func NewDeps(pairs ...Dep) Deps {
	var d Deps
	for _, p := range pairs {
		d.Set(p.Name, p.Version)
	}
	return d
}

// Len returns the number of entries.
func (d Deps) Len() int { return len(d.entries) }

// Entries returns a copy of the entries in order.
func (d Deps) Entries() []Dep {
	out := make([]Dep, len(d.entries))
	copy(out, d.entries)
	return out
}

// Names returns the keys in order.
func (d Deps) Names() []string {
	names := make([]string, len(d.entries))
	for i, e := range d.entries {
		names[i] = e.Name
	}
	return names
}

// Get returns the version for name.
func (d Deps) Get(name string) (string, bool) {
	for _, e := range d.entries {
		if e.Name == name {
			return e.Version, true
		}
	}
	return "", false
}

// Set overwrites an existing entry in place or appends a new one.
func (d *Deps) Set(name, version string) {
	for i := range d.entries {
		if d.entries[i].Name == name {
			d.entries[i].Version = version
			return
		}
	}
	d.entries = append(d.entries, Dep{Name: name, Version: version})
}

// Merge returns base with every entry of overlay applied on top.
// Last writer wins: a key present in both takes overlay's version but keeps
// its position from base; keys only in overlay are appended in overlay order.
// Neither argument is modified.
func Merge(base, overlay Deps) Deps {
	out := Deps{entries: base.Entries()}
	for _, e := range overlay.entries {
		out.Set(e.Name, e.Version)
	}
	return out
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (d Deps) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range d.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := quote(e.Name)
		if err != nil {
			return nil, err
		}
		v, err := quote(e.Version)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of strings, keeping key order.
// null decodes to an empty map.
func (d *Deps) UnmarshalJSON(data []byte) error {
	d.entries = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("dependencies must be an object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var version string
		if err := dec.Decode(&version); err != nil {
			return fmt.Errorf("dependency %q: version must be a string: %w", key, err)
		}
		d.Set(key, version)
	}

	_, err = dec.Token() // closing brace
	return err
}

// UnmarshalYAML decodes a YAML mapping of strings, keeping key order.
func (d *Deps) UnmarshalYAML(node *yaml.Node) error {
	d.entries = nil
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: dependencies must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: dependency %q: version must be a string", v.Line, k.Value)
		}
		d.Set(k.Value, v.Value)
	}
	return nil
}

// quote JSON-encodes s without HTML escaping.
func quote(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

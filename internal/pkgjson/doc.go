// Package pkgjson reads and writes the generated project's package.json.
// Documents keep their key order, and dependency blocks are ordered maps
// merged with last-writer-wins semantics.
package pkgjson

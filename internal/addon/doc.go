// Package addon loads and applies addon manifests. An addon is a declarative
// bundle of dependency additions, new folders and files, and line-indexed
// edits layered on top of the base template. Manifests are discovered in
// per-addon directories, validated against an embedded JSON Schema, and
// applied to a project through an afero filesystem.
package addon

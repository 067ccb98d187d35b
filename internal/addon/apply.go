package addon

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/expressr/create-expressr-app/internal/apperr"
	"github.com/expressr/create-expressr-app/internal/pkgjson"
	"github.com/spf13/afero"
)

// ErrUnsafePath is returned for manifest paths that are absolute or climb
// out of the project root.
var ErrUnsafePath = errors.New("path escapes the project root")

// Applier applies addon descriptors to a project directory.
type Applier struct {
	fs     afero.Fs
	out    io.Writer
	logger *slog.Logger
}

// NewApplier creates an Applier writing through fsys. Progress lines go to
// out; diagnostics go to logger. Either may be nil.
func NewApplier(fsys afero.Fs, out io.Writer, logger *slog.Logger) *Applier {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Applier{fs: fsys, out: out, logger: logger}
}

// Apply merges the addon's dependencies into the project's package.json,
// creates its folders and files, then applies its file changes in order.
// The first failure aborts; steps already applied stay applied.
func (a *Applier) Apply(projectRoot string, d *Descriptor) error {
	log := a.logger.With("addon", d.DisplayName())

	manifestPath := filepath.Join(projectRoot, pkgjson.FileName)
	m, err := pkgjson.Read(a.fs, manifestPath)
	if err != nil {
		return apperr.FileSystem("reading project manifest", manifestPath, err)
	}
	if err := m.MergeDependencies(d.Dependencies, d.DevDependencies); err != nil {
		return apperr.FileSystem("merging dependencies into", manifestPath, err)
	}
	if err := m.Write(a.fs, manifestPath); err != nil {
		return apperr.FileSystem("writing project manifest", manifestPath, err)
	}
	log.Debug("merged dependencies",
		"dependencies", d.Dependencies.Len(),
		"devDependencies", d.DevDependencies.Len())

	for _, folder := range d.NewFolders {
		dir, err := resolve(projectRoot, folder.Path)
		if err != nil {
			return err
		}
		if err := a.fs.MkdirAll(dir, 0755); err != nil {
			return apperr.FileSystem("creating folder", dir, err)
		}
		log.Debug("created folder", "path", dir)
	}

	for _, file := range d.NewFiles {
		target, err := resolve(projectRoot, file.Path)
		if err != nil {
			return err
		}
		if err := a.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return apperr.FileSystem("creating folder", filepath.Dir(target), err)
		}
		if err := afero.WriteFile(a.fs, target, []byte(file.Content), 0644); err != nil {
			return apperr.FileSystem("writing file", target, err)
		}
		log.Debug("wrote file", "path", target, "bytes", len(file.Content))
	}

	editors := make(map[string]*lineEditor)
	for i, change := range d.FileChanges {
		target, err := resolve(projectRoot, change.Path)
		if err != nil {
			return err
		}

		ed, ok := editors[target]
		if !ok {
			content, err := a.readOrEmpty(target)
			if err != nil {
				return err
			}
			ed = newLineEditor(content)
			editors[target] = ed
		}

		if err := ed.apply(change); err != nil {
			return fmt.Errorf("addon %s: file change %d on %s: %w", d.DisplayName(), i+1, change.Path, err)
		}
		if err := a.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return apperr.FileSystem("creating folder", filepath.Dir(target), err)
		}
		if err := afero.WriteFile(a.fs, target, []byte(ed.String()), 0644); err != nil {
			return apperr.FileSystem("writing file", target, err)
		}
		log.Debug("applied file change", "path", target, "line", change.Line, "type", string(change.EffectiveType()))
	}

	for _, folder := range d.NewFolders {
		fmt.Fprintf(a.out, "    ↳ Created folder: %s\n", folder.Path)
	}
	for _, file := range d.NewFiles {
		fmt.Fprintf(a.out, "    ↳ Created file: %s\n", file.Path)
	}

	return nil
}

// readOrEmpty returns the file's content, or "" when it does not exist.
func (a *Applier) readOrEmpty(path string) (string, error) {
	data, err := afero.ReadFile(a.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", apperr.FileSystem("reading file", path, err)
	}
	return string(data), nil
}

// resolve joins a manifest path onto root, rejecting paths that leave it.
func resolve(root, rel string) (string, error) {
	slashed := filepath.ToSlash(rel)
	if rel == "" || filepath.IsAbs(rel) || strings.HasPrefix(slashed, "/") {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, rel)
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, rel)
	}
	return filepath.Join(root, clean), nil
}

package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/spf13/afero"
)

// excludedNames are skipped at every level of a copied tree.
var excludedNames = map[string]bool{
	"node_modules": true,
	".git":         true,
	".DS_Store":    true,
}

// CopyTree recursively copies srcRoot within src into dstRoot on dst.
// The destination is created first. A missing source root is not an error;
// the copy is simply empty. Existing destination files are overwritten.
// Only directories and regular files are copied.
func CopyTree(src fs.FS, srcRoot string, dst afero.Fs, dstRoot string) error {
	if err := dst.MkdirAll(dstRoot, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dstRoot, err)
	}

	info, err := fs.Stat(src, srcRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading template %s: %w", srcRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("template %s is not a directory", srcRoot)
	}

	return copyDir(src, srcRoot, dst, dstRoot)
}

func copyDir(src fs.FS, srcDir string, dst afero.Fs, dstDir string) error {
	entries, err := fs.ReadDir(src, srcDir)
	if err != nil {
		return fmt.Errorf("reading template %s: %w", srcDir, err)
	}

	for _, entry := range entries {
		if shouldExclude(entry.Name()) {
			continue
		}

		srcPath := path.Join(srcDir, entry.Name())
		dstPath := filepath.Join(dstDir, entry.Name())

		switch {
		case entry.IsDir():
			if err := dst.MkdirAll(dstPath, 0755); err != nil {
				return fmt.Errorf("creating %s: %w", dstPath, err)
			}
			if err := copyDir(src, srcPath, dst, dstPath); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			if err := CopyFile(src, srcPath, dst, dstPath); err != nil {
				return err
			}
		}
		// Symlinks and other special files are skipped.
	}

	return nil
}

// CopyFile copies a single file from src to dst with mode 0644.
func CopyFile(src fs.FS, srcPath string, dst afero.Fs, dstPath string) error {
	data, err := fs.ReadFile(src, srcPath)
	if err != nil {
		return fmt.Errorf("reading template %s: %w", srcPath, err)
	}
	if err := afero.WriteFile(dst, dstPath, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", dstPath, err)
	}
	return nil
}

// shouldExclude returns true if the name should be excluded during copy.
func shouldExclude(name string) bool {
	return excludedNames[name]
}

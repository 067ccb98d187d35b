package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// IgnoredPaths are kept out of version control in every generated project.
var IgnoredPaths = []string{"node_modules/", "dist/", ".env"}

// AddToGitignore appends each line missing from projectRoot/.gitignore,
// creating the file when needed. Lines already present are left alone, so
// running it again over an existing project is a no-op.
func AddToGitignore(fsys afero.Fs, projectRoot string, lines ...string) error {
	gitignorePath := filepath.Join(projectRoot, ".gitignore")

	content, err := afero.ReadFile(fsys, gitignorePath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading .gitignore: %w", err)
	}

	present := make(map[string]bool)
	for _, l := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(l)] = true
	}

	var missing []string
	for _, l := range lines {
		if !present[l] {
			present[l] = true
			missing = append(missing, l)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	// Ensure there's a newline before our addition.
	out := string(content)
	if len(out) > 0 && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	out += strings.Join(missing, "\n") + "\n"

	if err := afero.WriteFile(fsys, gitignorePath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	return nil
}

package addon

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// Source is a root directory holding one subdirectory per addon.
type Source struct {
	Name string // e.g. "builtin", "user"
	FS   fs.FS
}

// Discover scans the top level of fsys for addon directories. A directory
// counts as an addon when it holds one of ConfigFileNames; other directories
// and plain files are skipped. Results follow directory name order. A root
// that does not exist yields no addons and no error.
func Discover(fsys fs.FS, source string) ([]*Descriptor, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading addons directory: %w", err)
	}

	var result []*Descriptor
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		configPath, ok, err := findConfig(fsys, entry.Name())
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		d, err := ParseFile(fsys, configPath)
		if err != nil {
			return nil, err
		}
		d.Folder = entry.Name()
		d.Source = source
		result = append(result, d)
	}

	return result, nil
}

// DiscoverAll discovers addons from every source in order and concatenates
// the results. Names are not deduplicated; selection is positional.
func DiscoverAll(sources []Source) ([]*Descriptor, error) {
	var all []*Descriptor
	for _, src := range sources {
		if src.FS == nil {
			continue
		}
		found, err := Discover(src.FS, src.Name)
		if err != nil {
			return nil, fmt.Errorf("loading %s addons: %w", src.Name, err)
		}
		all = append(all, found...)
	}
	return all, nil
}

// findConfig returns the first config file present in dir.
func findConfig(fsys fs.FS, dir string) (string, bool, error) {
	for _, name := range ConfigFileNames {
		p := path.Join(dir, name)
		info, err := fs.Stat(fsys, p)
		if err == nil {
			if info.IsDir() {
				continue
			}
			return p, true, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", false, fmt.Errorf("checking %s: %w", p, err)
		}
	}
	return "", false, nil
}

// FindByName returns the first addon whose name or folder equals name.
func FindByName(addons []*Descriptor, name string) (*Descriptor, bool) {
	for _, d := range addons {
		if d.Name == name || d.Folder == name {
			return d, true
		}
	}
	return nil, false
}

package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/expressr/create-expressr-app/internal/addon"
	"github.com/expressr/create-expressr-app/internal/apperr"
	"github.com/expressr/create-expressr-app/internal/installer"
	"github.com/expressr/create-expressr-app/internal/pkgjson"
	"github.com/expressr/create-expressr-app/internal/prompt"
	"github.com/expressr/create-expressr-app/internal/scaffold"
	"github.com/spf13/afero"
)

// Directories are created under the project root before the template is
// copied.
var Directories = []string{"src", "src/routes", "src/utils"}

// Options are the answers already known before prompting. Zero values are
// asked for interactively.
type Options struct {
	Name string
	Port int
	// Addons selects addons by name or folder. When nil the user is asked;
	// an empty non-nil slice selects none.
	Addons []string
	// Force allows creating into an existing non-empty directory.
	Force bool
}

// Result describes a created project.
type Result struct {
	Name   string
	Dir    string
	Port   int
	Addons []*addon.Descriptor
}

// Creator runs the create sequence against a file system. The project is
// created in WorkDir. A nil Prompter makes every missing answer an error; a
// nil Installer skips dependency installation.
//
// LoadAddons, when set, is called once the name and port are known and its
// result replaces Addons.
type Creator struct {
	FS         afero.Fs
	Template   fs.FS
	Addons     []*addon.Descriptor
	LoadAddons func() ([]*addon.Descriptor, error)
	Prompter   *prompt.Prompter
	Installer  installer.Installer
	Out        io.Writer
	Logger     *slog.Logger
	WorkDir    string
}

// Create runs the whole sequence. Every failure aborts immediately and
// leaves whatever was already written in place.
func (c *Creator) Create(ctx context.Context, opts Options) (*Result, error) {
	out := c.Out
	if out == nil {
		out = io.Discard
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	name, err := c.resolveName(opts.Name)
	if err != nil {
		return nil, err
	}
	port, err := c.resolvePort(opts.Port)
	if err != nil {
		return nil, err
	}
	selected, err := c.resolveAddons(opts.Addons)
	if err != nil {
		return nil, err
	}

	root := filepath.Join(c.WorkDir, name)
	logger = logger.With("project", name, "dir", root)
	if err := c.checkTarget(root, opts.Force); err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "\n✨ Creating a new Expressr app in %s\n", root)
	for _, dir := range Directories {
		p := filepath.Join(root, filepath.FromSlash(dir))
		if err := c.FS.MkdirAll(p, 0755); err != nil {
			return nil, apperr.FileSystem("creating directory", p, err)
		}
	}

	fmt.Fprintln(out, "📁 Copying template files...")
	if err := scaffold.CopyTree(c.Template, scaffold.SourceDir, c.FS, filepath.Join(root, scaffold.SourceDir)); err != nil {
		return nil, apperr.FileSystem("copying template", scaffold.SourceDir, err)
	}
	for _, file := range scaffold.RootFiles {
		if _, err := fs.Stat(c.Template, file); err != nil {
			return nil, apperr.Integrity("missing template file", file, err)
		}
		if err := scaffold.CopyFile(c.Template, file, c.FS, filepath.Join(root, file)); err != nil {
			return nil, apperr.FileSystem("copying template file", file, err)
		}
	}
	logger.Debug("copied template")

	envPath := filepath.Join(root, ".env")
	if err := afero.WriteFile(c.FS, envPath, []byte(scaffold.EnvFile(port)), 0644); err != nil {
		return nil, apperr.FileSystem("writing", envPath, err)
	}
	fmt.Fprintf(out, "    ↳ Created .env with %s=%d\n", scaffold.PortEnvVar, port)
	if err := scaffold.AddToGitignore(c.FS, root, scaffold.IgnoredPaths...); err != nil {
		return nil, apperr.FileSystem("updating", filepath.Join(root, ".gitignore"), err)
	}

	if err := c.patchEntry(root); err != nil {
		return nil, err
	}
	if err := c.addDotenv(root); err != nil {
		return nil, err
	}

	if len(selected) > 0 {
		fmt.Fprintln(out, "\n🔧 Installing selected addons...")
		applier := addon.NewApplier(c.FS, out, logger)
		for _, d := range selected {
			fmt.Fprintf(out, "  • Installing %s...\n", d.DisplayName())
			if err := applier.Apply(root, d); err != nil {
				return nil, fmt.Errorf("applying addon %s: %w", d.DisplayName(), err)
			}
		}
	}

	if c.Installer != nil {
		fmt.Fprintln(out, "\n📦 Installing dependencies...")
		if err := c.Installer.Install(ctx, root); err != nil {
			return nil, err
		}
		logger.Debug("installed dependencies")
	}

	return &Result{Name: name, Dir: root, Port: port, Addons: selected}, nil
}

func (c *Creator) resolveName(name string) (string, error) {
	if name == "" {
		if c.Prompter == nil {
			return "", apperr.UserInput("project name is required")
		}
		return c.Prompter.ProjectName()
	}
	if err := prompt.ValidateName(name); err != nil {
		return "", err
	}
	return name, nil
}

func (c *Creator) resolvePort(port int) (int, error) {
	if port != 0 {
		if port < 0 || port > prompt.MaxPort {
			return 0, apperr.UserInput("port %d out of range 1-%d", port, prompt.MaxPort)
		}
		return port, nil
	}
	if c.Prompter == nil {
		return 0, apperr.UserInput("port is required")
	}
	return c.Prompter.Port()
}

func (c *Creator) resolveAddons(names []string) ([]*addon.Descriptor, error) {
	available := c.Addons
	if c.LoadAddons != nil {
		loaded, err := c.LoadAddons()
		if err != nil {
			return nil, err
		}
		available = loaded
	}

	if names == nil {
		if c.Prompter == nil {
			return nil, nil
		}
		return c.Prompter.Addons(available)
	}

	var selected []*addon.Descriptor
	seen := make(map[*addon.Descriptor]bool)
	for _, name := range names {
		d, ok := addon.FindByName(available, name)
		if !ok {
			return nil, apperr.UserInput("unknown addon %q", name)
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		selected = append(selected, d)
	}
	return selected, nil
}

// checkTarget refuses a non-empty existing directory unless force is set.
func (c *Creator) checkTarget(root string, force bool) error {
	if force {
		return nil
	}
	entries, err := afero.ReadDir(c.FS, root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return apperr.FileSystem("reading", root, err)
	}
	if len(entries) > 0 {
		return apperr.UserInput("directory %s already exists and is not empty; use --force to write into it", root)
	}
	return nil
}

// patchEntry rewrites src/index.ts to read its port from the environment.
// A template without an entry file is left alone.
func (c *Creator) patchEntry(root string) error {
	indexPath := filepath.Join(root, filepath.FromSlash(path.Join(scaffold.SourceDir, "index.ts")))
	data, err := afero.ReadFile(c.FS, indexPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return apperr.FileSystem("reading", indexPath, err)
	}
	if err := afero.WriteFile(c.FS, indexPath, []byte(scaffold.PatchEntry(string(data))), 0644); err != nil {
		return apperr.FileSystem("writing", indexPath, err)
	}
	return nil
}

func (c *Creator) addDotenv(root string) error {
	manifestPath := filepath.Join(root, pkgjson.FileName)
	m, err := pkgjson.Read(c.FS, manifestPath)
	if err != nil {
		return apperr.FileSystem("reading project manifest", manifestPath, err)
	}
	deps, err := m.Dependencies()
	if err != nil {
		return apperr.FileSystem("reading project manifest", manifestPath, err)
	}
	deps.Set("dotenv", scaffold.DotenvVersion)
	if err := m.SetDependencies(deps); err != nil {
		return fmt.Errorf("updating dependencies: %w", err)
	}
	if err := m.Write(c.FS, manifestPath); err != nil {
		return apperr.FileSystem("writing project manifest", manifestPath, err)
	}
	return nil
}

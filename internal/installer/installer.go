package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/expressr/create-expressr-app/internal/apperr"
)

// Installer installs the dependencies of the project in dir.
type Installer interface {
	Install(ctx context.Context, dir string) error
}

// Supported package managers.
const (
	NPM  = "npm"
	PNPM = "pnpm"
	Yarn = "yarn"
	Bun  = "bun"
)

// Managers lists the supported package managers in display order.
var Managers = []string{NPM, PNPM, Yarn, Bun}

// IsSupported reports whether name is a supported package manager.
func IsSupported(name string) bool {
	for _, m := range Managers {
		if m == name {
			return true
		}
	}
	return false
}

// PackageManager runs "<name> install" in the project directory. Output is
// streamed to Stdout and Stderr, which default to the process's own.
type PackageManager struct {
	Name   string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// lookPath is swapped in tests.
	lookPath func(string) (string, error)
}

// New returns a PackageManager for name, or a UserInput error when name is
// not one of Managers.
func New(name string) (*PackageManager, error) {
	if !IsSupported(name) {
		return nil, apperr.UserInput("unknown package manager %q: supported are %v", name, Managers)
	}
	return &PackageManager{Name: name}, nil
}

// Install runs the install command and waits for it. A missing binary or a
// non-zero exit is an ExternalProcess error.
func (p *PackageManager) Install(ctx context.Context, dir string) error {
	bin, err := p.Path()
	if err != nil {
		return apperr.Process("installing dependencies", err)
	}

	cmd := exec.CommandContext(ctx, bin, "install")
	cmd.Dir = dir
	cmd.Stdin = p.Stdin
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return apperr.Process("installing dependencies",
				fmt.Errorf("%s install exited with code %d", p.Name, exitErr.ExitCode()))
		}
		return apperr.Process("installing dependencies", fmt.Errorf("running %s install: %w", p.Name, err))
	}
	return nil
}

// Path resolves the package manager binary on PATH.
func (p *PackageManager) Path() (string, error) {
	look := p.lookPath
	if look == nil {
		look = exec.LookPath
	}
	bin, err := look(p.Name)
	if err != nil {
		return "", fmt.Errorf("%s not found on PATH: %w", p.Name, err)
	}
	return bin, nil
}

// Skip is an Installer that does nothing, used for --skip-install.
type Skip struct{}

// Install implements Installer.
func (Skip) Install(context.Context, string) error { return nil }

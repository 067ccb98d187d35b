// Package apperr classifies the failures the scaffolder can hit so the
// command layer can tell a re-promptable input problem from a fatal one.
package apperr

import (
	"errors"
	"fmt"
)

// Kind identifies the class of a failure.
type Kind int

const (
	// KindUnknown is the zero value; errors that were never classified.
	KindUnknown Kind = iota
	// KindUserInput is an invalid project name, port, or selection. Prompts
	// recover from it by asking again.
	KindUserInput
	// KindInstallationIntegrity means an expected template or config file is
	// missing from the CLI installation itself.
	KindInstallationIntegrity
	// KindFileSystem covers read, write, and mkdir failures while copying or
	// patching the new project.
	KindFileSystem
	// KindExternalProcess means the package manager could not be started or
	// exited non-zero.
	KindExternalProcess
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindUserInput:
		return "user input"
	case KindInstallationIntegrity:
		return "installation integrity"
	case KindFileSystem:
		return "file system"
	case KindExternalProcess:
		return "external process"
	default:
		return "unknown"
	}
}

// Error is a classified failure.
type Error struct {
	Kind Kind
	Op   string // what was being attempted, e.g. "copying template file"
	Path string // file or directory involved, may be empty
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s %s", e.Op, e.Path)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// New builds a classified error.
func New(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// UserInput reports input that failed validation.
func UserInput(format string, args ...any) *Error {
	return &Error{Kind: KindUserInput, Op: fmt.Sprintf(format, args...)}
}

// Integrity reports a file the installation should have shipped.
func Integrity(op, path string, err error) *Error {
	return New(KindInstallationIntegrity, op, path, err)
}

// FileSystem wraps an I/O failure on path.
func FileSystem(op, path string, err error) *Error {
	return New(KindFileSystem, op, path, err)
}

// Process wraps a failed external command.
func Process(op string, err error) *Error {
	return New(KindExternalProcess, op, "", err)
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind anywhere in its chain,
// including classified errors wrapped inside other classified errors.
func Is(err error, kind Kind) bool {
	for err != nil {
		var ae *Error
		if !errors.As(err, &ae) {
			return false
		}
		if ae.Kind == kind {
			return true
		}
		err = ae.Err
	}
	return false
}

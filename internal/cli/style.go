package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/expressr/create-expressr-app/internal/apperr"
	"github.com/expressr/create-expressr-app/internal/prompt"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("197"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// printError writes the fatal error line, with a hint for damaged
// installations.
func printError(w io.Writer, err error) {
	if errors.Is(err, prompt.ErrCanceled) {
		fmt.Fprintln(w, warnStyle.Render("Operation canceled"))
		return
	}
	fmt.Fprintf(w, "%s %v\n", errorStyle.Render("❌ Error:"), err)
	if apperr.Is(err, apperr.KindInstallationIntegrity) {
		fmt.Fprintln(w, dimStyle.Render("This is likely an issue with the package installation."))
	}
}

// newLogger returns the diagnostic logger. Records are only emitted with
// --verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func checkMark(ok bool) string {
	if ok {
		return successStyle.Render("✓")
	}
	return errorStyle.Render("✗")
}

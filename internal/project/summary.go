package project

import (
	"fmt"
	"io"

	"github.com/expressr/create-expressr-app/internal/branding"
)

// runCommand returns how the package manager runs a script.
func runCommand(pm, script string) string {
	switch pm {
	case "", "npm":
		if script == "start" {
			return "npm start"
		}
		return "npm run " + script
	case "yarn":
		return "yarn " + script
	default:
		return pm + " run " + script
	}
}

// PrintSummary writes the next-steps message for a created project.
func PrintSummary(w io.Writer, r *Result, packageManager string) {
	fmt.Fprintf(w, "\n✅ Success! Created %s at %s\n", r.Name, r.Dir)
	fmt.Fprintln(w, "Inside that directory, you can run several commands:")
	fmt.Fprintf(w, "\n  %s\n    Starts the development server on port %d.\n", runCommand(packageManager, "dev"), r.Port)
	fmt.Fprintf(w, "\n  %s\n    Builds the app for production.\n", runCommand(packageManager, "build"))
	fmt.Fprintf(w, "\n  %s\n    Runs the built app in production mode. (You must first run '%s')\n",
		runCommand(packageManager, "start"), runCommand(packageManager, "build"))
	fmt.Fprintln(w, "\nGet started by typing:")
	fmt.Fprintf(w, "\n  cd %s\n  %s\n", r.Name, runCommand(packageManager, "dev"))
	fmt.Fprintf(w, "\nThank you for using %s!\n", branding.DisplayName())
	fmt.Fprintf(w, "Please support me by checking my website ❤️  %s\n", branding.Website())
}

package cli

import (
	"fmt"
	"io"
	"io/fs"
	"os/exec"

	"github.com/expressr/create-expressr-app/internal/addon"
	"github.com/expressr/create-expressr-app/internal/apperr"
	"github.com/expressr/create-expressr-app/internal/config"
	"github.com/expressr/create-expressr-app/internal/installer"
	"github.com/expressr/create-expressr-app/internal/scaffold"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that projects can be created",
	Long: `Check the tools and files project creation depends on: Node.js and the
configured package manager on PATH, the template, and every addon manifest.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		settings := resolveSettings(cmd)

		fmt.Fprintln(out, "Runtime check:")
		checkBinary(out, "node")
		if installer.IsSupported(settings.PackageManager) {
			checkBinary(out, settings.PackageManager)
		} else {
			fmt.Fprintf(out, "  %s package_manager %q is not one of %v\n",
				errorStyle.Render("[FAIL]"), settings.PackageManager, installer.Managers)
		}

		fmt.Fprintln(out, "Config check:")
		fmt.Fprintf(out, "  [INFO] config file %s\n", config.FilePath())

		fmt.Fprintln(out, "Template check:")
		templateOK := checkTemplate(out, settings.TemplateDir)

		fmt.Fprintln(out, "Addons check:")
		addonsOK := checkAddons(out, settings)

		if !templateOK {
			return apperr.Integrity("checking template", settings.TemplateDir, fmt.Errorf("required files are missing"))
		}
		if !addonsOK {
			return fmt.Errorf("one or more addons are invalid")
		}
		return nil
	},
}

func checkBinary(w io.Writer, name string) {
	path, err := exec.LookPath(name)
	if err != nil {
		fmt.Fprintf(w, "  %s %s not found\n", warnStyle.Render("[MISS]"), name)
		return
	}
	fmt.Fprintf(w, "  %s %s found at %s\n", successStyle.Render("[ OK ]"), name, path)
}

func checkTemplate(w io.Writer, dir string) bool {
	where := "built-in template"
	if dir != "" {
		where = dir
	}
	missing := scaffold.CheckTemplate(scaffold.Template(dir))
	if len(missing) == 0 {
		fmt.Fprintf(w, "  %s %s is complete\n", successStyle.Render("[ OK ]"), where)
		return true
	}
	for _, name := range missing {
		fmt.Fprintf(w, "  %s %s is missing %s\n", errorStyle.Render("[FAIL]"), where, name)
	}
	return false
}

// checkAddons validates every discovered addon manifest against the schema.
func checkAddons(w io.Writer, s config.Settings) bool {
	ok := true
	for _, src := range addonSources(s) {
		found, err := addon.Discover(src.FS, src.Name)
		if err != nil {
			fmt.Fprintf(w, "  %s %s addons: %v\n", errorStyle.Render("[FAIL]"), src.Name, err)
			ok = false
			continue
		}
		for _, d := range found {
			if !checkAddon(w, src.FS, d) {
				ok = false
			}
		}
	}
	return ok
}

func checkAddon(w io.Writer, fsys fs.FS, d *addon.Descriptor) bool {
	for _, name := range addon.ConfigFileNames {
		p := d.Folder + "/" + name
		if _, err := fs.Stat(fsys, p); err != nil {
			continue
		}
		result, err := addon.ValidateFile(fsys, p)
		if err != nil {
			fmt.Fprintf(w, "  %s %s (%s): %v\n", errorStyle.Render("[FAIL]"), d.DisplayName(), d.Source, err)
			return false
		}
		if !result.Valid {
			fmt.Fprintf(w, "  %s %s (%s): %d schema issues, run 'addons validate %s'\n",
				errorStyle.Render("[FAIL]"), d.DisplayName(), d.Source, len(result.Issues), p)
			return false
		}
		for _, warn := range result.Warnings {
			fmt.Fprintf(w, "  %s %s (%s) %s: %s\n", warnStyle.Render("[WARN]"), d.DisplayName(), d.Source, warn.Path, warn.Message)
		}
		fmt.Fprintf(w, "  %s %s (%s)\n", successStyle.Render("[ OK ]"), d.DisplayName(), d.Source)
		return true
	}
	return true
}

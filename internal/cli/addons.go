package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/expressr/create-expressr-app/internal/addon"
	"github.com/spf13/cobra"
)

var addonsJSON bool

func init() {
	addonsListCmd.Flags().BoolVar(&addonsJSON, "json", false, "Output as JSON")
	addonsCmd.AddCommand(addonsListCmd)
	addonsCmd.AddCommand(addonsValidateCmd)
	rootCmd.AddCommand(addonsCmd)
}

var addonsCmd = &cobra.Command{
	Use:   "addons",
	Short: "Inspect available addons",
}

var addonsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in and user addons",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		available, err := loadAddons(resolveSettings(cmd))
		if err != nil {
			return err
		}
		if addonsJSON {
			return writeAddonsJSON(cmd.OutOrStdout(), available)
		}
		writeAddonsTable(cmd.OutOrStdout(), available)
		return nil
	},
}

var addonsValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate an addon manifest",
	Long: `Validate an addon.config.json or addon.config.yaml against the addon schema.
Dependency versions that are not semver ranges are reported as warnings.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		result, err := addon.ValidateFile(os.DirFS(filepath.Dir(file)), filepath.Base(file))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, w := range result.Warnings {
			fmt.Fprintf(out, "%s %s: %s\n", warnStyle.Render("warning"), w.Path, w.Message)
		}
		if !result.Valid {
			for _, issue := range result.Issues {
				path := issue.Path
				if path == "" {
					path = "(root)"
				}
				fmt.Fprintf(out, "%s %s: %s\n", errorStyle.Render("error"), path, issue.Message)
			}
			return fmt.Errorf("%s is not a valid addon manifest (%d issues)", file, len(result.Issues))
		}

		fmt.Fprintf(out, "%s %s is valid\n", checkMark(true), file)
		return nil
	},
}

type addonJSON struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Folder          string   `json:"folder"`
	Source          string   `json:"source"`
	Dependencies    []string `json:"dependencies"`
	DevDependencies []string `json:"devDependencies"`
}

func writeAddonsJSON(w io.Writer, addons []*addon.Descriptor) error {
	out := make([]addonJSON, 0, len(addons))
	for _, d := range addons {
		out = append(out, addonJSON{
			Name:            d.DisplayName(),
			Description:     d.Description,
			Folder:          d.Folder,
			Source:          d.Source,
			Dependencies:    nonNil(d.Dependencies.Names()),
			DevDependencies: nonNil(d.DevDependencies.Names()),
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling addons: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func writeAddonsTable(w io.Writer, addons []*addon.Descriptor) {
	if len(addons) == 0 {
		fmt.Fprintln(w, "No addons found.")
		return
	}
	fmt.Fprintln(w, headerStyle.Render("Available addons:"))
	for i, d := range addons {
		fmt.Fprintf(w, "  %d) %s - %s %s\n", i+1, d.DisplayName(), d.Description, dimStyle.Render("["+d.Source+"]"))
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

package cli

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/expressr/create-expressr-app/internal/addon"
	"github.com/expressr/create-expressr-app/internal/branding"
	"github.com/expressr/create-expressr-app/internal/pkgjson"
	"github.com/expressr/create-expressr-app/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

// buildInfo is what `version --json` prints: the binary's build stamp plus
// what the embedded template would generate.
type buildInfo struct {
	Version string   `json:"version"`
	Commit  string   `json:"commit"`
	Date    string   `json:"date"`
	Express string   `json:"express,omitempty"`
	Addons  []string `json:"addons"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the CLI build information together with the Express version the
built-in template installs and the names of the built-in addons.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, buildVersion)
			return nil
		}

		info, err := currentBuildInfo()
		if err != nil {
			return err
		}

		if versionJSON {
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), info.Version, info.Commit, info.Date)
		if info.Express != "" {
			fmt.Fprintf(out, "  template: express %s\n", info.Express)
		}
		fmt.Fprintf(out, "  addons:   %s\n", strings.Join(info.Addons, ", "))
		return nil
	},
}

func currentBuildInfo() (buildInfo, error) {
	info := buildInfo{
		Version: buildVersion,
		Commit:  buildCommit,
		Date:    buildDate,
		Addons:  []string{},
	}

	express, err := templateExpressVersion(scaffold.Template(""))
	if err != nil {
		return info, err
	}
	info.Express = express

	builtin, err := addon.Discover(scaffold.BuiltinAddons(), "builtin")
	if err != nil {
		return info, fmt.Errorf("loading built-in addons: %w", err)
	}
	for _, d := range builtin {
		info.Addons = append(info.Addons, d.DisplayName())
	}
	return info, nil
}

// templateExpressVersion reads the express range from the template's
// package.json. A template without express yields "".
func templateExpressVersion(template fs.FS) (string, error) {
	data, err := fs.ReadFile(template, pkgjson.FileName)
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", pkgjson.FileName, err)
	}
	m, err := pkgjson.Parse(data)
	if err != nil {
		return "", fmt.Errorf("template %s: %w", pkgjson.FileName, err)
	}
	deps, err := m.Dependencies()
	if err != nil {
		return "", err
	}
	v, _ := deps.Get("express")
	return v, nil
}

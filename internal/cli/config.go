package cli

import (
	"fmt"
	"strconv"

	"github.com/expressr/create-expressr-app/internal/apperr"
	"github.com/expressr/create-expressr-app/internal/branding"
	"github.com/expressr/create-expressr-app/internal/config"
	"github.com/expressr/create-expressr-app/internal/installer"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write settings stored at ~/` + branding.HomeDir() + `/config.yaml.

Keys:
  default_port      port offered when none is given (3000)
  package_manager   npm, pnpm, yarn or bun (npm)
  addons_dir        extra directory of addons
  template_dir      template directory replacing the built-in one

Each key can also be set through the environment, e.g. ` + branding.EnvVar("PACKAGE_MANAGER") + `.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := checkConfigValue(key, value); err != nil {
			return err
		}
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !config.IsKnownKey(args[0]) {
			return apperr.UserInput("unknown config key %q: known keys are %v", args[0], config.Keys)
		}
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

// checkConfigValue rejects values the create command could not use.
func checkConfigValue(key, value string) error {
	switch key {
	case config.KeyDefaultPort:
		port, err := strconv.Atoi(value)
		if err != nil || port < 1 || port > 65535 {
			return apperr.UserInput("%s must be a port between 1 and 65535, got %q", key, value)
		}
	case config.KeyPackageManager:
		if !installer.IsSupported(value) {
			return apperr.UserInput("%s must be one of %v, got %q", key, installer.Managers, value)
		}
	}
	return nil
}

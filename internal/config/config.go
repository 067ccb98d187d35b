package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/expressr/create-expressr-app/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys understood by the CLI.
const (
	KeyDefaultPort    = "default_port"
	KeyPackageManager = "package_manager"
	KeyAddonsDir      = "addons_dir"
	KeyTemplateDir    = "template_dir"
)

// Defaults applied before the config file and environment are read.
const (
	DefaultPort           = 3000
	DefaultPackageManager = "npm"
)

// Keys lists every recognized key, in display order.
var Keys = []string{KeyDefaultPort, KeyPackageManager, KeyAddonsDir, KeyTemplateDir}

// Settings is the resolved user configuration.
type Settings struct {
	DefaultPort    int
	PackageManager string
	AddonsDir      string // extra addon root, searched after the embedded addons
	TemplateDir    string // on-disk template replacing the embedded one
}

// Dir returns the path to the config directory (~/.expressr/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.expressr/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// EXPRESSR_DEFAULT_PORT, EXPRESSR_PACKAGE_MANAGER, etc. override the file.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyDefaultPort, DefaultPort)
	viper.SetDefault(KeyPackageManager, DefaultPackageManager)
	viper.SetDefault(KeyAddonsDir, "")
	viper.SetDefault(KeyTemplateDir, "")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Current returns the settings as resolved by the last Load.
func Current() Settings {
	s := Settings{
		DefaultPort:    viper.GetInt(KeyDefaultPort),
		PackageManager: viper.GetString(KeyPackageManager),
		AddonsDir:      viper.GetString(KeyAddonsDir),
		TemplateDir:    viper.GetString(KeyTemplateDir),
	}
	if s.DefaultPort <= 0 || s.DefaultPort > 65535 {
		s.DefaultPort = DefaultPort
	}
	if s.PackageManager == "" {
		s.PackageManager = DefaultPackageManager
	}
	return s
}

// IsKnownKey reports whether key is one of Keys.
func IsKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

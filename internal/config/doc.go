// Package config manages user-level settings stored at ~/.expressr/config.yaml.
// It resolves the default port offered by the prompt, the package manager used
// to install dependencies, and optional on-disk addon and template roots.
package config

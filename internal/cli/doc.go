// Package cli defines the Cobra command tree for create-expressr-app. The
// root command creates a project; each other file registers one subcommand
// (addons, routes, doctor, config, version) with the root command. Command
// implementations delegate to internal packages for business logic and only
// handle flag parsing, I/O formatting, and user interaction.
package cli

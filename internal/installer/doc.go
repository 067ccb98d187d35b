// Package installer runs the package manager that installs a generated
// project's dependencies.
package installer

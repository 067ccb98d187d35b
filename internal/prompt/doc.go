// Package prompt asks the create command's questions over a plain reader and
// writer pair: the project name, the port, and which addons to apply.
package prompt

// Package scaffold owns the project template and the built-in addons that
// ship inside the binary, and the helpers the create command uses to
// materialize them: a filtered tree copier, the entry-file port patch, and
// the .env writer.
package scaffold

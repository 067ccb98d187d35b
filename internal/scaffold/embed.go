package scaffold

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed all:template
var templateFS embed.FS

//go:embed addons
var addonsFS embed.FS

// RootFiles are copied from the template root into the project root. Each
// must exist; a missing one means the installation is damaged.
var RootFiles = []string{"package.json", "tsconfig.json"}

// SourceDir is the template subtree copied into the project's src/.
const SourceDir = "src"

// Template returns the template file system. An empty dir selects the
// template embedded in the binary; otherwise dir is read from disk.
func Template(dir string) fs.FS {
	if dir != "" {
		return os.DirFS(dir)
	}
	sub, err := fs.Sub(templateFS, "template")
	if err != nil {
		panic("scaffold: embedded template missing: " + err.Error())
	}
	return sub
}

// BuiltinAddons returns the addons embedded in the binary, one directory
// per addon.
func BuiltinAddons() fs.FS {
	sub, err := fs.Sub(addonsFS, "addons")
	if err != nil {
		panic("scaffold: embedded addons missing: " + err.Error())
	}
	return sub
}

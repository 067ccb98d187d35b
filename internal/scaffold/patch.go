package scaffold

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"
)

// PortEnvVar is the variable the generated app reads its port from.
const PortEnvVar = "EXPRESSR_PORT"

// DotenvVersion is the dotenv range merged into every generated project.
const DotenvVersion = "^16.3.1"

const (
	portExpr     = "const port = process.env." + PortEnvVar + " || process.env.PORT || 3000"
	dotenvImport = "import 'dotenv/config';"
)

var portDecl = regexp.MustCompile(`const port\s*=\s*\d+`)

// EnvFile returns the .env content for port.
func EnvFile(port int) string {
	return fmt.Sprintf("%s=%d\n", PortEnvVar, port)
}

// PatchEntry rewrites the first literal port declaration in an entry file to
// read the port from the environment, and prepends the dotenv import when
// the file does not mention dotenv at all.
func PatchEntry(content string) string {
	if loc := portDecl.FindStringIndex(content); loc != nil {
		content = content[:loc[0]] + portExpr + content[loc[1]:]
	}
	if !strings.Contains(content, "dotenv") {
		content = dotenvImport + "\n" + content
	}
	return content
}

// CheckTemplate reports every required template entry missing from fsys.
func CheckTemplate(fsys fs.FS) []string {
	var missing []string
	for _, name := range RootFiles {
		if info, err := fs.Stat(fsys, name); err != nil || info.IsDir() {
			missing = append(missing, name)
		}
	}
	entry := path.Join(SourceDir, "index.ts")
	if _, err := fs.Stat(fsys, entry); err != nil {
		missing = append(missing, entry)
	}
	return missing
}

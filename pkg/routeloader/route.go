package routeloader

import (
	"path"
	"regexp"
	"strings"
)

var (
	paramSegment = regexp.MustCompile(`\[([^\]]+)\]`)
	groupSegment = regexp.MustCompile(`\([^)]+\)/`)
)

// RoutePath converts a handler file path, relative to the routes root, into
// its Express-style route. Backslashes are treated as separators.
func RoutePath(rel string) string {
	p := strings.ReplaceAll(rel, `\`, "/")
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimSuffix(p, path.Ext(p))
	p = paramSegment.ReplaceAllString(p, ":$1")
	p = groupSegment.ReplaceAllString(p, "")
	if p == "index" {
		p = ""
	}
	p = strings.TrimSuffix(p, "/index")
	return "/" + p
}

// chiPattern rewrites :name parameters into chi's {name} form.
func chiPattern(route string) string {
	segs := strings.Split(route, "/")
	for i, s := range segs {
		if strings.HasPrefix(s, ":") && len(s) > 1 {
			segs[i] = "{" + s[1:] + "}"
		}
	}
	return strings.Join(segs, "/")
}

// tableKey is the registration key for a handler file: its relative path
// without extension, slash separated.
func tableKey(rel string) string {
	rel = strings.ReplaceAll(rel, `\`, "/")
	return strings.TrimSuffix(rel, path.Ext(rel))
}

// isHandlerFile reports whether name is a file the loader maps to a route.
func isHandlerFile(name string) bool {
	switch {
	case strings.HasSuffix(name, ".d.ts"):
		return false
	case strings.HasSuffix(name, "_test.go"):
		return false
	}
	switch path.Ext(name) {
	case ".go", ".ts", ".js":
		return true
	}
	return false
}

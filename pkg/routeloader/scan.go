package routeloader

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"net/http"
	"path"
	"regexp"
	"strings"
)

// goExports maps exported Go function names to the method they serve.
var goExports = map[string]string{
	"Handler": MethodAll,
	"Get":     http.MethodGet,
	"Post":    http.MethodPost,
	"Put":     http.MethodPut,
	"Delete":  http.MethodDelete,
	"Patch":   http.MethodPatch,
}

// scriptExports maps lower-case script export names to methods.
var scriptExports = map[string]string{
	"get":    http.MethodGet,
	"post":   http.MethodPost,
	"put":    http.MethodPut,
	"delete": http.MethodDelete,
	"patch":  http.MethodPatch,
}

var (
	scriptDefault = regexp.MustCompile(`(?m)^\s*export\s+default\b`)
	scriptNamed   = regexp.MustCompile(`(?m)^\s*export\s+(?:async\s+)?(?:function\s*\*?\s*|(?:const|let|var)\s+)(get|post|put|delete|patch)\b`)
	// "delete" is reserved in JS, so it is usually exported by alias.
	scriptAliased = regexp.MustCompile(`(?m)^\s*export\s*\{([^}]*)\}`)
)

var methodOrder = []string{MethodAll, http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

// Scan lists the routes the files under root would serve, reading exports
// statically rather than loading anything. A file with a default export is
// served for every method, like the generated project's loader does; files
// exporting nothing routable are skipped. A missing root yields no routes.
func Scan(fsys fs.FS, root string) ([]Route, error) {
	files, err := handlerFiles(fsys, root)
	if err != nil {
		return nil, err
	}

	root = path.Clean(root)
	var routes []Route
	for _, rel := range files {
		src, err := fs.ReadFile(fsys, path.Join(root, rel))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", rel, err)
		}

		var methods []string
		if path.Ext(rel) == ".go" {
			methods, err = goMethods(rel, src)
			if err != nil {
				return nil, err
			}
		} else {
			methods = scriptMethods(string(src))
		}

		route := RoutePath(rel)
		for _, m := range methods {
			routes = append(routes, Route{Method: m, Path: route, File: rel})
		}
	}
	return routes, nil
}

// goMethods returns the methods served by a Go handler file: exported
// top-level functions named Handler, Get, Post, Put, Delete or Patch.
func goMethods(name string, src []byte) ([]string, error) {
	f, err := parser.ParseFile(token.NewFileSet(), name, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	found := make(map[string]bool)
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil {
			continue
		}
		if m, ok := goExports[fn.Name.Name]; ok {
			found[m] = true
		}
	}
	return ordered(found), nil
}

// scriptMethods returns the methods served by a TypeScript or JavaScript
// handler file.
func scriptMethods(src string) []string {
	if scriptDefault.MatchString(src) {
		return []string{MethodAll}
	}

	found := make(map[string]bool)
	for _, m := range scriptNamed.FindAllStringSubmatch(src, -1) {
		found[scriptExports[m[1]]] = true
	}
	for _, m := range scriptAliased.FindAllStringSubmatch(src, -1) {
		for _, spec := range strings.Split(m[1], ",") {
			fields := strings.Fields(spec)
			exported := ""
			switch {
			case len(fields) == 1:
				exported = fields[0]
			case len(fields) == 3 && fields[1] == "as":
				exported = fields[2]
			}
			if exported == "default" {
				return []string{MethodAll}
			}
			if m, ok := scriptExports[exported]; ok {
				found[m] = true
			}
		}
	}
	return ordered(found)
}

func ordered(found map[string]bool) []string {
	var out []string
	for _, m := range methodOrder {
		if found[m] {
			out = append(out, m)
		}
	}
	return out
}

package routeloader

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
)

// ErrUnregistered is returned by Load for a handler file with no Table entry.
var ErrUnregistered = errors.New("handler file has no registered module")

// Module is what a handler file exports. It is either All or Methods.
type Module interface {
	module()
}

// All serves every HTTP method with one handler, like a default export.
type All struct {
	Handler http.HandlerFunc
}

// Methods serves individual methods. Nil handlers are not registered.
type Methods struct {
	Get    http.HandlerFunc
	Post   http.HandlerFunc
	Put    http.HandlerFunc
	Delete http.HandlerFunc
	Patch  http.HandlerFunc
}

func (All) module()     {}
func (Methods) module() {}

// Table maps a handler file, by its relative path without extension (for
// example "examples/param/[id]"), to its module.
type Table map[string]Module

// MethodAll marks a Route served for every method.
const MethodAll = "ALL"

// Route is one registration.
type Route struct {
	Method string `json:"method"`
	Path   string `json:"path"` // Express style, e.g. /examples/param/:id
	File   string `json:"file"` // relative to the routes root
}

// Router is an http.Handler serving the loaded routes.
type Router struct {
	mux    *chi.Mux
	routes []Route
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Routes returns the registrations in the order they were made.
func (r *Router) Routes() []Route {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// Load walks root within fsys and registers a route for every handler file.
// Middlewares are installed on the router before any route. A root that does
// not exist gives an empty router. Later registrations of the same method
// and path replace earlier ones.
func Load(fsys fs.FS, root string, table Table, middlewares ...func(http.Handler) http.Handler) (*Router, error) {
	r := &Router{mux: chi.NewRouter()}
	r.mux.Use(middlewares...)

	files, err := handlerFiles(fsys, root)
	if err != nil {
		return nil, err
	}

	for _, rel := range files {
		key := tableKey(rel)
		mod, ok := table[key]
		if !ok || mod == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnregistered, rel)
		}
		r.register(rel, mod)
	}
	return r, nil
}

func (r *Router) register(rel string, mod Module) {
	route := RoutePath(rel)
	pattern := chiPattern(route)

	switch m := mod.(type) {
	case All:
		if m.Handler == nil {
			return
		}
		r.mux.HandleFunc(pattern, m.Handler)
		r.routes = append(r.routes, Route{Method: MethodAll, Path: route, File: rel})
	case Methods:
		for _, h := range []struct {
			method  string
			handler http.HandlerFunc
		}{
			{http.MethodGet, m.Get},
			{http.MethodPost, m.Post},
			{http.MethodPut, m.Put},
			{http.MethodDelete, m.Delete},
			{http.MethodPatch, m.Patch},
		} {
			if h.handler == nil {
				continue
			}
			r.mux.MethodFunc(h.method, pattern, h.handler)
			r.routes = append(r.routes, Route{Method: h.method, Path: route, File: rel})
		}
	}
}

// handlerFiles lists handler files under root in walk order, relative to
// root.
func handlerFiles(fsys fs.FS, root string) ([]string, error) {
	root = path.Clean(root)
	if _, err := fs.Stat(fsys, root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading routes directory %s: %w", root, err)
	}

	var files []string
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isHandlerFile(d.Name()) {
			return nil
		}
		rel := p
		if root != "." {
			rel = p[len(root)+1:]
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking routes directory %s: %w", root, err)
	}
	return files, nil
}

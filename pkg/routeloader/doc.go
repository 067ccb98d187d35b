// Package routeloader maps a directory of handler files to HTTP routes the
// same way the generated project's routeLoader.ts does.
//
// A file's route is its path relative to the routes root with the extension
// removed: [name] segments become :name parameters, (group) directories are
// dropped, and a trailing index is removed, so
//
//	status.ts                  -> /status
//	examples/param/[id].ts     -> /examples/param/:id
//	(api)/users/index.go       -> /users
//	index.ts                   -> /
//
// Go has no runtime module loading, so Load resolves each file through a
// Table registered by the caller. Scan inspects files statically instead and
// is what the create-expressr-app routes command uses.
package routeloader

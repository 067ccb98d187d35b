package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/expressr/create-expressr-app/pkg/routeloader"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"
)

var (
	routesJSON  bool
	routesWatch bool
)

// routesDir is where the generated project keeps its handlers.
const routesDir = "src/routes"

func init() {
	routesCmd.Flags().BoolVar(&routesJSON, "json", false, "Output as JSON")
	routesCmd.Flags().BoolVar(&routesWatch, "watch", false, "Print the table again whenever a route file changes")
	rootCmd.AddCommand(routesCmd)
}

var routesCmd = &cobra.Command{
	Use:   "routes [project-dir]",
	Short: "List the routes a project's file-based router serves",
	Long: `List the routes served by the files under <project-dir>/src/routes, the
same mapping the generated routeLoader applies at startup. The port is read
from the project's .env file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		if err := printRoutes(cmd.OutOrStdout(), dir); err != nil {
			return err
		}
		if !routesWatch {
			return nil
		}
		return watchRoutes(cmd.Context(), cmd.OutOrStdout(), dir)
	},
}

type routesReport struct {
	Port   string              `json:"port,omitempty"`
	Routes []routeloader.Route `json:"routes"`
}

func printRoutes(w io.Writer, dir string) error {
	routes, err := routeloader.Scan(os.DirFS(dir), routesDir)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", filepath.Join(dir, routesDir), err)
	}
	port, err := projectPort(dir)
	if err != nil {
		return err
	}

	if routesJSON {
		report := routesReport{Port: port, Routes: routes}
		if report.Routes == nil {
			report.Routes = []routeloader.Route{}
		}
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling routes: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	writeRoutesTable(w, routes, port)
	return nil
}

func writeRoutesTable(w io.Writer, routes []routeloader.Route, port string) {
	if len(routes) == 0 {
		fmt.Fprintf(w, "No routes found under %s.\n", routesDir)
		return
	}
	base := ""
	if port != "" {
		base = "http://localhost:" + port
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-7s %-32s %s", "METHOD", "PATH", "FILE")))
	for _, r := range routes {
		fmt.Fprintf(w, "%-7s %-32s %s\n", r.Method, base+r.Path, dimStyle.Render(r.File))
	}
}

// projectPort reads the port from the project's .env, falling back to PORT
// the way the generated app does. A missing .env yields "".
func projectPort(dir string) (string, error) {
	env, err := gotenv.Read(filepath.Join(dir, ".env"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading .env: %w", err)
	}
	if p := env["EXPRESSR_PORT"]; p != "" {
		return p, nil
	}
	return env["PORT"], nil
}

// watchRoutes reprints the route table whenever the routes tree changes,
// until ctx is canceled. New directories are watched as they appear.
func watchRoutes(ctx context.Context, w io.Writer, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	root := filepath.Join(dir, routesDir)
	if err := addTree(watcher, filepath.Join(dir, "src")); err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	fmt.Fprintln(w, dimStyle.Render("Watching "+root+" (Ctrl+C to stop)"))

	// Editors emit bursts of events; coalesce them.
	const settle = 150 * time.Millisecond
	timer := time.NewTimer(settle)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addTree(watcher, ev.Name)
				}
			}
			if relevantEvent(root, dir, ev.Name) {
				timer.Reset(settle)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Debug("watch error", "error", err)
		case <-timer.C:
			fmt.Fprintln(w)
			if err := printRoutes(w, dir); err != nil {
				fmt.Fprintf(w, "%s %v\n", errorStyle.Render("error"), err)
			}
		}
	}
}

// relevantEvent reports whether a change to name can alter the table.
func relevantEvent(root, dir, name string) bool {
	if filepath.Clean(name) == filepath.Join(dir, ".env") {
		return true
	}
	rel, err := filepath.Rel(root, name)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// addTree watches root and every directory below it. A missing root is
// skipped; the project directory watch picks it up once created.
func addTree(watcher *fsnotify.Watcher, root string) error {
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := watcher.Add(p); err != nil {
				return fmt.Errorf("watching %s: %w", p, err)
			}
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

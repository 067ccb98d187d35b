//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir   string // HOME, holds .expressr/config.yaml
	WorkDir   string // where projects are created
	AddonsDir string // user addons root
}

// setupTestEnv creates isolated temp directories and points HOME at one of
// them so the user's real config is never read. The env vars are restored
// after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:   t.TempDir(),
		WorkDir:   t.TempDir(),
		AddonsDir: t.TempDir(),
	}
	t.Setenv("HOME", env.HomeDir)
	return env
}

// setupUserAddon writes a user addon that adds a rate limiter route.
func setupUserAddon(t *testing.T, addonsDir string) {
	t.Helper()
	writeTestFile(t, filepath.Join(addonsDir, "ratelimit", "addon.config.yaml"), `name: ratelimit
description: Rate limit every route
dependencies:
  express-rate-limit: ^7.4.1
newFiles:
  - path: src/routes/(internal)/limits.ts
    content: |
      import { Request, Response } from "express";

      export function get(req: Request, res: Response) {
        res.json({ windowMs: 60000, limit: 100 });
      }
fileChanges:
  - path: src/index.ts
    line: 5
    content: 'import rateLimit from "express-rate-limit";'
  - path: src/index.ts
    line: 10
    content: "app.use(rateLimit({ windowMs: 60000, limit: 100 }));"
`)
	// A folder without a config is not an addon.
	writeTestFile(t, filepath.Join(addonsDir, "notes", "README.md"), "ideas")
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s (error: %v)", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory, but it is a file", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}

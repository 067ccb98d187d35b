package project

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/expressr/create-expressr-app/internal/addon"
	"github.com/expressr/create-expressr-app/internal/apperr"
	"github.com/expressr/create-expressr-app/internal/pkgjson"
	"github.com/expressr/create-expressr-app/internal/prompt"
	"github.com/expressr/create-expressr-app/internal/scaffold"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workDir = "/work"

type recordingInstaller struct {
	dirs []string
	err  error
}

func (r *recordingInstaller) Install(_ context.Context, dir string) error {
	r.dirs = append(r.dirs, dir)
	return r.err
}

func builtinAddons(t *testing.T) []*addon.Descriptor {
	t.Helper()
	addons, err := addon.Discover(scaffold.BuiltinAddons(), "builtin")
	require.NoError(t, err)
	return addons
}

func newCreator(t *testing.T, input string) (*Creator, *recordingInstaller, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	inst := &recordingInstaller{}
	return &Creator{
		FS:        afero.NewMemMapFs(),
		Template:  scaffold.Template(""),
		Addons:    builtinAddons(t),
		Prompter:  prompt.New(prompt.Config{In: strings.NewReader(input), Out: &out, DefaultPort: 3000}),
		Installer: inst,
		Out:       &out,
		WorkDir:   workDir,
	}, inst, &out
}

func read(t *testing.T, fs afero.Fs, p string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, filepath.Join(workDir, filepath.FromSlash(p)))
	require.NoError(t, err)
	return string(data)
}

func TestCreateWithDefaults(t *testing.T) {
	c, inst, out := newCreator(t, "my-app\n\n\n")

	res, err := c.Create(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, "my-app", res.Name)
	assert.Equal(t, filepath.Join(workDir, "my-app"), res.Dir)
	assert.Equal(t, 3000, res.Port)
	assert.Empty(t, res.Addons)

	for _, p := range []string{"package.json", "tsconfig.json", ".env", "src/index.ts", "src/utils/routeLoader.ts", "src/routes/status.ts"} {
		ok, err := afero.Exists(c.FS, filepath.Join(res.Dir, filepath.FromSlash(p)))
		require.NoError(t, err)
		assert.True(t, ok, "%s should exist", p)
	}
	assert.Equal(t, "EXPRESSR_PORT=3000\n", read(t, c.FS, "my-app/.env"))
	assert.Equal(t, "node_modules/\ndist/\n.env\n", read(t, c.FS, "my-app/.gitignore"))

	index := read(t, c.FS, "my-app/src/index.ts")
	assert.True(t, strings.HasPrefix(index, "import 'dotenv/config';\n"))
	assert.Contains(t, index, "const port = process.env.EXPRESSR_PORT || process.env.PORT || 3000;")

	m, err := pkgjson.Read(c.FS, filepath.Join(res.Dir, "package.json"))
	require.NoError(t, err)
	deps, err := m.Dependencies()
	require.NoError(t, err)
	v, ok := deps.Get("dotenv")
	assert.True(t, ok)
	assert.Equal(t, "^16.3.1", v)
	_, ok = deps.Get("express")
	assert.True(t, ok, "template dependencies must survive")

	assert.Equal(t, []string{res.Dir}, inst.dirs)
	assert.Contains(t, out.String(), "↳ Created .env with EXPRESSR_PORT=3000")
}

func TestCreateWithFlagsAndAddons(t *testing.T) {
	c, _, out := newCreator(t, "")

	res, err := c.Create(context.Background(), Options{Name: "api", Port: 8080, Addons: []string{"logger", "cors", "logger"}})
	require.NoError(t, err)

	require.Len(t, res.Addons, 2)
	assert.Equal(t, "logger", res.Addons[0].Name)
	assert.Equal(t, "cors", res.Addons[1].Name)
	assert.Equal(t, "EXPRESSR_PORT=8080\n", read(t, c.FS, "api/.env"))

	m, err := pkgjson.Read(c.FS, filepath.Join(res.Dir, "package.json"))
	require.NoError(t, err)
	deps, err := m.Dependencies()
	require.NoError(t, err)
	assert.Equal(t, []string{"express", "dotenv", "morgan", "cors"}, deps.Names())

	index := read(t, c.FS, "api/src/index.ts")
	assert.Contains(t, index, `import cors from "cors";`)
	assert.Contains(t, index, `import { logger } from "./middleware/logger";`)
	assert.Contains(t, index, "app.use(logger);")
	assert.Contains(t, read(t, c.FS, "api/src/middleware/logger.ts"), "morgan")

	assert.Contains(t, out.String(), "  • Installing logger...")
	assert.Contains(t, out.String(), "    ↳ Created file: src/middleware/logger.ts")
}

func TestCreatePromptsForAddons(t *testing.T) {
	c, _, _ := newCreator(t, "2, nope, 9\n")

	res, err := c.Create(context.Background(), Options{Name: "app", Port: 3001})
	require.NoError(t, err)
	require.Len(t, res.Addons, 1)
	assert.Equal(t, c.Addons[1], res.Addons[0])
}

func TestCreateUnknownAddon(t *testing.T) {
	c, _, _ := newCreator(t, "")
	_, err := c.Create(context.Background(), Options{Name: "app", Port: 3000, Addons: []string{"graphql"}})
	assert.True(t, apperr.Is(err, apperr.KindUserInput), "got %v", err)
}

func TestCreateRejectsInvalidName(t *testing.T) {
	c, _, _ := newCreator(t, "")
	_, err := c.Create(context.Background(), Options{Name: "bad name", Port: 3000, Addons: []string{}})
	assert.True(t, apperr.Is(err, apperr.KindUserInput), "got %v", err)
}

func TestCreateRefusesNonEmptyDirectory(t *testing.T) {
	c, _, _ := newCreator(t, "")
	require.NoError(t, afero.WriteFile(c.FS, filepath.Join(workDir, "app", "README.md"), []byte("hi"), 0644))

	_, err := c.Create(context.Background(), Options{Name: "app", Port: 3000, Addons: []string{}})
	assert.True(t, apperr.Is(err, apperr.KindUserInput), "got %v", err)

	_, err = c.Create(context.Background(), Options{Name: "app", Port: 3000, Addons: []string{}, Force: true})
	assert.NoError(t, err)
}

func TestCreateMissingTemplateFile(t *testing.T) {
	c, inst, _ := newCreator(t, "")
	c.Template = fstest.MapFS{
		"package.json": {Data: []byte(`{"name":"x"}`)},
		"src/index.ts": {Data: []byte("const port = 3000;\n")},
	}

	_, err := c.Create(context.Background(), Options{Name: "app", Port: 3000, Addons: []string{}})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInstallationIntegrity), "got %v", err)
	assert.Contains(t, err.Error(), "tsconfig.json")
	assert.Empty(t, inst.dirs)
}

func TestCreateInstallFailure(t *testing.T) {
	c, inst, _ := newCreator(t, "")
	inst.err = apperr.Process("installing dependencies", errors.New("exit 1"))

	_, err := c.Create(context.Background(), Options{Name: "app", Port: 3000, Addons: []string{}})
	assert.True(t, apperr.Is(err, apperr.KindExternalProcess), "got %v", err)
}

func TestCreateCanceled(t *testing.T) {
	c, _, _ := newCreator(t, "")
	_, err := c.Create(context.Background(), Options{})
	assert.ErrorIs(t, err, prompt.ErrCanceled)
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, &Result{Name: "app", Dir: "/work/app", Port: 4000}, "npm")

	s := buf.String()
	assert.Contains(t, s, "✅ Success! Created app at /work/app")
	assert.Contains(t, s, "npm run dev\n    Starts the development server on port 4000.")
	assert.Contains(t, s, "npm start")
	assert.Contains(t, s, "cd app")
	assert.Contains(t, s, "https://skxv.dev")

	buf.Reset()
	PrintSummary(&buf, &Result{Name: "app", Dir: "/work/app", Port: 4000}, "pnpm")
	assert.Contains(t, buf.String(), "pnpm run build")
}

func TestCreateLoadsAddonsAfterNameAndPort(t *testing.T) {
	c, _, out := newCreator(t, "app\n4000\n1\n")
	builtin := c.Addons
	c.Addons = nil

	var outputAtLoad string
	c.LoadAddons = func() ([]*addon.Descriptor, error) {
		outputAtLoad = out.String()
		return builtin, nil
	}

	res, err := c.Create(context.Background(), Options{})
	require.NoError(t, err)
	assert.Contains(t, outputAtLoad, "What is your project named?")
	assert.Contains(t, outputAtLoad, "What port would you like to use?")
	assert.NotContains(t, outputAtLoad, "Available addons")
	require.Len(t, res.Addons, 1)
	assert.Equal(t, builtin[0], res.Addons[0])
}

func TestCreateAddonLoadFailure(t *testing.T) {
	c, inst, _ := newCreator(t, "app\n4000\n")
	c.LoadAddons = func() ([]*addon.Descriptor, error) {
		return nil, errors.New("parsing addon manifest broken/addon.config.json: bad")
	}

	_, err := c.Create(context.Background(), Options{})
	require.ErrorContains(t, err, "broken/addon.config.json")
	exists, statErr := afero.DirExists(c.FS, filepath.Join(workDir, "app"))
	require.NoError(t, statErr)
	assert.False(t, exists)
	assert.Empty(t, inst.dirs)
}

package addon

import (
	"os"
	"testing"
)

const testdataDir = "testdata"

func TestParseFile_JSON(t *testing.T) {
	d, err := ParseFile(os.DirFS(testdataDir), "valid-cors.json")
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if d.Name != "cors" {
		t.Errorf("Name = %q, want %q", d.Name, "cors")
	}
	if d.Description != "Enable CORS for all routes" {
		t.Errorf("Description = %q", d.Description)
	}
	if v, ok := d.Dependencies.Get("cors"); !ok || v != "^2.8.5" {
		t.Errorf("dependencies[cors] = %q, %v", v, ok)
	}
	if v, ok := d.DevDependencies.Get("@types/cors"); !ok || v != "^2.8.17" {
		t.Errorf("devDependencies[@types/cors] = %q, %v", v, ok)
	}
	if len(d.FileChanges) != 2 {
		t.Fatalf("FileChanges len = %d, want 2", len(d.FileChanges))
	}
	fc := d.FileChanges[1]
	if fc.Path != "src/index.ts" || fc.Line != 10 || fc.Type != ChangeInsert || fc.Content != "app.use(cors());" {
		t.Errorf("FileChanges[1] = %+v", fc)
	}
}

func TestParseFile_YAML(t *testing.T) {
	d, err := ParseFile(os.DirFS(testdataDir), "valid-logger.yaml")
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if d.Name != "logger" {
		t.Errorf("Name = %q, want %q", d.Name, "logger")
	}
	if len(d.NewFolders) != 1 || d.NewFolders[0].Path != "src/middleware" {
		t.Errorf("NewFolders = %+v", d.NewFolders)
	}
	if len(d.NewFiles) != 1 {
		t.Fatalf("NewFiles len = %d, want 1", len(d.NewFiles))
	}
	if d.NewFiles[0].Content != "import morgan from \"morgan\";\nexport const logger = morgan(\"dev\");\n" {
		t.Errorf("NewFiles[0].Content = %q", d.NewFiles[0].Content)
	}
	if got := d.FileChanges[0].EffectiveType(); got != ChangeInsert {
		t.Errorf("EffectiveType() = %q, want %q", got, ChangeInsert)
	}
}

func TestParseFile_NotFound(t *testing.T) {
	if _, err := ParseFile(os.DirFS(testdataDir), "nonexistent.json"); err == nil {
		t.Fatal("expected error for nonexistent file, got nil")
	}
}

func TestParseFile_Malformed(t *testing.T) {
	if _, err := ParseFile(os.DirFS(testdataDir), "broken.json"); err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"addon.config.json", FormatJSON},
		{"addon.config.yaml", FormatYAML},
		{"addon.config.YML", FormatYAML},
		{"addon.config", FormatJSON},
	}
	for _, tt := range tests {
		if got := FormatOf(tt.name); got != tt.want {
			t.Errorf("FormatOf(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDisplayNameFallsBackToFolder(t *testing.T) {
	d := &Descriptor{Folder: "helmet"}
	if got := d.DisplayName(); got != "helmet" {
		t.Errorf("DisplayName() = %q, want %q", got, "helmet")
	}
}

func TestParse_TrailingData(t *testing.T) {
	for _, src := range []string{
		`{"name":"cors"} trailing`,
		`{"name":"cors"}{"dependencies":{"cors":"^2.8.5"}}`,
	} {
		if _, err := Parse([]byte(src), FormatJSON); err == nil {
			t.Errorf("Parse(%q) error = nil, want error", src)
		}
	}
	if _, err := Parse([]byte("{\"name\":\"cors\"}\n"), FormatJSON); err != nil {
		t.Errorf("Parse with trailing newline: %v", err)
	}
}

func TestParse_UnknownFieldsIgnored(t *testing.T) {
	d, err := Parse([]byte(`{"name":"cors","author":"someone","keywords":["http"]}`), FormatJSON)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if d.Name != "cors" {
		t.Errorf("Name = %q, want %q", d.Name, "cors")
	}
}

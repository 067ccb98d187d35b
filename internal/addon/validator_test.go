package addon

import (
	"os"
	"testing"
)

func TestValidateFile_ValidManifests(t *testing.T) {
	for _, file := range []string{"valid-cors.json", "valid-logger.yaml"} {
		t.Run(file, func(t *testing.T) {
			result, err := ValidateFile(os.DirFS(testdataDir), file)
			if err != nil {
				t.Fatalf("ValidateFile(%s) error: %v", file, err)
			}
			if !result.Valid {
				t.Errorf("expected valid, got invalid with %d issues:", len(result.Issues))
				for _, issue := range result.Issues {
					t.Errorf("  path=%s keyword=%s message=%s", issue.Path, issue.Keyword, issue.Message)
				}
			}
			if len(result.Warnings) > 0 {
				t.Errorf("unexpected warnings: %+v", result.Warnings)
			}
		})
	}
}

func TestValidateFile_InvalidManifests(t *testing.T) {
	invalidFiles := []struct {
		file    string
		desc    string
		keyword string
	}{
		{"invalid-missing-name.json", "missing required name field", "required"},
		{"invalid-bad-line.json", "line below 1", "minimum"},
		{"invalid-bad-type.json", "unknown change type", "enum"},
		{"invalid-escaping-path.json", "path climbs out of the project", "not"},
	}

	for _, tt := range invalidFiles {
		t.Run(tt.file, func(t *testing.T) {
			result, err := ValidateFile(os.DirFS(testdataDir), tt.file)
			if err != nil {
				t.Fatalf("ValidateFile(%s) unexpected error: %v", tt.file, err)
			}
			if result.Valid {
				t.Fatalf("expected invalid for %s (%s), but got valid", tt.file, tt.desc)
			}
			found := false
			for _, issue := range result.Issues {
				if issue.Keyword == tt.keyword {
					found = true
				}
			}
			if !found {
				t.Errorf("no %q issue for %s, got %+v", tt.keyword, tt.file, result.Issues)
			}
		})
	}
}

func TestValidate_SemverWarnings(t *testing.T) {
	result, err := ValidateFile(os.DirFS(testdataDir), "warn-tag-version.json")
	if err != nil {
		t.Fatalf("ValidateFile error: %v", err)
	}
	if !result.Valid {
		t.Fatalf("warnings must not invalidate the manifest: %+v", result.Issues)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("Warnings len = %d, want 1: %+v", len(result.Warnings), result.Warnings)
	}
	if result.Warnings[0].Path != "/dependencies/left-pad" {
		t.Errorf("Warnings[0].Path = %q, want %q", result.Warnings[0].Path, "/dependencies/left-pad")
	}
}

func TestValidate_MalformedJSON(t *testing.T) {
	if _, err := ValidateFile(os.DirFS(testdataDir), "broken.json"); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestValidate_InvalidYAML(t *testing.T) {
	if _, err := Validate([]byte("name: [unclosed"), FormatYAML); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate_UnknownTopLevelFieldsAllowed(t *testing.T) {
	src := []byte(`{"name":"cors","author":"someone","dependencies":{"cors":"^2.8.5"}}`)
	result, err := Validate(src, FormatJSON)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if !result.Valid {
		t.Errorf("expected valid, got issues %+v", result.Issues)
	}
}

package addon

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/addon.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// ValidationResult contains the outcome of validating an addon manifest.
// Warnings never make a manifest invalid.
type ValidationResult struct {
	Valid    bool
	Issues   []ValidationIssue
	Warnings []ValidationIssue
}

// ValidationIssue is a single problem found in a manifest.
type ValidationIssue struct {
	Path    string // instance location, e.g. "/fileChanges/0/line"
	Message string
	Keyword string // schema keyword that failed, or "semver" for range warnings
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("addon.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("addon.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate checks raw manifest bytes against the addon schema and reports
// dependency versions that are not valid semver ranges as warnings.
// The error return is for decode or schema compilation failures only.
func Validate(data []byte, format Format) (*ValidationResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	jsonData := data
	if format == FormatYAML {
		var raw interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
		if jsonData, err = json.Marshal(raw); err != nil {
			return nil, fmt.Errorf("converting to JSON: %w", err)
		}
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	result := &ValidationResult{Valid: true}
	if err := schema.Validate(inst); err != nil {
		validationErr, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, fmt.Errorf("unexpected validation error type: %w", err)
		}
		result.Valid = false
		result.Issues = extractIssues(validationErr)
	}

	// Range checks only make sense once the manifest decodes.
	if d, err := Parse(data, format); err == nil {
		result.Warnings = checkVersions(d)
	}

	return result, nil
}

// ValidateFile reads name from fsys and validates it.
func ValidateFile(fsys fs.FS, name string) (*ValidationResult, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", name, err)
	}
	return Validate(data, FormatOf(name))
}

// checkVersions flags dependency versions npm would accept but that do not
// parse as semver constraints (tags like "latest", git or file specs).
func checkVersions(d *Descriptor) []ValidationIssue {
	var warnings []ValidationIssue
	check := func(block string, deps []string, get func(string) (string, bool)) {
		for _, name := range deps {
			version, _ := get(name)
			if _, err := semver.NewConstraint(version); err != nil {
				warnings = append(warnings, ValidationIssue{
					Path:    "/" + block + "/" + name,
					Message: fmt.Sprintf("%q is not a semver range: %v", version, err),
					Keyword: "semver",
				})
			}
		}
	}
	check("dependencies", d.Dependencies.Names(), d.Dependencies.Get)
	check("devDependencies", d.DevDependencies.Names(), d.DevDependencies.Get)
	return warnings
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	collectValidationIssues(ve, &issues)

	if len(issues) == 0 {
		return []ValidationIssue{{
			Message: ve.Error(),
		}}
	}
	return deduplicateIssues(issues)
}

func collectValidationIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) == 0 {
		path := "/" + strings.Join(ve.InstanceLocation, "/")
		if len(ve.InstanceLocation) == 0 {
			path = ""
		}

		keyword := ""
		msg := ""
		if ve.ErrorKind != nil {
			kwPath := ve.ErrorKind.KeywordPath()
			if len(kwPath) > 0 {
				keyword = kwPath[len(kwPath)-1]
			}
			msg = ve.ErrorKind.LocalizedString(printer)
		}

		// Container keywords carry no detail of their own.
		if keyword == "allOf" || keyword == "$ref" || keyword == "" {
			return
		}

		*issues = append(*issues, ValidationIssue{
			Path:    path,
			Message: msg,
			Keyword: keyword,
		})
		return
	}

	for _, cause := range ve.Causes {
		collectValidationIssues(cause, issues)
	}
}

func deduplicateIssues(issues []ValidationIssue) []ValidationIssue {
	seen := make(map[string]bool)
	var result []ValidationIssue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}

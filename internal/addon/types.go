package addon

import "github.com/expressr/create-expressr-app/internal/pkgjson"

// ConfigFileNames are the manifest names looked up in each addon directory,
// in priority order.
var ConfigFileNames = []string{"addon.config.json", "addon.config.yaml", "addon.config.yml"}

// ChangeType selects how a FileChange edits its target line.
type ChangeType string

const (
	// ChangeInsert splices the content in before the target line.
	ChangeInsert ChangeType = "insert"
	// ChangeReplace overwrites the target line.
	ChangeReplace ChangeType = "replace"
)

// Descriptor is a parsed addon manifest. It is immutable once loaded.
type Descriptor struct {
	Name            string       `json:"name" yaml:"name"`
	Description     string       `json:"description" yaml:"description"`
	Dependencies    pkgjson.Deps `json:"dependencies" yaml:"dependencies"`
	DevDependencies pkgjson.Deps `json:"devDependencies" yaml:"devDependencies"`
	NewFolders      []Folder     `json:"newFolders,omitempty" yaml:"newFolders,omitempty"`
	NewFiles        []NewFile    `json:"newFiles,omitempty" yaml:"newFiles,omitempty"`
	FileChanges     []FileChange `json:"fileChanges,omitempty" yaml:"fileChanges,omitempty"`

	// Folder is the addon's directory name; Source names the addon root it
	// was discovered in. Both are set by the loader, not the manifest.
	Folder string `json:"-" yaml:"-"`
	Source string `json:"-" yaml:"-"`
}

// Folder is a directory the addon creates, relative to the project root.
type Folder struct {
	Path string `json:"path" yaml:"path"`
}

// NewFile is a file the addon writes, relative to the project root.
type NewFile struct {
	Path    string `json:"path" yaml:"path"`
	Content string `json:"content" yaml:"content"`
}

// FileChange edits a single line of a project file.
// Line is 1-based for both insert and replace.
type FileChange struct {
	Path    string     `json:"path" yaml:"path"`
	Line    int        `json:"line" yaml:"line"`
	Type    ChangeType `json:"type,omitempty" yaml:"type,omitempty"`
	Content string     `json:"content" yaml:"content"`
}

// EffectiveType returns the change type, treating an empty type as insert.
func (c FileChange) EffectiveType() ChangeType {
	if c.Type == "" {
		return ChangeInsert
	}
	return c.Type
}

// DisplayName returns the manifest name, or the folder when the name is empty.
func (d *Descriptor) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Folder
}

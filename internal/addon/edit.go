package addon

import (
	"fmt"
	"strings"
)

// lineEditor applies FileChanges to one file's lines. Line numbers always
// refer to the file as it was before the first change made through this
// editor: every insert is remembered so later changes can be shifted past it.
type lineEditor struct {
	lines   []string
	inserts []int // original 0-based positions of inserts applied so far
}

func newLineEditor(content string) *lineEditor {
	return &lineEditor{lines: strings.Split(content, "\n")}
}

// apply performs one change. Inserts past the end append; replaces past the
// end pad the file with empty lines first.
func (e *lineEditor) apply(c FileChange) error {
	if c.Line < 1 {
		return fmt.Errorf("line %d out of range: lines are numbered from 1", c.Line)
	}

	orig := c.Line - 1
	idx := orig
	for _, p := range e.inserts {
		if p <= orig {
			idx++
		}
	}

	switch c.EffectiveType() {
	case ChangeInsert:
		if idx > len(e.lines) {
			idx = len(e.lines)
		}
		e.lines = append(e.lines, "")
		copy(e.lines[idx+1:], e.lines[idx:])
		e.lines[idx] = c.Content
		e.inserts = append(e.inserts, orig)
	case ChangeReplace:
		for idx >= len(e.lines) {
			e.lines = append(e.lines, "")
		}
		e.lines[idx] = c.Content
	default:
		return fmt.Errorf("unknown change type %q (want %q or %q)", c.Type, ChangeInsert, ChangeReplace)
	}
	return nil
}

func (e *lineEditor) String() string {
	return strings.Join(e.lines, "\n")
}

// ApplyChanges applies changes in order to content and returns the result.
// All changes are interpreted against the original content.
func ApplyChanges(content string, changes []FileChange) (string, error) {
	e := newLineEditor(content)
	for i, c := range changes {
		if err := e.apply(c); err != nil {
			return "", fmt.Errorf("change %d: %w", i+1, err)
		}
	}
	return e.String(), nil
}

package addon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyChanges(t *testing.T) {
	tests := []struct {
		name    string
		content string
		changes []FileChange
		want    string
	}{
		{
			name:    "insert at line 1 prepends",
			content: "a\nb\nc",
			changes: []FileChange{{Line: 1, Type: ChangeInsert, Content: "X"}},
			want:    "X\na\nb\nc",
		},
		{
			name:    "empty type inserts",
			content: "a\nb",
			changes: []FileChange{{Line: 2, Content: "X"}},
			want:    "a\nX\nb",
		},
		{
			name:    "replace is 1-based",
			content: "a\nb\nc",
			changes: []FileChange{{Line: 2, Type: ChangeReplace, Content: "B"}},
			want:    "a\nB\nc",
		},
		{
			name:    "insert past end appends",
			content: "a\nb",
			changes: []FileChange{{Line: 10, Content: "X"}},
			want:    "a\nb\nX",
		},
		{
			name:    "replace past end pads",
			content: "a",
			changes: []FileChange{{Line: 3, Type: ChangeReplace, Content: "C"}},
			want:    "a\n\nC",
		},
		{
			name:    "later lines refer to the original file",
			content: "l1\nl2\nl3\nl4",
			changes: []FileChange{
				{Line: 1, Content: "first"},
				{Line: 3, Content: "before-l3"},
				{Line: 4, Type: ChangeReplace, Content: "L4"},
			},
			want: "first\nl1\nl2\nbefore-l3\nl3\nL4",
		},
		{
			name:    "two inserts at the same line keep order",
			content: "a\nb",
			changes: []FileChange{
				{Line: 2, Content: "x"},
				{Line: 2, Content: "y"},
			},
			want: "a\nx\ny\nb",
		},
		{
			name:    "empty file",
			content: "",
			changes: []FileChange{{Line: 1, Content: "hello"}},
			want:    "hello\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyChanges(tt.content, tt.changes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyChangesInsertGrowsByOne(t *testing.T) {
	got, err := ApplyChanges("one\ntwo\nthree", []FileChange{{Line: 1, Type: ChangeInsert, Content: "zero"}})
	require.NoError(t, err)

	lines := splitLines(got)
	assert.Len(t, lines, 4)
	assert.Equal(t, "zero", lines[0])
	assert.Equal(t, []string{"one", "two", "three"}, lines[1:])
}

func TestApplyChangesErrors(t *testing.T) {
	_, err := ApplyChanges("a", []FileChange{{Line: 0, Content: "x"}})
	assert.ErrorContains(t, err, "out of range")

	_, err = ApplyChanges("a", []FileChange{{Line: 1, Type: "append", Content: "x"}})
	assert.ErrorContains(t, err, `unknown change type "append"`)
}

func splitLines(s string) []string {
	e := newLineEditor(s)
	return e.lines
}

package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *Tree {
	return &Tree{
		Name: "demo",
		Root: &Node{Name: "demo", Kind: DirKind, Children: []*Node{
			{Name: "z.txt", Kind: TextKind, Content: "zed"},
			{Name: "b", Kind: DirKind, Children: []*Node{
				{Name: "a.txt", Kind: TextKind, Content: "in b"},
			}},
			{Name: "a", Kind: DirKind, Children: []*Node{
				{Name: "a.txt", Kind: TextKind, Content: "in a"},
				{Name: "logo.png", Kind: BinaryKind},
			}},
			{Name: "broken", Kind: ErrorKind, Content: "permission denied: broken"},
		}},
	}
}

func TestFilesSortedPreOrder(t *testing.T) {
	files := sampleTree().Files()
	require.Len(t, files, 5)

	assert.Equal(t, "a/a.txt", files[0].Path)
	assert.Equal(t, "a/logo.png", files[1].Path)
	assert.Equal(t, BinaryPlaceholder, files[1].Content)
	assert.Equal(t, "b/a.txt", files[2].Path)
	assert.Equal(t, "broken", files[3].Path)
	assert.Equal(t, "[Error reading file: permission denied: broken]", files[3].Content)
	assert.Equal(t, "z.txt", files[4].Path)
	assert.Equal(t, "z.txt", files[4].Name)
}

func TestSortedChildrenDoesNotMutate(t *testing.T) {
	tr := sampleTree()
	sorted := tr.Root.SortedChildren()

	assert.Equal(t, "a", sorted[0].Name)
	assert.Equal(t, "z.txt", tr.Root.Children[0].Name)
}

func TestLookup(t *testing.T) {
	tr := sampleTree()

	assert.Equal(t, "in b", tr.lookup("b/a.txt").Content)
	assert.Equal(t, tr.Root, tr.lookup(""))
	assert.Nil(t, tr.lookup("c/a.txt"))
	assert.Nil(t, (*Tree)(nil).lookup("a"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "dir", DirKind.String())
	assert.Equal(t, "binary", BinaryKind.String())
	assert.Equal(t, "error", ErrorKind.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}

func TestCount(t *testing.T) {
	c := sampleTree().Count()
	assert.Equal(t, Counts{Dirs: 2, Text: 3, Binary: 1, Errors: 1, TextBytes: 11}, c)
}

package tree

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Kind tags what a Node holds.
type Kind int

const (
	// DirKind is an interior node with children
	DirKind Kind = iota
	// TextKind is a leaf holding decoded text
	TextKind
	// BinaryKind is a leaf standing in for undecodable content
	BinaryKind
	// ErrorKind is a leaf standing in for content that could not be read
	ErrorKind
)

const (
	// BinaryPlaceholder is rendered in place of binary file content.
	BinaryPlaceholder = "[Binary file]"

	errorPlaceholderFormat = "[Error reading file: %s]"
)

func (k Kind) String() string {
	switch k {
	case DirKind:
		return "dir"
	case TextKind:
		return "text"
	case BinaryKind:
		return "binary"
	case ErrorKind:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Node is one entry of the Hierarchical Content Tree. Directories carry
// Children; text leaves carry Content; error leaves carry the diagnostic
// message in Content.
type Node struct {
	Name     string
	Kind     Kind
	Content  string
	Children []*Node
}

// IsDir reports whether n is an interior node.
func (n *Node) IsDir() bool {
	return n.Kind == DirKind
}

// Placeholder returns the text rendered for a leaf: the content itself for
// text leaves and the sentinel string otherwise.
func (n *Node) Placeholder() string {
	switch n.Kind {
	case BinaryKind:
		return BinaryPlaceholder
	case ErrorKind:
		return fmt.Sprintf(errorPlaceholderFormat, n.Content)
	default:
		return n.Content
	}
}

// SortedChildren returns the children ordered by name. The receiver is not
// modified.
func (n *Node) SortedChildren() []*Node {
	children := make([]*Node, len(n.Children))
	copy(children, n.Children)
	sort.Slice(children, func(i, j int) bool {
		return children[i].Name < children[j].Name
	})
	return children
}

// Child returns the direct child called name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Tree is a built Hierarchical Content Tree. Name labels the root in the
// serialized outputs.
type Tree struct {
	Name string
	Root *Node
}

// File is one leaf of the tree in flattened form.
type File struct {
	// Path is the slash-separated path relative to the root
	Path string
	// Name is the last path segment
	Name string
	Kind Kind
	// Content is the text, or the placeholder for sentinel leaves
	Content string
}

// Files flattens the tree into its leaves in sorted pre-order.
func (t *Tree) Files() []File {
	if t == nil || t.Root == nil {
		return nil
	}

	var files []File
	var walk func(n *Node, prefix string)
	walk = func(n *Node, prefix string) {
		for _, child := range n.SortedChildren() {
			p := path.Join(prefix, child.Name)
			if child.IsDir() {
				walk(child, p)
				continue
			}
			files = append(files, File{
				Path:    p,
				Name:    child.Name,
				Kind:    child.Kind,
				Content: child.Placeholder(),
			})
		}
	}
	walk(t.Root, "")

	return files
}

// lookup returns the node at the slash-separated relative path, or nil.
func (t *Tree) lookup(rel string) *Node {
	if t == nil || t.Root == nil {
		return nil
	}

	n := t.Root
	for _, seg := range splitPath(rel) {
		if n = n.Child(seg); n == nil {
			return nil
		}
	}
	return n
}

// Counts reports how many leaves of each kind the tree holds and the total
// number of text bytes.
type Counts struct {
	Dirs      int
	Text      int
	Binary    int
	Errors    int
	TextBytes int64
}

// Count walks the tree and tallies its nodes. The root is not counted.
func (t *Tree) Count() Counts {
	var c Counts
	if t == nil || t.Root == nil {
		return c
	}

	var walk func(n *Node)
	walk = func(n *Node) {
		for _, child := range n.Children {
			switch child.Kind {
			case DirKind:
				c.Dirs++
				walk(child)
			case TextKind:
				c.Text++
				c.TextBytes += int64(len(child.Content))
			case BinaryKind:
				c.Binary++
			case ErrorKind:
				c.Errors++
			}
		}
	}
	walk(t.Root)

	return c
}

func splitPath(rel string) []string {
	var segs []string
	for _, s := range strings.Split(path.Clean("/"+rel), "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

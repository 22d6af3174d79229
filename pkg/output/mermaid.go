package output

import (
	"fmt"
	"strings"

	"github.com/sliday/git2md/pkg/tree"
)

const mermaidRootID = "A"

// formatMermaid renders a top-down graph. Node ids come from a counter in
// traversal order, so equal names in different branches never collide.
func (f *formatter) formatMermaid(t *tree.Tree) string {
	f.log.Debug("Formatting mermaid output")

	lines := []string{
		"graph TD",
		fmt.Sprintf("    %s[%s]", mermaidRootID, t.Name),
	}

	counter := 1
	var walk func(n *tree.Node, parent string)
	walk = func(n *tree.Node, parent string) {
		for _, child := range n.SortedChildren() {
			id := fmt.Sprintf("N%d", counter)
			counter++

			if child.IsDir() {
				lines = append(lines, fmt.Sprintf("    %s --> %s[%s]", parent, id, child.Name))
				walk(child, id)
				continue
			}
			lines = append(lines, fmt.Sprintf("    %s --> %s{'%s'}", parent, id, child.Name))
		}
	}
	walk(t.Root, mermaidRootID)

	return strings.Join(lines, "\n")
}

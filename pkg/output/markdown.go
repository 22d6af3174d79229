package output

import (
	"strings"

	"github.com/sliday/git2md/pkg/logger"
	"github.com/sliday/git2md/pkg/tree"
)

const (
	// heading level of a top-level directory; files sit one level deeper
	dirHeadingBase  = 2
	fileHeadingBase = 3
)

// formatMarkdown renders the title followed by one heading per node.
func (f *formatter) formatMarkdown(t *tree.Tree) string {
	f.log.Debug("Formatting markdown output")

	var b strings.Builder
	b.WriteString("# " + t.Name + "\n\n")
	f.writeMarkdownNode(&b, t.Root, 0)

	return b.String()
}

func (f *formatter) writeMarkdownNode(b *strings.Builder, n *tree.Node, depth int) {
	for _, child := range n.SortedChildren() {
		f.log.WithFields(logger.Fields{
			"node":  child.Name,
			"depth": depth,
		}).Trace("Formatting markdown node")

		if child.IsDir() {
			b.WriteString(strings.Repeat("#", depth+dirHeadingBase) + " " + child.Name + "\n\n")
			f.writeMarkdownNode(b, child, depth+1)
			continue
		}

		content := child.Placeholder()
		fence := codeFence(content)

		b.WriteString(strings.Repeat("#", depth+fileHeadingBase) + " " + child.Name + "\n\n")
		b.WriteString(fence + "\n" + content + "\n" + fence + "\n\n")
	}
}

// codeFence returns a backtick fence longer than any backtick run that opens
// a line of content, so embedded fences cannot close the block early.
func codeFence(content string) string {
	longest := 0
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimLeft(line, " \t")
		run := len(line) - len(strings.TrimLeft(line, "`"))
		if run > longest {
			longest = run
		}
	}

	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}

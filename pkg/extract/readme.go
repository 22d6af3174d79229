package extract

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

func parseMarkdown(src []byte) ast.Node {
	return markdown.Parser().Parse(text.NewReader(src))
}

// readmeOverview returns the first top-level paragraph of a Markdown
// document.
func readmeOverview(src []byte) string {
	doc := parseMarkdown(src)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if p, ok := n.(*ast.Paragraph); ok {
			return blockText(p, src)
		}
	}
	return ""
}

// usageSection returns the body of the first heading titled Usage, Getting
// Started or Quick Start, up to the next heading of the same or a higher
// level.
func usageSection(src []byte) string {
	doc := parseMarkdown(src)

	var (
		start = -1
		level int
	)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Lines().Len() == 0 {
			continue
		}

		if start < 0 {
			if usageHeadingPattern.MatchString(blockText(h, src)) {
				start = afterHeading(h, src)
				level = h.Level
			}
			continue
		}

		if h.Level <= level {
			end := lineStart(src, h.Lines().At(0).Start)
			return trimBlock(string(src[start:end]))
		}
	}

	if start < 0 {
		return ""
	}
	return trimBlock(string(src[start:]))
}

// blockText joins the trimmed source lines of a block node.
func blockText(n ast.Node, src []byte) string {
	lines := n.Lines()
	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		parts = append(parts, strings.TrimSpace(string(seg.Value(src))))
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// afterHeading returns the offset of the first line following a heading,
// skipping a setext underline.
func afterHeading(h *ast.Heading, src []byte) int {
	last := h.Lines().At(h.Lines().Len() - 1)
	pos := lineEnd(src, max(last.Start, last.Stop-1))

	next := lineEnd(src, pos)
	underline := bytes.TrimSpace(src[pos:next])
	if len(underline) > 0 && (isRun(underline, '=') || isRun(underline, '-')) {
		return next
	}
	return pos
}

// lineEnd returns the offset just past the newline ending the line that
// contains pos.
func lineEnd(src []byte, pos int) int {
	if pos >= len(src) {
		return len(src)
	}
	if i := bytes.IndexByte(src[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(src)
}

func lineStart(src []byte, pos int) int {
	if pos > len(src) {
		pos = len(src)
	}
	return bytes.LastIndexByte(src[:pos], '\n') + 1
}

func isRun(b []byte, c byte) bool {
	for _, x := range b {
		if x != c {
			return false
		}
	}
	return true
}

// trimBlock drops surrounding blank lines and trailing whitespace while
// keeping the indentation of the first line.
func trimBlock(s string) string {
	s = strings.TrimRight(s, " \t\r\n")
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 || strings.TrimSpace(s[:i]) != "" {
			break
		}
		s = s[i+1:]
	}
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

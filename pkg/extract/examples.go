package extract

import (
	"strings"

	"github.com/sliday/git2md/pkg/tree"
	"github.com/yuin/goldmark/ast"
)

// examples collects short code samples from documentation, doctest
// sessions from Python sources and the README usage section.
func (e *engine) examples(inv inventory, sig *Signals) Fragment {
	var items []string

	for _, f := range inv.text {
		var found []string
		switch ext(f.Name) {
		case ".md", ".markdown":
			found = markdownExamples([]byte(f.Content))
		case ".rst":
			found = rstExamples(f.Content)
		case ".py":
			found = doctestExamples(f.Content)
		}
		items = append(items, found...)
	}

	if inv.readme != nil && inv.readme.Kind == tree.TextKind {
		if usage := usageSection([]byte(inv.readme.Content)); usage != "" {
			items = append(items, usage)
		}
	}

	sig.Examples = len(items)
	return Fragment{
		Title:       "Usage Examples",
		Items:       items,
		Placeholder: noExamplesPlaceholder,
	}
}

func fenced(lang, code string) string {
	return "```" + lang + "\n" + code + "\n```"
}

// markdownExamples returns the fenced code blocks short enough to quote.
func markdownExamples(src []byte) []string {
	var found []string

	doc := parseMarkdown(src)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		lines := block.Lines()
		if lines.Len() == 0 || lines.Len() >= maxExampleLines {
			return ast.WalkSkipChildren, nil
		}

		parts := make([]string, 0, lines.Len())
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			parts = append(parts, strings.TrimRight(string(seg.Value(src)), "\r\n"))
		}
		if code := trimBlock(strings.Join(parts, "\n")); code != "" {
			found = append(found, fenced("", code))
		}
		return ast.WalkSkipChildren, nil
	})

	return found
}

// rstExamples returns the bodies of code-block directives.
func rstExamples(content string) []string {
	var found []string

	lines := strings.Split(content, "\n")
	for i := 0; i < len(lines); i++ {
		if !rstCodePattern.MatchString(strings.TrimSpace(lines[i])) {
			continue
		}

		base := indentOf(lines[i])
		var body []string
		j := i + 1
		for ; j < len(lines); j++ {
			line := lines[j]
			if strings.TrimSpace(line) == "" {
				body = append(body, "")
				continue
			}
			if indentOf(line) <= base {
				break
			}
			// directive options precede the body
			if len(body) == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
				continue
			}
			body = append(body, line)
		}
		i = j - 1

		code := trimBlock(dedent(body))
		if code == "" || strings.Count(code, "\n")+1 >= maxExampleLines {
			continue
		}
		found = append(found, fenced("", code))
	}

	return found
}

// doctestExamples returns interactive sessions: a prompt line and the
// continuation and output lines after it, up to a blank line.
func doctestExamples(content string) []string {
	var found []string

	lines := strings.Split(content, "\n")
	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed != ">>>" && !strings.HasPrefix(trimmed, ">>> ") {
			continue
		}

		var session []string
		j := i
		for ; j < len(lines); j++ {
			t := strings.TrimSpace(lines[j])
			if t == "" || strings.HasPrefix(t, `"""`) || strings.HasPrefix(t, "'''") {
				break
			}
			session = append(session, lines[j])
		}
		i = j

		found = append(found, fenced("python", dedent(session)))
	}

	return found
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// dedent removes the common leading whitespace of the non-blank lines.
func dedent(lines []string) string {
	common := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if n := indentOf(l); common < 0 || n < common {
			common = n
		}
	}

	out := make([]string, len(lines))
	for i, l := range lines {
		switch {
		case common <= 0:
			out[i] = l
		case len(l) >= common:
			out[i] = l[common:]
		default:
			out[i] = strings.TrimLeft(l, " \t")
		}
	}
	return strings.Join(out, "\n")
}

// Package pyparse lists the top-level functions of Python source with a
// tree-sitter grammar.
package pyparse

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sliday/git2md/pkg/extract"
	"github.com/sliday/git2md/pkg/logger"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// ErrSyntax is returned when the source contains syntax errors.
var ErrSyntax = errors.New("python source has syntax errors")

// Parser implements extract.SyntaxParser. A Parser is safe for concurrent
// use; calls are serialized.
type Parser struct {
	mu     sync.Mutex
	parser *tree_sitter.Parser
	log    logger.Logger
}

var _ extract.SyntaxParser = (*Parser)(nil)

// New creates a Parser. Close releases it.
func New(log logger.Logger) (*Parser, error) {
	p := tree_sitter.NewParser()
	if err := p.SetLanguage(tree_sitter.NewLanguage(tree_sitter_python.Language())); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to load python grammar: %w", err)
	}

	return &Parser{
		parser: p,
		log:    log,
	}, nil
}

// Close frees the underlying parser.
func (p *Parser) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.parser != nil {
		p.parser.Close()
		p.parser = nil
	}
}

// Functions returns the module-level functions of src in source order,
// including decorated ones.
func (p *Parser) Functions(src []byte) ([]extract.Function, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.parser == nil {
		return nil, errors.New("parser is closed")
	}

	t := p.parser.Parse(src, nil)
	if t == nil {
		return nil, fmt.Errorf("%w: parse aborted", ErrSyntax)
	}
	defer t.Close()

	root := t.RootNode()
	if root.HasError() {
		return nil, ErrSyntax
	}

	var funcs []extract.Function
	for i := uint(0); i < root.NamedChildCount(); i++ {
		def := functionNode(root.NamedChild(i))
		if def == nil {
			continue
		}

		name := def.ChildByFieldName("name")
		if name == nil {
			continue
		}
		funcs = append(funcs, extract.Function{
			Name: name.Utf8Text(src),
			Args: strings.Join(parameters(def.ChildByFieldName("parameters"), src), ", "),
			Doc:  docstring(def.ChildByFieldName("body"), src),
		})
	}

	p.log.WithFields(logger.Fields{
		"functions": len(funcs),
	}).Trace("Python source parsed")

	return funcs, nil
}

// functionNode unwraps decorators and returns n when it is a function
// definition.
func functionNode(n *tree_sitter.Node) *tree_sitter.Node {
	if n == nil {
		return nil
	}
	if n.Kind() == "decorated_definition" {
		n = n.ChildByFieldName("definition")
		if n == nil {
			return nil
		}
	}
	if n.Kind() != "function_definition" {
		return nil
	}
	return n
}

// parameters returns the positional-or-keyword parameter names. A splat or
// a bare * ends the list; the / marker is skipped.
func parameters(params *tree_sitter.Node, src []byte) []string {
	if params == nil {
		return nil
	}

	var names []string
	for i := uint(0); i < params.NamedChildCount(); i++ {
		param := params.NamedChild(i)

		switch param.Kind() {
		case "identifier":
			names = append(names, param.Utf8Text(src))
		case "default_parameter", "typed_default_parameter":
			if name := param.ChildByFieldName("name"); name != nil {
				names = append(names, name.Utf8Text(src))
			}
		case "typed_parameter":
			inner := param.NamedChild(0)
			if inner == nil || inner.Kind() != "identifier" {
				return names
			}
			names = append(names, inner.Utf8Text(src))
		case "positional_separator", "comment":
			continue
		default:
			// list_splat_pattern, dictionary_splat_pattern, keyword_separator
			return names
		}
	}
	return names
}

// docstring returns the first line of the body's leading string literal.
func docstring(body *tree_sitter.Node, src []byte) string {
	if body == nil {
		return ""
	}

	for i := uint(0); i < body.NamedChildCount(); i++ {
		stmt := body.NamedChild(i)
		if stmt.Kind() == "comment" {
			continue
		}
		if stmt.Kind() != "expression_statement" || stmt.NamedChildCount() == 0 {
			return ""
		}

		str := stmt.NamedChild(0)
		if str.Kind() != "string" {
			return ""
		}
		return firstLine(stringContent(str, src))
	}
	return ""
}

// stringContent concatenates the literal parts of a string node, dropping
// its prefix and quotes.
func stringContent(str *tree_sitter.Node, src []byte) string {
	var b strings.Builder
	for i := uint(0); i < str.NamedChildCount(); i++ {
		part := str.NamedChild(i)
		switch part.Kind() {
		case "string_content", "interpolation":
			b.WriteString(part.Utf8Text(src))
		}
	}
	return b.String()
}

func firstLine(doc string) string {
	doc = strings.TrimSpace(doc)
	if i := strings.IndexByte(doc, '\n'); i >= 0 {
		doc = doc[:i]
	}
	return strings.TrimSpace(doc)
}

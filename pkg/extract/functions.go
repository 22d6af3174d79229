package extract

import (
	"fmt"
	"strings"

	"github.com/sliday/git2md/pkg/logger"
	"github.com/sliday/git2md/pkg/tree"
)

const (
	parserSyntax = "syntax"
	parserRegex  = "regex"
)

// coreFunctionality lists the functions of the entry point.
func (e *engine) coreFunctionality(inv inventory, sig *Signals) Fragment {
	frag := Fragment{
		Title:       "Core Functionality",
		Placeholder: noEntryPlaceholder,
	}
	if inv.entry == nil {
		return frag
	}

	entry := *inv.entry
	sig.EntryPoint = entry.Path
	frag.Lead = []string{
		"Main entry point: " + entry.Path,
		"Key operations:",
	}
	frag.Placeholder = noFunctionsPlaceholder

	if entry.Kind != tree.TextKind {
		return frag
	}

	funcs, parser := e.entryFunctions(entry)
	sig.Parser = parser
	sig.Functions = funcs

	for _, fn := range funcs {
		frag.Items = append(frag.Items, fmt.Sprintf("- `%s(%s)`: %s", fn.Name, fn.Args, fn.Doc))
	}
	return frag
}

// entryFunctions tries the syntax-aware pass for Python sources and falls
// back to the regex table on any failure.
func (e *engine) entryFunctions(entry tree.File) ([]Function, string) {
	if e.config.Syntax != nil && ext(entry.Name) == ".py" {
		funcs, err := e.config.Syntax.Functions([]byte(entry.Content))
		if err == nil {
			for i := range funcs {
				if funcs[i].Doc == "" {
					funcs[i].Doc = noDocDescription
				}
			}
			return funcs, parserSyntax
		}

		e.log.WithFields(logger.Fields{
			"path":  entry.Path,
			"error": err,
		}).Debug("Syntax pass failed, using regex fallback")
	}

	return regexFunctions(entry.Content), parserRegex
}

// regexFunctions applies every function pattern in table order.
func regexFunctions(content string) []Function {
	var funcs []Function
	for _, fp := range functionPatterns {
		for _, m := range fp.Pattern.FindAllStringSubmatch(content, -1) {
			funcs = append(funcs, Function{
				Name: m[1],
				Args: strings.TrimSpace(m[2]),
				Doc:  regexDescription,
			})
		}
	}
	return funcs
}

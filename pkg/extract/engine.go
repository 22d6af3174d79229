/*
Package extract infers summary information from the flattened content tree
with shallow, table-driven heuristics: the technology stack, entry point
functions, configuration keys, error types, usage examples and test
patterns.

Every pass is best effort. A pattern that does not match or a file that does
not parse degrades to fewer findings or a placeholder line, never to an
error.

Basic usage:

	engine := extract.NewEngine(extract.Config{Syntax: pyParser}, log)
	result := engine.Extract(t.Files())

Syntax is optional; without it the entry point is scanned with regular
expressions only.
*/
package extract

import (
	"path"
	"strings"

	"github.com/sliday/git2md/pkg/logger"
	"github.com/sliday/git2md/pkg/tree"
)

// SyntaxParser lists the top-level functions of Python source. It returns
// an error when the source does not parse cleanly.
type SyntaxParser interface {
	Functions(src []byte) ([]Function, error)
}

// Config holds Engine settings.
type Config struct {
	// Syntax enables the syntax-aware entry point pass; nil disables it
	Syntax SyntaxParser
}

// Engine runs every extraction pass over a file list.
type Engine interface {
	Extract(files []tree.File) Result
}

type engine struct {
	config Config
	log    logger.Logger
}

// NewEngine creates an Engine.
func NewEngine(config Config, log logger.Logger) Engine {
	return &engine{
		config: config,
		log:    log,
	}
}

// inventory is the file list sorted into the roles the passes care about.
type inventory struct {
	all     []tree.File
	text    []tree.File
	readme  *tree.File
	entry   *tree.File
	tests   []tree.File
	configs []tree.File
}

func newInventory(files []tree.File) inventory {
	inv := inventory{all: files}

	for i := range files {
		f := files[i]
		if f.Kind == tree.TextKind {
			inv.text = append(inv.text, f)
		}

		name := strings.ToLower(f.Name)
		switch {
		case name == readmeName:
			// a root README wins over nested ones such as .github/README.md
			if inv.readme == nil || (isNested(inv.readme.Path) && !isNested(f.Path)) {
				inv.readme = &files[i]
			}
		case entryPointNames[name]:
			if inv.entry == nil {
				inv.entry = &files[i]
			}
		case strings.Contains(name, "test"):
			inv.tests = append(inv.tests, f)
		case configFileNames[name]:
			inv.configs = append(inv.configs, f)
		}
	}

	return inv
}

// Extract runs all passes.
func (e *engine) Extract(files []tree.File) Result {
	inv := newInventory(files)

	e.log.WithFields(logger.Fields{
		"files":   len(files),
		"readme":  inv.readme != nil,
		"entry":   entryPath(inv.entry),
		"tests":   len(inv.tests),
		"configs": len(inv.configs),
	}).Info("Extracting summary signals")

	var sig Signals
	r := Result{
		HasConfigFiles: len(inv.configs) > 0,
		HasTestFiles:   len(inv.tests) > 0,
	}

	if inv.readme != nil && inv.readme.Kind == tree.TextKind {
		r.Overview = readmeOverview([]byte(inv.readme.Content))
	}

	r.TechStack = e.techStack(inv, &sig)
	r.Core = e.coreFunctionality(inv, &sig)
	r.Configuration = e.configuration(inv, &sig)
	r.ErrorHandling = e.errorHandling(inv, &sig)
	r.Examples = e.examples(inv, &sig)
	r.DevNotes = e.devNotes(inv, &sig)
	r.Signals = sig

	e.log.WithFields(logger.Fields{
		"tech":      len(sig.TechStack),
		"functions": len(sig.Functions),
		"errors":    len(sig.ErrorTypes) + len(sig.HandledErrors),
		"examples":  sig.Examples,
		"testCases": len(sig.TestCases),
	}).Debug("Extraction completed")

	return r
}

func entryPath(f *tree.File) string {
	if f == nil {
		return ""
	}
	return f.Path
}

func isNested(p string) bool {
	return strings.Contains(p, "/")
}

func ext(name string) string {
	return strings.ToLower(path.Ext(name))
}

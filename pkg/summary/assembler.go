/*
Package summary assembles extraction results into the llms.txt document and
exports the structured signals behind it.

Basic usage:

	result := extract.NewEngine(extract.Config{}, log).Extract(t.Files())
	doc := summary.NewAssembler(log).Assemble(t.Name, result)

Sections always appear in the same order. Configuration and Development
Notes are left out entirely when the tree has no configuration or test
files; every other section falls back to a placeholder line instead.
*/
package summary

import (
	"strings"

	"github.com/sliday/git2md/pkg/extract"
	"github.com/sliday/git2md/pkg/logger"
)

// Assembler renders extraction results as text.
type Assembler interface {
	Assemble(name string, r extract.Result) string
}

type assembler struct {
	log logger.Logger
}

// NewAssembler creates an Assembler.
func NewAssembler(log logger.Logger) Assembler {
	return &assembler{log: log}
}

// Assemble joins the title, the overview and the section fragments.
func (a *assembler) Assemble(name string, r extract.Result) string {
	lines := []string{"# " + name}
	if r.Overview != "" {
		lines = append(lines, r.Overview)
	}
	lines = append(lines, "")

	sections := []struct {
		frag extract.Fragment
		show bool
	}{
		{r.TechStack, true},
		{r.Core, true},
		{r.Configuration, r.HasConfigFiles},
		{r.ErrorHandling, true},
		{r.Examples, true},
		{r.DevNotes, r.HasTestFiles},
	}

	written := 0
	for _, s := range sections {
		if !s.show {
			a.log.WithFields(logger.Fields{
				"section": s.frag.Title,
			}).Debug("Omitting section")
			continue
		}

		lines = append(lines, "## "+s.frag.Title)
		lines = append(lines, s.frag.Lines()...)
		lines = append(lines, "")
		written++
	}

	a.log.WithFields(logger.Fields{
		"name":     name,
		"sections": written,
	}).Debug("Summary assembled")

	return strings.Join(lines, "\n")
}

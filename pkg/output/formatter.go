/*
Package output serializes a content tree into its structural documents: a
nested Markdown file and a Mermaid diagram.

Basic usage:

	formatter := output.NewFormatter(output.Config{
		Format: output.FormatMarkdown,
	}, log)

	doc, err := formatter.Format(t)

Both formats traverse children sorted by name, so an identical tree always
serializes to identical bytes.
*/
package output

import (
	"errors"
	"fmt"

	"github.com/sliday/git2md/pkg/logger"
	"github.com/sliday/git2md/pkg/tree"
)

// Format represents the output format type
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatMermaid  Format = "mermaid"
)

// ErrNilTree is returned when Format is called without a tree.
var ErrNilTree = errors.New("nil tree provided for formatting")

// Config holds formatter configuration
type Config struct {
	Format Format
}

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(*tree.Tree) (string, error)
}

type formatter struct {
	config Config
	log    logger.Logger
}

// NewFormatter creates a new formatter instance
func NewFormatter(config Config, log logger.Logger) Formatter {
	return &formatter{
		config: config,
		log:    log,
	}
}

// Format serializes t according to the configured format
func (f *formatter) Format(t *tree.Tree) (string, error) {
	if t == nil || t.Root == nil {
		f.log.Error(ErrNilTree.Error())
		return "", ErrNilTree
	}

	f.log.WithFields(logger.Fields{
		"format": f.config.Format,
		"tree":   t.Name,
	}).Debug("Starting format operation")

	switch f.config.Format {
	case FormatMarkdown:
		return f.formatMarkdown(t), nil
	case FormatMermaid:
		return f.formatMermaid(t), nil
	default:
		err := fmt.Errorf("unsupported format: %s", f.config.Format)
		f.log.Error(err.Error())
		return "", err
	}
}

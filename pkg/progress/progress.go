/*
Package progress prints the stages of a run and its completion summary.

Output is colored only when the writer is a terminal and color has not been
disabled, so redirected output stays plain text.
*/
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/sliday/git2md/pkg/logger"
	"golang.org/x/term"
)

type progress struct {
	config Config
	log    logger.Logger
	writer io.Writer

	colored bool

	start   *color.Color
	step    *color.Color
	success *color.Color
	failure *color.Color
	label   *color.Color

	mu sync.Mutex
}

// New creates a new progress reporter
func New(config Config, log logger.Logger) Progress {
	p := &progress{
		config:  config,
		log:     log,
		writer:  config.Writer,
		start:   color.New(color.FgCyan, color.Bold),
		step:    color.New(color.FgGreen),
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
		label:   color.New(color.FgBlue),
	}
	if p.writer == nil {
		p.writer = os.Stdout
	}

	p.colored = !config.NoColor && p.IsSupportedTerminal()
	for _, c := range []*color.Color{p.start, p.step, p.success, p.failure, p.label} {
		if p.colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	p.log.WithFields(logger.Fields{
		"colored": p.colored,
	}).Debug("Created progress reporter")

	return p
}

func (p *progress) Start(message string) {
	p.print(p.start, "\n%s\n", message)
}

func (p *progress) Step(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.step.Fprint(p.writer, "•")
	fmt.Fprintf(p.writer, " %s\n", message)
}

func (p *progress) Complete(message string) {
	p.print(p.success, "\n✓ %s\n", message)
}

func (p *progress) Error(message string) {
	p.print(p.failure, "\n✗ %s\n", message)
}

func (p *progress) Report(s Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.start.Fprintln(p.writer, "\nProcessing summary:")
	p.row("Directories", humanize.Comma(int64(s.Dirs)))
	p.row("Text files", humanize.Comma(int64(s.Text)))
	p.row("Binary files", humanize.Comma(int64(s.Binary)))
	if s.Errors > 0 {
		p.row("Unreadable", humanize.Comma(int64(s.Errors)))
	}
	p.row("Text size", humanize.Bytes(uint64(s.TextBytes)))
	if s.Parser != "" {
		p.row("Entry parser", s.Parser)
	}
	p.row("Duration", s.Duration.Round(time.Millisecond).String())

	p.success.Fprintf(p.writer, "\nFiles generated in %s:\n", s.OutputDir)
	for _, f := range s.Files {
		p.label.Fprint(p.writer, "•")
		fmt.Fprintf(p.writer, " %s\n", f)
	}
}

// IsSupportedTerminal reports whether the writer is a terminal
func (p *progress) IsSupportedTerminal() bool {
	if f, ok := p.writer.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func (p *progress) row(name, value string) {
	p.label.Fprintf(p.writer, "  %-14s", name+":")
	fmt.Fprintf(p.writer, " %s\n", value)
}

func (p *progress) print(c *color.Color, format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c.Fprintf(p.writer, format, args...)
}

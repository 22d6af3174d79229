package progress

import (
	"io"
	"time"
)

// Config holds the configuration for progress output
type Config struct {
	// NoColor disables colored output
	NoColor bool

	// Writer receives the output; defaults to stdout
	Writer io.Writer
}

// Summary is the completion report of one run
type Summary struct {
	// OutputDir is where the files were written
	OutputDir string

	// Files are the generated file names
	Files []string

	Dirs      int
	Text      int
	Binary    int
	Errors    int
	TextBytes int64

	// Parser names the pass that read the entry point, if any
	Parser string

	Duration time.Duration
}

// Progress reports the stages of a run to the user
type Progress interface {
	// Start announces the run
	Start(message string)

	// Step announces one stage or generated file
	Step(message string)

	// Complete marks the run as successful
	Complete(message string)

	// Error marks the run as failed
	Error(message string)

	// Report prints the completion summary
	Report(s Summary)

	// IsSupportedTerminal reports whether the writer is a color-capable terminal
	IsSupportedTerminal() bool
}

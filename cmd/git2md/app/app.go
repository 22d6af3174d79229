/*
Package app provides the application container for git2md. It wires the
source resolver, the tree builder, the serializers and the summary pipeline
together and writes the generated files.

Usage:

	application, err := app.New(cfg)
	if err != nil {
	    log.Fatal(err)
	}
	defer application.Shutdown()

	report, err := application.Run(app.RunOptions{Source: "https://github.com/org/repo"})
*/
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sliday/git2md/internal/config"
	"github.com/sliday/git2md/internal/source"
	"github.com/sliday/git2md/pkg/extract"
	"github.com/sliday/git2md/pkg/logger"
	"github.com/sliday/git2md/pkg/output"
	"github.com/sliday/git2md/pkg/progress"
	"github.com/sliday/git2md/pkg/pyparse"
	"github.com/sliday/git2md/pkg/summary"
	"github.com/sliday/git2md/pkg/tree"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Generated file names
const (
	MarkdownFile = "README.md"
	MermaidFile  = "structure.mmd"
	SummaryFile  = "llms.txt"
	SignalsFile  = "signals.yaml"
)

// RunOptions describes one conversion
type RunOptions struct {
	// Source is a local path or a git URL
	Source string

	// OutputDir overrides the configured output directory
	OutputDir string

	// Token authenticates HTTPS clones
	Token string

	// SSHKey is a private key file for SSH clones
	SSHKey string
}

// Report describes a finished conversion
type Report struct {
	Name      string
	OutputDir string
	Files     []string
	Counts    tree.Counts
	Parser    string
	Duration  time.Duration
}

// App represents the main application container
type App struct {
	config *config.Config
	log    logger.Logger
	fs     afero.Fs

	builder   tree.Builder
	markdown  output.Formatter
	mermaid   output.Formatter
	parser    *pyparse.Parser
	engine    extract.Engine
	assembler summary.Assembler
	progress  progress.Progress

	ctx    context.Context
	cancel context.CancelFunc
	stop   func()
	mu     sync.Mutex
}

// Option adjusts an App before its components are created
type Option func(*App)

// WithFs replaces the filesystem the tree is read from and the output is
// written to
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.fs = fs }
}

// WithLogger replaces the logger built from the configuration
func WithLogger(log logger.Logger) Option {
	return func(a *App) { a.log = log }
}

// WithOutput redirects progress output
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		a.progress = progress.New(progress.Config{
			NoColor: a.config.NoColor,
			Writer:  w,
		}, a.log)
	}
}

// New creates a new application instance
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		config: cfg,
		fs:     afero.NewOsFs(),
		ctx:    ctx,
		cancel: cancel,
	}

	a.initLogger()
	for _, opt := range opts {
		opt(a)
	}
	a.initComponents()
	a.stop = a.setupSignalHandling()

	a.log.WithFields(logger.Fields{
		"workers": cfg.Workers,
		"verbose": cfg.Verbose,
		"syntax":  a.parser != nil,
	}).Info("Application initialized")

	return a, nil
}

// Run converts one source and writes the generated files
func (a *App) Run(opts RunOptions) (report *Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.log.WithFields(logger.Fields{
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("Recovered from panic")
			report = nil
			err = fmt.Errorf("conversion aborted: %v", r)
		}
	}()

	start := time.Now()
	a.progress.Start("Starting conversion...")

	report, err = a.run(opts)
	if err != nil {
		a.progress.Error(fmt.Sprintf("Conversion failed: %v", err))
		return nil, err
	}
	report.Duration = time.Since(start)

	a.progress.Complete(fmt.Sprintf("Converted %s", report.Name))
	a.progress.Report(progress.Summary{
		OutputDir: report.OutputDir,
		Files:     report.Files,
		Dirs:      report.Counts.Dirs,
		Text:      report.Counts.Text,
		Binary:    report.Counts.Binary,
		Errors:    report.Counts.Errors,
		TextBytes: report.Counts.TextBytes,
		Parser:    report.Parser,
		Duration:  report.Duration,
	})

	a.log.WithFields(logger.Fields{
		"name":     report.Name,
		"output":   report.OutputDir,
		"files":    len(report.Files),
		"duration": report.Duration.String(),
	}).Info("Conversion completed")

	return report, nil
}

func (a *App) run(opts RunOptions) (*Report, error) {
	src, err := source.Resolve(a.ctx, source.Options{
		Location: opts.Source,
		Token:    opts.Token,
		SSHKey:   opts.SSHKey,
	}, a.log)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare source: %w", err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			a.log.WithFields(logger.Fields{
				"error": err,
			}).Warn("Failed to clean up source")
		}
	}()

	a.progress.Step("Reading " + src.Name)
	t, err := a.builder.Build(a.ctx, src.Root, tree.BuildOptions{Name: src.Name})
	if err != nil {
		return nil, fmt.Errorf("failed to build content tree: %w", err)
	}

	outDir, err := a.outputDir(opts, src.Name)
	if err != nil {
		return nil, err
	}
	if err := a.fs.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	artifacts, result, err := a.generate(t)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Name:      t.Name,
		OutputDir: outDir,
		Counts:    t.Count(),
		Parser:    result.Signals.Parser,
	}
	for _, art := range artifacts {
		a.progress.Step("Writing " + art.name)
		if err := a.writeFile(filepath.Join(outDir, art.name), art.content); err != nil {
			return nil, err
		}
		report.Files = append(report.Files, art.name)
	}

	return report, nil
}

type artifact struct {
	name    string
	content []byte
}

// generate renders every output concurrently; they only read the tree
func (a *App) generate(t *tree.Tree) ([]artifact, extract.Result, error) {
	var (
		md, mmd, llms string
		signals       []byte
		result        extract.Result
	)

	g, _ := errgroup.WithContext(a.ctx)
	g.Go(func() (err error) {
		md, err = a.markdown.Format(t)
		return err
	})
	g.Go(func() (err error) {
		mmd, err = a.mermaid.Format(t)
		return err
	})
	g.Go(func() error {
		result = a.engine.Extract(t.Files())
		llms = a.assembler.Assemble(t.Name, result)
		if !a.config.Signals {
			return nil
		}
		var err error
		signals, err = summary.MarshalSignals(result.Signals)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, result, fmt.Errorf("failed to generate output: %w", err)
	}

	artifacts := []artifact{
		{name: MarkdownFile, content: []byte(md)},
		{name: MermaidFile, content: []byte(mmd)},
		{name: SummaryFile, content: []byte(llms)},
	}
	if signals != nil {
		artifacts = append(artifacts, artifact{name: SignalsFile, content: signals})
	}
	return artifacts, result, nil
}

// outputDir picks the flag value, then the configured one, then ./<name>
func (a *App) outputDir(opts RunOptions, name string) (string, error) {
	dir := opts.OutputDir
	if dir == "" {
		dir = a.config.OutputDir
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to resolve working directory: %w", err)
		}
		dir = filepath.Join(wd, name)
	}
	return dir, nil
}

func (a *App) writeFile(path string, content []byte) error {
	a.log.WithFields(logger.Fields{
		"path":  path,
		"bytes": len(content),
	}).Debug("Writing output")

	if err := afero.WriteFile(a.fs, path, content, 0644); err != nil {
		a.log.WithFields(logger.Fields{
			"error": err,
			"path":  path,
		}).Error("Failed to write output file")
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Shutdown cancels any running conversion and releases resources
func (a *App) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.log.Debug("Shutting down")

	a.cancel()
	if a.stop != nil {
		a.stop()
		a.stop = nil
	}
	if a.parser != nil {
		a.parser.Close()
		a.parser = nil
	}

	return nil
}

// initLogger initializes the application logger
func (a *App) initLogger() {
	a.log = logger.NewLogger(logger.Config{
		Verbosity: a.config.Verbose,
		Format:    a.config.LogFormat,
	})

	a.log.WithFields(logger.Fields{
		"verbosity": a.config.Verbose,
	}).Debug("Logger initialized")
}

// initComponents initializes all application components
func (a *App) initComponents() {
	a.log.Debug("Initializing application components")

	a.builder = tree.NewBuilder(tree.Config{
		Workers:   a.config.Workers,
		RateLimit: a.config.RateLimit,
	}, a.fs, a.log)

	a.markdown = output.NewFormatter(output.Config{Format: output.FormatMarkdown}, a.log)
	a.mermaid = output.NewFormatter(output.Config{Format: output.FormatMermaid}, a.log)

	var syntax extract.SyntaxParser
	if !a.config.NoSyntax {
		parser, err := pyparse.New(a.log)
		if err != nil {
			a.log.WithFields(logger.Fields{
				"error": err,
			}).Warn("Python syntax pass unavailable, using patterns only")
		} else {
			a.parser = parser
			syntax = parser
		}
	}

	a.engine = extract.NewEngine(extract.Config{Syntax: syntax}, a.log)
	a.assembler = summary.NewAssembler(a.log)

	if a.progress == nil {
		a.progress = progress.New(progress.Config{NoColor: a.config.NoColor}, a.log)
	}

	a.log.Debug("Components initialized successfully")
}

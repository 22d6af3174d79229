/*
Package tree builds the Hierarchical Content Tree: an in-memory copy of a
directory with every file classified as text or binary and text content
loaded.

Basic usage:

	builder := tree.NewBuilder(tree.Config{Workers: 4}, afero.NewOsFs(), log)

	t, err := builder.Build(ctx, "/path/to/repo", tree.BuildOptions{})
	for _, f := range t.Files() {
		fmt.Println(f.Path, f.Kind)
	}

A file that cannot be read never fails the build; it becomes an error leaf
carrying the diagnostic message. Only a missing or unreadable root is fatal.
*/
package tree

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sliday/git2md/pkg/logger"
	"github.com/sliday/git2md/pkg/worker"
	"github.com/spf13/afero"
)

// Config holds Builder settings.
type Config struct {
	// Workers is the number of files read concurrently
	Workers int

	// RateLimit caps file reads per second (0 for unlimited)
	RateLimit int
}

// BuildOptions adjusts a single build.
type BuildOptions struct {
	// Name labels the tree; defaults to the base name of the root
	Name string
}

// Builder walks a directory into a Tree.
type Builder interface {
	Build(ctx context.Context, root string, opts BuildOptions) (*Tree, error)
}

type builder struct {
	config     Config
	fs         afero.Fs
	log        logger.Logger
	classifier *Classifier
	rules      ExclusionRules
}

// leafResult is the payload of a file task.
type leafResult struct {
	node    *Node
	kind    Kind
	content string
}

// NewBuilder creates a Builder reading through fs.
func NewBuilder(config Config, fs afero.Fs, log logger.Logger) Builder {
	if config.Workers <= 0 {
		config.Workers = 1
	}

	return &builder{
		config:     config,
		fs:         fs,
		log:        log,
		classifier: NewClassifier(fs),
		rules:      DefaultExclusions(),
	}
}

// Build walks root and returns its content tree.
func (b *builder) Build(ctx context.Context, root string, opts BuildOptions) (*Tree, error) {
	start := time.Now()

	b.log.WithFields(logger.Fields{
		"root":       root,
		"workers":    b.config.Workers,
		"exclusions": b.rules.Patterns(),
	}).Info("Building content tree")

	info, err := b.fs.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("failed to stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotDir, root)
	}

	name := opts.Name
	if name == "" {
		name = filepath.Base(filepath.Clean(root))
	}

	pool, err := worker.NewPool(worker.Config{
		Workers:   b.config.Workers,
		RateLimit: b.config.RateLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	if err := pool.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start worker pool: %w", err)
	}
	defer func() {
		b.log.WithFields(logger.Fields{
			"status": pool.Status(),
		}).Trace("Stopping worker pool")
		if err := pool.Stop(); err != nil {
			b.log.WithFields(logger.Fields{
				"error": err,
			}).Warn("Error stopping worker pool")
		}
	}()

	t := &Tree{
		Name: name,
		Root: &Node{Name: name, Kind: DirKind},
	}

	entries, err := afero.ReadDir(b.fs, root)
	if err != nil {
		return nil, fmt.Errorf("failed to read root %s: %w", root, err)
	}

	submitted := 0
	if err := b.walk(ctx, pool, t.Root, root, entries, &submitted); err != nil {
		return nil, err
	}

	results, err := pool.Wait()
	if err != nil {
		// file tasks never fail on their own, so this is cancellation
		return nil, fmt.Errorf("tree build interrupted: %w", err)
	}
	for _, r := range results {
		leaf := r.Data.(leafResult)
		leaf.node.Kind = leaf.kind
		leaf.node.Content = leaf.content
	}

	stats := pool.GetStats()
	counts := t.Count()
	b.log.WithFields(logger.Fields{
		"root":      root,
		"reads":     stats.CompletedTasks,
		"failed":    stats.FailedTasks,
		"dirs":      counts.Dirs,
		"text":      counts.Text,
		"binary":    counts.Binary,
		"errors":    counts.Errors,
		"textBytes": humanize.Bytes(uint64(counts.TextBytes)),
		"duration":  time.Since(start).String(),
	}).Info("Content tree built")

	return t, nil
}

// walk adds the retained entries of one directory to node, recursing into
// subdirectories and submitting a read task per file.
func (b *builder) walk(ctx context.Context, pool worker.Pool, node *Node, dir string, entries []os.FileInfo, submitted *int) error {
	b.log.WithFields(logger.Fields{
		"path":    dir,
		"entries": len(entries),
	}).Debug("Walking directory")

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("tree build interrupted: %w", err)
		}

		name := entry.Name()
		if b.rules.Excluded(name) {
			b.log.WithFields(logger.Fields{
				"path": filepath.Join(dir, name),
			}).Debug("Excluded")
			continue
		}

		entryPath := filepath.Join(dir, name)
		child := &Node{Name: name}

		info := entry
		if entry.Mode()&os.ModeSymlink != 0 {
			target, err := b.fs.Stat(entryPath)
			if err != nil {
				b.markError(child, entryPath, err)
				node.Children = append(node.Children, child)
				continue
			}
			if target.IsDir() {
				// linked directories are not followed, which also rules out cycles
				b.log.WithFields(logger.Fields{
					"path": entryPath,
				}).Debug("Skipping directory symlink")
				continue
			}
			info = target
		}

		if info.IsDir() {
			child.Kind = DirKind
			node.Children = append(node.Children, child)

			sub, err := b.readDir(entryPath, info)
			if err != nil {
				child.Children = nil
				b.markError(child, entryPath, err)
				continue
			}
			if err := b.walk(ctx, pool, child, entryPath, sub, submitted); err != nil {
				return err
			}
			continue
		}

		child.Kind = TextKind
		node.Children = append(node.Children, child)
		if err := b.submitFile(pool, child, entryPath, *submitted); err != nil {
			return err
		}
		*submitted++
	}

	return nil
}

func (b *builder) readDir(path string, info os.FileInfo) ([]os.FileInfo, error) {
	if info.Mode().Perm()&0444 == 0 {
		return nil, &PermissionError{Path: path}
	}
	return afero.ReadDir(b.fs, path)
}

// submitFile queues the classification and read of one file. The task
// itself never fails: read errors become error leaves.
func (b *builder) submitFile(pool worker.Pool, node *Node, path string, id int) error {
	task := worker.Task{
		ID: id,
		Execute: func(ctx context.Context) (worker.Result, error) {
			kind, content := b.readLeaf(path)
			return worker.Result{
				ID:   id,
				Data: leafResult{node: node, kind: kind, content: content},
			}, nil
		},
	}

	if err := pool.Submit(task); err != nil {
		return fmt.Errorf("failed to queue %s: %w", path, err)
	}
	return nil
}

// readLeaf classifies path and loads its content.
func (b *builder) readLeaf(path string) (Kind, string) {
	log := b.log.WithFields(logger.Fields{"path": path})

	class, err := b.classifier.Classify(path)
	if err != nil {
		log.WithFields(logger.Fields{"error": err}).Warn("Failed to classify file")
		return ErrorKind, err.Error()
	}
	if class == Binary {
		log.Debug("Binary file")
		return BinaryKind, ""
	}

	data, err := b.readAll(path)
	if err != nil {
		log.WithFields(logger.Fields{"error": err}).Warn("Failed to read file")
		return ErrorKind, err.Error()
	}

	log.WithFields(logger.Fields{"size": len(data)}).Trace("File read")
	return TextKind, decodeLenient(data)
}

func (b *builder) readAll(path string) ([]byte, error) {
	f, err := openReadable(b.fs, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := afero.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func (b *builder) markError(n *Node, path string, err error) {
	b.log.WithFields(logger.Fields{
		"path":  path,
		"error": err,
	}).Warn("Unreadable entry")

	n.Kind = ErrorKind
	n.Content = err.Error()
}

/*
Package source resolves the input of a run to a local directory: either an
existing path on disk or a shallow clone of a remote git repository.

	src, err := source.Resolve(ctx, source.Options{Location: arg}, log)
	if err != nil {
		return err
	}
	defer src.Close()

Clones land in a temporary directory that Close removes.
*/
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/sliday/git2md/pkg/logger"
)

var (
	// ErrCloneFailed is returned when a remote repository cannot be cloned.
	ErrCloneFailed = errors.New("failed to clone repository")

	// ErrNotFound is returned when the location is neither an existing path
	// nor a git URL.
	ErrNotFound = errors.New("source not found")
)

// tokenEnv is consulted when no token is given explicitly.
const tokenEnv = "GITHUB_TOKEN"

// Options describes where the source lives and how to reach it.
type Options struct {
	// Location is a local path or a git URL
	Location string

	// Token authenticates HTTPS clones
	Token string

	// SSHKey is a private key file for SSH clones
	SSHKey string

	// TempDir is the parent of the clone directory; empty uses the system default
	TempDir string
}

// Source is a resolved local directory.
type Source struct {
	Root  string
	Name  string
	Local bool

	temp string
}

// Close removes the clone directory, if any.
func (s *Source) Close() error {
	if s == nil || s.temp == "" {
		return nil
	}
	if err := os.RemoveAll(s.temp); err != nil {
		return fmt.Errorf("failed to remove %s: %w", s.temp, err)
	}
	s.temp = ""
	return nil
}

// Resolve turns opts.Location into a local directory.
func Resolve(ctx context.Context, opts Options, log logger.Logger) (*Source, error) {
	if opts.Location == "" {
		return nil, fmt.Errorf("%w: empty location", ErrNotFound)
	}

	if _, err := os.Stat(opts.Location); err == nil {
		abs, err := filepath.Abs(opts.Location)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", opts.Location, err)
		}

		log.WithFields(logger.Fields{
			"path": abs,
		}).Debug("Using local source")

		return &Source{
			Root:  abs,
			Name:  RepoName(abs, true),
			Local: true,
		}, nil
	}

	if !isRemote(opts.Location) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, opts.Location)
	}

	return clone(ctx, opts, log)
}

func clone(ctx context.Context, opts Options, log logger.Logger) (*Source, error) {
	auth, err := authMethod(opts)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp(opts.TempDir, "git2md-")
	if err != nil {
		return nil, fmt.Errorf("failed to create clone directory: %w", err)
	}

	log.WithFields(logger.Fields{
		"url":  redact(opts.Location),
		"dir":  dir,
		"auth": auth != nil,
	}).Info("Cloning repository")

	_, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:   opts.Location,
		Auth:  auth,
		Depth: 1,
	})
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("%w: %s: %w", ErrCloneFailed, redact(opts.Location), err)
	}

	return &Source{
		Root: dir,
		Name: RepoName(opts.Location, false),
		temp: dir,
	}, nil
}

// authMethod picks SSH key auth for scp-like and ssh:// locations and
// token auth for HTTPS ones.
func authMethod(opts Options) (transport.AuthMethod, error) {
	if isSCPLike(opts.Location) || strings.HasPrefix(opts.Location, "ssh://") {
		if opts.SSHKey == "" {
			return nil, nil
		}
		keys, err := ssh.NewPublicKeysFromFile("git", opts.SSHKey, "")
		if err != nil {
			return nil, fmt.Errorf("failed to load ssh key %s: %w", opts.SSHKey, err)
		}
		return keys, nil
	}

	token := opts.Token
	if token == "" {
		token = os.Getenv(tokenEnv)
	}
	if token == "" {
		return nil, nil
	}
	return &http.BasicAuth{Username: "x-access-token", Password: token}, nil
}

// redact drops credentials embedded in a URL before it is logged.
func redact(location string) string {
	if at := strings.Index(location, "@"); at > 0 {
		if scheme := strings.Index(location, "://"); scheme >= 0 && scheme < at {
			return location[:scheme+3] + "***" + location[at:]
		}
	}
	return location
}

package tree

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"
)

// PrefixSize is the number of leading bytes inspected by the Classifier.
const PrefixSize = 1024

// Class is the outcome of classifying a file's content.
type Class int

const (
	// Text files decode as UTF-8
	Text Class = iota
	// Binary files do not
	Binary
)

func (c Class) String() string {
	if c == Binary {
		return "binary"
	}
	return "text"
}

// Classifier decides from a bounded content prefix whether a file is text.
// No extension heuristics are used.
type Classifier struct {
	fs afero.Fs
}

// NewClassifier returns a Classifier reading through fs.
func NewClassifier(fs afero.Fs) *Classifier {
	return &Classifier{fs: fs}
}

// Classify reads at most PrefixSize bytes (plus enough to finish a rune cut
// at the boundary) and validates them as UTF-8. Open and read failures are
// returned to the caller.
func (c *Classifier) Classify(path string) (Class, error) {
	f, err := openReadable(c.fs, path)
	if err != nil {
		return Binary, err
	}
	defer f.Close()

	buf := make([]byte, PrefixSize+utf8.UTFMax-1)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Binary, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return ClassifyPrefix(buf[:n], n == len(buf)), nil
}

// ClassifyPrefix classifies a content prefix. When truncated is true the
// prefix may end inside a multi-byte rune, which is not held against it.
func ClassifyPrefix(prefix []byte, truncated bool) Class {
	if truncated {
		prefix = trimPartialRune(prefix)
	}
	if utf8.Valid(prefix) {
		return Text
	}
	return Binary
}

// trimPartialRune drops an incomplete UTF-8 sequence at the end of b.
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i]
			}
			return b
		}
	}
	return b
}

// decodeLenient converts raw bytes to a string, replacing invalid UTF-8
// sequences with U+FFFD instead of failing.
func decodeLenient(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	decoded, err := unicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "\uFFFD")
	}
	return string(decoded)
}

// openReadable opens path for reading, refusing files whose permission bits
// grant no read access. Filesystems that do not enforce permissions, such as
// afero's memory filesystem, are covered by the explicit check.
func openReadable(fs afero.Fs, path string) (afero.File, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Mode().Perm()&0444 == 0 {
		return nil, &PermissionError{Path: path}
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

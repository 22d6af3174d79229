package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrRootNotFound is returned when the root path does not exist.
	ErrRootNotFound = errors.New("root path does not exist")

	// ErrRootNotDir is returned when the root path is not a directory.
	ErrRootNotDir = errors.New("root path is not a directory")
)

// PermissionError reports a file or directory that cannot be read.
type PermissionError struct {
	Path string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s", e.Path)
}

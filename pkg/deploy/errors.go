package deploy

import (
	"fmt"

	"github.com/easypatcher/easypatcher/pkg/errors"
)

var (
	// ErrBundleCorrupt indicates bundled content that does not match its manifest. Nothing was touched.
	ErrBundleCorrupt = errors.New("bundle corrupt")

	// ErrBackupIncomplete indicates a backup that could not be completed. Nothing was written.
	ErrBackupIncomplete = errors.New("backup incomplete")

	// ErrNoTarget indicates an apply without any registered target
	ErrNoTarget = errors.New("no target configured")

	// ErrNotDirectory indicates a target that is not an existing directory
	ErrNotDirectory = errors.New("target is not a directory")
)

// WriteError is a failure to mutate one path on a target
type WriteError struct {
	Op   string
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

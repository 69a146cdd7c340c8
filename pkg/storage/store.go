package storage

import (
	"context"
	"io"

	"github.com/easypatcher/easypatcher/pkg/storage/status"
)

const (
	// NoOverWrite makes Put fail on existing keys
	NoOverWrite = true
	// OverWrite lets Put replace existing keys
	OverWrite = false
)

// Sentinel errors, exposed at the package level for convenience
var (
	ErrNotExists  = status.ErrNotExists
	ErrExists     = status.ErrExists
	ErrInvalidKey = status.ErrInvalidKey
)

// Store implementations know how to write and read objects by key.
//
// Keys are slash separated relative paths.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(context.Context, string, io.Reader, bool) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)
}

// PipeIO copies a reader to a writer, returning the number of bytes copied
func PipeIO(writer io.Writer, reader io.Reader) (n int64, err error) {
	return io.Copy(writer, reader)
}

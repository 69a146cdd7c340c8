// Package status declares error constants returned by history providers.
package status

import "github.com/easypatcher/easypatcher/pkg/errors"

var (
	// ErrHistoryQuery indicates that the VCS could not be queried for this project
	ErrHistoryQuery = errors.New("history query failed")

	// ErrRevisionNotFound indicates a revision that does not exist, or no longer exists
	ErrRevisionNotFound = errors.New("revision not found")

	// ErrDirectory indicates that content was requested for a directory
	ErrDirectory = errors.New("path is a directory")

	// ErrUnsupported indicates a project that is not under a supported VCS
	ErrUnsupported = errors.New("not a recognized VCS project")

	// ErrConfig indicates invalid provider settings
	ErrConfig = errors.New("invalid vcs configuration")
)

package bundle

import "github.com/easypatcher/easypatcher/pkg/errors"

var (
	// ErrOutputCollision indicates an output directory that already exists
	ErrOutputCollision = errors.New("output directory already exists")

	// ErrContent indicates replacement content that could not be retrieved
	ErrContent = errors.New("cannot retrieve content")

	// ErrManifest indicates a bundle without a readable manifest
	ErrManifest = errors.New("invalid bundle manifest")

	// ErrCorrupt indicates bundled content that does not match the manifest
	ErrCorrupt = errors.New("bundle corrupt")
)

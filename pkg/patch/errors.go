package patch

import (
	"github.com/easypatcher/easypatcher/pkg/errors"
	"github.com/easypatcher/easypatcher/pkg/vcs"
)

var (
	// ErrDeclined indicates that the operator declined the plan. Nothing was written.
	ErrDeclined = errors.New("patch declined")

	// ErrNoHistory indicates a project with an empty history
	ErrNoHistory = errors.New(vcs.NoticeNoHistory)

	// ErrNothingSelected indicates a project for which no revision was selected
	ErrNothingSelected = errors.New("no revision selected")

	// ErrNoChanges indicates selected revisions that changed no file
	ErrNoChanges = errors.New("selected revisions change no file")

	// ErrBuild indicates projects that failed to build
	ErrBuild = errors.New("patch build failed")
)

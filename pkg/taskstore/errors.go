package taskstore

import "github.com/easypatcher/easypatcher/pkg/errors"

var (
	// ErrTaskExists indicates a duplicate task name
	ErrTaskExists = errors.New("task already exists")

	// ErrTaskNotFound indicates an unknown task name
	ErrTaskNotFound = errors.New("task not found")

	// ErrProjectExists indicates a project path already registered in the task
	ErrProjectExists = errors.New("project already registered")

	// ErrProjectNotFound indicates a project path not registered in the task
	ErrProjectNotFound = errors.New("project not found")

	// ErrNotDirectory indicates a project or output path that is not a directory
	ErrNotDirectory = errors.New("not a directory")

	// ErrCorrupted indicates a store file that cannot be parsed
	ErrCorrupted = errors.New("task store corrupted")
)

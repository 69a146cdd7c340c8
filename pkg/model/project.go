package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// Project is a version controlled working copy registered in a task
type Project struct {
	Path     string  `json:"path" yaml:"path"`
	VCS      VCSKind `json:"vcs" yaml:"vcs"`
	Artifact string  `json:"artifact,omitempty" yaml:"artifact,omitempty"`
}

// Name of the project, as used to label outputs
func (p Project) Name() string {
	base := filepath.Base(filepath.Clean(p.Path))
	if base == "." || base == string(filepath.Separator) {
		return "project"
	}
	return base
}

func (p Project) String() string {
	return fmt.Sprintf("%s (%s)", p.Path, p.VCS)
}

// Task groups the projects that are patched together
type Task struct {
	Name     string    `json:"name" yaml:"name"`
	Output   string    `json:"output,omitempty" yaml:"output,omitempty"`
	Projects []Project `json:"projects,omitempty" yaml:"projects,omitempty"`
}

// Project registered under this path, if any
func (t *Task) Project(path string) (*Project, bool) {
	for i := range t.Projects {
		if samePath(t.Projects[i].Path, path) {
			return &t.Projects[i], true
		}
	}
	return nil, false
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

// ValidateTaskName checks that a task name is usable as a store key
func ValidateTaskName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("empty field: task name is empty")
	}
	for _, c := range name {
		if !unicode.IsDigit(c) && !unicode.IsLetter(c) && !strings.ContainsRune("-_. ", c) {
			return fmt.Errorf("invalid name: task name:%s contains unsupported character %q", name, c)
		}
	}
	return nil
}

package taskstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/easypatcher/easypatcher/pkg/model"
	"github.com/easypatcher/easypatcher/pkg/vcs"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

type document struct {
	Tasks []model.Task `yaml:"tasks"`
}

// Option for the task store
type Option func(*Store)

// FS sets the file system where the store file lives
func FS(fs afero.Fs) Option {
	return func(s *Store) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// Logger for the task store
func Logger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.l = l
		}
	}
}

// Store of tasks, backed by one YAML file
type Store struct {
	path string
	fs   afero.Fs
	l    *zap.Logger
}

// New task store at path
func New(path string, opts ...Option) *Store {
	s := &Store{
		path: path,
		fs:   afero.NewOsFs(),
		l:    zap.NewNop(),
	}
	for _, apply := range opts {
		apply(s)
	}
	return s
}

// Path of the store file
func (s *Store) Path() string {
	return s.path
}

// Load all tasks. A missing store file is an empty list.
func (s *Store) Load() ([]model.Task, error) {
	b, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("reading task store %s: %w", s.path, err)
	}
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, ErrCorrupted.Wrapf("%s: %v", s.path, err)
	}
	if doc.Tasks == nil {
		doc.Tasks = []model.Task{}
	}
	return doc.Tasks, nil
}

// Save replaces all tasks
func (s *Store) Save(tasks []model.Task) error {
	b, err := yaml.Marshal(document{Tasks: tasks})
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("ensuring directory for task store %s: %w", s.path, err)
	}
	tmp, err := afero.TempFile(s.fs, dir, ".tasks-*.yaml")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err = tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return err
	}
	if err = tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return err
	}
	if err = s.fs.Rename(tmpName, s.path); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("replacing task store %s: %w", s.path, err)
	}
	s.l.Debug("task store saved", zap.String("path", s.path), zap.Int("tasks", len(tasks)))
	return nil
}

// Update loads all tasks, applies fn, then saves. Nothing is written when fn fails.
func (s *Store) Update(fn func(*[]model.Task) error) error {
	tasks, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(&tasks); err != nil {
		return err
	}
	return s.Save(tasks)
}

// Get a task by name
func (s *Store) Get(name string) (model.Task, error) {
	tasks, err := s.Load()
	if err != nil {
		return model.Task{}, err
	}
	i := indexOf(tasks, name)
	if i < 0 {
		return model.Task{}, ErrTaskNotFound.Wrapf("task %q", name)
	}
	return tasks[i], nil
}

func indexOf(tasks []model.Task, name string) int {
	for i := range tasks {
		if tasks[i].Name == name {
			return i
		}
	}
	return -1
}

// AddTask creates an empty task
func (s *Store) AddTask(name string) error {
	if err := model.ValidateTaskName(name); err != nil {
		return err
	}
	return s.Update(func(tasks *[]model.Task) error {
		if indexOf(*tasks, name) >= 0 {
			return ErrTaskExists.Wrapf("task %q", name)
		}
		*tasks = append(*tasks, model.Task{Name: name})
		return nil
	})
}

// DeleteTask removes a task and its projects
func (s *Store) DeleteTask(name string) error {
	return s.Update(func(tasks *[]model.Task) error {
		i := indexOf(*tasks, name)
		if i < 0 {
			return ErrTaskNotFound.Wrapf("task %q", name)
		}
		*tasks = append((*tasks)[:i], (*tasks)[i+1:]...)
		return nil
	})
}

// updateTask applies fn to a single task
func (s *Store) updateTask(name string, fn func(*model.Task) error) error {
	return s.Update(func(tasks *[]model.Task) error {
		i := indexOf(*tasks, name)
		if i < 0 {
			return ErrTaskNotFound.Wrapf("task %q", name)
		}
		return fn(&(*tasks)[i])
	})
}

// AddProject registers a working copy in a task. Its VCS is detected once, here.
func (s *Store) AddProject(task, path string) (model.Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return model.Project{}, err
	}
	if !vcs.IsDir(s.fs, abs) {
		return model.Project{}, ErrNotDirectory.Wrapf("project %s", abs)
	}
	project := model.Project{Path: abs, VCS: vcs.Detect(s.fs, abs)}

	err = s.updateTask(task, func(t *model.Task) error {
		if _, exists := t.Project(abs); exists {
			return ErrProjectExists.Wrapf("%s in task %q", abs, task)
		}
		t.Projects = append(t.Projects, project)
		return nil
	})
	if err != nil {
		return model.Project{}, err
	}
	s.l.Info("project registered", zap.String("task", task), zap.String("path", abs), zap.Stringer("vcs", project.VCS))
	return project, nil
}

// RemoveProject unregisters a working copy from a task
func (s *Store) RemoveProject(task, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return s.updateTask(task, func(t *model.Task) error {
		for i := range t.Projects {
			if filepath.Clean(t.Projects[i].Path) == abs {
				t.Projects = append(t.Projects[:i], t.Projects[i+1:]...)
				return nil
			}
		}
		return ErrProjectNotFound.Wrapf("%s in task %q", abs, task)
	})
}

// SetArtifact pairs a build artifact with a project. An empty artifact clears it.
func (s *Store) SetArtifact(task, projectPath, artifact string) error {
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return err
	}
	if artifact != "" {
		if artifact, err = filepath.Abs(artifact); err != nil {
			return err
		}
	}
	return s.updateTask(task, func(t *model.Task) error {
		p, ok := t.Project(abs)
		if !ok {
			return ErrProjectNotFound.Wrapf("%s in task %q", abs, task)
		}
		p.Artifact = artifact
		return nil
	})
}

// SetOutput sets the output directory of a task. An empty dir restores the default.
func (s *Store) SetOutput(task, dir string) error {
	if dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		dir = abs
	}
	return s.updateTask(task, func(t *model.Task) error {
		t.Output = dir
		return nil
	})
}

package taskstore

import (
	"testing"

	"github.com/easypatcher/easypatcher/pkg/errors"
	"github.com/easypatcher/easypatcher/pkg/model"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t testing.TB) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/src/web/.git", 0755))
	require.NoError(t, fs.MkdirAll("/src/legacy/.svn", 0755))
	require.NoError(t, fs.MkdirAll("/src/static", 0755))
	require.NoError(t, afero.WriteFile(fs, "/src/file.txt", []byte("x"), 0644))
	return New("/home/op/.easypatcher/tasks.yaml", FS(fs)), fs
}

func TestLoadMissing(t *testing.T) {
	s, _ := setupStore(t)
	tasks, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestLoadCorrupted(t *testing.T) {
	s, fs := setupStore(t)
	require.NoError(t, afero.WriteFile(fs, s.Path(), []byte("tasks: [: nope"), 0644))
	_, err := s.Load()
	assert.True(t, errors.Is(err, ErrCorrupted))
}

func TestTaskLifecycle(t *testing.T) {
	s, fs := setupStore(t)

	require.NoError(t, s.AddTask("release"))
	require.NoError(t, s.AddTask("hotfix"))
	assert.True(t, errors.Is(s.AddTask("release"), ErrTaskExists))
	assert.Error(t, s.AddTask(""))

	web, err := s.AddProject("release", "/src/web")
	require.NoError(t, err)
	assert.Equal(t, model.VCSGit, web.VCS)

	legacy, err := s.AddProject("release", "/src/legacy/")
	require.NoError(t, err)
	assert.Equal(t, model.Project{Path: "/src/legacy", VCS: model.VCSSvn}, legacy)

	static, err := s.AddProject("release", "/src/static")
	require.NoError(t, err)
	assert.Equal(t, model.VCSUnknown, static.VCS)

	_, err = s.AddProject("release", "/src/web")
	assert.True(t, errors.Is(err, ErrProjectExists))
	_, err = s.AddProject("release", "/src/file.txt")
	assert.True(t, errors.Is(err, ErrNotDirectory))
	_, err = s.AddProject("nope", "/src/web")
	assert.True(t, errors.Is(err, ErrTaskNotFound))

	require.NoError(t, s.SetArtifact("release", "/src/web", "/build/web.war"))
	assert.True(t, errors.Is(s.SetArtifact("release", "/src/other", "/build/x.war"), ErrProjectNotFound))
	require.NoError(t, s.SetOutput("release", "/out"))

	task, err := s.Get("release")
	require.NoError(t, err)
	assert.Equal(t, "/out", task.Output)
	require.Len(t, task.Projects, 3)
	assert.Equal(t, "/src/web", task.Projects[0].Path)
	assert.Equal(t, "/build/web.war", task.Projects[0].Artifact)
	assert.Equal(t, "/src/legacy", task.Projects[1].Path)
	assert.Equal(t, "/src/static", task.Projects[2].Path)

	// the vcs kind is persisted as text
	raw, err := afero.ReadFile(fs, s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "vcs: svn")

	require.NoError(t, s.RemoveProject("release", "/src/static"))
	assert.True(t, errors.Is(s.RemoveProject("release", "/src/static"), ErrProjectNotFound))

	require.NoError(t, s.DeleteTask("hotfix"))
	assert.True(t, errors.Is(s.DeleteTask("hotfix"), ErrTaskNotFound))

	tasks, err := s.Load()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Len(t, tasks[0].Projects, 2)
	_, err = s.Get("hotfix")
	assert.True(t, errors.Is(err, ErrTaskNotFound))
}

func TestUpdateFailureWritesNothing(t *testing.T) {
	s, fs := setupStore(t)
	require.NoError(t, s.AddTask("release"))
	before, err := afero.ReadFile(fs, s.Path())
	require.NoError(t, err)

	err = s.Update(func(tasks *[]model.Task) error {
		*tasks = nil
		return assert.AnError
	})
	assert.Equal(t, assert.AnError, err)

	after, err := afero.ReadFile(fs, s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// no temporary file left behind
	entries, err := afero.ReadDir(fs, "/home/op/.easypatcher")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

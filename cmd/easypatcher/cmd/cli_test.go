package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/easypatcher/easypatcher/pkg/ui"
	"github.com/easypatcher/easypatcher/pkg/vcs"
	"github.com/fatih/color"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type ExitMocks struct {
	fatalCalls int
	messages   []string
	exitCode   int
}

func (m *ExitMocks) Fatalf(format string, v ...interface{}) {
	m.fatalCalls++
	m.messages = append(m.messages, fmt.Sprintf(format, v...))
}

func (m *ExitMocks) Fatalln(v ...interface{}) {
	m.fatalCalls++
	m.messages = append(m.messages, strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

var exitMocks *ExitMocks

// setupTests points the configuration at a fresh directory and intercepts exits
func setupTests(t *testing.T) string {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "easypatcher.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(strings.Join([]string{
		"tasks: " + filepath.Join(dir, "tasks.yaml"),
		"output: " + filepath.Join(dir, "patches"),
		"loglevel: none",
		"git:",
		"  backend: gogit",
		"",
	}, "\n")), 0644))
	t.Setenv("EASYPATCHER_CONFIG", cfg)

	exitMocks = new(ExitMocks)
	fatalln, fatalf, exit, reader := logFatalln, logFatalf, osExit, newLineReader
	logFatalln = exitMocks.Fatalln
	logFatalf = exitMocks.Fatalf
	osExit = func(code int) { exitMocks.exitCode = code }
	t.Cleanup(func() {
		logFatalln, logFatalf, osExit, newLineReader = fatalln, fatalf, exit, reader
	})
	return dir
}

func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	easypatcherFlags = flagsT{}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

// answers replaces the terminal with scripted answers
type answers []string

func (a *answers) SetPrompt(string) {}

func (a *answers) Readline() (string, error) {
	if len(*a) == 0 {
		return "", io.EOF
	}
	line := (*a)[0]
	*a = (*a)[1:]
	return line, nil
}

func withAnswers(lines ...string) {
	a := answers(lines)
	newLineReader = func() (ui.LineReader, func(), error) {
		return &a, func() {}, nil
	}
}

type repo struct {
	t    *testing.T
	dir  string
	tree *git.Worktree
	when time.Time
}

func newRepo(t *testing.T) *repo {
	dir := filepath.Join(t.TempDir(), "web")
	r, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := r.Worktree()
	require.NoError(t, err)
	return &repo{t: t, dir: dir, tree: wt, when: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (r *repo) write(name, content string) {
	p := filepath.Join(r.dir, filepath.FromSlash(name))
	require.NoError(r.t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(r.t, os.WriteFile(p, []byte(content), 0644))
}

func (r *repo) remove(name string) {
	require.NoError(r.t, os.Remove(filepath.Join(r.dir, filepath.FromSlash(name))))
}

func (r *repo) commit(msg string) string {
	require.NoError(r.t, r.tree.AddWithOptions(&git.AddOptions{All: true}))
	r.when = r.when.Add(time.Minute)
	h, err := r.tree.Commit(msg, &git.CommitOptions{
		All:    true,
		Author: &object.Signature{Name: "Dev", Email: "dev@example.com", When: r.when},
	})
	require.NoError(r.t, err)
	return h.String()
}

// twoCommits: add a.txt and b.txt, then modify a.txt, delete b.txt and add c/d.txt
func twoCommits(t *testing.T) (*repo, string, string) {
	r := newRepo(t)
	r.write("a.txt", "v1")
	r.write("b.txt", "b")
	h1 := r.commit("add a and b")
	r.write("a.txt", "v2")
	r.remove("b.txt")
	r.write("c/d.txt", "d")
	h2 := r.commit("second")
	return r, h1, h2
}

func readTextFile(t testing.TB, pth string) string {
	b, err := os.ReadFile(pth)
	require.NoError(t, err, pth)
	return string(b)
}

func bundleDirs(t *testing.T, output string) []string {
	dirs, err := filepath.Glob(filepath.Join(output, "web-*_*"))
	require.NoError(t, err)
	return dirs
}

func TestTaskAndProjectCommands(t *testing.T) {
	dir := setupTests(t)
	r, _, _ := twoCommits(t)

	out := runCmd(t, "task", "create", "--task", "release")
	assert.Contains(t, out, "created task release")
	runCmd(t, "task", "create", "--task", "release")
	assert.Equal(t, 1, exitMocks.fatalCalls)

	out = runCmd(t, "project", "add", "--task", "release", "--path", r.dir)
	assert.Contains(t, out, "added "+r.dir+" (git)")
	plain := t.TempDir()
	out = runCmd(t, "project", "add", "--task", "release", "--path", plain)
	assert.Contains(t, out, vcs.NoticeUnknownVCS)
	runCmd(t, "project", "add", "--task", "release", "--path", r.dir)
	assert.Equal(t, 2, exitMocks.fatalCalls)

	artifact := filepath.Join(dir, "web.war")
	runCmd(t, "project", "artifact", "--task", "release", "--path", r.dir, "--artifact", artifact)
	out = runCmd(t, "task", "output", "--task", "release", "--output", filepath.Join(dir, "out"))
	assert.Contains(t, out, "outputs to "+filepath.Join(dir, "out"))

	out = runCmd(t, "project", "list", "--task", "release")
	assert.Contains(t, out, r.dir)
	assert.Contains(t, out, artifact)
	assert.Contains(t, out, "unknown")

	out = runCmd(t, "task", "list")
	assert.Contains(t, out, "release")
	assert.Contains(t, out, "output: "+filepath.Join(dir, "out"))

	runCmd(t, "task", "delete", "--task", "release")
	out = runCmd(t, "task", "list")
	assert.Contains(t, out, "no task")
	assert.Equal(t, 2, exitMocks.fatalCalls)
}

func TestPatchBuildAndApply(t *testing.T) {
	dir := setupTests(t)
	r, _, _ := twoCommits(t)
	runCmd(t, "task", "create", "--task", "release")
	runCmd(t, "project", "add", "--task", "release", "--path", r.dir)

	out := runCmd(t, "patch", "build", "--task", "release", "--all", "--yes")
	require.Zero(t, exitMocks.fatalCalls, exitMocks.messages)
	assert.Contains(t, out, "1 added, 1 modified, 1 deleted")

	dirs := bundleDirs(t, filepath.Join(dir, "patches"))
	require.Len(t, dirs, 1)
	bundleDir := dirs[0]
	assert.Contains(t, out, bundleDir)
	assert.Equal(t, "v2", readTextFile(t, filepath.Join(bundleDir, "files", "a.txt")))
	assert.Equal(t, "d", readTextFile(t, filepath.Join(bundleDir, "files", "c", "d.txt")))
	assert.Contains(t, readTextFile(t, filepath.Join(bundleDir, "changes.txt")), "deleted\tb.txt\t\n")
	fi, err := os.Stat(filepath.Join(bundleDir, "apply.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), fi.Mode().Perm())

	target := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(target, "a.txt"), []byte("v1"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(target, "b.txt"), []byte("b"), 0644))

	out = runCmd(t, "apply", "--bundle", bundleDir, "--add-target", target, "--dry-run")
	assert.Contains(t, out, "delete    "+filepath.Join(target, "b.txt"))
	assert.Contains(t, out, "update    "+filepath.Join(target, "a.txt"))
	assert.Contains(t, out, "-v1")
	assert.Contains(t, out, "+v2")
	assert.Contains(t, out, "create    "+filepath.Join(target, "c", "d.txt"))
	assert.Equal(t, "v1", readTextFile(t, filepath.Join(target, "a.txt")))

	out = runCmd(t, "apply", "--bundle", bundleDir, "--yes")
	assert.Contains(t, out, "Patch applied: 2 written, 1 deleted.")
	assert.Zero(t, exitMocks.exitCode)
	assert.Equal(t, "v2", readTextFile(t, filepath.Join(target, "a.txt")))
	assert.Equal(t, "d", readTextFile(t, filepath.Join(target, "c", "d.txt")))
	_, err = os.Stat(filepath.Join(target, "b.txt"))
	assert.True(t, os.IsNotExist(err))

	backups, err := filepath.Glob(filepath.Join(bundleDir, "bak_*"))
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, "v1", readTextFile(t, filepath.Join(backups[0], "1", "a.txt")))
	assert.Equal(t, "b", readTextFile(t, filepath.Join(backups[0], "1", "b.txt")))

	out = runCmd(t, "patch", "build", "--task", "release", "--select", "web=nothing-here", "--yes")
	assert.Contains(t, out, "Nothing to patch")
	assert.Zero(t, exitMocks.fatalCalls, exitMocks.messages)
	assert.Len(t, bundleDirs(t, filepath.Join(dir, "patches")), 1)
}

func TestApplyWithoutTerminal(t *testing.T) {
	dir := setupTests(t)
	r, _, _ := twoCommits(t)
	runCmd(t, "task", "create", "--task", "release")
	runCmd(t, "project", "add", "--task", "release", "--path", r.dir)
	runCmd(t, "patch", "build", "--task", "release", "--all", "--yes")
	require.Zero(t, exitMocks.fatalCalls, exitMocks.messages)
	dirs := bundleDirs(t, filepath.Join(dir, "patches"))
	require.Len(t, dirs, 1)

	target := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(target, "a.txt"), []byte("v1"), 0644))
	newLineReader = func() (ui.LineReader, func(), error) {
		return nil, nil, ui.ErrNoTerminal
	}

	runCmd(t, "apply", "--bundle", dirs[0], "--add-target", target)
	require.Equal(t, 1, exitMocks.fatalCalls)
	assert.Contains(t, exitMocks.messages[0], "use --yes or --dry-run")
	assert.Contains(t, exitMocks.messages[0], ui.ErrNoTerminal.Error())
	assert.Equal(t, "v1", readTextFile(t, filepath.Join(target, "a.txt")))
}

func TestPatchBuildSelect(t *testing.T) {
	dir := setupTests(t)
	r, h1, _ := twoCommits(t)
	runCmd(t, "task", "create", "--task", "release")
	runCmd(t, "project", "add", "--task", "release", "--path", r.dir)

	out := filepath.Join(dir, "elsewhere")
	runCmd(t, "patch", "build", "--task", "release", "--select", r.dir+"="+h1, "--yes", "--output", out)
	require.Zero(t, exitMocks.fatalCalls, exitMocks.messages)
	dirs := bundleDirs(t, out)
	require.Len(t, dirs, 1)
	assert.Equal(t, "v1", readTextFile(t, filepath.Join(dirs[0], "files", "a.txt")))
	assert.Equal(t, "b", readTextFile(t, filepath.Join(dirs[0], "files", "b.txt")))
}

func TestPatchBuildInteractive(t *testing.T) {
	dir := setupTests(t)
	r, _, _ := twoCommits(t)
	runCmd(t, "task", "create", "--task", "release")
	runCmd(t, "project", "add", "--task", "release", "--path", r.dir)

	// history is newest first: pick the oldest revision, then decline
	withAnswers("2", "n")
	out := runCmd(t, "patch", "build", "--task", "release")
	assert.Contains(t, out, "add a and b")
	assert.Contains(t, out, "2 added")
	assert.Contains(t, out, "Declined: nothing was written")
	assert.Empty(t, bundleDirs(t, filepath.Join(dir, "patches")))

	withAnswers("all", "y")
	out = runCmd(t, "patch", "build", "--task", "release")
	assert.Contains(t, out, "1 added, 1 modified, 1 deleted")
	assert.Len(t, bundleDirs(t, filepath.Join(dir, "patches")), 1)
	assert.Zero(t, exitMocks.fatalCalls, exitMocks.messages)
}

func TestProjectHistory(t *testing.T) {
	setupTests(t)
	r, h1, h2 := twoCommits(t)

	out := runCmd(t, "project", "history", "--path", r.dir)
	assert.Contains(t, out, h1[:10])
	assert.Contains(t, out, h2[:10])
	assert.Contains(t, out, "add a and b")
	assert.Less(t, strings.Index(out, h2[:10]), strings.Index(out, h1[:10]))

	out = runCmd(t, "project", "history", "--path", r.dir, "--revision", h2)
	assert.Contains(t, out, "modified")
	assert.Contains(t, out, "c/d.txt")
	assert.Contains(t, out, "deleted")

	out = runCmd(t, "project", "history", "--path", t.TempDir())
	assert.Contains(t, out, vcs.NoticeUnknownVCS)

	runCmd(t, "project", "history", "--path", r.dir, "--revision", "not-a-hash")
	assert.Equal(t, 1, exitMocks.fatalCalls)
}

func TestMenuCommand(t *testing.T) {
	setupTests(t)
	withAnswers("1", "ops", "1", "6", "3")
	out := runCmd(t, "menu")
	assert.Contains(t, out, "create task")
	assert.Contains(t, out, "ops")
	assert.Zero(t, exitMocks.fatalCalls, exitMocks.messages)

	out = runCmd(t, "task", "list")
	assert.Contains(t, out, "ops")
}

func TestConfigDumpAndVersion(t *testing.T) {
	dir := setupTests(t)
	t.Setenv("EASYPATCHER_HISTORY_SVN_LIMIT", "12")
	t.Setenv("EASYPATCHER_STAGE_EXTENSIONS", ".war,.tar")

	out := runCmd(t, "config", "dump")
	assert.Contains(t, out, "tasks: "+filepath.Join(dir, "tasks.yaml"))
	assert.Contains(t, out, "backend: gogit")
	assert.Contains(t, out, "svn-limit: 12")
	assert.Contains(t, out, "- .tar")
	assert.Contains(t, out, "binary: svn")

	out = runCmd(t, "version")
	assert.Contains(t, out, "Version: dev")
}

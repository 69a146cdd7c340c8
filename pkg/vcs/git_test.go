package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/easypatcher/easypatcher/pkg/errors"
	"github.com/easypatcher/easypatcher/pkg/model"
	"github.com/easypatcher/easypatcher/pkg/vcs/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hash1 = "1111111111111111111111111111111111111111"
	hash2 = "2222222222222222222222222222222222222222"
	hash3 = "3333333333333333333333333333333333333333"
)

const showArgs = "-c core.quotePath=false show --name-status --no-color --format= -M -m --first-parent "

func TestGitHistoryParsing(t *testing.T) {
	r := newFakeRunner(t).
		on("log --oneline --no-abbrev-commit --no-decorate --no-color",
			hash3+" change config\n"+hash2+" add readme\n\nnot a record\n"+hash1+" initial import\n").
		on("log --oneline --no-abbrev-commit --no-decorate --no-color -n 2",
			hash3+" change config\n"+hash2+" add readme\n")

	p, err := New(model.VCSGit, WithRunner(r))
	require.NoError(t, err)

	records, err := p.History(context.Background(), "/src", 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, model.RevisionRecord{ID: hash3, Summary: "change config", VCS: model.VCSGit}, records[0])
	assert.Equal(t, hash1, records[2].ID)

	records, err = p.History(context.Background(), "/src", 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestGitHistoryFailures(t *testing.T) {
	const cmd = "log --oneline --no-abbrev-commit --no-decorate --no-color"

	r := newFakeRunner(t).on(cmd, "")
	p, _ := New(model.VCSGit, WithRunner(r))
	records, err := p.History(context.Background(), "/src", 0)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, NoticeNoHistory, Notice(model.VCSGit, len(records)))

	r = newFakeRunner(t).fail(cmd, "fatal: your current branch 'master' does not have any commits yet")
	p, _ = New(model.VCSGit, WithRunner(r))
	records, err = p.History(context.Background(), "/src", 0)
	require.NoError(t, err)
	assert.Empty(t, records)

	r = newFakeRunner(t).fail(cmd, "fatal: not a git repository (or any of the parent directories): .git")
	p, _ = New(model.VCSGit, WithRunner(r))
	_, err = p.History(context.Background(), "/src", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrHistoryQuery))
	assert.Contains(t, err.Error(), "not a git repository")
}

func TestGitChangedFilesParsing(t *testing.T) {
	r := newFakeRunner(t).on(showArgs+hash2, strings.Join([]string{
		"M\tconfig.xml",
		"A\tsrc/main/webapp/index.jsp",
		"D\tobsolete.txt",
		"R087\tsrc/Old.java\tsrc/New.java",
		"C100\ttemplate.xml\tcopy.xml",
		"T\tlink",
		"",
		"M\tconfig.xml",
		"X\tunknown",
		"설정/한글.txt",
		"A\t설정/한글.txt",
	}, "\n"))

	p, _ := New(model.VCSGit, WithRunner(r))
	entries, err := p.ChangedFiles(context.Background(), "/src", hash2)
	require.NoError(t, err)
	assert.Equal(t, []model.ChangeEntry{
		{Kind: model.ChangeModified, Path: "config.xml", Revision: hash2},
		{Kind: model.ChangeAdded, Path: "src/main/webapp/index.jsp", Revision: hash2},
		{Kind: model.ChangeDeleted, Path: "obsolete.txt", Revision: hash2},
		{Kind: model.ChangeRenamed, OldPath: "src/Old.java", Path: "src/New.java", Revision: hash2},
		{Kind: model.ChangeAdded, Path: "copy.xml", Revision: hash2},
		{Kind: model.ChangeModified, Path: "link", Revision: hash2},
		{Kind: model.ChangeAdded, Path: "설정/한글.txt", Revision: hash2},
	}, entries)
}

func TestGitChangedFilesErrors(t *testing.T) {
	r := newFakeRunner(t).
		fail(showArgs+"deadbeef", "fatal: bad object deadbeef").
		fail(showArgs+"abcdef12", "fatal: unable to read tree")

	p, _ := New(model.VCSGit, WithRunner(r))

	_, err := p.ChangedFiles(context.Background(), "/src", "deadbeef")
	assert.True(t, errors.Is(err, status.ErrRevisionNotFound))

	_, err = p.ChangedFiles(context.Background(), "/src", "abcdef12")
	assert.True(t, errors.Is(err, status.ErrHistoryQuery))
	assert.False(t, errors.Is(err, status.ErrRevisionNotFound))

	// never reaches the runner
	_, err = p.ChangedFiles(context.Background(), "/src", "HEAD; rm -rf /")
	assert.True(t, errors.Is(err, status.ErrRevisionNotFound))
	assert.Len(t, r.calls, 2)
}

func TestNormalizeRevision(t *testing.T) {
	for _, toPin := range []struct {
		kind     model.VCSKind
		input    string
		expected string
		valid    bool
	}{
		{kind: model.VCSGit, input: "ABCDEF0", expected: "abcdef0", valid: true},
		{kind: model.VCSGit, input: " " + hash1 + " ", expected: hash1, valid: true},
		{kind: model.VCSGit, input: "abc"},
		{kind: model.VCSGit, input: "--all"},
		{kind: model.VCSSvn, input: "r42", expected: "42", valid: true},
		{kind: model.VCSSvn, input: "42", expected: "42", valid: true},
		{kind: model.VCSSvn, input: "HEAD"},
		{kind: model.VCSUnknown, input: "42"},
	} {
		testCase := toPin
		t.Run(testCase.kind.String()+"/"+testCase.input, func(t *testing.T) {
			id, err := NormalizeRevision(testCase.kind, testCase.input)
			if !testCase.valid {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, id)
		})
	}
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available in PATH")
	}
}

// gitRepo initializes a repository with a scripted sequence of commits
type gitRepo struct {
	t   *testing.T
	dir string
}

func newGitRepo(t *testing.T) *gitRepo {
	requireGit(t)
	g := &gitRepo{t: t, dir: t.TempDir()}
	g.run("init", "-q")
	g.run("config", "user.email", "dev@example.com")
	g.run("config", "user.name", "Dev")
	g.run("config", "commit.gpgsign", "false")
	return g
}

func (g *gitRepo) run(args ...string) string {
	g.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = g.dir
	out, err := cmd.CombinedOutput()
	require.NoErrorf(g.t, err, "git %v: %s", args, string(out))
	return strings.TrimSpace(string(out))
}

func (g *gitRepo) write(name, content string) {
	g.t.Helper()
	p := filepath.Join(g.dir, filepath.FromSlash(name))
	require.NoError(g.t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(g.t, os.WriteFile(p, []byte(content), 0644))
}

func (g *gitRepo) commit(msg string) string {
	g.t.Helper()
	g.run("add", "-A")
	g.run("commit", "-q", "-m", msg)
	return g.run("rev-parse", "HEAD")
}

func TestGitExecIntegration(t *testing.T) {
	g := newGitRepo(t)
	ctx := context.Background()
	p, err := New(model.VCSGit)
	require.NoError(t, err)

	records, err := p.History(ctx, g.dir, 0)
	require.NoError(t, err)
	assert.Empty(t, records)

	g.write("config.xml", "<config/>")
	r1 := g.commit("add config")
	g.write("readme.md", "# readme")
	g.write("web/index.html", "<html/>")
	r2 := g.commit("add readme")
	g.write("config.xml", "<config version=\"2\"/>")
	g.run("mv", "readme.md", "README.md")
	r3 := g.commit("change config")

	records, err = p.History(ctx, g.dir, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{r3, r2, r1}, []string{records[0].ID, records[1].ID, records[2].ID})
	assert.Equal(t, "add readme", records[1].Summary)

	records, err = p.History(ctx, g.dir, 1)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	entries, err := p.ChangedFiles(ctx, g.dir, r1)
	require.NoError(t, err)
	assert.Equal(t, []model.ChangeEntry{{Kind: model.ChangeAdded, Path: "config.xml", Revision: r1}}, entries)

	entries, err = p.ChangedFiles(ctx, g.dir, r3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.ChangeEntry{
		{Kind: model.ChangeModified, Path: "config.xml", Revision: r3},
		{Kind: model.ChangeRenamed, OldPath: "readme.md", Path: "README.md", Revision: r3},
	}, entries)

	content, err := p.Content(ctx, g.dir, r1, "config.xml")
	require.NoError(t, err)
	assert.Equal(t, "<config/>", string(content))

	_, err = p.Content(ctx, g.dir, r2, "web")
	assert.True(t, errors.Is(err, status.ErrDirectory))

	_, err = p.ChangedFiles(ctx, g.dir, strings.Repeat("e", 40))
	assert.True(t, errors.Is(err, status.ErrRevisionNotFound))

	_, err = p.History(ctx, t.TempDir(), 0)
	assert.True(t, errors.Is(err, status.ErrHistoryQuery))
}

package script

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/easypatcher/easypatcher/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManifest() *model.PatchManifest {
	return &model.PatchManifest{
		Version:     model.ManifestVersion,
		RunID:       "5f1c1d2e-0000-4000-8000-000000000001",
		Label:       "20261018_150405",
		GeneratedAt: time.Date(2026, 10, 18, 15, 4, 5, 0, time.UTC),
		Project:     model.Project{Path: "/src/web", VCS: model.VCSGit},
		Revisions: []model.RevisionRecord{
			{ID: "1111111111111111", Summary: "add config", VCS: model.VCSGit},
			{ID: "2222222222222222", Summary: "multi\nline", VCS: model.VCSGit},
		},
		Changes: []model.ManifestChange{
			{ChangeEntry: model.ChangeEntry{Kind: model.ChangeModified, Path: "conf/app.xml"}},
			{ChangeEntry: model.ChangeEntry{Kind: model.ChangeDeleted, Path: "old.txt"}},
			{ChangeEntry: model.ChangeEntry{Kind: model.ChangeRenamed, Path: "web/new name.jsp", OldPath: "web/old.jsp"}},
			{ChangeEntry: model.ChangeEntry{Kind: model.ChangeAdded, Path: "web/static", Dir: true}},
			{ChangeEntry: model.ChangeEntry{Kind: model.ChangeAdded, Path: "web/static/logo.txt"}},
		},
	}
}

func TestRender(t *testing.T) {
	m := testManifest()
	b, err := Bytes(m)
	require.NoError(t, err)
	out := string(b)

	assert.True(t, strings.HasPrefix(out, "#!/bin/sh\n"))
	assert.Contains(t, out, "# project:   web (git)")
	assert.Contains(t, out, "#   1111111111 add config")
	assert.Contains(t, out, "#   2222222222 multi line")
	assert.Contains(t, out, "# changes:   2 added, 1 deleted, 1 modified, 1 renamed")
	assert.Contains(t, out, `BACKUP="$HERE/bak_$ts"`)
	assert.NotContains(t, out, "# artifact:")

	again, err := Bytes(m)
	require.NoError(t, err)
	assert.Equal(t, b, again)

	m.Artifact = model.ArtifactInfo{Source: "/build/web.war", Error: "not a zip"}
	b, err = Bytes(m)
	require.NoError(t, err)
	assert.Contains(t, string(b), "# artifact:  NOT INCLUDED (not a zip)")
}

func TestChanges(t *testing.T) {
	b, err := Changes(testManifest().Entries())
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"modified\tconf/app.xml\t",
		"deleted\told.txt\t",
		"renamed\tweb/new name.jsp\tweb/old.jsp",
		"added\tweb/static\t",
		"added\tweb/static/logo.txt\t",
		"",
	}, "\n"), string(b))

	_, err = Changes([]model.ChangeEntry{{Kind: model.ChangeAdded, Path: "bad\tname"}})
	assert.Error(t, err)
}

func requireSh(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available in PATH")
	}
	return sh
}

func writeFile(t *testing.T, p, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(b)
}

// makeBundle lays out a bundle the way the output assembler does
func makeBundle(t *testing.T) string {
	m := testManifest()
	dir := filepath.Join(t.TempDir(), "web_20261018_150405")
	writeFile(t, filepath.Join(dir, FilesDir, "conf", "app.xml"), "<app v2/>")
	writeFile(t, filepath.Join(dir, FilesDir, "web", "new name.jsp"), "renamed page")
	writeFile(t, filepath.Join(dir, FilesDir, "web", "static", "logo.txt"), "logo")

	changes, err := Changes(m.Entries())
	require.NoError(t, err)
	writeFile(t, filepath.Join(dir, ChangesName), string(changes))

	s, err := Bytes(m)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ScriptName), s, 0755))
	return dir
}

func makeTarget(t *testing.T) string {
	target := filepath.Join(t.TempDir(), "webapps", "ROOT")
	writeFile(t, filepath.Join(target, "conf", "app.xml"), "<app v1/>")
	writeFile(t, filepath.Join(target, "old.txt"), "obsolete")
	writeFile(t, filepath.Join(target, "web", "old.jsp"), "old page")
	writeFile(t, filepath.Join(target, "untouched.txt"), "keep me")
	return target
}

func runScript(t *testing.T, sh, bundle, stdin string, args ...string) (string, error) {
	cmd := exec.Command(sh, append([]string{filepath.Join(bundle, ScriptName)}, args...)...)
	cmd.Dir = t.TempDir()
	cmd.Stdin = strings.NewReader(stdin)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func backups(t *testing.T, bundle string) []string {
	matches, err := filepath.Glob(filepath.Join(bundle, model.BackupPrefix+"*"))
	require.NoError(t, err)
	return matches
}

func TestScriptApply(t *testing.T) {
	sh := requireSh(t)
	bundle := makeBundle(t)
	target := makeTarget(t)

	out, err := runScript(t, sh, bundle, "2\n1\n"+target+"\n1\n/no/such/dir\n2\n3\n")
	require.NoErrorf(t, err, out)
	assert.Contains(t, out, "No target configured")
	assert.Contains(t, out, "Not a directory: /no/such/dir")
	assert.Contains(t, out, "Patch applied.")
	assert.Equal(t, target+"\n", readFile(t, filepath.Join(bundle, TargetsName)))

	// target now mirrors the patch
	assert.Equal(t, "<app v2/>", readFile(t, filepath.Join(target, "conf", "app.xml")))
	assert.Equal(t, "renamed page", readFile(t, filepath.Join(target, "web", "new name.jsp")))
	assert.Equal(t, "logo", readFile(t, filepath.Join(target, "web", "static", "logo.txt")))
	assert.Equal(t, "keep me", readFile(t, filepath.Join(target, "untouched.txt")))
	assert.NoFileExists(t, filepath.Join(target, "old.txt"))
	assert.NoFileExists(t, filepath.Join(target, "web", "old.jsp"))

	// every pre-existing affected file was backed up verbatim
	bak := backups(t, bundle)
	require.Len(t, bak, 1)
	assert.Equal(t, "<app v1/>", readFile(t, filepath.Join(bak[0], "1", "conf", "app.xml")))
	assert.Equal(t, "obsolete", readFile(t, filepath.Join(bak[0], "1", "old.txt")))
	assert.Equal(t, "old page", readFile(t, filepath.Join(bak[0], "1", "web", "old.jsp")))
	assert.NoFileExists(t, filepath.Join(bak[0], "1", "untouched.txt"))
	assert.Equal(t, "1\t"+target+"\n", readFile(t, filepath.Join(bak[0], TargetsName)))

	// re-applying is idempotent and keeps the first backup
	out, err = runScript(t, sh, bundle, "", "apply")
	require.NoErrorf(t, err, out)
	assert.Len(t, backups(t, bundle), 2)
	assert.Equal(t, "<app v2/>", readFile(t, filepath.Join(target, "conf", "app.xml")))
	assert.Equal(t, "<app v1/>", readFile(t, filepath.Join(bak[0], "1", "conf", "app.xml")))
}

func TestScriptBackupFailureWritesNothing(t *testing.T) {
	sh := requireSh(t)
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	bundle := makeBundle(t)
	target := makeTarget(t)
	unreadable := filepath.Join(target, "web", "old.jsp")
	require.NoError(t, os.Chmod(unreadable, 0))
	defer func() { _ = os.Chmod(unreadable, 0644) }()

	out, err := runScript(t, sh, bundle, "", "configure", target)
	require.NoErrorf(t, err, out)
	out, err = runScript(t, sh, bundle, "", "apply")
	require.Error(t, err)
	assert.Contains(t, out, "Backup failed: nothing was written.")

	assert.Empty(t, backups(t, bundle))
	assert.Equal(t, "<app v1/>", readFile(t, filepath.Join(target, "conf", "app.xml")))
	assert.FileExists(t, filepath.Join(target, "old.txt"))
}

// Package script renders the target side apply tool of a patch bundle.
//
// The tool is a POSIX shell script with a three entries menu: configure
// target, apply patch, exit. It never depends on the generating host.
package script

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"

	"github.com/easypatcher/easypatcher/pkg/model"
)

// Names of the files the script works with, relative to the bundle root
const (
	ScriptName  = "apply.sh"
	ChangesName = "changes.txt"
	TargetsName = "targets.txt"
	FilesDir    = "files"
)

//go:embed apply.sh.tmpl
var applyTemplate string

var tmpl = template.Must(template.New(ScriptName).Funcs(template.FuncMap{
	"comment": comment,
	"counts":  counts,
}).Parse(applyTemplate))

type scriptData struct {
	*model.PatchManifest
	BackupPrefix string
}

// Render writes the apply script of a manifest. The output only depends on the manifest.
func Render(w io.Writer, m *model.PatchManifest) error {
	return tmpl.Execute(w, scriptData{PatchManifest: m, BackupPrefix: model.BackupPrefix})
}

// Bytes renders the apply script in memory
func Bytes(m *model.PatchManifest) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Changes renders the change list read by the script: one
// "kind<TAB>path<TAB>oldPath" line per entry, sorted by path.
func Changes(entries []model.ChangeEntry) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range entries {
		for _, p := range e.Touched() {
			if strings.ContainsAny(p, "\t\n\r") {
				return nil, fmt.Errorf("path %q cannot be listed in %s", p, ChangesName)
			}
		}
		fmt.Fprintf(&buf, "%s\t%s\t%s\n", e.Kind, e.Path, e.OldPath)
	}
	return buf.Bytes(), nil
}

// comment keeps interpolated values on a single comment line
func comment(s string) string {
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}

func counts(m *model.PatchManifest) string {
	tally := make(map[string]int, 4)
	for _, c := range m.Changes {
		tally[c.Kind.String()]++
	}
	kinds := make([]string, 0, len(tally))
	for k := range tally {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%d %s", tally[k], k))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

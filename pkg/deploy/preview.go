package deploy

import (
	"bytes"
	"fmt"
	"io"

	"github.com/easypatcher/easypatcher/pkg/model"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/afero"
)

// Operation planned on a target
type Operation struct {
	Op   string
	Path string
	// Diff between the target file and its replacement, when both are text
	Diff string
}

// Plan lists the operations an apply would perform on each root, without touching anything
func (a *Applier) Plan(roots []string) ([]Operation, error) {
	if len(roots) == 0 {
		return nil, ErrNoTarget
	}
	var ops []Operation
	entries := a.bundle.Manifest.Entries()
	for _, root := range roots {
		for _, e := range entries {
			switch {
			case e.Kind == model.ChangeDeleted:
				ops = append(ops, a.planDelete(root, e.Path)...)
			case e.Kind == model.ChangeRenamed && e.OldPath != "":
				ops = append(ops, a.planDelete(root, e.OldPath)...)
			}
		}
		for _, e := range entries {
			if !e.Writes() {
				continue
			}
			op, err := a.planWrite(root, e)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
		}
	}
	return ops, nil
}

func (a *Applier) planDelete(root, rel string) []Operation {
	p := targetPath(root, rel)
	if !a.exists(p) {
		return nil
	}
	return []Operation{{Op: "delete", Path: p}}
}

func (a *Applier) planWrite(root string, e model.ChangeEntry) (Operation, error) {
	dst := targetPath(root, e.Path)
	if e.Dir {
		return Operation{Op: "mkdir", Path: dst}, nil
	}
	op := Operation{Op: "create", Path: dst}
	replacement, err := afero.ReadFile(a.fs, a.bundle.FilePath(e.Path))
	if err != nil {
		return op, err
	}
	current, err := afero.ReadFile(a.fs, dst)
	if err != nil {
		// missing on target: shown as a creation
		return op, nil
	}
	op.Op = "update"
	if bytes.Equal(current, replacement) {
		op.Op = "unchanged"
		return op, nil
	}
	if isBinary(current) || isBinary(replacement) {
		op.Diff = "binary content differs\n"
		return op, nil
	}
	op.Diff, err = difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(current)),
		B:        difflib.SplitLines(string(replacement)),
		FromFile: "a/" + e.Path,
		ToFile:   "b/" + e.Path,
		Context:  3,
	})
	return op, err
}

func isBinary(b []byte) bool {
	if len(b) > 8000 {
		b = b[:8000]
	}
	return bytes.IndexByte(b, 0) >= 0
}

// Preview writes the planned operations and their diffs
func (a *Applier) Preview(w io.Writer, roots []string) error {
	ops, err := a.Plan(roots)
	if err != nil {
		return err
	}
	for _, op := range ops {
		fmt.Fprintf(w, "%-9s %s\n", op.Op, op.Path)
		if op.Diff != "" {
			fmt.Fprint(w, op.Diff)
		}
	}
	return nil
}

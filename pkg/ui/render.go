package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	units "github.com/docker/go-units"
	"github.com/easypatcher/easypatcher/pkg/model"
	"github.com/easypatcher/easypatcher/pkg/patch"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

const maxColWidth = 80

func newTable(header ...interface{}) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = maxColWidth
	table.AddRow(header...)
	return table
}

func kindString(k model.ChangeKind) string {
	switch k {
	case model.ChangeAdded:
		return color.GreenString(k.String())
	case model.ChangeModified:
		return color.YellowString(k.String())
	case model.ChangeDeleted:
		return color.RedString(k.String())
	case model.ChangeRenamed:
		return color.CyanString(k.String())
	default:
		return k.String()
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// CountsString summarizes a change set, e.g. "2 added, 1 deleted"
func CountsString(cs *model.ChangeSet) string {
	counts := cs.Counts()
	kinds := make([]model.ChangeKind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%d %s", counts[k], k))
	}
	if len(parts) == 0 {
		return "no change"
	}
	return strings.Join(parts, ", ")
}

// PrintChanges lists change entries
func PrintChanges(w io.Writer, entries []model.ChangeEntry) {
	table := newTable("KIND", "PATH", "FROM", "REVISION")
	for _, e := range entries {
		table.AddRow(kindString(e.Kind), e.Path, orDash(e.OldPath), orDash(e.Revision))
	}
	fmt.Fprintln(w, table)
}

// PrintPlan shows the merged change set of every project, and what was left out
func PrintPlan(w io.Writer, plan *patch.Plan) {
	for _, pp := range plan.Projects {
		fmt.Fprintf(w, "%s %s\n", color.New(color.Bold).Sprint(pp.Project.Name()), color.HiBlackString(pp.Project.Path))
		ids := make([]string, len(pp.Revisions))
		for i, r := range pp.Revisions {
			ids[i] = r.Short()
		}
		fmt.Fprintf(w, "revisions: %s\n", strings.Join(ids, ", "))
		PrintChanges(w, pp.Changes.Entries())
		fmt.Fprintf(w, "%s\n", CountsString(pp.Changes))
		if pp.Project.Artifact != "" {
			fmt.Fprintf(w, "artifact: %s\n", pp.Project.Artifact)
		}
		for _, x := range pp.Excluded {
			fmt.Fprintln(w, color.YellowString("excluded %s", x))
		}
		fmt.Fprintln(w)
	}
	for _, x := range plan.Skipped {
		fmt.Fprintln(w, color.YellowString("skipped %s", x))
	}
}

// PrintResult lists the bundles written by a run
func PrintResult(w io.Writer, res *patch.Result) {
	if res == nil {
		return
	}
	fmt.Fprintf(w, "run %s %s\n", res.Label, color.HiBlackString(res.RunID))
	table := newTable("PROJECT", "OUTPUT", "FILES", "SIZE", "ARTIFACT")
	for _, o := range res.Outputs {
		if o.Err != nil {
			table.AddRow(o.Project.Name(), color.RedString("failed: %v", o.Err), "-", "-", "-")
			continue
		}
		var files int
		var size int64
		for _, c := range o.Manifest.Changes {
			if c.Writes() && !c.Dir {
				files++
				size += c.Size
			}
		}
		artifact := orDash(o.Manifest.Artifact.Path)
		if o.ArtifactErr != nil {
			artifact = color.YellowString("skipped: %v", o.ArtifactErr)
		}
		table.AddRow(o.Project.Name(), o.Dir, files, units.HumanSize(float64(size)), artifact)
	}
	fmt.Fprintln(w, table)
}

// PrintTask lists the projects of a task
func PrintTask(w io.Writer, task model.Task) {
	fmt.Fprintf(w, "%s %s\n", color.New(color.Bold).Sprint(task.Name), color.HiBlackString("output: %s", orDash(task.Output)))
	if len(task.Projects) == 0 {
		fmt.Fprintln(w, color.HiBlackString("no project"))
		return
	}
	table := newTable("PROJECT", "VCS", "PATH", "ARTIFACT")
	for _, p := range task.Projects {
		vcs := p.VCS.String()
		if !p.VCS.Supported() {
			vcs = color.YellowString(vcs)
		}
		table.AddRow(p.Name(), vcs, p.Path, orDash(p.Artifact))
	}
	fmt.Fprintln(w, table)
}

// PrintHistory lists revisions, newest first
func PrintHistory(w io.Writer, history []model.RevisionRecord) {
	table := newTable("REVISION", "DATE", "AUTHOR", "SUMMARY")
	for _, r := range history {
		date := "-"
		if !r.Date.IsZero() {
			date = r.Date.Format("2006-01-02 15:04")
		}
		table.AddRow(color.MagentaString(r.Short()), date, orDash(r.Author), r.Summary)
	}
	fmt.Fprintln(w, table)
}

func revisionItems(history []model.RevisionRecord) []string {
	items := make([]string, len(history))
	for i, r := range history {
		item := r.String()
		if !r.Date.IsZero() {
			item += " " + color.HiBlackString("(%s)", r.Date.Format("2006-01-02"))
		}
		items[i] = item
	}
	return items
}

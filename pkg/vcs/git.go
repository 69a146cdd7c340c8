package vcs

import (
	"context"
	"path"
	"strconv"
	"strings"

	"github.com/easypatcher/easypatcher/pkg/model"
	"github.com/easypatcher/easypatcher/pkg/vcs/status"
	"go.uber.org/zap"
)

var gitNotFound = []string{
	"unknown revision",
	"bad object",
	"bad revision",
	"invalid object name",
	"not a valid object name",
}

// an empty repository is not an error, just no history
var gitEmpty = []string{
	"does not have any commits yet",
	"bad default revision 'HEAD'",
}

type gitExec struct {
	runner Runner
	dec    decoder
	l      *zap.Logger
}

func newGit(o *options, dec decoder) *gitExec {
	r := o.runner
	if r == nil {
		r = NewExecRunner(o.gitBinary, o.l)
	}
	return &gitExec{runner: r, dec: dec, l: o.l}
}

func (g *gitExec) Kind() model.VCSKind { return model.VCSGit }

func (g *gitExec) History(ctx context.Context, dir string, limit int) ([]model.RevisionRecord, error) {
	args := []string{"log", "--oneline", "--no-abbrev-commit", "--no-decorate", "--no-color"}
	if limit > 0 {
		args = append(args, "-n", strconv.Itoa(limit))
	}
	out, err := g.runner.Run(ctx, dir, args...)
	if err != nil {
		if matchesAny(err, gitEmpty) {
			return []model.RevisionRecord{}, nil
		}
		return nil, status.ErrHistoryQuery.Wrap(err)
	}
	return parseGitLog(g.dec.Lines(out)), nil
}

func parseGitLog(lines []string) []model.RevisionRecord {
	records := make([]model.RevisionRecord, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		id, summary := line, ""
		if i := strings.IndexByte(line, ' '); i >= 0 {
			id, summary = line[:i], strings.TrimSpace(line[i+1:])
		}
		if !rexGitID.MatchString(id) {
			continue
		}
		records = append(records, model.RevisionRecord{ID: id, Summary: summary, VCS: model.VCSGit})
	}
	return records
}

func (g *gitExec) ChangedFiles(ctx context.Context, dir, revision string) ([]model.ChangeEntry, error) {
	id, err := NormalizeRevision(model.VCSGit, revision)
	if err != nil {
		return nil, err
	}
	out, err := g.runner.Run(ctx, dir,
		"-c", "core.quotePath=false",
		"show", "--name-status", "--no-color", "--format=", "-M", "-m", "--first-parent", id)
	if err != nil {
		return nil, classify(err, gitNotFound)
	}
	return parseNameStatus(g.dec.Lines(out), id), nil
}

// parseNameStatus reads lines like "M\tpath", "R087\told\tnew"
func parseNameStatus(lines []string, revision string) []model.ChangeEntry {
	entries := make([]model.ChangeEntry, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		fields := strings.Split(strings.TrimRight(line, " "), "\t")
		if len(fields) < 2 || fields[0] == "" {
			continue
		}
		e := model.ChangeEntry{Revision: revision}
		switch fields[0][0] {
		case 'A':
			e.Kind, e.Path = model.ChangeAdded, fields[1]
		case 'M', 'T':
			e.Kind, e.Path = model.ChangeModified, fields[1]
		case 'D':
			e.Kind, e.Path = model.ChangeDeleted, fields[1]
		case 'R':
			if len(fields) < 3 {
				continue
			}
			e.Kind, e.OldPath, e.Path = model.ChangeRenamed, fields[1], fields[2]
		case 'C':
			if len(fields) < 3 {
				continue
			}
			e.Kind, e.Path = model.ChangeAdded, fields[2]
		default:
			continue
		}
		e.Path = path.Clean(e.Path)
		key := e.Kind.Letter() + e.OldPath + "\x00" + e.Path
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		entries = append(entries, e)
	}
	return entries
}

func (g *gitExec) Content(ctx context.Context, dir, revision, p string) ([]byte, error) {
	id, err := NormalizeRevision(model.VCSGit, revision)
	if err != nil {
		return nil, err
	}
	object := id + ":" + p
	kind, err := g.runner.Run(ctx, dir, "cat-file", "-t", object)
	if err != nil {
		return nil, classify(err, gitNotFound)
	}
	if strings.TrimSpace(string(kind)) == "tree" {
		return nil, status.ErrDirectory.Wrapf("%s at %s", p, id)
	}
	out, err := g.runner.Run(ctx, dir, "cat-file", "blob", object)
	if err != nil {
		return nil, classify(err, gitNotFound)
	}
	return out, nil
}

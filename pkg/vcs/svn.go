package vcs

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/easypatcher/easypatcher/pkg/model"
	"github.com/easypatcher/easypatcher/pkg/vcs/status"
	"go.uber.org/zap"
)

const svnDateLayout = "2006-01-02 15:04:05 -0700"

var (
	svnNotFound = []string{
		"No such revision",
		"E160006",
		"E195012",
		"E160013",
	}
	svnDirectory = []string{
		"refers to a directory",
		"E195007",
	}

	rexSvnLogHeader  = regexp.MustCompile(`^r([0-9]+) \| (.*?) \| ([^(]*?)\s*(\(.*\))?$`)
	rexSvnChangePath = regexp.MustCompile(`^\s+([AMDR]) (/.*?)(?: \(from (.*):([0-9]+)\))?$`)
)

type svnExec struct {
	runner Runner
	dec    decoder
	l      *zap.Logger
}

func newSvn(o *options, dec decoder) *svnExec {
	r := o.runner
	if r == nil {
		r = NewExecRunner(o.svnBinary, o.l)
	}
	return &svnExec{runner: r, dec: dec, l: o.l}
}

func (s *svnExec) Kind() model.VCSKind { return model.VCSSvn }

func (s *svnExec) History(ctx context.Context, dir string, limit int) ([]model.RevisionRecord, error) {
	args := []string{"log", "-q", "--non-interactive"}
	if limit > 0 {
		args = append(args, "-l", strconv.Itoa(limit))
	}
	out, err := s.runner.Run(ctx, dir, args...)
	if err != nil {
		return nil, status.ErrHistoryQuery.Wrap(err)
	}
	return parseSvnLog(s.dec.Lines(out)), nil
}

// parseSvnLog reads the "rN | author | date (...)" header lines of svn log
func parseSvnLog(lines []string) []model.RevisionRecord {
	records := make([]model.RevisionRecord, 0, len(lines)/2)
	for _, line := range lines {
		m := rexSvnLogHeader.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		author, date := strings.TrimSpace(m[2]), strings.TrimSpace(m[3])
		r := model.RevisionRecord{
			ID:      m[1],
			Summary: author + ", " + date,
			VCS:     model.VCSSvn,
			Author:  author,
		}
		if t, err := time.Parse(svnDateLayout, date); err == nil {
			r.Date = t
		}
		records = append(records, r)
	}
	return records
}

func (s *svnExec) ChangedFiles(ctx context.Context, dir, revision string) ([]model.ChangeEntry, error) {
	id, err := NormalizeRevision(model.VCSSvn, revision)
	if err != nil {
		return nil, err
	}
	root, err := s.relativeURL(ctx, dir)
	if err != nil {
		return nil, err
	}
	out, err := s.runner.Run(ctx, dir, "log", "-v", "-q", "--non-interactive", "-r", id)
	if err != nil {
		return nil, classify(err, svnNotFound)
	}
	entries, found := parseSvnChangedPaths(s.dec.Lines(out), strings.TrimPrefix(root, "^"), id)
	if !found {
		return nil, status.ErrRevisionNotFound.Wrapf("r%s not in the log of %s", id, dir)
	}
	return entries, nil
}

// parseSvnChangedPaths reads the "Changed paths:" section of a verbose svn log.
//
// Repository paths are made relative to root; paths outside root are ignored.
// The boolean tells if a revision header was found at all.
func parseSvnChangedPaths(lines []string, root, revision string) ([]model.ChangeEntry, bool) {
	root = strings.TrimSuffix(root, "/")
	var (
		entries []model.ChangeEntry
		found   bool
		inPaths bool
	)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case rexSvnLogHeader.MatchString(trimmed):
			found = true
			inPaths = false
			continue
		case trimmed == "Changed paths:":
			inPaths = true
			continue
		case trimmed == "" || strings.HasPrefix(trimmed, "-----"):
			inPaths = false
			continue
		}
		if !inPaths {
			continue
		}
		m := rexSvnChangePath.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		rel, ok := relativeTo(root, m[2])
		if !ok {
			continue
		}
		e := model.ChangeEntry{Path: rel, Revision: revision}
		switch m[1] {
		case "A":
			e.Kind = model.ChangeAdded
		case "M", "R":
			e.Kind = model.ChangeModified
		case "D":
			e.Kind = model.ChangeDeleted
		}
		entries = append(entries, e)
	}
	return entries, found
}

func relativeTo(root, repoPath string) (string, bool) {
	repoPath = path.Clean(repoPath)
	if root == "" || root == "/" {
		rel := strings.TrimPrefix(repoPath, "/")
		return rel, rel != ""
	}
	if !strings.HasPrefix(repoPath, root+"/") {
		return "", false
	}
	return strings.TrimPrefix(repoPath, root+"/"), true
}

// relativeURL of the working copy, as in "^/trunk"
func (s *svnExec) relativeURL(ctx context.Context, dir string) (string, error) {
	out, err := s.runner.Run(ctx, dir, "info", "--non-interactive")
	if err != nil {
		return "", status.ErrHistoryQuery.Wrap(err)
	}
	for _, line := range s.dec.Lines(out) {
		if v := strings.TrimPrefix(line, "Relative URL: "); v != line {
			return strings.TrimSpace(v), nil
		}
	}
	return "", status.ErrHistoryQuery.Wrapf("no relative URL reported by svn info in %s", dir)
}

func (s *svnExec) Content(ctx context.Context, dir, revision, p string) ([]byte, error) {
	id, err := NormalizeRevision(model.VCSSvn, revision)
	if err != nil {
		return nil, err
	}
	root, err := s.relativeURL(ctx, dir)
	if err != nil {
		return nil, err
	}
	target := fmt.Sprintf("%s/%s@%s", strings.TrimSuffix(root, "/"), p, id)
	out, err := s.runner.Run(ctx, dir, "cat", "--non-interactive", target)
	if err != nil {
		if matchesAny(err, svnDirectory) {
			return nil, status.ErrDirectory.Wrapf("%s at r%s", p, id)
		}
		return nil, classify(err, svnNotFound)
	}
	return out, nil
}

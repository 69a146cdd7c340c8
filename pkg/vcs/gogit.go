package vcs

import (
	"context"
	"errors"
	"io"

	"github.com/easypatcher/easypatcher/pkg/model"
	"github.com/easypatcher/easypatcher/pkg/vcs/status"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/utils/merkletrie"
	"go.uber.org/zap"
)

// goGit reads git repositories without the git binary
type goGit struct {
	l *zap.Logger
}

func newGoGit(o *options) *goGit {
	return &goGit{l: o.l}
}

func (g *goGit) Kind() model.VCSKind { return model.VCSGit }

func (g *goGit) open(dir string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, status.ErrHistoryQuery.Wrap(err)
	}
	return repo, nil
}

func (g *goGit) History(ctx context.Context, dir string, limit int) ([]model.RevisionRecord, error) {
	repo, err := g.open(dir)
	if err != nil {
		return nil, err
	}
	iter, err := repo.Log(&git.LogOptions{Order: git.LogOrderCommitterTime})
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return []model.RevisionRecord{}, nil
		}
		return nil, status.ErrHistoryQuery.Wrap(err)
	}
	defer iter.Close()

	records := make([]model.RevisionRecord, 0, 64)
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if limit > 0 && len(records) >= limit {
			return storer.ErrStop
		}
		records = append(records, model.RevisionRecord{
			ID:      c.Hash.String(),
			Summary: firstLine(c.Message),
			VCS:     model.VCSGit,
			Author:  c.Author.Name,
			Date:    c.Author.When,
		})
		return nil
	})
	if err != nil {
		return nil, status.ErrHistoryQuery.Wrap(err)
	}
	return records, nil
}

func firstLine(msg string) string {
	for i, c := range msg {
		if c == '\n' || c == '\r' {
			return msg[:i]
		}
	}
	return msg
}

func (g *goGit) commit(dir, revision string) (*object.Commit, error) {
	id, err := NormalizeRevision(model.VCSGit, revision)
	if err != nil {
		return nil, err
	}
	repo, err := g.open(dir)
	if err != nil {
		return nil, err
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(id))
	if err != nil {
		return nil, status.ErrRevisionNotFound.Wrap(err)
	}
	c, err := repo.CommitObject(*hash)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, status.ErrRevisionNotFound.Wrap(err)
		}
		return nil, status.ErrHistoryQuery.Wrap(err)
	}
	return c, nil
}

func (g *goGit) ChangedFiles(ctx context.Context, dir, revision string) ([]model.ChangeEntry, error) {
	c, err := g.commit(dir, revision)
	if err != nil {
		return nil, err
	}
	id := c.Hash.String()
	tree, err := c.Tree()
	if err != nil {
		return nil, status.ErrHistoryQuery.Wrap(err)
	}

	if c.NumParents() == 0 {
		var entries []model.ChangeEntry
		err = tree.Files().ForEach(func(f *object.File) error {
			entries = append(entries, model.ChangeEntry{Kind: model.ChangeAdded, Path: f.Name, Revision: id})
			return nil
		})
		if err != nil {
			return nil, status.ErrHistoryQuery.Wrap(err)
		}
		return entries, nil
	}

	parent, err := c.Parent(0)
	if err != nil {
		return nil, status.ErrHistoryQuery.Wrap(err)
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return nil, status.ErrHistoryQuery.Wrap(err)
	}
	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, status.ErrHistoryQuery.Wrap(err)
	}

	entries := make([]model.ChangeEntry, 0, len(changes))
	for _, change := range changes {
		action, err := change.Action()
		if err != nil {
			return nil, status.ErrHistoryQuery.Wrap(err)
		}
		e := model.ChangeEntry{Revision: id}
		switch action {
		case merkletrie.Insert:
			e.Kind, e.Path = model.ChangeAdded, change.To.Name
		case merkletrie.Delete:
			e.Kind, e.Path = model.ChangeDeleted, change.From.Name
		case merkletrie.Modify:
			if change.From.Name != change.To.Name {
				e.Kind, e.OldPath, e.Path = model.ChangeRenamed, change.From.Name, change.To.Name
			} else {
				e.Kind, e.Path = model.ChangeModified, change.To.Name
			}
		default:
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (g *goGit) Content(ctx context.Context, dir, revision, p string) ([]byte, error) {
	c, err := g.commit(dir, revision)
	if err != nil {
		return nil, err
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, status.ErrHistoryQuery.Wrap(err)
	}
	entry, err := tree.FindEntry(p)
	if err != nil {
		return nil, status.ErrHistoryQuery.Wrapf("%s at %s: %v", p, c.Hash, err)
	}
	if entry.Mode == filemode.Dir {
		return nil, status.ErrDirectory.Wrapf("%s at %s", p, c.Hash)
	}
	f, err := tree.TreeEntryFile(entry)
	if err != nil {
		return nil, status.ErrHistoryQuery.Wrap(err)
	}
	r, err := f.Reader()
	if err != nil {
		return nil, status.ErrHistoryQuery.Wrap(err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

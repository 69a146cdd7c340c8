package bundle

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/easypatcher/easypatcher/pkg/deploy/script"
	"github.com/easypatcher/easypatcher/pkg/errors"
	"github.com/easypatcher/easypatcher/pkg/fingerprint"
	"github.com/easypatcher/easypatcher/pkg/model"
	"github.com/easypatcher/easypatcher/pkg/stage"
	"github.com/easypatcher/easypatcher/pkg/storage"
	"github.com/easypatcher/easypatcher/pkg/storage/localfs"
	vcsstatus "github.com/easypatcher/easypatcher/pkg/vcs/status"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Names of the files in a bundle
const (
	ManifestName = "manifest.json"
	ArtifactDir  = "artifact"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ContentFunc retrieves the replacement content of a change entry.
// It returns an error matching vcs status.ErrDirectory for directories.
type ContentFunc func(ctx context.Context, entry model.ChangeEntry) ([]byte, error)

// Input of one project bundle
type Input struct {
	Manifest *model.PatchManifest
	Content  ContentFunc
	// Staged artifact, if any
	Staged *stage.Staged
}

// Option for the assembler
type Option func(*Assembler)

// FS sets the file system where bundles are written
func FS(fs afero.Fs) Option {
	return func(a *Assembler) {
		if fs != nil {
			a.fs = fs
		}
	}
}

// Logger for the assembler
func Logger(l *zap.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.l = l
		}
	}
}

// Assembler writes project bundles under an output root
type Assembler struct {
	root string
	fs   afero.Fs
	l    *zap.Logger
	fp   *fingerprint.Maker
}

// NewAssembler for bundles under root
func NewAssembler(root string, opts ...Option) *Assembler {
	a := &Assembler{
		root: root,
		fs:   afero.NewOsFs(),
		l:    zap.NewNop(),
		fp:   fingerprint.New(),
	}
	for _, apply := range opts {
		apply(a)
	}
	return a
}

// Root of the output directories
func (a *Assembler) Root() string {
	return a.root
}

// Assemble writes the bundle of one project and returns its directory.
//
// An existing output directory is never overwritten. On failure, the
// partial output directory is removed.
func (a *Assembler) Assemble(ctx context.Context, in Input) (dir string, err error) {
	m := in.Manifest
	dir = filepath.Join(a.root, model.GetOutputDirName(m.Project, m.Label))

	if err = a.fs.MkdirAll(a.root, 0755); err != nil {
		return "", err
	}
	if _, e := a.fs.Stat(dir); e == nil {
		return "", ErrOutputCollision.Wrapf("%s", dir)
	}
	if err = a.fs.Mkdir(dir, 0755); err != nil {
		if os.IsExist(err) {
			return "", ErrOutputCollision.Wrapf("%s", dir)
		}
		return "", err
	}
	defer func() {
		if err == nil {
			return
		}
		if e := a.fs.RemoveAll(dir); e != nil {
			err = multierr.Append(err, e)
		}
		dir = ""
	}()

	store := localfs.New(a.fs, dir)
	if err = a.writeFiles(ctx, store, dir, in); err != nil {
		return dir, err
	}
	if in.Staged != nil {
		if err = a.writeArtifact(ctx, store, in.Staged, m); err != nil {
			return dir, err
		}
	}

	changes, err := script.Changes(m.Entries())
	if err != nil {
		return dir, err
	}
	if err = store.Put(ctx, script.ChangesName, bytes.NewReader(changes), storage.NoOverWrite); err != nil {
		return dir, err
	}

	manifest, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return dir, err
	}
	if err = store.Put(ctx, ManifestName, bytes.NewReader(manifest), storage.NoOverWrite); err != nil {
		return dir, err
	}

	sh, err := script.Bytes(m)
	if err != nil {
		return dir, err
	}
	if err = store.Put(ctx, script.ScriptName, bytes.NewReader(sh), storage.NoOverWrite); err != nil {
		return dir, err
	}
	if err = a.fs.Chmod(filepath.Join(dir, script.ScriptName), 0755); err != nil {
		return dir, err
	}

	a.l.Info("bundle assembled",
		zap.String("dir", dir),
		zap.String("project", m.Project.Path),
		zap.Int("changes", len(m.Changes)))
	return dir, nil
}

func (a *Assembler) writeFiles(ctx context.Context, store storage.Store, dir string, in Input) error {
	m := in.Manifest
	for i := range m.Changes {
		c := &m.Changes[i]
		if !c.Writes() {
			continue
		}
		key := path.Join(script.FilesDir, c.Path)
		if c.Dir {
			if err := a.mkdir(dir, key); err != nil {
				return err
			}
			continue
		}
		if in.Content == nil {
			return ErrContent.Wrapf("no content source for %s", c.Path)
		}
		content, err := in.Content(ctx, c.ChangeEntry)
		if err != nil {
			if errors.Is(err, vcsstatus.ErrDirectory) {
				c.Dir = true
				if err = a.mkdir(dir, key); err != nil {
					return err
				}
				continue
			}
			return ErrContent.Wrapf("%s at %s: %v", c.Path, c.Revision, err)
		}
		if err := store.Put(ctx, key, bytes.NewReader(content), storage.NoOverWrite); err != nil {
			return err
		}
		c.Checksum = a.fp.Bytes(content)
		c.Size = int64(len(content))
	}
	return nil
}

func (a *Assembler) mkdir(dir, key string) error {
	return a.fs.MkdirAll(filepath.Join(dir, filepath.FromSlash(key)), 0755)
}

func (a *Assembler) writeArtifact(ctx context.Context, store storage.Store, staged *stage.Staged, m *model.PatchManifest) error {
	m.Artifact.Source = staged.Artifact
	m.Artifact.Path = ArtifactDir

	if !staged.Extracted() {
		return a.copyFile(ctx, store, staged.Artifact, path.Join(ArtifactDir, filepath.Base(staged.Artifact)))
	}
	m.Artifact.Staged = true
	for _, f := range staged.Files {
		src := filepath.Join(staged.Dir, filepath.FromSlash(f))
		if err := a.copyFile(ctx, store, src, path.Join(ArtifactDir, f)); err != nil {
			return err
		}
	}
	return nil
}

func (a *Assembler) copyFile(ctx context.Context, store storage.Store, src, key string) error {
	f, err := a.fs.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	return store.Put(ctx, key, f, storage.NoOverWrite)
}

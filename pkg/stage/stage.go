// Package stage prepares the build artifact of a project for bundling.
//
// Archives (web archives, jars) are re-extracted into a clean staging
// directory beside the artifact. Other artifacts are referenced as is.
package stage

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/easypatcher/easypatcher/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// TargetDirName is the staging directory created beside an archive
const TargetDirName = "unzip_target"

// DefaultExtensions are the artifact extensions handled as zip archives
var DefaultExtensions = []string{".war", ".zip", ".jar", ".ear"}

// ErrArtifactStaging indicates an artifact that could not be staged
var ErrArtifactStaging = errors.New("artifact staging failed")

// Staged is the outcome of staging one artifact
type Staged struct {
	// Artifact is the source artifact path
	Artifact string
	// Dir is the extraction directory, empty when the artifact is not an archive
	Dir string
	// Files extracted, relative to Dir and slash separated
	Files []string
}

// Extracted tells if the artifact was an archive, now expanded in Dir
func (s Staged) Extracted() bool {
	return s.Dir != ""
}

// Option for the stager
type Option func(*Stager)

// FS sets the file system the artifacts live in
func FS(fs afero.Fs) Option {
	return func(s *Stager) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// Extensions overrides the archive extensions
func Extensions(exts []string) Option {
	return func(s *Stager) {
		if len(exts) == 0 {
			return
		}
		s.extensions = make([]string, 0, len(exts))
		for _, e := range exts {
			e = strings.ToLower(strings.TrimSpace(e))
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			s.extensions = append(s.extensions, e)
		}
	}
}

// Logger for the stager
func Logger(l *zap.Logger) Option {
	return func(s *Stager) {
		if l != nil {
			s.l = l
		}
	}
}

// Stager stages build artifacts
type Stager struct {
	fs         afero.Fs
	extensions []string
	l          *zap.Logger
}

// New stager
func New(opts ...Option) *Stager {
	s := &Stager{
		fs:         afero.NewOsFs(),
		extensions: DefaultExtensions,
		l:          zap.NewNop(),
	}
	for _, apply := range opts {
		apply(s)
	}
	return s
}

// IsArchive tells if the artifact is extracted when staged
func (s *Stager) IsArchive(artifact string) bool {
	ext := strings.ToLower(filepath.Ext(artifact))
	for _, e := range s.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Stage an artifact. Archives are extracted into a fresh <artifact dir>/unzip_target:
// whatever was there before is removed first. On failure, the partial staging
// directory is removed as well.
func (s *Stager) Stage(artifact string) (Staged, error) {
	fi, err := s.fs.Stat(artifact)
	if err != nil {
		return Staged{}, ErrArtifactStaging.Wrap(err)
	}
	if fi.IsDir() {
		return Staged{}, ErrArtifactStaging.Wrapf("artifact %s is a directory", artifact)
	}
	if !s.IsArchive(artifact) {
		return Staged{Artifact: artifact}, nil
	}

	dir := filepath.Join(filepath.Dir(artifact), TargetDirName)
	if err = s.fs.RemoveAll(dir); err != nil {
		return Staged{}, ErrArtifactStaging.Wrapf("cleaning %s: %v", dir, err)
	}
	if err = s.fs.MkdirAll(dir, 0755); err != nil {
		return Staged{}, ErrArtifactStaging.Wrapf("creating %s: %v", dir, err)
	}

	files, err := s.extract(artifact, fi.Size(), dir)
	if err != nil {
		if e := s.fs.RemoveAll(dir); e != nil {
			err = multierr.Append(err, e)
		}
		return Staged{}, ErrArtifactStaging.Wrap(err)
	}
	s.l.Info("artifact staged",
		zap.String("artifact", artifact), zap.String("dir", dir), zap.Int("files", len(files)))
	return Staged{Artifact: artifact, Dir: dir, Files: files}, nil
}

func (s *Stager) extract(archive string, size int64, dir string) ([]string, error) {
	f, err := s.fs.Open(archive)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := zip.NewReader(f, size)
	if err != nil {
		return nil, fmt.Errorf("reading archive %s: %w", archive, err)
	}
	files := make([]string, 0, len(zr.File))
	for _, zf := range zr.File {
		name, err := entryName(zf.Name)
		if err != nil {
			return nil, err
		}
		target := filepath.Join(dir, filepath.FromSlash(name))
		if zf.FileInfo().IsDir() {
			if err := s.fs.MkdirAll(target, 0755); err != nil {
				return nil, err
			}
			continue
		}
		if err := s.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return nil, err
		}
		if err := s.extractFile(zf, target); err != nil {
			return nil, fmt.Errorf("extracting %s: %w", zf.Name, err)
		}
		files = append(files, name)
	}
	return files, nil
}

func (s *Stager) extractFile(zf *zip.File, target string) error {
	r, err := zf.Open()
	if err != nil {
		return err
	}
	defer r.Close()

	mode := zf.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	w, err := s.fs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err = io.Copy(w, r); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// entryName rejects archive entries that would land outside the staging directory
func entryName(name string) (string, error) {
	slashed := strings.ReplaceAll(name, `\`, "/")
	if path.IsAbs(slashed) || (len(slashed) > 1 && slashed[1] == ':') {
		return "", fmt.Errorf("archive entry %q has an absolute path", name)
	}
	clean := path.Clean(slashed)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("archive entry %q escapes the staging directory", name)
	}
	return clean, nil
}

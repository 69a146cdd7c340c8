package bundle

import (
	"fmt"
	"path/filepath"

	"github.com/easypatcher/easypatcher/pkg/deploy/script"
	"github.com/easypatcher/easypatcher/pkg/fingerprint"
	"github.com/easypatcher/easypatcher/pkg/model"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

// Bundle is an assembled patch bundle, opened for apply
type Bundle struct {
	Dir      string
	Manifest *model.PatchManifest
	fs       afero.Fs
}

// Open a bundle directory and load its manifest
func Open(fs afero.Fs, dir string) (*Bundle, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	b, err := afero.ReadFile(fs, filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, ErrManifest.Wrap(err)
	}
	var m model.PatchManifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, ErrManifest.Wrap(err)
	}
	if m.Version != model.ManifestVersion {
		return nil, ErrManifest.Wrapf("unsupported manifest version %d", m.Version)
	}
	return &Bundle{Dir: dir, Manifest: &m, fs: fs}, nil
}

// FilePath of the replacement content of a relative path
func (b *Bundle) FilePath(rel string) string {
	return filepath.Join(b.Dir, script.FilesDir, filepath.FromSlash(rel))
}

// Verify that every bundled replacement matches its manifest checksum
func (b *Bundle) Verify() error {
	fp := fingerprint.New()
	var errs error
	for _, c := range b.Manifest.Changes {
		if !c.Writes() {
			continue
		}
		p := b.FilePath(c.Path)
		if c.Dir {
			if ok, _ := afero.DirExists(b.fs, p); !ok {
				errs = multierr.Append(errs, fmt.Errorf("%s: missing directory", c.Path))
			}
			continue
		}
		sum, size, err := fp.File(b.fs, p)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %v", c.Path, err))
			continue
		}
		if sum != c.Checksum || size != c.Size {
			errs = multierr.Append(errs, fmt.Errorf("%s: checksum mismatch", c.Path))
		}
	}
	if errs != nil {
		return ErrCorrupt.Wrap(errs)
	}
	return nil
}

package vcs

import (
	"os"
	"path/filepath"

	"github.com/easypatcher/easypatcher/pkg/model"
	"github.com/spf13/afero"
)

// Detect the VCS of a working copy from its administrative directory.
//
// A .git file (worktrees, submodules) counts as git.
func Detect(fs afero.Fs, dir string) model.VCSKind {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if _, err := fs.Stat(filepath.Join(dir, ".git")); err == nil {
		return model.VCSGit
	}
	if fi, err := fs.Stat(filepath.Join(dir, ".svn")); err == nil && fi.IsDir() {
		return model.VCSSvn
	}
	return model.VCSUnknown
}

// IsDir tells if a path exists and is a directory
func IsDir(fs afero.Fs, dir string) bool {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	fi, err := fs.Stat(dir)
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeDir != 0
}

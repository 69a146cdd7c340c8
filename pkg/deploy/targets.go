package deploy

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/easypatcher/easypatcher/pkg/deploy/script"
	"github.com/spf13/afero"
)

// Targets is the list of target roots registered beside a bundle
type Targets struct {
	fs   afero.Fs
	path string
}

// NewTargets for the bundle in dir
func NewTargets(fs afero.Fs, dir string) *Targets {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Targets{fs: fs, path: filepath.Join(dir, script.TargetsName)}
}

// Load the registered roots, in registration order
func (t *Targets) Load() ([]string, error) {
	b, err := afero.ReadFile(t.fs, t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var roots []string
	scanner := bufio.NewScanner(bytes.NewReader(b))
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
			roots = append(roots, line)
		}
	}
	return roots, scanner.Err()
}

// Add a target root. The only check is that it is an existing directory.
func (t *Targets) Add(root string) error {
	if root == "" {
		return ErrNotDirectory.Wrapf("empty target")
	}
	fi, err := t.fs.Stat(root)
	if err != nil || !fi.IsDir() {
		return ErrNotDirectory.Wrapf("%s", root)
	}
	f, err := t.fs.OpenFile(t.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	if _, err = f.WriteString(root + "\n"); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/easypatcher/easypatcher/pkg/storage"
	"github.com/spf13/afero"
)

const (
	fileMode = 0644
	dirMode  = 0755
)

// New creates a new local file system backed store, rooted at dir.
//
// When fs is nil, the OS file system is used.
func New(fs afero.Fs, dir string) storage.Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &localFS{
		root: dir,
		fs:   afero.NewBasePathFs(fs, dir),
	}
}

type localFS struct {
	root string
	fs   afero.Fs
}

func (l *localFS) key(key string) (string, error) {
	clean := path.Clean(filepath.ToSlash(key))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || path.IsAbs(clean) {
		return "", storage.ErrInvalidKey.Wrapf("key %q", key)
	}
	return filepath.FromSlash(clean), nil
}

func (l *localFS) Has(ctx context.Context, key string) (bool, error) {
	k, err := l.key(key)
	if err != nil {
		return false, err
	}
	fi, err := l.fs.Stat(k)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !fi.IsDir(), nil
}

func (l *localFS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	has, err := l.Has(ctx, key)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, storage.ErrNotExists.Wrapf("key %q", key)
	}
	k, _ := l.key(key)
	return l.fs.Open(k)
}

func (l *localFS) Put(ctx context.Context, key string, source io.Reader, exclusive bool) error {
	k, err := l.key(key)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(k); dir != "." {
		if err := l.fs.MkdirAll(dir, dirMode); err != nil {
			return fmt.Errorf("ensuring directories for %q: %v", key, err)
		}
	}
	flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if exclusive {
		flag |= os.O_EXCL
	}
	target, err := l.fs.OpenFile(k, flag, fileMode)
	if err != nil {
		if os.IsExist(err) {
			return storage.ErrExists.Wrapf("key %q", key)
		}
		return fmt.Errorf("create record for %q: %v", key, err)
	}
	if _, err = storage.PipeIO(target, source); err != nil {
		_ = target.Close()
		return fmt.Errorf("write record for %q: %v", key, err)
	}
	return target.Close()
}

func (l *localFS) Delete(ctx context.Context, key string) error {
	k, err := l.key(key)
	if err != nil {
		return err
	}
	if err := l.fs.Remove(k); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %q: %v", key, err)
	}
	return nil
}

// Keys lists all stored objects, as sorted slash separated paths
func (l *localFS) Keys(ctx context.Context) ([]string, error) {
	const root = "."
	var res []string
	e := afero.Walk(l.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if p == root || info.IsDir() {
			return nil
		}
		res = append(res, filepath.ToSlash(p))
		return nil
	})
	if e != nil {
		return nil, e
	}
	sort.Strings(res)
	return res, nil
}

func (l *localFS) String() string {
	return "localfs@" + l.root
}

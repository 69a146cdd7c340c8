package deploy

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/easypatcher/easypatcher/pkg/bundle"
	"github.com/easypatcher/easypatcher/pkg/deploy/script"
	"github.com/easypatcher/easypatcher/pkg/model"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// FailuresName records write failures inside the backup directory
const FailuresName = "failures.txt"

// Option for the applier
type Option func(*Applier)

// FS sets the file system of the bundle and targets
func FS(fs afero.Fs) Option {
	return func(a *Applier) {
		if fs != nil {
			a.fs = fs
		}
	}
}

// Logger for the applier
func Logger(l *zap.Logger) Option {
	return func(a *Applier) {
		if l != nil {
			a.l = l
		}
	}
}

// Clock overrides the time source of backup names
func Clock(now func() time.Time) Option {
	return func(a *Applier) {
		if now != nil {
			a.now = now
		}
	}
}

// Applier applies one bundle
type Applier struct {
	bundle *bundle.Bundle
	fs     afero.Fs
	now    func() time.Time
	l      *zap.Logger
}

// NewApplier for an opened bundle
func NewApplier(b *bundle.Bundle, opts ...Option) *Applier {
	a := &Applier{
		bundle: b,
		fs:     afero.NewOsFs(),
		now:    time.Now,
		l:      zap.NewNop(),
	}
	for _, apply := range opts {
		apply(a)
	}
	return a
}

// Report of an apply
type Report struct {
	// Backup directory holding the previous state of every affected path
	Backup  string
	Deleted []string
	Written []string
	// Failures of the write phase
	Failures []*WriteError
}

// Err combines the write failures
func (r *Report) Err() error {
	var errs error
	for _, f := range r.Failures {
		errs = multierr.Append(errs, f)
	}
	return errs
}

// Apply the bundle to every root, in order.
//
// The bundle is verified first, then every affected path is backed up. Any
// failure before the write phase returns with nothing written. Write
// failures are recorded in the report and returned combined, once every
// write has been attempted.
func (a *Applier) Apply(ctx context.Context, roots []string) (*Report, error) {
	if len(roots) == 0 {
		return nil, ErrNoTarget
	}
	for _, root := range roots {
		if fi, err := a.fs.Stat(root); err != nil || !fi.IsDir() {
			return nil, ErrNotDirectory.Wrapf("%s", root)
		}
	}
	if err := a.bundle.Verify(); err != nil {
		return nil, ErrBundleCorrupt.Wrap(err)
	}

	backup, err := a.backup(ctx, roots)
	if err != nil {
		return nil, err
	}
	a.l.Info("backup complete", zap.String("backup", backup))

	report := &Report{Backup: backup}
	entries := a.bundle.Manifest.Entries()
	for _, root := range roots {
		for _, e := range entries {
			switch {
			case e.Kind == model.ChangeDeleted:
				a.remove(report, root, e.Path)
			case e.Kind == model.ChangeRenamed && e.OldPath != "":
				a.remove(report, root, e.OldPath)
			}
		}
		for _, e := range entries {
			if e.Writes() {
				a.write(report, root, e)
			}
		}
	}

	if len(report.Failures) > 0 {
		a.recordFailures(report)
		return report, report.Err()
	}
	return report, nil
}

func targetPath(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}

func (a *Applier) exists(p string) bool {
	_, err := a.fs.Stat(p)
	return err == nil
}

// backup copies every affected path found under each root into a fresh
// backup directory. On failure, the partial backup is removed.
func (a *Applier) backup(ctx context.Context, roots []string) (dir string, err error) {
	now := a.now()
	for attempt := 0; ; attempt++ {
		dir = filepath.Join(a.bundle.Dir, model.GetBackupDirName(now, attempt))
		if !a.exists(dir) {
			break
		}
	}
	if err = a.fs.MkdirAll(dir, 0755); err != nil {
		return "", ErrBackupIncomplete.Wrap(err)
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

	var index strings.Builder
	for i, root := range roots {
		n := fmt.Sprint(i + 1)
		fmt.Fprintf(&index, "%s\t%s\n", n, root)
		if err = a.fs.MkdirAll(filepath.Join(dir, n), 0755); err != nil {
			return dir, ErrBackupIncomplete.Wrap(err)
		}
		for _, e := range a.bundle.Manifest.Entries() {
			for _, rel := range e.Touched() {
				if err = ctx.Err(); err != nil {
					return dir, ErrBackupIncomplete.Wrap(err)
				}
				src := targetPath(root, rel)
				if !a.exists(src) {
					continue
				}
				if err = a.copyTree(src, targetPath(filepath.Join(dir, n), rel)); err != nil {
					return dir, ErrBackupIncomplete.Wrapf("%s: %v", src, err)
				}
			}
		}
	}
	if err = afero.WriteFile(a.fs, filepath.Join(dir, script.TargetsName), []byte(index.String()), 0644); err != nil {
		return dir, ErrBackupIncomplete.Wrap(err)
	}
	return dir, nil
}

// copyTree copies a file, or a directory recursively, keeping permissions
func (a *Applier) copyTree(src, dst string) error {
	return afero.Walk(a.fs, src, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return a.fs.MkdirAll(target, info.Mode().Perm()|0700)
		}
		if err := a.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		return a.copyFile(p, target, info.Mode().Perm())
	})
}

func (a *Applier) copyFile(src, dst string, mode os.FileMode) error {
	in, err := a.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := a.fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func (a *Applier) remove(report *Report, root, rel string) {
	p := targetPath(root, rel)
	if !a.exists(p) {
		return
	}
	if err := a.fs.RemoveAll(p); err != nil {
		a.fail(report, "delete", p, err)
		return
	}
	report.Deleted = append(report.Deleted, p)
}

func (a *Applier) write(report *Report, root string, e model.ChangeEntry) {
	dst := targetPath(root, e.Path)
	if e.Dir {
		if err := a.fs.MkdirAll(dst, 0755); err != nil {
			a.fail(report, "mkdir", dst, err)
			return
		}
		report.Written = append(report.Written, dst)
		return
	}
	if err := a.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		a.fail(report, "write", dst, err)
		return
	}
	mode := os.FileMode(0644)
	if fi, err := a.fs.Stat(dst); err == nil && !fi.IsDir() {
		mode = fi.Mode().Perm()
	}
	if err := a.copyFile(a.bundle.FilePath(e.Path), dst, mode); err != nil {
		a.fail(report, "write", dst, err)
		return
	}
	report.Written = append(report.Written, dst)
}

func (a *Applier) fail(report *Report, op, p string, err error) {
	a.l.Warn("apply failure", zap.String("op", op), zap.String("path", p), zap.Error(err))
	report.Failures = append(report.Failures, &WriteError{Op: op, Path: p, Err: err})
}

func (a *Applier) recordFailures(report *Report) {
	var b strings.Builder
	for _, f := range report.Failures {
		fmt.Fprintf(&b, "%s\t%s\n", f.Op, f.Path)
	}
	if err := afero.WriteFile(a.fs, filepath.Join(report.Backup, FailuresName), []byte(b.String()), 0644); err != nil {
		a.l.Warn("cannot record failures", zap.Error(err))
	}
}

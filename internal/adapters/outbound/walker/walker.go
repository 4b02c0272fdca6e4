// Package walker enumerates candidate artifact files over an afero
// filesystem. The OS-backed walker is read-only.
package walker

import (
	"context"
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/openkraft/dotcheck/internal/logger"
	"github.com/spf13/afero"
)

// MaxDepth bounds how many directories below the root are entered.
const MaxDepth = 64

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

var errStop = errors.New("walk stopped")

// Walker implements domain.FileSystem.
type Walker struct {
	fs      afero.Fs
	ignore  []string
	resolve func(string) (string, error)
}

// New returns a walker over fsys. Paths matching any ignore glob
// (doublestar syntax, root-relative) are skipped.
func New(fsys afero.Fs, ignore ...string) *Walker {
	return &Walker{fs: fsys, ignore: ignore}
}

// NewOS returns a read-only walker over the local filesystem.
func NewOS(ignore ...string) *Walker {
	w := New(afero.NewReadOnlyFs(afero.NewOsFs()), ignore...)
	w.resolve = filepath.EvalSymlinks
	return w
}

// Files yields regular files below root/start in lexical order. A start
// that is a symlink to a directory is entered, but links met below it are
// not followed. Unreadable entries are logged and skipped.
func (w *Walker) Files(ctx context.Context, root, start string, match func(rel string) bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		origin := w.walkOrigin(filepath.Join(root, filepath.FromSlash(start)))
		err := afero.Walk(w.fs, origin, func(p string, info os.FileInfo, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				if p != origin || !errors.Is(err, fs.ErrNotExist) {
					logger.G(ctx).WithError(err).WithField("path", p).Debug("skipping unreadable entry")
				}
				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			rel, relErr := filepath.Rel(root, p)
			if relErr != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)

			if info.IsDir() {
				if rel != "." && (skipDirs[info.Name()] || w.ignored(rel) || depth(rel) > MaxDepth) {
					return filepath.SkipDir
				}
				return nil
			}
			if !info.Mode().IsRegular() || w.ignored(rel) || (match != nil && !match(rel)) {
				return nil
			}
			if !yield(rel) {
				return errStop
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStop) {
			logger.G(ctx).WithError(err).WithField("start", start).Debug("walk interrupted")
		}
	}
}

func (w *Walker) ignored(rel string) bool {
	for _, pattern := range w.ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func depth(rel string) int {
	return strings.Count(rel, "/") + 1
}

// walkOrigin returns the path afero.Walk should start from. The walk
// lstats its root, so a linked directory gets a trailing separator, which
// makes the OS resolve the link for that one step.
func (w *Walker) walkOrigin(origin string) string {
	l, ok := w.fs.(afero.Lstater)
	if !ok {
		return origin
	}
	info, linked, err := l.LstatIfPossible(origin)
	if err != nil || !linked || info.Mode()&fs.ModeSymlink == 0 {
		return origin
	}
	if target, err := w.fs.Stat(origin); err == nil && target.IsDir() {
		return origin + string(filepath.Separator)
	}
	return origin
}

// Stat reports on name, following symlinks.
func (w *Walker) Stat(name string) (fs.FileInfo, error) {
	return w.fs.Stat(name)
}

// RealPath resolves every symlink in name. Walkers that are not backed by
// the OS return name unchanged.
func (w *Walker) RealPath(name string) (string, error) {
	if w.resolve == nil {
		return name, nil
	}
	return w.resolve(name)
}

// ReadFile returns the contents of name.
func (w *Walker) ReadFile(name string) ([]byte, error) {
	return afero.ReadFile(w.fs, name)
}


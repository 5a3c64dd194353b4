package symlinks

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/arthur-debert/clickhooks/pkg/logging"
	"github.com/arthur-debert/clickhooks/pkg/types"
	"github.com/rs/zerolog"
)

var tempSeq atomic.Uint64

// Link is a symbolic link found on disk.
type Link struct {
	Path   string
	Target string
}

// Store manages symlinks on a filesystem.
type Store struct {
	fs     types.FS
	logger zerolog.Logger
}

// New creates a Store operating on fs.
func New(fs types.FS) *Store {
	return &Store{
		fs:     fs,
		logger: logging.GetLogger("symlinks"),
	}
}

// Target returns the target of the symlink at path. ok is false when
// nothing exists at path.
func (s *Store) Target(path string) (target string, ok bool, err error) {
	info, err := s.fs.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path)
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return "", true, errors.Newf(errors.ErrFileAccess, "%s exists and is not a symlink", path).
			WithDetail("path", path)
	}
	target, err = s.fs.Readlink(path)
	if err != nil {
		return "", true, errors.Wrapf(err, errors.ErrFileAccess, "cannot read link %s", path)
	}
	return target, true, nil
}

// Ensure makes path a symlink to target. An existing link with the right
// target is left alone; anything else that is not a directory is replaced
// atomically. It reports whether the filesystem was changed.
func (s *Store) Ensure(target, path string) (bool, error) {
	if current, err := s.fs.Readlink(path); err == nil && current == target {
		return false, nil
	}

	if info, err := s.fs.Lstat(path); err == nil && info.IsDir() {
		return false, errors.Newf(errors.ErrSymlinkCreate, "cannot replace directory %s with a link", path).
			WithDetail("path", path)
	}

	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return false, errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot create directory %s", dir)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), tempSeq.Add(1)))
	if err := s.fs.Symlink(target, tmp); err != nil {
		return false, errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot create symlink %s", tmp).
			WithDetail("path", path)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return false, errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot move symlink into place at %s", path).
			WithDetail("path", path)
	}

	s.logger.Debug().Str("path", path).Str("target", target).Msg("Linked")
	return true, nil
}

// Remove deletes the symlink at path. It reports whether something was
// removed; a missing path is not an error, a non-symlink is.
func (s *Store) Remove(path string) (bool, error) {
	info, err := s.fs.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrSymlinkRemove, "cannot stat %s", path)
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return false, errors.Newf(errors.ErrSymlinkRemove, "refusing to remove %s: not a symlink", path).
			WithDetail("path", path)
	}
	if err := s.fs.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrSymlinkRemove, "cannot remove %s", path)
	}

	s.logger.Debug().Str("path", path).Msg("Unlinked")
	return true, nil
}

// List returns the symlinks directly inside dir, sorted by path. A
// missing directory has no links.
func (s *Store) List(dir string) ([]Link, error) {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", dir)
	}

	var links []Link
	for _, entry := range entries {
		if entry.Type()&fs.ModeSymlink == 0 {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		target, err := s.fs.Readlink(path)
		if err != nil {
			continue
		}
		links = append(links, Link{Path: path, Target: target})
	}

	sort.Slice(links, func(i, j int) bool { return links[i].Path < links[j].Path })
	return links, nil
}

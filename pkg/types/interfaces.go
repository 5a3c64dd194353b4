package types

import (
	"context"
	"io/fs"
)

// FS is the filesystem interface required for hook operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)
	// Glob returns the names (relative to dir) of entries matching a
	// doublestar pattern. A missing dir yields no matches.
	Glob(dir, pattern string) ([]string, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Remove(name string) error
	Rename(oldpath, newpath string) error
}

// CommandRunner runs a shell command string as the given account. It
// returns the command's exit status; err is reserved for failures to
// start or wait for the process.
type CommandRunner interface {
	Run(ctx context.Context, command, account string) (exitStatus int, err error)
}

// CommandRunnerFunc adapts a function to the CommandRunner interface.
type CommandRunnerFunc func(ctx context.Context, command, account string) (int, error)

// Run calls f(ctx, command, account).
func (f CommandRunnerFunc) Run(ctx context.Context, command, account string) (int, error) {
	return f(ctx, command, account)
}

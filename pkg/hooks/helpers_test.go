package hooks_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/arthur-debert/clickhooks/pkg/db"
	"github.com/arthur-debert/clickhooks/pkg/filesystem"
	"github.com/arthur-debert/clickhooks/pkg/framework"
	"github.com/arthur-debert/clickhooks/pkg/hooks"
	"github.com/arthur-debert/clickhooks/pkg/types"
	"github.com/stretchr/testify/require"
)

const testUser = "test-user"

type command struct {
	Command string
	Account string
}

// env is a scratch database with one layer, a hooks directory and a
// recording command runner.
type env struct {
	t          *testing.T
	root       string
	hooksDir   string
	frameworks string
	db         *db.DB
	engine     *hooks.Engine

	commands []command
	status   map[string]int
}

type envOption func(*env)

func withLayers(names ...string) envOption {
	return func(e *env) {
		e.db = db.New(filesystem.NewOS())
		for _, n := range names {
			e.db.Add(filepath.Join(e.root, n))
		}
	}
}

func withHooksDir(rel string) envOption {
	return func(e *env) {
		e.hooksDir = filepath.Join(e.root, rel)
	}
}

func newEnv(t *testing.T, opts ...envOption) *env {
	t.Helper()
	root := t.TempDir()
	e := &env{
		t:          t,
		root:       root,
		hooksDir:   root,
		frameworks: filepath.Join(root, "frameworks"),
		status:     make(map[string]int),
	}
	e.db = db.Open(filesystem.NewOS(), root)
	for _, opt := range opts {
		opt(e)
	}
	require.NoError(t, os.MkdirAll(e.hooksDir, 0755))
	require.NoError(t, os.MkdirAll(e.frameworks, 0755))

	e.engine = hooks.New(hooks.Options{
		DB:         e.db,
		HooksDir:   e.hooksDir,
		Frameworks: framework.NewCatalog(filesystem.NewOS(), e.frameworks),
		Runner: types.CommandRunnerFunc(func(_ context.Context, cmd, account string) (int, error) {
			e.commands = append(e.commands, command{Command: cmd, Account: account})
			return e.status[cmd], nil
		}),
		HomeDir: func(user string) (string, error) {
			return "/home/" + user, nil
		},
	})
	return e
}

func (e *env) path(parts ...string) string {
	return filepath.Join(append([]string{e.root}, parts...)...)
}

func (e *env) writeHook(name, content string) {
	e.t.Helper()
	path := filepath.Join(e.hooksDir, name+hooks.HookExtension)
	require.NoError(e.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0644))
}

func (e *env) writeFramework(name string) {
	e.t.Helper()
	require.NoError(e.t, os.WriteFile(filepath.Join(e.frameworks, name+framework.Extension),
		[]byte("Base-Name: ubuntu-sdk\nBase-Version: 13.10\n"), 0644))
}

func (e *env) open(name string) *hooks.Hook {
	e.t.Helper()
	h, err := e.engine.Open(name)
	require.NoError(e.t, err)
	return h
}

// unpack writes a manifest for (pkg, ver) into layer and returns the
// unpacked directory.
func (e *env) unpack(layer, pkg, ver, manifest string) string {
	e.t.Helper()
	dir := filepath.Join(layer, pkg, ver)
	path := db.ManifestPath(dir, pkg)
	require.NoError(e.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, os.WriteFile(path, []byte(manifest), 0644))
	return dir
}

// installClick unpacks into the overlay, optionally marks the version
// current and registers it for scope when scope is set.
func (e *env) installClick(pkg, ver, manifest string, current bool, scope string) {
	e.t.Helper()
	overlay := e.db.Overlay().Root()
	e.unpack(overlay, pkg, ver, manifest)
	if current {
		link := filepath.Join(overlay, pkg, db.CurrentLink)
		_ = os.Remove(link)
		require.NoError(e.t, os.Symlink(ver, link))
	}
	switch scope {
	case "":
	case db.AllUsers:
		require.NoError(e.t, db.ForAllUsers(e.db).SetVersion(pkg, ver))
	default:
		require.NoError(e.t, db.ForUser(e.db, scope).SetVersion(pkg, ver))
	}
}

func (e *env) symlink(target string, parts ...string) string {
	e.t.Helper()
	path := e.path(parts...)
	require.NoError(e.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, os.Symlink(target, path))
	return path
}

func readlink(t *testing.T, path string) string {
	t.Helper()
	target, err := os.Readlink(path)
	require.NoError(t, err, "expected a symlink at %s", path)
	return target
}

func lexists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// links returns name -> target for every symlink directly inside dir.
func links(t *testing.T, dir string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return out
	}
	require.NoError(t, err)
	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		out[entry.Name()] = readlink(t, filepath.Join(dir, entry.Name()))
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

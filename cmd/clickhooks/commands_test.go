// cmd/clickhooks/commands_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (t.TempDir), environment (t.Setenv)
// PURPOSE: Test the CLI commands end to end against a scratch database

package clickhooks_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/clickhooks/cmd/clickhooks"
	"github.com/arthur-debert/clickhooks/pkg/db"
	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// setupRoot builds a database with one unpacked package and points the
// configuration at it through the environment.
func setupRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"hooks", "frameworks", "db", "out", "config", "state"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0755))
	}
	t.Setenv("CLICKHOOKS_CONFIG_DIR", filepath.Join(root, "config"))
	t.Setenv("CLICKHOOKS_STATE_DIR", filepath.Join(root, "state"))
	t.Setenv("CLICKHOOKS_HOOKS_DIR", filepath.Join(root, "hooks"))
	t.Setenv("CLICKHOOKS_FRAMEWORKS_DIR", filepath.Join(root, "frameworks"))
	t.Setenv("CLICKHOOKS_DATABASE_LAYERS", filepath.Join(root, "db"))

	writeFile(t, filepath.Join(root, "hooks", "test.hook"), "Pattern: "+root+"/out/${id}.test\n")
	writeFile(t, filepath.Join(root, "hooks", "other.hook"), "Pattern: "+root+"/out/${short-id}.other\nUser-Level: yes\nHook-Name: other\n")
	manifest := db.ManifestPath(filepath.Join(root, "db", "pkg", "1.0"), "pkg")
	writeFile(t, manifest, `{"name": "pkg", "version": "1.0", "hooks": {"app": {"test": "target"}}}`)
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := clickhooks.NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	setupRoot(t)

	out, err := execute(t, "list", "--output", "json")
	require.NoError(t, err)

	var hooks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &hooks))
	require.Len(t, hooks, 2)
	assert.Equal(t, "other", hooks[0]["name"])
	assert.Equal(t, true, hooks[0]["user_level"])
	assert.Equal(t, "test", hooks[1]["name"])

	out, err = execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "user")
}

func TestHookShowCommand(t *testing.T) {
	root := setupRoot(t)

	out, err := execute(t, "hook", "show", "test", "-o", "yaml")
	require.NoError(t, err)

	var info map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &info))
	assert.Equal(t, root+"/out/${id}.test", info["pattern"])
	assert.Equal(t, false, info["user_level"])
}

func TestHookInstallAndStatus(t *testing.T) {
	root := setupRoot(t)
	link := filepath.Join(root, "out", "pkg_app_1.0.test")

	out, err := execute(t, "status", "test", "-o", "json")
	require.NoError(t, err)
	var before []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &before))
	require.Len(t, before, 1)
	assert.Equal(t, "missing", before[0]["state"])

	out, err = execute(t, "hook", "install", "test")
	require.NoError(t, err)
	assert.Contains(t, out, "Done.")

	target, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "db", "pkg", "1.0", "target"), target)

	out, err = execute(t, "status", "test", "-o", "json")
	require.NoError(t, err)
	var after []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &after))
	assert.Equal(t, "ok", after[0]["state"])

	_, err = execute(t, "hook", "remove", "test")
	require.NoError(t, err)
	_, err = os.Lstat(link)
	assert.True(t, os.IsNotExist(err))
}

func TestPackageCommands(t *testing.T) {
	root := setupRoot(t)
	link := filepath.Join(root, "out", "pkg_app_1.0.test")

	_, err := execute(t, "package", "install-hooks", "pkg", "1.0")
	require.NoError(t, err)
	_, err = os.Readlink(link)
	require.NoError(t, err)

	_, err = execute(t, "package", "remove-hooks", "pkg", "1.0")
	require.NoError(t, err)
	_, err = os.Lstat(link)
	assert.True(t, os.IsNotExist(err))
}

func TestRegisterCommands(t *testing.T) {
	root := setupRoot(t)
	writeFile(t, db.ManifestPath(filepath.Join(root, "db", "pkg", "2.0"), "pkg"),
		`{"name": "pkg", "version": "2.0", "hooks": {"app": {"other": "target"}}}`)
	link := filepath.Join(root, "out", "pkg_app.other")

	_, err := execute(t, "register", "pkg", "2.0")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "a scope is required")

	out, err := execute(t, "register", "pkg", "2.0", "--user", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Done.")
	target, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "db", ".click", "users", "alice", "pkg", "target"), target)

	_, err = execute(t, "unregister", "pkg", "1.0", "--user", "alice")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "registered version is 2.0")

	_, err = execute(t, "unregister", "pkg", "--user", "alice")
	require.NoError(t, err)
	_, err = os.Lstat(link)
	assert.True(t, os.IsNotExist(err))

	_, err = execute(t, "register", "pkg", "1.0", "--all-users")
	require.NoError(t, err)
	registration, err := os.Readlink(filepath.Join(root, "db", ".click", "users", db.AllUsers, "pkg"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "db", "pkg", "1.0"), registration)
}

func TestFrameworkCommands(t *testing.T) {
	root := setupRoot(t)
	writeFile(t, filepath.Join(root, "frameworks", "ubuntu-sdk-13.10.framework"), "Base-Name: ubuntu-sdk\nBase-Version: 13.10\n")
	writeFile(t, db.ManifestPath(filepath.Join(root, "db", "pkg", "3.0"), "pkg"),
		`{"name": "pkg", "version": "3.0", "framework": "ubuntu-sdk-99", "hooks": {}}`)

	out, err := execute(t, "framework", "list", "-o", "json")
	require.NoError(t, err)
	var frameworks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &frameworks))
	assert.Equal(t, []map[string]any{
		{"name": "ubuntu-sdk-13.10", "base_name": "ubuntu-sdk", "base_version": "13.10"},
	}, frameworks)

	out, err = execute(t, "framework", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "BASE-VERSION")

	out, err = execute(t, "framework", "validate", "pkg", "1.0")
	require.NoError(t, err)
	assert.Contains(t, out, "are valid")

	_, err = execute(t, "framework", "validate", "pkg", "3.0")
	assert.True(t, errors.IsErrorCode(err, errors.ErrFrameworkMissing), "got %v", err)

	_, err = execute(t, "framework", "validate", "pkg", "3.0", "--ignore-missing")
	assert.NoError(t, err)
}

func TestRunSystemCommand(t *testing.T) {
	root := setupRoot(t)
	require.NoError(t, os.Symlink("nowhere", filepath.Join(root, "out", "gone_app_0.1.test")))

	_, err := execute(t, "run-system")
	require.NoError(t, err)

	_, err = os.Readlink(filepath.Join(root, "out", "pkg_app_1.0.test"))
	assert.NoError(t, err)
	_, err = os.Lstat(filepath.Join(root, "out", "gone_app_0.1.test"))
	assert.True(t, os.IsNotExist(err), "stale link is swept")
}

func TestConfigCommand(t *testing.T) {
	root := setupRoot(t)

	out, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(root, "hooks"))
	assert.Contains(t, out, "debounce")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "clickhooks version")
}

func TestCommandErrors(t *testing.T) {
	setupRoot(t)

	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{name: "unknown hook", args: []string{"hook", "show", "nope"}, code: errors.ErrNoSuchHook},
		{name: "unknown output format", args: []string{"list", "-o", "xml"}, code: errors.ErrInvalidInput},
		{name: "package not unpacked", args: []string{"package", "install-hooks", "pkg", "9.9"}, code: errors.ErrNotUnpacked},
		{name: "missing config file", args: []string{"list", "--config", "/nonexistent/clickhooks.toml"}, code: errors.ErrConfigLoad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
		})
	}
}

func TestDirectoryFlagsOverrideConfig(t *testing.T) {
	root := setupRoot(t)
	other := filepath.Join(root, "other-db")
	writeFile(t, db.ManifestPath(filepath.Join(other, "pkg", "2.0"), "pkg"),
		`{"name": "pkg", "version": "2.0", "hooks": {"app": {"test": "target"}}}`)

	_, err := execute(t, "hook", "install", "test", "--layer", other, "--hooks-dir", filepath.Join(root, "hooks"))
	require.NoError(t, err)

	assert.Equal(t, []string{"pkg_app_2.0.test"}, linkNames(t, filepath.Join(root, "out")))
}

func linkNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

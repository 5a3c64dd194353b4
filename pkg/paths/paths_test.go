// pkg/paths/paths_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Environment variables
// PURPOSE: Test XDG path resolution, overrides and home expansion

package paths_test

import (
	"os"
	"os/user"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/arthur-debert/clickhooks/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EnvironmentOverrides(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(paths.EnvConfigDir, filepath.Join(tmp, "config"))
	t.Setenv(paths.EnvStateDir, filepath.Join(tmp, "state"))

	p := paths.New()

	assert.Equal(t, filepath.Join(tmp, "config"), p.ConfigDir())
	assert.Equal(t, filepath.Join(tmp, "state"), p.StateDir())
	assert.Equal(t, filepath.Join(tmp, "config", "config.toml"), p.ConfigFilePath())
	assert.Equal(t, filepath.Join(tmp, "state", "clickhooks.log"), p.LogFilePath())
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv(paths.EnvConfigDir, "")
	t.Setenv(paths.EnvStateDir, "")

	p := paths.New()

	assert.Equal(t, paths.AppDirName, filepath.Base(p.ConfigDir()))
	assert.Equal(t, paths.AppDirName, filepath.Base(p.StateDir()))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/x/y", filepath.Join(home, "x", "y")},
		{"/abs/path", "/abs/path"},
		{"~other/path", "~other/path"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, paths.ExpandHome(tt.in))
		})
	}
}

func TestUserHome(t *testing.T) {
	current, err := user.Current()
	require.NoError(t, err)

	home, err := paths.UserHome(current.Username)
	require.NoError(t, err)
	assert.Equal(t, current.HomeDir, home)

	_, err = paths.UserHome("")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

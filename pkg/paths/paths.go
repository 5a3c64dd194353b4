package paths

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/clickhooks/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for clickhooks
	EnvConfigDir = "CLICKHOOKS_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for clickhooks
	EnvStateDir = "CLICKHOOKS_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name for clickhooks-specific files
	AppDirName = "clickhooks"

	// ConfigFileName is the name of the configuration file
	ConfigFileName = "config.toml"

	// SystemConfigPath is the machine-wide configuration file
	SystemConfigPath = "/etc/clickhooks/config.toml"

	// LogFileName is the name of the log file
	LogFileName = "clickhooks.log"
)

// Paths provides the locations of clickhooks' own files
type Paths interface {
	ConfigDir() string
	StateDir() string
	ConfigFilePath() string
	LogFilePath() string
}

type paths struct {
	xdgConfig string
	xdgState  string
}

// New creates a Paths instance, respecting environment overrides.
func New() Paths {
	p := &paths{}

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = ExpandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if stateDir := os.Getenv(EnvStateDir); stateDir != "" {
		p.xdgState = ExpandHome(stateDir)
	} else {
		p.xdgState = filepath.Join(xdg.StateHome, AppDirName)
	}

	return p
}

func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

func (p *paths) StateDir() string {
	return p.xdgState
}

func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.xdgConfig, ConfigFileName)
}

func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// UserHome returns the home directory of the named account. It is the
// default home resolver used when expanding ${home} in user-level hooks.
func UserHome(name string) (string, error) {
	if name == "" {
		return "", errors.New(errors.ErrInvalidInput, "user name is empty")
	}
	u, err := user.Lookup(name)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrNotFound, "cannot look up user %q", name)
	}
	return u.HomeDir, nil
}

// ExpandHome expands a leading ~ to the current user's home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

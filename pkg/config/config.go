package config

import (
	"os"
	"strings"
	"time"

	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/arthur-debert/clickhooks/pkg/logging"
	"github.com/arthur-debert/clickhooks/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	tomlv2 "github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CLICKHOOKS_"

// Config is the effective clickhooks configuration.
type Config struct {
	Hooks      HooksConfig      `koanf:"hooks"`
	Frameworks FrameworksConfig `koanf:"frameworks"`
	Database   DatabaseConfig   `koanf:"database"`
	Exec       ExecConfig       `koanf:"exec"`
	Watch      WatchConfig      `koanf:"watch"`

	// Sources lists the files that were merged, in load order.
	Sources []string `koanf:"-"`
}

type HooksConfig struct {
	Dir string `koanf:"dir"`
}

type FrameworksConfig struct {
	Dir string `koanf:"dir"`
}

// DatabaseConfig lists the database layers, deepest first.
type DatabaseConfig struct {
	Layers []string `koanf:"layers"`
}

type ExecConfig struct {
	Shell string `koanf:"shell"`
}

type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// Options selects the files Load reads. Empty SystemFile and UserFile
// mean the standard locations; File is the explicit --config file and
// must exist when set. Overrides, keyed like "hooks.dir", win over
// everything else.
type Options struct {
	SystemFile string
	UserFile   string
	File       string
	Overrides  map[string]any
}

// Load builds the configuration from, in increasing precedence: the
// embedded defaults, the system file, the user file, the explicit file,
// the environment and opts.Overrides.
func Load(opts Options) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot load built-in defaults")
	}

	systemFile := opts.SystemFile
	if systemFile == "" {
		systemFile = paths.SystemConfigPath
	}
	userFile := opts.UserFile
	if userFile == "" {
		userFile = paths.New().ConfigFilePath()
	}

	var sources []string
	for _, path := range []string{systemFile, userFile} {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config %s", path).
				WithDetail("path", path)
		}
		if err := loadFile(k, path); err != nil {
			return nil, err
		}
		sources = append(sources, path)
	}

	if opts.File != "" {
		if _, err := os.Stat(opts.File); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config %s", opts.File).
				WithDetail("path", opts.File)
		}
		if err := loadFile(k, opts.File); err != nil {
			return nil, err
		}
		sources = append(sources, opts.File)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot load environment overrides")
	}
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot decode configuration")
	}
	cfg.Sources = sources

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug().Strs("sources", sources).Msg("Configuration loaded")
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot parse config %s", path).
			WithDetail("path", path)
	}
	return nil
}

// envKey maps CLICKHOOKS_HOOKS_DIR to hooks.dir. The directory
// overrides read by pkg/paths are not configuration keys.
func envKey(s string) string {
	switch s {
	case paths.EnvConfigDir, paths.EnvStateDir:
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Hooks.Dir == "":
		return errors.New(errors.ErrConfigLoad, "hooks.dir must not be empty")
	case len(c.Database.Layers) == 0:
		return errors.New(errors.ErrConfigLoad, "database.layers must name at least one directory")
	case c.Exec.Shell == "":
		return errors.New(errors.ErrConfigLoad, "exec.shell must not be empty")
	case c.Watch.Debounce < 0:
		return errors.Newf(errors.ErrConfigLoad, "watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	for _, layer := range c.Database.Layers {
		if strings.TrimSpace(layer) == "" {
			return errors.New(errors.ErrConfigLoad, "database.layers contains an empty entry")
		}
	}
	return nil
}

// MarshalTOML renders the effective configuration.
func (c *Config) MarshalTOML() ([]byte, error) {
	view := map[string]any{
		"hooks":      map[string]any{"dir": c.Hooks.Dir},
		"frameworks": map[string]any{"dir": c.Frameworks.Dir},
		"database":   map[string]any{"layers": c.Database.Layers},
		"exec":       map[string]any{"shell": c.Exec.Shell},
		"watch":      map[string]any{"debounce": c.Watch.Debounce.String()},
	}
	data, err := tomlv2.Marshal(view)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot render configuration")
	}
	return data, nil
}

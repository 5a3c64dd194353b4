package clickhooks

import (
	"os"

	"github.com/arthur-debert/clickhooks/pkg/config"
	"github.com/arthur-debert/clickhooks/pkg/db"
	"github.com/arthur-debert/clickhooks/pkg/filesystem"
	"github.com/arthur-debert/clickhooks/pkg/framework"
	"github.com/arthur-debert/clickhooks/pkg/hooks"
	"github.com/arthur-debert/clickhooks/pkg/output"
	"github.com/arthur-debert/clickhooks/pkg/runner"
	"github.com/spf13/cobra"
)

// rootOptions holds the global flags.
type rootOptions struct {
	verbosity  int
	configFile string
	format     string
	hooksDir   string
	layers     []string
}

// overrides turns the directory flags into configuration keys.
func (o *rootOptions) overrides() map[string]any {
	m := make(map[string]any)
	if o.hooksDir != "" {
		m["hooks.dir"] = o.hooksDir
	}
	if len(o.layers) > 0 {
		m["database.layers"] = o.layers
	}
	return m
}

// app is what every command works with, built from the configuration.
type app struct {
	cfg    *config.Config
	db     *db.DB
	engine *hooks.Engine
	out    *output.Renderer
}

func newApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(config.Options{File: opts.configFile, Overrides: opts.overrides()})
	if err != nil {
		return nil, err
	}

	fs := filesystem.NewOS()
	database := db.Open(fs, cfg.Database.Layers...)
	engine := hooks.New(hooks.Options{
		DB:         database,
		HooksDir:   cfg.Hooks.Dir,
		Frameworks: framework.NewCatalog(fs, cfg.Frameworks.Dir),
		Runner:     runner.NewShellRunner(cfg.Exec.Shell),
		FS:         fs,
	})

	noColor := true
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		noColor = output.NoColor(f)
	}
	return &app{
		cfg:    cfg,
		db:     database,
		engine: engine,
		out:    output.NewRenderer(cmd.OutOrStdout(), format, noColor),
	}, nil
}

// withApp adapts a command body that needs the app.
func withApp(opts *rootOptions, fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, opts)
		if err != nil {
			return err
		}
		return fn(cmd, a, args)
	}
}

package hooks

import (
	"github.com/arthur-debert/clickhooks/pkg/db"
	"github.com/arthur-debert/clickhooks/pkg/framework"
	"github.com/arthur-debert/clickhooks/pkg/logging"
	"github.com/arthur-debert/clickhooks/pkg/paths"
	"github.com/arthur-debert/clickhooks/pkg/runner"
	"github.com/arthur-debert/clickhooks/pkg/symlinks"
	"github.com/arthur-debert/clickhooks/pkg/types"
	"github.com/rs/zerolog"
)

// HookExtension is the file extension of hook definitions.
const HookExtension = ".hook"

// Options configures an Engine.
type Options struct {
	// DB is the layered package database. Required.
	DB *db.DB
	// HooksDir holds the *.hook files.
	HooksDir string
	// Frameworks is the installed framework catalog. When nil no
	// framework gating is applied.
	Frameworks *framework.Catalog
	// Runner executes Exec commands. Defaults to a /bin/sh runner.
	Runner types.CommandRunner
	// HomeDir resolves ${home}. Defaults to the passwd entry.
	HomeDir func(user string) (string, error)
	// FS defaults to the database's filesystem.
	FS types.FS
}

// Engine applies hooks to a database.
type Engine struct {
	db         *db.DB
	hooksDir   string
	frameworks *framework.Catalog
	runner     types.CommandRunner
	homeDir    func(string) (string, error)
	fs         types.FS
	links      *symlinks.Store
	logger     zerolog.Logger
}

// New creates an Engine from opts.
func New(opts Options) *Engine {
	e := &Engine{
		db:         opts.DB,
		hooksDir:   opts.HooksDir,
		frameworks: opts.Frameworks,
		runner:     opts.Runner,
		homeDir:    opts.HomeDir,
		fs:         opts.FS,
		logger:     logging.GetLogger("hooks"),
	}
	if e.fs == nil {
		e.fs = opts.DB.FS()
	}
	if e.runner == nil {
		e.runner = runner.NewShellRunner("")
	}
	if e.homeDir == nil {
		e.homeDir = paths.UserHome
	}
	e.links = symlinks.New(e.fs)
	return e
}

// DB returns the database the engine works on.
func (e *Engine) DB() *db.DB {
	return e.db
}

// HooksDir returns the hook definition directory.
func (e *Engine) HooksDir() string {
	return e.hooksDir
}

// Frameworks returns the framework catalog, or nil when none was set.
func (e *Engine) Frameworks() *framework.Catalog {
	return e.frameworks
}

// Links returns the symlink store the engine mutates through.
func (e *Engine) Links() *symlinks.Store {
	return e.links
}

func (e *Engine) frameworksSatisfied(field string) bool {
	if e.frameworks == nil {
		return true
	}
	return e.frameworks.Satisfied(field)
}

package clickhooks

import (
	"path/filepath"

	"github.com/arthur-debert/clickhooks/pkg/watcher"
	"github.com/spf13/cobra"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   MsgWatchShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			dirs := watchDirs(a)
			a.out.Message(MsgWatching, len(dirs))
			return watcher.Run(cmd.Context(), watcher.Config{Dirs: dirs, DebounceDur: a.cfg.Watch.Debounce}, a.engine.Run)
		}),
	}
}

// watchDirs lists the hooks and frameworks directories, every layer
// root and every registration scope directory.
func watchDirs(a *app) []string {
	dirs := []string{a.cfg.Hooks.Dir, a.cfg.Frameworks.Dir}
	for _, layer := range a.db.Layers() {
		dirs = append(dirs, layer.Root(), layer.UsersDir())
		scopes, err := layer.Scopes()
		if err != nil {
			continue
		}
		for _, scope := range scopes {
			dirs = append(dirs, filepath.Join(layer.UsersDir(), scope))
		}
	}
	return dirs
}

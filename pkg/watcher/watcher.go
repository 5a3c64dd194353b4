// Package watcher triggers maintenance runs when the hooks directory,
// the frameworks directory or the click database changes. Bursts of
// events are debounced into a single notification.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/arthur-debert/clickhooks/pkg/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher monitors a set of directories and sends a notification after
// changes settle.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dirs      []string
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}
	wg        sync.WaitGroup
	stopOnce  sync.Once
	logger    zerolog.Logger
}

// Config holds watcher configuration options.
type Config struct {
	Dirs        []string
	DebounceDur time.Duration
}

// DefaultConfig returns the default debounce for dirs.
func DefaultConfig(dirs ...string) Config {
	return Config{
		Dirs:        dirs,
		DebounceDur: 500 * time.Millisecond,
	}
}

// New creates a watcher. Nothing is watched until Start.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot create fsnotify watcher")
	}
	return &Watcher{
		fsWatcher: fsw,
		dirs:      cfg.Dirs,
		debounce:  cfg.DebounceDur,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
		logger:    logging.GetLogger("watcher"),
	}, nil
}

// Start watches every configured directory that exists and returns the
// notification channel. Missing directories are skipped; at least one
// must be watchable.
func (w *Watcher) Start() (<-chan struct{}, error) {
	watched := 0
	for _, dir := range w.dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			w.logger.Warn().Str("dir", dir).Msg("Not watching missing directory")
			continue
		}
		if err := w.fsWatcher.Add(dir); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot watch %s", dir).WithDetail("dir", dir)
		}
		w.logger.Debug().Str("dir", dir).Msg("Watching directory")
		watched++
	}
	if watched == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no watchable directory")
	}

	w.wg.Add(1)
	go w.loop()
	return w.onChange, nil
}

// Stop terminates the watcher, waits for its goroutine and releases
// resources. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !isRelevantEvent(event) {
				continue
			}
			w.logger.Trace().Str("path", event.Name).Str("op", event.Op.String()).Msg("Change detected")

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = true

		case <-timerC(timer):
			if pending {
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("Watcher error")

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func timerC(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

// isRelevantEvent ignores chmod-only events and the temporary links
// written while a hook link is replaced.
func isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(event.Name)
	return len(base) > 0 && base[0] != '.'
}

// Run calls fn once per notification until ctx is done. Calls never
// overlap. A failing fn is logged and watching continues.
func Run(ctx context.Context, cfg Config, fn func(context.Context) error) error {
	w, err := New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-onChange:
			if err := fn(ctx); err != nil {
				w.logger.Error().Err(err).Msg("Triggered run failed")
			}
		}
	}
}

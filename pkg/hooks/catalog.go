package hooks

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/arthur-debert/clickhooks/pkg/registry"
)

func (e *Engine) load(path string) (*Hook, error) {
	name := strings.TrimSuffix(filepath.Base(path), HookExtension)
	data, err := e.fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNoSuchHook, "cannot read hook %q", name).
			WithDetail("hook", name).
			WithDetail("path", path)
	}
	h, err := Parse(name, data)
	if err != nil {
		return nil, err
	}
	h.Path = path
	h.eng = e
	return h, nil
}

// hookFiles returns the hook file paths, sorted by file name.
func (e *Engine) hookFiles() ([]string, error) {
	matches, err := e.fs.Glob(e.hooksDir, "*"+HookExtension)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot list hooks in %s", e.hooksDir)
	}
	sort.Strings(matches)
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		files = append(files, filepath.Join(e.hooksDir, m))
	}
	return files, nil
}

// index loads every readable hook, grouped by logical name. Files that
// fail to load are logged and left out.
func (e *Engine) index() (registry.Group[*Hook], error) {
	files, err := e.hookFiles()
	if err != nil {
		return nil, err
	}
	group := registry.New[*Hook]()
	for _, path := range files {
		h, err := e.load(path)
		if err != nil {
			e.logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable hook")
			continue
		}
		registry.MustAdd(group, h.HookName, h)
	}
	return group, nil
}

// Open loads the hook whose file is <hooks dir>/<name>.hook. When no
// such file exists it looks for the single hook declaring Hook-Name:
// name.
func (e *Engine) Open(name string) (*Hook, error) {
	if name == "" || strings.ContainsRune(name, '/') {
		return nil, errors.Newf(errors.ErrNoSuchHook, "no hook named %q", name).WithDetail("hook", name)
	}

	path := filepath.Join(e.hooksDir, name+HookExtension)
	if _, err := e.fs.Lstat(path); err == nil {
		return e.load(path)
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, errors.ErrNoSuchHook, "cannot open hook %q", name).WithDetail("hook", name)
	}

	group, err := e.index()
	if err != nil {
		return nil, err
	}
	matches, err := group.Get(name)
	if err != nil {
		return nil, errors.Newf(errors.ErrNoSuchHook, "no hook named %q in %s", name, e.hooksDir).
			WithDetail("hook", name)
	}
	if len(matches) > 1 {
		files := make([]string, len(matches))
		for i, h := range matches {
			files[i] = h.fileName()
		}
		return nil, errors.Newf(errors.ErrAmbiguousHook, "hook name %q is declared by %s", name, strings.Join(files, ", ")).
			WithDetail("hook", name).
			WithDetail("files", files)
	}
	return matches[0], nil
}

// OpenAll returns every hook whose logical name is hookName, or every
// hook when hookName is empty, ordered by logical name then file name.
func (e *Engine) OpenAll(hookName string) ([]*Hook, error) {
	group, err := e.index()
	if err != nil {
		return nil, err
	}
	if hookName == "" {
		return group.All(), nil
	}
	if !group.Has(hookName) {
		return nil, nil
	}
	return group.Get(hookName)
}

// hooksForScope returns every hook of the given level, keyed by
// logical name.
func (e *Engine) hooksForScope(userLevel bool) (map[string][]*Hook, error) {
	all, err := e.OpenAll("")
	if err != nil {
		return nil, err
	}
	byName := make(map[string][]*Hook)
	for _, h := range all {
		if h.UserLevel == userLevel {
			byName[h.HookName] = append(byName[h.HookName], h)
		}
	}
	return byName, nil
}

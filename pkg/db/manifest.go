package db

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/arthur-debert/clickhooks/pkg/types"
)

// Manifest is the subset of a package manifest the hook engine reads.
type Manifest struct {
	Name      string `json:"name,omitempty"`
	Version   string `json:"version,omitempty"`
	Framework string `json:"framework,omitempty"`
	// Hooks maps app name to hook name to a path relative to the
	// unpacked package directory.
	Hooks map[string]map[string]string `json:"hooks,omitempty"`

	// Raw holds every member as read, including the ones above.
	Raw map[string]json.RawMessage `json:"-"`
}

// ManifestPath returns the manifest location inside an unpacked package.
func ManifestPath(unpacked, pkg string) string {
	return filepath.Join(unpacked, MetaDir, "info", pkg+".manifest")
}

// ReadManifest loads and decodes the manifest at path.
func ReadManifest(fs types.FS, path string) (*Manifest, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrManifestInvalid, "manifest %s does not exist", path).
				WithDetail("path", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read manifest %s", path)
	}
	return ParseManifest(data)
}

// ParseManifest decodes manifest JSON.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestInvalid, "cannot decode manifest")
	}
	if err := json.Unmarshal(data, &m.Raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestInvalid, "cannot decode manifest")
	}
	return &m, nil
}

// AppsFor returns the apps declaring hook, with their relative paths,
// sorted by app name.
func (m *Manifest) AppsFor(hook string) []AppHook {
	var apps []AppHook
	for app, hooks := range m.Hooks {
		if rel, ok := hooks[hook]; ok {
			apps = append(apps, AppHook{App: app, Hook: hook, RelativePath: rel})
		}
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].App < apps[j].App })
	return apps
}

// AppHooks flattens Hooks into a sorted list.
func (m *Manifest) AppHooks() []AppHook {
	var all []AppHook
	for app, hooks := range m.Hooks {
		for hook, rel := range hooks {
			all = append(all, AppHook{App: app, Hook: hook, RelativePath: rel})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].App != all[j].App {
			return all[i].App < all[j].App
		}
		return all[i].Hook < all[j].Hook
	})
	return all
}

// AppHook is one app-to-hook declaration of a manifest.
type AppHook struct {
	App          string
	Hook         string
	RelativePath string
}

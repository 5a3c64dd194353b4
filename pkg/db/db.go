package db

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/arthur-debert/clickhooks/pkg/logging"
	"github.com/arthur-debert/clickhooks/pkg/symlinks"
	"github.com/arthur-debert/clickhooks/pkg/types"
	"github.com/rs/zerolog"
)

const (
	// MetaDir is the per-layer and per-package metadata directory.
	MetaDir = ".click"
	// CurrentLink names the symlink to a package's current version.
	CurrentLink = "current"
)

// Unpacked identifies one unpacked package version.
type Unpacked struct {
	Package string
	Version string
	// Path is the deepest copy of the version.
	Path string
}

// Layer is one database directory.
type Layer struct {
	root string
	fs   types.FS
}

// Root returns the layer directory.
func (l *Layer) Root() string {
	return l.root
}

// PackagePath returns where (pkg, ver) would be unpacked in this layer.
func (l *Layer) PackagePath(pkg, ver string) string {
	return filepath.Join(l.root, pkg, ver)
}

// HasPackageVersion reports whether (pkg, ver) is unpacked in this layer.
func (l *Layer) HasPackageVersion(pkg, ver string) bool {
	if pkg == "" || ver == "" || ver == CurrentLink {
		return false
	}
	info, err := l.fs.Stat(l.PackagePath(pkg, ver))
	return err == nil && info.IsDir()
}

// CurrentVersion returns the version the package's current link names.
func (l *Layer) CurrentVersion(pkg string) (string, bool) {
	target, err := l.fs.Readlink(filepath.Join(l.root, pkg, CurrentLink))
	if err != nil {
		return "", false
	}
	return filepath.Base(target), true
}

// PackageNames returns the packages with a directory in this layer.
func (l *Layer) PackageNames() ([]string, error) {
	entries, err := l.fs.ReadDir(l.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot list layer %s", l.root)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Versions returns the unpacked versions of pkg in this layer, sorted.
func (l *Layer) Versions(pkg string) ([]string, error) {
	entries, err := l.fs.ReadDir(filepath.Join(l.root, pkg))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot list versions of %s in %s", pkg, l.root)
	}

	var versions []string
	for _, entry := range entries {
		if entry.Name() == CurrentLink || !entry.IsDir() {
			continue
		}
		versions = append(versions, entry.Name())
	}
	sort.Strings(versions)
	return versions, nil
}

// UsersDir returns the directory holding registration scopes.
func (l *Layer) UsersDir() string {
	return filepath.Join(l.root, MetaDir, "users")
}

// RegistrationPath returns the registration link path of pkg for scope.
func (l *Layer) RegistrationPath(scope, pkg string) string {
	return filepath.Join(l.UsersDir(), scope, pkg)
}

// Registration returns the target of scope's registration link for pkg.
func (l *Layer) Registration(scope, pkg string) (string, bool) {
	target, err := l.fs.Readlink(l.RegistrationPath(scope, pkg))
	if err != nil {
		return "", false
	}
	return target, true
}

// RegisteredPackages returns the packages scope has a link for.
func (l *Layer) RegisteredPackages(scope string) ([]string, error) {
	links, err := l.fs.ReadDir(filepath.Join(l.UsersDir(), scope))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot list registrations of %s in %s", scope, l.root)
	}

	var pkgs []string
	for _, entry := range links {
		if entry.Type()&os.ModeSymlink == 0 || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		pkgs = append(pkgs, entry.Name())
	}
	return pkgs, nil
}

// Scopes returns the registration scopes present in this layer.
func (l *Layer) Scopes() ([]string, error) {
	entries, err := l.fs.ReadDir(l.UsersDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot list users in %s", l.root)
	}

	var scopes []string
	for _, entry := range entries {
		if entry.IsDir() {
			scopes = append(scopes, entry.Name())
		}
	}
	return scopes, nil
}

// DB is an ordered stack of layers.
type DB struct {
	fs     types.FS
	layers []*Layer
	links  *symlinks.Store
	logger zerolog.Logger
}

// New creates an empty database on fs.
func New(fs types.FS) *DB {
	return &DB{
		fs:     fs,
		links:  symlinks.New(fs),
		logger: logging.GetLogger("db"),
	}
}

// Open creates a database from layer roots, deepest first.
func Open(fs types.FS, roots ...string) *DB {
	d := New(fs)
	for _, root := range roots {
		d.Add(root)
	}
	return d
}

// Add appends a layer above the existing ones. The new layer becomes
// the overlay.
func (d *DB) Add(root string) *Layer {
	layer := &Layer{root: filepath.Clean(root), fs: d.fs}
	d.layers = append(d.layers, layer)
	return layer
}

// Layers returns the layers, deepest first.
func (d *DB) Layers() []*Layer {
	out := make([]*Layer, len(d.layers))
	copy(out, d.layers)
	return out
}

// Overlay returns the writable layer, or nil for an empty database.
func (d *DB) Overlay() *Layer {
	if len(d.layers) == 0 {
		return nil
	}
	return d.layers[len(d.layers)-1]
}

// FS returns the filesystem the database reads.
func (d *DB) FS() types.FS {
	return d.fs
}

// HasPackageVersion reports whether any layer holds (pkg, ver).
func (d *DB) HasPackageVersion(pkg, ver string) bool {
	_, err := d.Path(pkg, ver)
	return err == nil
}

// Path returns the deepest unpacked copy of (pkg, ver).
func (d *DB) Path(pkg, ver string) (string, error) {
	for _, layer := range d.layers {
		if layer.HasPackageVersion(pkg, ver) {
			return layer.PackagePath(pkg, ver), nil
		}
	}
	return "", errors.Newf(errors.ErrNotUnpacked, "%s %s is not unpacked in any layer", pkg, ver).
		WithDetail("package", pkg).
		WithDetail("version", ver)
}

// Packages lists unpacked package versions across layers, each with its
// deepest copy. With allVersions false only each package's current
// version is listed; the shallowest current link wins.
func (d *DB) Packages(allVersions bool) ([]Unpacked, error) {
	seen := make(map[[2]string]bool)
	current := make(map[string]string)
	var order []string
	var result []Unpacked

	for _, layer := range d.layers {
		names, err := layer.PackageNames()
		if err != nil {
			return nil, err
		}
		for _, pkg := range names {
			if !allVersions {
				if ver, ok := layer.CurrentVersion(pkg); ok {
					if _, known := current[pkg]; !known {
						order = append(order, pkg)
					}
					current[pkg] = ver
				}
				continue
			}

			versions, err := layer.Versions(pkg)
			if err != nil {
				return nil, err
			}
			for _, ver := range versions {
				key := [2]string{pkg, ver}
				if seen[key] {
					continue
				}
				seen[key] = true
				result = append(result, Unpacked{Package: pkg, Version: ver, Path: layer.PackagePath(pkg, ver)})
			}
		}
	}

	for _, pkg := range order {
		ver := current[pkg]
		path, err := d.Path(pkg, ver)
		if err != nil {
			d.logger.Warn().Str("package", pkg).Str("version", ver).Msg("current link names a version that is not unpacked")
			continue
		}
		result = append(result, Unpacked{Package: pkg, Version: ver, Path: path})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Package != result[j].Package {
			return result[i].Package < result[j].Package
		}
		return result[i].Version < result[j].Version
	})
	return result, nil
}

// Manifest reads the manifest of the deepest copy of (pkg, ver).
func (d *DB) Manifest(pkg, ver string) (*Manifest, error) {
	path, err := d.Path(pkg, ver)
	if err != nil {
		return nil, err
	}
	return ReadManifest(d.fs, ManifestPath(path, pkg))
}

// Users returns every real user registered in any layer, sorted.
// Pseudo-users such as @all are excluded.
func (d *DB) Users() ([]string, error) {
	set := make(map[string]bool)
	for _, layer := range d.layers {
		scopes, err := layer.Scopes()
		if err != nil {
			return nil, err
		}
		for _, scope := range scopes {
			if !IsPseudoUser(scope) {
				set[scope] = true
			}
		}
	}

	users := make([]string, 0, len(set))
	for name := range set {
		users = append(users, name)
	}
	sort.Strings(users)
	return users, nil
}

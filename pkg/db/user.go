package db

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/clickhooks/pkg/errors"
)

const (
	// AllUsers is the pseudo-user whose registrations apply to everyone.
	AllUsers = "@all"
	// HiddenMarker is the link target that hides an @all registration
	// from one user.
	HiddenMarker = "@hidden"
)

// IsPseudoUser reports whether name is a pseudo-user such as @all.
func IsPseudoUser(name string) bool {
	return strings.HasPrefix(name, "@")
}

// User is the registration view of one scope over a DB.
type User struct {
	db   *DB
	name string
}

// ForUser returns the registration view of a real user. That view also
// sees @all registrations.
func ForUser(d *DB, name string) *User {
	return &User{db: d, name: name}
}

// ForAllUsers returns the registration view of @all.
func ForAllUsers(d *DB) *User {
	return &User{db: d, name: AllUsers}
}

// Name returns the scope name.
func (u *User) Name() string {
	return u.name
}

// IsPseudoUser reports whether this view is for a pseudo-user.
func (u *User) IsPseudoUser() bool {
	return IsPseudoUser(u.name)
}

type registration struct {
	layer    int
	scope    string
	linkPath string
	version  string
	hidden   bool
}

func (u *User) scopes() []string {
	if u.IsPseudoUser() {
		return []string{u.name}
	}
	return []string{AllUsers, u.name}
}

// registrations walks layers deepest first and, within a layer, @all
// before the user. skipOverlayOwn drops the overlay's own-scope link.
func (u *User) registrations(pkg string, skipOverlayOwn bool) []registration {
	var regs []registration
	last := len(u.db.layers) - 1
	for i, layer := range u.db.layers {
		for _, scope := range u.scopes() {
			if skipOverlayOwn && i == last && scope == u.name {
				continue
			}
			target, ok := layer.Registration(scope, pkg)
			if !ok {
				continue
			}
			regs = append(regs, registration{
				layer:    i,
				scope:    scope,
				linkPath: layer.RegistrationPath(scope, pkg),
				version:  filepath.Base(target),
				hidden:   target == HiddenMarker,
			})
		}
	}
	return regs
}

func active(regs []registration) (registration, bool) {
	if len(regs) == 0 {
		return registration{}, false
	}
	last := regs[len(regs)-1]
	if last.hidden {
		return registration{}, false
	}
	return last, true
}

func (u *User) notRegistered(pkg string) *errors.ClickError {
	return errors.Newf(errors.ErrNotRegistered, "%s is not registered for %s", pkg, u.name).
		WithDetail("package", pkg).
		WithDetail("user", u.name)
}

// Version returns the active registered version of pkg.
func (u *User) Version(pkg string) (string, error) {
	reg, ok := active(u.registrations(pkg, false))
	if !ok {
		return "", u.notRegistered(pkg)
	}
	return reg.version, nil
}

// HasPackage reports whether pkg is actively registered.
func (u *User) HasPackage(pkg string) bool {
	_, err := u.Version(pkg)
	return err == nil
}

// Path returns the registration link through which the user sees pkg:
// the deepest link that resolves to the active version.
func (u *User) Path(pkg string) (string, error) {
	regs := u.registrations(pkg, false)
	current, ok := active(regs)
	if !ok {
		return "", u.notRegistered(pkg)
	}
	for _, reg := range regs {
		if !reg.hidden && reg.version == current.version {
			return reg.linkPath, nil
		}
	}
	return current.linkPath, nil
}

// Packages returns the actively registered packages, sorted.
func (u *User) Packages() ([]string, error) {
	set := make(map[string]bool)
	for _, layer := range u.db.layers {
		for _, scope := range u.scopes() {
			pkgs, err := layer.RegisteredPackages(scope)
			if err != nil {
				return nil, err
			}
			for _, pkg := range pkgs {
				set[pkg] = true
			}
		}
	}

	var out []string
	for pkg := range set {
		if u.HasPackage(pkg) {
			out = append(out, pkg)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (u *User) overlayLink(pkg string) (string, error) {
	overlay := u.db.Overlay()
	if overlay == nil {
		return "", errors.New(errors.ErrInvalidInput, "database has no layers")
	}
	return overlay.RegistrationPath(u.name, pkg), nil
}

// SetVersion registers ver of pkg in the overlay. When the deeper
// registrations already resolve to ver, any overlay link is removed
// instead of written.
func (u *User) SetVersion(pkg, ver string) error {
	target, err := u.db.Path(pkg, ver)
	if err != nil {
		return err
	}
	link, err := u.overlayLink(pkg)
	if err != nil {
		return err
	}

	if reg, ok := active(u.registrations(pkg, true)); ok && reg.version == ver {
		_, err := u.db.links.Remove(link)
		return err
	}

	changed, err := u.db.links.Ensure(target, link)
	if err != nil {
		return err
	}
	if changed {
		u.db.logger.Debug().Str("user", u.name).Str("package", pkg).Str("version", ver).Msg("Registered")
	}
	return nil
}

// Remove unregisters pkg. A registration that a deeper layer or @all
// still provides is hidden rather than removed.
func (u *User) Remove(pkg string) error {
	if !u.HasPackage(pkg) {
		return u.notRegistered(pkg)
	}
	link, err := u.overlayLink(pkg)
	if err != nil {
		return err
	}

	if _, ok := active(u.registrations(pkg, true)); ok {
		_, err := u.db.links.Ensure(HiddenMarker, link)
		return err
	}
	_, err = u.db.links.Remove(link)
	return err
}

// Normalize drops the overlay registration of pkg when the remaining
// registrations already resolve to the same version. It reports whether
// the overlay link was removed.
func (u *User) Normalize(pkg string) (bool, error) {
	overlay := u.db.Overlay()
	if overlay == nil {
		return false, nil
	}
	target, ok := overlay.Registration(u.name, pkg)
	if !ok || target == HiddenMarker {
		return false, nil
	}

	reg, ok := active(u.registrations(pkg, true))
	if !ok || reg.version != filepath.Base(target) {
		return false, nil
	}
	return u.db.links.Remove(overlay.RegistrationPath(u.name, pkg))
}

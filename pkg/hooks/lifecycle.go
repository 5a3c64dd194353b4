package hooks

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/clickhooks/pkg/db"
	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/arthur-debert/clickhooks/pkg/pattern"
)

// App is one app of an installed package that declares a hook.
type App struct {
	Package      string
	Version      string
	App          string
	RelativePath string
	Framework    string
	// User is the registration scope the app was found in; empty for
	// system-level hooks.
	User string
}

// AppID returns the "<package>_<app>_<version>" identifier.
func AppID(pkg, ver, app string) (string, error) {
	if err := validateAppName(pkg, ver, app); err != nil {
		return "", err
	}
	return pkg + "_" + app + "_" + ver, nil
}

// ShortAppID returns the "<package>_<app>" identifier.
func ShortAppID(pkg, app string) (string, error) {
	if err := validateAppName(pkg, "", app); err != nil {
		return "", err
	}
	return pkg + "_" + app, nil
}

// SplitAppID splits an identifier produced by AppID.
func SplitAppID(id string) (pkg, app, ver string, ok bool) {
	parts := strings.SplitN(id, "_", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

func validateAppName(pkg, ver, app string) error {
	bad := func(what, value string) error {
		return errors.Newf(errors.ErrBadAppName, "%s %q may not contain '/' or '_'", what, value).
			WithDetail(what, value)
	}
	if strings.ContainsAny(pkg, "/_") {
		return bad("package", pkg)
	}
	if strings.ContainsAny(app, "/_") {
		return bad("app", app)
	}
	if strings.ContainsRune(ver, '/') {
		return errors.Newf(errors.ErrBadAppName, "version %q may not contain '/'", ver).
			WithDetail("version", ver)
	}
	return nil
}

// bindsShortID reports whether ${short-id} is bound. User-level hooks
// behave as single-version: a user registers one version at a time.
func (h *Hook) bindsShortID() bool {
	return h.SingleVersion || h.UserLevel
}

func (h *Hook) pattern() (string, error) {
	if !h.HasPattern() {
		return "", errors.Newf(errors.ErrMissingField, "hook %q has no field %q", h.Name, "Pattern").
			WithDetail("hook", h.Name).
			WithDetail("field", "Pattern")
	}
	return strings.TrimSuffix(h.Pattern, "/"), nil
}

// bindUser adds ${user} and, when the pattern uses it, ${home}.
func (h *Hook) bindUser(values map[string]string, user string) error {
	if !h.UserLevel || user == "" {
		return nil
	}
	values["user"] = user
	for _, key := range pattern.Parse(h.Pattern).Keys() {
		if key != "home" {
			continue
		}
		home, err := h.eng.homeDir(user)
		if err != nil {
			return errors.Wrapf(err, errors.ErrNotFound, "cannot find home directory of %q", user).
				WithDetail("user", user)
		}
		values["home"] = home
	}
	return nil
}

// PatternFor returns the link path for one app.
func (h *Hook) PatternFor(pkg, ver, app, user string) (string, error) {
	tmpl, err := h.pattern()
	if err != nil {
		return "", err
	}
	id, err := AppID(pkg, ver, app)
	if err != nil {
		return "", err
	}
	values := map[string]string{"id": id}
	if h.bindsShortID() {
		values["short-id"] = pkg + "_" + app
	}
	if err := h.bindUser(values, user); err != nil {
		return "", err
	}
	return pattern.Expand(tmpl, values), nil
}

// shapeBindings binds every placeholder that does not depend on the
// app, so that reverse matching recovers ${id} and ${short-id}.
func (h *Hook) shapeBindings(user string) (map[string]string, error) {
	values := make(map[string]string)
	if !h.bindsShortID() {
		values["short-id"] = ""
	}
	if err := h.bindUser(values, user); err != nil {
		return nil, err
	}
	return values, nil
}

func (h *Hook) requireUser(user string) error {
	if h.UserLevel && user == "" {
		return errors.Newf(errors.ErrInvalidInput, "user-level hook %q needs a user", h.Name).
			WithDetail("hook", h.Name)
	}
	return nil
}

// targetBase returns the directory links of this app resolve against:
// the deepest unpacked copy for system-level hooks, the user's
// registration link for user-level ones.
func (h *Hook) targetBase(pkg, ver, user string) (string, error) {
	if h.UserLevel {
		return db.ForUser(h.eng.db, user).Path(pkg)
	}
	return h.eng.db.Path(pkg, ver)
}

func (h *Hook) target(pkg, ver, rel, user string) (string, error) {
	base, err := h.targetBase(pkg, ver, user)
	if err != nil {
		return "", err
	}
	if rel == "" {
		return base, nil
	}
	return filepath.Join(base, rel), nil
}

// InstallPackage makes the link for one app. An existing correct link is
// left alone and a wrong one is replaced atomically. Single-version and
// user-level hooks then drop the links of other versions of the app,
// except those another user still needs in a shared link directory.
func (h *Hook) InstallPackage(pkg, ver, app, rel, user string) error {
	return h.installPackage(pkg, ver, app, rel, user, h.sharedKeep())
}

// sharedKeep returns the links every user expects when a user-level
// hook's link directory is shared, or nil when it is not.
func (h *Hook) sharedKeep() *keepSet {
	if !h.UserLevel || h.dirDependsOnUser() {
		return nil
	}
	links, failed, err := h.resolve("")
	if err != nil {
		h.eng.logger.Debug().Err(err).Str("hook", h.Name).Msg("Could not resolve every user's links")
	}
	keep := newKeepSet()
	keep.add(links, failed)
	return keep
}

func (h *Hook) installPackage(pkg, ver, app, rel, user string, keep *keepSet) error {
	if err := h.requireUser(user); err != nil {
		return err
	}
	linkPath, err := h.PatternFor(pkg, ver, app, user)
	if err != nil {
		return err
	}
	target, err := h.target(pkg, ver, rel, user)
	if err != nil {
		return err
	}

	changed, err := h.eng.links.Ensure(target, linkPath)
	if err != nil {
		return err
	}
	if changed {
		h.eng.logger.Debug().Str("hook", h.Name).Str("path", linkPath).Str("target", target).Msg("Installed hook link")
	}

	if h.bindsShortID() {
		return h.removeOtherVersions(pkg, ver, app, user, linkPath, keep)
	}
	return nil
}

func (h *Hook) removeOtherVersions(pkg, ver, app, user, linkPath string, keep *keepSet) error {
	tmpl, err := h.pattern()
	if err != nil {
		return err
	}
	known, err := h.shapeBindings(user)
	if err != nil {
		return err
	}
	known["short-id"] = pkg + "_" + app

	base := path.Base(tmpl)
	links, err := h.eng.links.List(filepath.Dir(linkPath))
	if err != nil {
		return err
	}

	var errs []error
	for _, link := range links {
		if filepath.Clean(link.Path) == filepath.Clean(linkPath) {
			continue
		}
		bindings, ok := pattern.PossibleExpansion(filepath.Base(link.Path), base, known)
		if !ok {
			continue
		}
		otherPkg, otherApp, otherVer, ok := SplitAppID(bindings["id"])
		if !ok || otherPkg != pkg || otherApp != app || otherVer == ver {
			continue
		}
		if keep.keeps(link.Path, otherPkg) {
			h.eng.logger.Debug().Str("hook", h.Name).Str("path", link.Path).Msg("Keeping link of another version still in use")
			continue
		}
		if _, err := h.eng.links.Remove(link.Path); err != nil {
			errs = append(errs, err)
			continue
		}
		h.eng.logger.Debug().Str("hook", h.Name).Str("path", link.Path).Msg("Removed link of previous version")
	}
	return errors.Join(errs...)
}

// RemovePackage removes the link of one app. A missing link is not an
// error.
func (h *Hook) RemovePackage(pkg, ver, app, user string) error {
	linkPath, err := h.PatternFor(pkg, ver, app, user)
	if err != nil {
		return err
	}
	removed, err := h.eng.links.Remove(linkPath)
	if err != nil {
		return err
	}
	if removed {
		h.eng.logger.Debug().Str("hook", h.Name).Str("path", linkPath).Msg("Removed hook link")
	}
	return nil
}

// InstalledApps lists the apps declaring this hook in the scope of user.
// System-level hooks cover every unpacked version, or each package's
// current version when single-version. User-level hooks cover the
// user's registrations, or every real user's when user is empty.
// Unreadable manifests are reported in err after the readable apps.
func (h *Hook) InstalledApps(user string) ([]App, error) {
	apps, _, err := h.apps(user)
	return apps, err
}

func (h *Hook) apps(user string) ([]App, unresolved, error) {
	if !h.UserLevel {
		return h.systemApps()
	}
	if user != "" {
		return h.userApps(user)
	}

	failed := make(unresolved)
	users, err := h.eng.db.Users()
	if err != nil {
		failed.add("")
		return nil, failed, err
	}
	var apps []App
	var errs []error
	for _, name := range users {
		userApps, userFailed, err := h.userApps(name)
		apps = append(apps, userApps...)
		failed.merge(userFailed)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return apps, failed, errors.Join(errs...)
}

func (h *Hook) systemApps() ([]App, unresolved, error) {
	failed := make(unresolved)
	pkgs, err := h.eng.db.Packages(!h.SingleVersion)
	if err != nil {
		failed.add("")
		return nil, failed, err
	}
	var apps []App
	var errs []error
	for _, p := range pkgs {
		m, err := db.ReadManifest(h.eng.fs, db.ManifestPath(p.Path, p.Package))
		if err != nil {
			failed.add(p.Package)
			errs = append(errs, err)
			continue
		}
		for _, ah := range m.AppsFor(h.HookName) {
			apps = append(apps, App{
				Package:      p.Package,
				Version:      p.Version,
				App:          ah.App,
				RelativePath: ah.RelativePath,
				Framework:    m.Framework,
			})
		}
	}
	return apps, failed, errors.Join(errs...)
}

func (h *Hook) userApps(user string) ([]App, unresolved, error) {
	failed := make(unresolved)
	u := db.ForUser(h.eng.db, user)
	pkgs, err := u.Packages()
	if err != nil {
		failed.add("")
		return nil, failed, err
	}
	var apps []App
	var errs []error
	for _, pkg := range pkgs {
		ver, err := u.Version(pkg)
		if err != nil {
			failed.add(pkg)
			errs = append(errs, err)
			continue
		}
		m, err := h.eng.db.Manifest(pkg, ver)
		if err != nil {
			failed.add(pkg)
			errs = append(errs, err)
			continue
		}
		for _, ah := range m.AppsFor(h.HookName) {
			apps = append(apps, App{
				Package:      pkg,
				Version:      ver,
				App:          ah.App,
				RelativePath: ah.RelativePath,
				Framework:    m.Framework,
				User:         user,
			})
		}
	}
	return apps, failed, errors.Join(errs...)
}

// Install links every installed app declaring this hook.
func (h *Hook) Install(user string) error {
	apps, err := h.InstalledApps(user)
	errs := []error{err}
	keep := h.sharedKeep()
	for _, a := range apps {
		if err := h.installPackage(a.Package, a.Version, a.App, a.RelativePath, a.User, keep); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Remove unlinks every installed app declaring this hook.
func (h *Hook) Remove(user string) error {
	apps, err := h.InstalledApps(user)
	errs := []error{err}
	for _, a := range apps {
		if err := h.RemovePackage(a.Package, a.Version, a.App, a.User); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RunCommandsUser returns the account Exec runs as: user for user-level
// hooks, the User field for system-level ones.
func (h *Hook) RunCommandsUser(user string) (string, error) {
	if h.UserLevel {
		if user == "" {
			return "", h.requireUser(user)
		}
		return user, nil
	}
	return h.Field(FieldUser)
}

// RunCommands runs the hook's Exec command, if it has one.
func (h *Hook) RunCommands(ctx context.Context, user string) error {
	if h.Exec == "" {
		return nil
	}
	account, err := h.RunCommandsUser(user)
	if err != nil {
		return err
	}

	h.eng.logger.Debug().Str("hook", h.Name).Str("account", account).Str("command", h.Exec).Msg("Running hook command")
	status, err := h.eng.runner.Run(ctx, h.Exec, account)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCommandFailed, "hook %q: cannot run %q", h.Name, h.Exec).
			WithDetail("hook", h.Name)
	}
	if status != 0 {
		return errors.Newf(errors.ErrCommandFailed, "hook %q: %q exited with status %d", h.Name, h.Exec, status).
			WithDetail("hook", h.Name).
			WithDetail("status", status).
			WithDetail("account", account)
	}
	return nil
}

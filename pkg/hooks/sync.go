package hooks

import (
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/clickhooks/pkg/db"
	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/arthur-debert/clickhooks/pkg/pattern"
)

// Link is a hook link the database calls for.
type Link struct {
	App    App
	Path   string
	Target string
}

// LinkState describes how an expected link compares to the filesystem.
type LinkState string

const (
	LinkOK      LinkState = "ok"
	LinkMissing LinkState = "missing"
	LinkWrong   LinkState = "wrong"
)

// LinkStatus pairs an expected link with its state on disk.
type LinkStatus struct {
	Link
	State  LinkState
	Actual string
}

// ExpectedLinks computes every link the scope of user should have for
// this hook. User-level hooks leave out apps whose frameworks are not
// installed.
func (h *Hook) ExpectedLinks(user string) ([]Link, error) {
	links, _, err := h.resolve(user)
	return links, err
}

// resolve is ExpectedLinks that also reports the packages it could not
// resolve.
func (h *Hook) resolve(user string) ([]Link, unresolved, error) {
	if h.UserLevel && user == "" {
		failed := make(unresolved)
		users, err := h.eng.db.Users()
		if err != nil {
			failed.add("")
			return nil, failed, err
		}
		var links []Link
		var errs []error
		for _, name := range users {
			userLinks, userFailed, err := h.resolve(name)
			links = append(links, userLinks...)
			failed.merge(userFailed)
			if err != nil {
				errs = append(errs, err)
			}
		}
		return links, failed, errors.Join(errs...)
	}

	apps, failed, appsErr := h.apps(user)
	errs := []error{appsErr}
	var links []Link
	for _, a := range apps {
		if h.UserLevel && !h.eng.frameworksSatisfied(a.Framework) {
			h.eng.logger.Debug().Str("hook", h.Name).Str("package", a.Package).Str("framework", a.Framework).
				Msg("Skipping app with missing framework")
			continue
		}
		linkPath, err := h.PatternFor(a.Package, a.Version, a.App, a.User)
		if err != nil {
			failed.add(a.Package)
			errs = append(errs, err)
			continue
		}
		target, err := h.target(a.Package, a.Version, a.RelativePath, a.User)
		if err != nil {
			failed.add(a.Package)
			errs = append(errs, err)
			continue
		}
		links = append(links, Link{App: a, Path: linkPath, Target: target})
	}
	return links, failed, errors.Join(errs...)
}

// unresolved holds the packages whose apps could not be listed. The
// empty name stands for a package list that could not be read at all.
type unresolved map[string]bool

func (u unresolved) add(pkg string) { u[pkg] = true }

func (u unresolved) merge(other unresolved) {
	for pkg := range other {
		u[pkg] = true
	}
}

// covers reports whether links of pkg may belong to an unresolved
// package. An unknown package (empty pkg) is covered by any failure.
func (u unresolved) covers(pkg string) bool {
	if len(u) == 0 {
		return false
	}
	return pkg == "" || u[""] || u[pkg]
}

func (u unresolved) names() []string {
	names := make([]string, 0, len(u))
	for pkg := range u {
		if pkg != "" {
			names = append(names, pkg)
		}
	}
	sort.Strings(names)
	return names
}

// keepSet is what cleanup must leave alone: the links some scope still
// expects and any link of a package that could not be resolved.
type keepSet struct {
	paths  map[string]bool
	failed unresolved
}

func newKeepSet() *keepSet {
	return &keepSet{paths: make(map[string]bool), failed: make(unresolved)}
}

func (k *keepSet) add(links []Link, failed unresolved) {
	for _, l := range links {
		k.paths[filepath.Clean(l.Path)] = true
	}
	k.failed.merge(failed)
}

func (k *keepSet) keeps(linkPath, pkg string) bool {
	if k == nil {
		return false
	}
	return k.paths[filepath.Clean(linkPath)] || k.failed.covers(pkg)
}

// Status compares the expected links with the filesystem.
func (h *Hook) Status(user string) ([]LinkStatus, error) {
	links, err := h.ExpectedLinks(user)
	statuses := make([]LinkStatus, 0, len(links))
	for _, l := range links {
		st := LinkStatus{Link: l, State: LinkMissing}
		if actual, ok, _ := h.eng.links.Target(l.Path); ok {
			st.Actual = actual
			st.State = LinkWrong
			if actual == l.Target {
				st.State = LinkOK
			}
		}
		statuses = append(statuses, st)
	}
	return statuses, err
}

// Sync reconciles this hook's links with the database for one scope:
// system-wide for system-level hooks, user for user-level hooks, or
// every real user when user is empty. Missing and wrong links are
// (re)created and links of the same shape that nothing calls for are
// removed. Failures are collected; completed changes are kept.
func (h *Hook) Sync(user string) error {
	if !h.HasPattern() {
		h.eng.logger.Debug().Str("hook", h.Name).Msg("Hook has no pattern, nothing to sync")
		return nil
	}

	if h.UserLevel && user == "" {
		users, err := h.eng.db.Users()
		if err != nil {
			return err
		}
		var errs []error
		for _, name := range users {
			if err := h.Sync(name); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	if !h.UserLevel {
		user = ""
	}

	logger := h.eng.logger.With().Str("hook", h.Name).Str("user", user).Logger()
	var errs []error

	if h.UserLevel {
		if err := h.normalizeRegistrations(user); err != nil {
			errs = append(errs, err)
		}
	}

	links, failed, err := h.resolve(user)
	if err != nil {
		errs = append(errs, err)
		logger.Warn().Err(err).Strs("packages", failed.names()).
			Msg("Could not resolve every app; keeping links of those packages")
	}
	keep := newKeepSet()
	keep.add(links, failed)

	if h.UserLevel && !h.dirDependsOnUser() {
		// The link directory is shared by every user. Their failures are
		// reported by their own syncs.
		shared, sharedFailed, err := h.resolve("")
		if err != nil {
			logger.Debug().Err(err).Msg("Could not resolve every user's links")
		}
		keep.add(shared, sharedFailed)
	}

	for _, l := range links {
		if err := h.installPackage(l.App.Package, l.App.Version, l.App.App, l.App.RelativePath, l.App.User, keep); err != nil {
			errs = append(errs, err)
		}
	}

	if err := h.removeStale(user, keep); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// normalizeRegistrations drops overlay registrations that only repeat
// what deeper layers already say.
func (h *Hook) normalizeRegistrations(user string) error {
	u := db.ForUser(h.eng.db, user)
	pkgs, err := u.Packages()
	if err != nil {
		return err
	}
	var errs []error
	for _, pkg := range pkgs {
		removed, err := u.Normalize(pkg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if removed {
			h.eng.logger.Debug().Str("user", user).Str("package", pkg).Msg("Dropped redundant overlay registration")
		}
	}
	return errors.Join(errs...)
}

func (h *Hook) splitPattern() (dir, base string, err error) {
	tmpl, err := h.pattern()
	if err != nil {
		return "", "", err
	}
	return path.Dir(tmpl), path.Base(tmpl), nil
}

func (h *Hook) dirDependsOnUser() bool {
	dir, _, err := h.splitPattern()
	if err != nil {
		return false
	}
	for _, key := range pattern.Parse(dir).Keys() {
		if key == "user" || key == "home" {
			return true
		}
	}
	return false
}

// removeStale deletes the symlinks in the hook's link directory that
// match the pattern's shape and are not kept.
func (h *Hook) removeStale(user string, keep *keepSet) error {
	dirTmpl, baseTmpl, err := h.splitPattern()
	if err != nil {
		return err
	}
	known, err := h.shapeBindings(user)
	if err != nil {
		return err
	}

	for _, key := range pattern.Parse(dirTmpl).Keys() {
		if _, ok := known[key]; !ok {
			h.eng.logger.Warn().Str("hook", h.Name).Str("pattern", h.Pattern).
				Msg("Link directory depends on the app; not removing stale links")
			return nil
		}
	}

	dir := pattern.Expand(dirTmpl, known)
	links, err := h.eng.links.List(dir)
	if err != nil {
		return err
	}

	var errs []error
	for _, link := range links {
		bindings, ok := pattern.PossibleExpansion(filepath.Base(link.Path), baseTmpl, known)
		if !ok || !plausibleIDs(bindings) {
			continue
		}
		if keep.keeps(link.Path, packageOf(bindings)) {
			continue
		}
		if _, err := h.eng.links.Remove(link.Path); err != nil {
			errs = append(errs, err)
			continue
		}
		h.eng.logger.Debug().Str("hook", h.Name).Str("path", link.Path).Str("target", link.Target).Msg("Removed stale hook link")
	}
	return errors.Join(errs...)
}

// packageOf recovers the package name from ${id} or ${short-id}, or
// returns "" when the pattern binds neither.
func packageOf(bindings map[string]string) string {
	if pkg, _, _, ok := SplitAppID(bindings["id"]); ok {
		return pkg
	}
	if pkg, _, ok := strings.Cut(bindings["short-id"], "_"); ok {
		return pkg
	}
	return ""
}

// plausibleIDs rejects matches whose ${id} or ${short-id} could not have
// been produced by AppID or ShortAppID.
func plausibleIDs(bindings map[string]string) bool {
	if id, ok := bindings["id"]; ok {
		if _, _, _, valid := SplitAppID(id); !valid {
			return false
		}
	}
	if short, ok := bindings["short-id"]; ok {
		pkg, app, found := strings.Cut(short, "_")
		if !found || pkg == "" || app == "" || strings.Contains(app, "_") {
			return false
		}
	}
	return true
}

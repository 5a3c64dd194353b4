package hooks

import (
	"context"
	"sort"

	"github.com/arthur-debert/clickhooks/pkg/db"
	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/arthur-debert/clickhooks/pkg/logging"
)

// affected collects hooks whose links changed, in first-touched order.
type affected struct {
	seen  map[*Hook]bool
	hooks []*Hook
}

func (a *affected) add(h *Hook) {
	if a.seen == nil {
		a.seen = make(map[*Hook]bool)
	}
	if !a.seen[h] {
		a.seen[h] = true
		a.hooks = append(a.hooks, h)
	}
}

func (a *affected) run(ctx context.Context, user string) []error {
	sort.SliceStable(a.hooks, func(i, j int) bool { return a.hooks[i].fileName() < a.hooks[j].fileName() })
	var errs []error
	for _, h := range a.hooks {
		if err := h.RunCommands(ctx, user); err != nil {
			h.eng.logger.Error().Err(err).Str("hook", h.Name).Msg("Hook command failed")
			errs = append(errs, err)
		}
	}
	return errs
}

// PackageInstallHooks applies the hooks of pkg after it moved from
// oldVer (empty for a fresh install) to newVer, for user or, when user
// is empty, system-wide. Single-version links of app/hook pairs the new
// manifest dropped are removed, every pair of the new manifest is
// linked, then the commands of the touched hooks run.
func (e *Engine) PackageInstallHooks(ctx context.Context, pkg, oldVer, newVer, user string) error {
	logger := e.logger.With().Str("package", pkg).Str("old", oldVer).Str("new", newVer).Str("user", user).Logger()
	defer logging.LogOperationStart(logger, "package-install-hooks")()

	newManifest, err := e.db.Manifest(pkg, newVer)
	if err != nil {
		return err
	}
	if e.frameworks != nil {
		if err := e.frameworks.Validate(newManifest.Framework, true); err != nil {
			logger.Warn().Err(err).Str("framework", newManifest.Framework).Msg("Framework field does not validate")
		}
	}
	oldManifest := &db.Manifest{}
	if oldVer != "" {
		m, err := e.db.Manifest(pkg, oldVer)
		switch {
		case err == nil:
			oldManifest = m
		case errors.IsErrorCode(err, errors.ErrNotUnpacked):
			logger.Warn().Msg("Previous version is no longer unpacked; nothing to clean up")
		default:
			return err
		}
	}

	byName, err := e.hooksForScope(user != "")
	if err != nil {
		return err
	}

	var touched affected
	var errs []error

	for _, old := range oldManifest.AppHooks() {
		if _, still := newManifest.Hooks[old.App][old.Hook]; still {
			continue
		}
		for _, h := range byName[old.Hook] {
			if !h.SingleVersion {
				continue
			}
			if err := h.RemovePackage(pkg, oldVer, old.App, user); err != nil {
				logger.Warn().Err(err).Str("hook", h.Name).Str("app", old.App).Msg("Could not remove old hook link")
				errs = append(errs, err)
			}
			touched.add(h)
		}
	}

	for _, ah := range newManifest.AppHooks() {
		for _, h := range byName[ah.Hook] {
			if err := h.InstallPackage(pkg, newVer, ah.App, ah.RelativePath, user); err != nil {
				logger.Warn().Err(err).Str("hook", h.Name).Str("app", ah.App).Msg("Could not install hook link")
				errs = append(errs, err)
			}
			touched.add(h)
		}
	}

	errs = append(errs, touched.run(ctx, user)...)
	return errors.Join(errs...)
}

// PackageRemoveHooks removes every hook link of (pkg, ver) for user or,
// when user is empty, system-wide, then runs the touched hooks'
// commands.
func (e *Engine) PackageRemoveHooks(ctx context.Context, pkg, ver, user string) error {
	m, err := e.db.Manifest(pkg, ver)
	if err != nil {
		return err
	}
	byName, err := e.hooksForScope(user != "")
	if err != nil {
		return err
	}

	var touched affected
	var errs []error
	for _, ah := range m.AppHooks() {
		for _, h := range byName[ah.Hook] {
			if err := h.RemovePackage(pkg, ver, ah.App, user); err != nil {
				e.logger.Warn().Err(err).Str("hook", h.Name).Str("package", pkg).Str("app", ah.App).
					Msg("Could not remove hook link")
				errs = append(errs, err)
			}
			touched.add(h)
		}
	}

	errs = append(errs, touched.run(ctx, user)...)
	return errors.Join(errs...)
}

package hooks

import (
	"context"

	"github.com/arthur-debert/clickhooks/pkg/db"
	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/arthur-debert/clickhooks/pkg/logging"
)

// RunSystemHooks syncs every system-level hook and runs its command.
// A failing hook is logged and the others still run.
func (e *Engine) RunSystemHooks(ctx context.Context) error {
	return e.runHooks(ctx, false, "")
}

// SyncUserHooks syncs every user-level hook for user and runs its
// command as that user.
func (e *Engine) SyncUserHooks(ctx context.Context, user string) error {
	if user == "" || db.IsPseudoUser(user) {
		return errors.Newf(errors.ErrInvalidInput, "%q is not a real user", user).WithDetail("user", user)
	}
	return e.runHooks(ctx, true, user)
}

func (e *Engine) runHooks(ctx context.Context, userLevel bool, user string) error {
	hooks, err := e.OpenAll("")
	if err != nil {
		return err
	}
	var errs []error
	for _, h := range hooks {
		if h.UserLevel != userLevel {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := h.Sync(user); err != nil {
			e.logger.Error().Err(err).Str("hook", h.Name).Str("user", user).Msg("Hook sync failed")
			errs = append(errs, err)
		}
		if err := h.RunCommands(ctx, user); err != nil {
			e.logger.Error().Err(err).Str("hook", h.Name).Str("user", user).Msg("Hook command failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RunUserHooks removes the user-level hook links of every package
// registered for user that requires a framework which is not installed.
// It never reinstalls links; Sync does that once the framework is back.
func (e *Engine) RunUserHooks(ctx context.Context, user string) error {
	if user == "" || db.IsPseudoUser(user) {
		return errors.Newf(errors.ErrInvalidInput, "%q is not a real user", user).WithDetail("user", user)
	}
	byName, err := e.hooksForScope(true)
	if err != nil {
		return err
	}
	if len(byName) == 0 {
		return nil
	}

	u := db.ForUser(e.db, user)
	pkgs, err := u.Packages()
	if err != nil {
		return err
	}

	var touched affected
	var errs []error
	for _, pkg := range pkgs {
		ver, err := u.Version(pkg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		m, err := e.db.Manifest(pkg, ver)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if e.frameworksSatisfied(m.Framework) {
			continue
		}

		e.logger.Info().Str("user", user).Str("package", pkg).Str("framework", m.Framework).
			Msg("Framework missing; removing user hook links")
		for _, ah := range m.AppHooks() {
			for _, h := range byName[ah.Hook] {
				if err := h.RemovePackage(pkg, ver, ah.App, user); err != nil {
					errs = append(errs, err)
				}
				touched.add(h)
			}
		}
	}

	errs = append(errs, touched.run(ctx, user)...)
	return errors.Join(errs...)
}

// Run is the full maintenance pass: system hooks, then for every real
// user the user-level hooks followed by the framework check.
func (e *Engine) Run(ctx context.Context) error {
	defer logging.LogOperationStart(e.logger, "run")()

	var errs []error
	if err := e.RunSystemHooks(ctx); err != nil {
		errs = append(errs, err)
	}

	users, err := e.db.Users()
	if err != nil {
		return errors.Join(append(errs, err)...)
	}
	for _, user := range users {
		if err := e.SyncUserHooks(ctx, user); err != nil {
			errs = append(errs, err)
		}
		if err := e.RunUserHooks(ctx, user); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

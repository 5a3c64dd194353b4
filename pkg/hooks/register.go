package hooks

import (
	"context"

	"github.com/arthur-debert/clickhooks/pkg/db"
	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/arthur-debert/clickhooks/pkg/logging"
)

func (e *Engine) registry(user string) (*db.User, error) {
	switch {
	case user == "":
		return nil, errors.New(errors.ErrInvalidInput, "need a user or @all")
	case user == db.AllUsers:
		return db.ForAllUsers(e.db), nil
	case db.IsPseudoUser(user):
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown pseudo-user %q", user).WithDetail("user", user)
	}
	return db.ForUser(e.db, user), nil
}

// Register records ver of pkg for user, or for everyone when user is
// db.AllUsers, then applies the user-level hooks of the new version.
// @all registrations only change the database; each user's links
// follow on their next sync.
func (e *Engine) Register(ctx context.Context, pkg, ver, user string) error {
	u, err := e.registry(user)
	if err != nil {
		return err
	}
	logger := e.logger.With().Str("package", pkg).Str("version", ver).Str("user", user).Logger()
	defer logging.LogOperationStart(logger, "register")()

	oldVer, err := u.Version(pkg)
	if err != nil {
		oldVer = ""
	}
	if err := u.SetVersion(pkg, ver); err != nil {
		return err
	}
	if u.IsPseudoUser() {
		return nil
	}
	return e.PackageInstallHooks(ctx, pkg, oldVer, ver, user)
}

// Unregister drops the registration of pkg for user, or for everyone
// when user is db.AllUsers, and removes that user's hook links for it.
// When ver is set the registered version must match it.
func (e *Engine) Unregister(ctx context.Context, pkg, ver, user string) error {
	u, err := e.registry(user)
	if err != nil {
		return err
	}
	logger := e.logger.With().Str("package", pkg).Str("user", user).Logger()
	defer logging.LogOperationStart(logger, "unregister")()

	oldVer, err := u.Version(pkg)
	if err != nil {
		return err
	}
	if ver != "" && ver != oldVer {
		return errors.Newf(errors.ErrInvalidInput, "not removing %s %s; expected version %s", pkg, oldVer, ver).
			WithDetail("package", pkg).
			WithDetail("registered", oldVer)
	}
	if err := u.Remove(pkg); err != nil {
		return err
	}
	if u.IsPseudoUser() {
		return nil
	}
	return e.PackageRemoveHooks(ctx, pkg, oldVer, user)
}

// ValidateFrameworks checks the framework field of the manifest of
// (pkg, ver) against the installed frameworks.
func (e *Engine) ValidateFrameworks(pkg, ver string, ignoreMissing bool) error {
	m, err := e.db.Manifest(pkg, ver)
	if err != nil {
		return err
	}
	if e.frameworks == nil {
		return nil
	}
	return e.frameworks.Validate(m.Framework, ignoreMissing)
}

//go:build !unix

package runner

import (
	"os/exec"
	"os/user"

	"github.com/arthur-debert/clickhooks/pkg/errors"
)

func setCredential(_ *exec.Cmd, target *user.User) error {
	return errors.Newf(errors.ErrCommandFailed, "switching to account %q is not supported on this platform", target.Username)
}

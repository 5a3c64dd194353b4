//go:build unix

package runner

import (
	"os"
	"os/exec"
	"os/user"
	"strconv"
	"syscall"

	"github.com/arthur-debert/clickhooks/pkg/errors"
)

func setCredential(cmd *exec.Cmd, target *user.User) error {
	if os.Geteuid() != 0 {
		return errors.Newf(errors.ErrCommandFailed, "cannot run as %q without root privileges", target.Username)
	}

	uid, err := strconv.ParseUint(target.Uid, 10, 32)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCommandFailed, "invalid uid for %q", target.Username)
	}
	gid, err := strconv.ParseUint(target.Gid, 10, 32)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCommandFailed, "invalid gid for %q", target.Username)
	}

	cmd.SysProcAttr = &syscall.SysProcAttr{
		Credential: &syscall.Credential{Uid: uint32(uid), Gid: uint32(gid)},
	}
	cmd.Dir = target.HomeDir
	return nil
}

package runner

import (
	"context"
	"errors"
	"os/exec"
	"os/user"

	clickerrors "github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/arthur-debert/clickhooks/pkg/logging"
	"github.com/arthur-debert/clickhooks/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultShell is used when ShellRunner.Shell is empty.
const DefaultShell = "/bin/sh"

// ShellRunner runs commands via a POSIX shell.
type ShellRunner struct {
	Shell  string
	logger zerolog.Logger
}

var _ types.CommandRunner = (*ShellRunner)(nil)

// NewShellRunner creates a runner using shell, or DefaultShell when empty.
func NewShellRunner(shell string) *ShellRunner {
	if shell == "" {
		shell = DefaultShell
	}
	return &ShellRunner{
		Shell:  shell,
		logger: logging.GetLogger("runner"),
	}
}

// Run executes command as account and returns its exit status. A command
// that starts and exits non-zero is not an error here; err only reports
// failures to look up the account or to start the process.
func (r *ShellRunner) Run(ctx context.Context, command, account string) (int, error) {
	cmd := exec.CommandContext(ctx, r.Shell, "-c", command)

	if account != "" {
		if err := r.switchAccount(cmd, account); err != nil {
			return -1, err
		}
	}

	r.logger.Debug().Str("command", command).Str("account", account).Msg("Running command")
	output, err := cmd.CombinedOutput()
	if len(output) > 0 {
		r.logger.Debug().Str("command", command).Str("output", string(output)).Msg("Command output")
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, clickerrors.Wrapf(err, clickerrors.ErrCommandFailed, "cannot run %q", command).
			WithDetail("account", account)
	}
	return 0, nil
}

func (r *ShellRunner) switchAccount(cmd *exec.Cmd, account string) error {
	current, err := user.Current()
	if err == nil && current.Username == account {
		return nil
	}

	target, err := user.Lookup(account)
	if err != nil {
		return clickerrors.Wrapf(err, clickerrors.ErrCommandFailed, "unknown account %q", account)
	}
	if err := setCredential(cmd, target); err != nil {
		return err
	}
	cmd.Env = append(cmd.Environ(), "HOME="+target.HomeDir, "USER="+target.Username, "LOGNAME="+target.Username)
	return nil
}

// Package runner executes hook Exec commands through a shell.
//
// ShellRunner implements types.CommandRunner. Commands run as
// "<shell> -c <command>"; when the process is privileged and the requested
// account differs from the current one, the child switches to that
// account's uid and gid before executing.
package runner

package book2pdf

import (
	"context"
	"errors"
	"os"
	"os/exec"
)

// CommandRunner abstracts external process execution (builder, tidy,
// renderer) to enable testing without real subprocesses. dir is the
// child's working directory; empty inherits the parent's.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner implements CommandRunner using os/exec. The child
// inherits the parent's standard streams and is started in its own
// process group, so context cancellation kills the whole tree rather
// than just the immediate child.
type ExecRunner struct{}

// Compile-time interface check.
var _ CommandRunner = ExecRunner{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		// Best-effort group kill first; Process.Kill is the fallback.
		killProcessGroup(cmd.Process.Pid)
		return cmd.Process.Kill()
	}
	return cmd.Run()
}

// tidyWarningsOnly reports whether err is an exit status 1, which tidy
// uses for "warnings emitted", not failure. Status 2 and up means the
// document could not be normalized.
func tidyWarningsOnly(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) && exitErr.ExitCode() == 1
}

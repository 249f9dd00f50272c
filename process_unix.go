//go:build !windows

package book2pdf

import (
	"os/exec"
	"syscall"
)

// setProcessGroup places the child in its own process group so that
// killProcessGroup can reach its descendants.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup kills a process and all its children by sending
// SIGKILL to the process group (negative PID).
func killProcessGroup(pid int) {
	// Best-effort cleanup; error ignored as Process.Kill provides fallback
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

//go:build windows

package book2pdf

import "os/exec"

// setProcessGroup is a no-op on Windows; renderer child processes are
// terminated directly via Process.Kill.
func setProcessGroup(cmd *exec.Cmd) {}

// killProcessGroup is a no-op on Windows.
func killProcessGroup(pid int) {}

//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid.
// Non-positive PIDs are ignored.
func KillProcessGroup(pid int) {
	if !validPID(pid) {
		return
	}
	// Best effort; the renderer calls launcher.Kill() afterwards
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup kills pid and its children with taskkill (/F force, /T tree).
// Non-positive PIDs are ignored.
func KillProcessGroup(pid int) {
	if !validPID(pid) {
		return
	}
	// Best effort; the renderer calls launcher.Kill() afterwards
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is an integer
}

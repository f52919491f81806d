// Package process terminates the headless browser process tree started by
// the renderer, so a crashed or timed-out render leaves no Chrome helpers.
package process

// validPID reports whether pid may be signalled. Zero and negative values
// address whole process groups, including our own.
func validPID(pid int) bool {
	return pid > 0
}

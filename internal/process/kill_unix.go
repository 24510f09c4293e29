//go:build !windows

package process

import "syscall"

// KillGroup kills a process and all its children by sending SIGKILL to the
// process group (negative PID).
func KillGroup(pid int) error {
	if pid <= 0 {
		return ErrInvalidPID
	}
	return syscall.Kill(-pid, syscall.SIGKILL)
}

//go:build unix

package process

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Terminate sends SIGTERM to pid. A process that has already exited is not
// an error.
func Terminate(pid int) error {
	if err := validPID(pid); err != nil {
		return err
	}
	if err := unix.Kill(pid, unix.SIGTERM); err != nil && !errors.Is(err, unix.ESRCH) {
		return err
	}
	return nil
}

// NotifyResize sends SIGWINCH to the process group of pid.
func NotifyResize(pid int) error {
	if err := validPID(pid); err != nil {
		return err
	}
	pgid, err := unix.Getpgid(pid)
	if err != nil {
		if errors.Is(err, unix.ESRCH) {
			return nil
		}
		pgid = pid
	}
	if err := unix.Kill(-pgid, unix.SIGWINCH); err != nil && !errors.Is(err, unix.ESRCH) {
		return err
	}
	return nil
}

// Alive reports whether pid names a live (or zombie, not yet reaped) process.
func Alive(pid int) bool {
	if validPID(pid) != nil {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

// Package process delivers signals to shell processes spawned by tabterm.
//
// Every shell runs as the leader of its own session, so its process group id
// equals its pid. Window-change notifications go to the whole group so that
// foreground jobs started by the shell (vim, less, top) see them too.
package process

import "errors"

// ErrInvalidPID is returned for pids that can never name a child process.
var ErrInvalidPID = errors.New("invalid pid")

func validPID(pid int) error {
	if pid <= 0 {
		return ErrInvalidPID
	}
	return nil
}

//go:build unix

package shell

import (
	"os"

	"golang.org/x/sys/unix"
)

// ExecCommand replaces the current process with `shell -c command`. It is
// how `ssh host 'cmd'` works when tabterm is the login shell. It only
// returns on failure.
func ExecCommand(shell, command string) error {
	return unix.Exec(shell, []string{shell, "-c", command}, commandEnv(os.Environ()))
}

//go:build !unix

package shell

import (
	"os"
	"os/exec"
)

// ExecCommand runs `shell -c command` and exits with its status.
func ExecCommand(shell, command string) error {
	cmd := exec.Command(shell, "-c", command)
	cmd.Env = commandEnv(os.Environ())
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Exit(exitErr.ExitCode())
		}
		return err
	}
	os.Exit(0)
	return nil
}

//go:build unix

package terminal

import (
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// startPTY starts cmd as a session leader with a new pty slave as its
// controlling terminal and standard streams, and returns the master.
func startPTY(cmd *exec.Cmd, rows, cols int) (*os.File, error) {
	return pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

func setNonblock(fd int) error {
	return unix.SetNonblock(fd, true)
}

func pollReadable(fd int, timeout time.Duration) (bool, error) {
	return pollFD(fd, unix.POLLIN, timeout)
}

func pollWritable(fd int, timeout time.Duration) (bool, error) {
	return pollFD(fd, unix.POLLOUT, timeout)
}

func pollFD(fd int, events int16, timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(fd), Events: events}}
	n, err := unix.Poll(fds, int(timeout/time.Millisecond))
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	if fds[0].Revents&unix.POLLNVAL != 0 {
		return false, unix.EBADF
	}
	// POLLHUP/POLLERR still report ready: the following read returns the
	// error or EOF that ends the session.
	return true, nil
}

func readFD(fd int, buf []byte) (int, error) {
	n, err := unix.Read(fd, buf)
	if n < 0 {
		n = 0
	}
	return n, err
}

func writeFD(fd int, p []byte) (int, error) {
	n, err := unix.Write(fd, p)
	if n < 0 {
		n = 0
	}
	return n, err
}

// setWinsize goes through the raw fd; pty.Setsize would call File.Fd and put
// the master back into blocking mode.
func setWinsize(fd, rows, cols int) error {
	return unix.IoctlSetWinsize(fd, unix.TIOCSWINSZ, &unix.Winsize{Row: uint16(rows), Col: uint16(cols)})
}

func isTemporary(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR)
}

// isHangup reports errors that mean the other side of the pty is gone,
// which is how a shell exiting normally shows up on the master.
func isHangup(err error) bool {
	return errors.Is(err, unix.EIO) || errors.Is(err, unix.EBADF)
}

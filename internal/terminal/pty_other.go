//go:build !unix

package terminal

import (
	"errors"
	"os"
	"os/exec"
	"time"

	pkgerrors "github.com/zhubert/tabterm/internal/errors"
)

func startPTY(cmd *exec.Cmd, rows, cols int) (*os.File, error) {
	return nil, pkgerrors.Unsupported("pseudo-terminals")
}

var errUnsupported = errors.New("pseudo-terminals are not supported on this platform")

func setNonblock(fd int) error                                 { return errUnsupported }
func pollReadable(fd int, timeout time.Duration) (bool, error) { return false, errUnsupported }
func pollWritable(fd int, timeout time.Duration) (bool, error) { return false, errUnsupported }
func readFD(fd int, buf []byte) (int, error)                   { return 0, errUnsupported }
func writeFD(fd int, p []byte) (int, error)                    { return 0, errUnsupported }
func setWinsize(fd, rows, cols int) error                      { return errUnsupported }
func isTemporary(err error) bool                               { return false }
func isHangup(err error) bool                                  { return false }

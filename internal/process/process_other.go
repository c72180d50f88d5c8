//go:build !unix

package process

import pkgerrors "github.com/zhubert/tabterm/internal/errors"

func Terminate(pid int) error {
	if err := validPID(pid); err != nil {
		return err
	}
	return pkgerrors.Unsupported("process signals")
}

func NotifyResize(pid int) error {
	if err := validPID(pid); err != nil {
		return err
	}
	return pkgerrors.Unsupported("process signals")
}

func Alive(pid int) bool {
	return false
}

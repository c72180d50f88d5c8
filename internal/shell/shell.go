// Package shell works out which login shell tabterm should run in its tabs.
//
// tabterm can itself be installed as a user's login shell, so the shell it
// runs must never resolve back to tabterm.
package shell

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zhubert/tabterm/internal/config"
	"github.com/zhubert/tabterm/internal/logger"
)

// Fallback is used when nothing else yields a shell.
const Fallback = "/bin/bash"

// Detector resolves the user's shell. The zero value is not usable; use
// NewDetector.
type Detector struct {
	Getenv     func(string) string
	ConfigFile string // file holding a shell path, e.g. ~/.config/tabterm/shell
	PasswdFile string
	UID        int
	Self       string // path of the running tabterm binary
}

// NewDetector returns a Detector for the current process.
func NewDetector() *Detector {
	d := &Detector{
		Getenv:     os.Getenv,
		PasswdFile: "/etc/passwd",
		UID:        os.Getuid(),
	}
	if dir, err := config.Dir(); err == nil {
		d.ConfigFile = filepath.Join(dir, "shell")
	}
	if exe, err := os.Executable(); err == nil {
		d.Self = exe
	}
	return d
}

// Detect returns the shell for the current user.
func Detect() string {
	return NewDetector().Detect()
}

// IsSelf reports whether shell would start tabterm again.
func IsSelf(shell string) bool {
	return NewDetector().IsSelf(shell)
}

// Detect checks, in order: the TABTERM_USER_SHELL variable, the shell
// config file, and the passwd entry for UID. Each candidate must be an
// existing file (the passwd entry only needs to not be tabterm).
func (d *Detector) Detect() string {
	log := logger.WithComponent("shell")

	if s := d.Getenv(config.UserShellEnv); s != "" && isFile(s) {
		log.Debug("shell from environment", "shell", s)
		return s
	}

	if d.ConfigFile != "" {
		if b, err := os.ReadFile(d.ConfigFile); err == nil {
			if s := strings.TrimSpace(string(b)); s != "" && isFile(s) {
				log.Debug("shell from config file", "shell", s, "file", d.ConfigFile)
				return s
			}
		}
	}

	if s, err := passwdShell(d.PasswdFile, d.UID); err == nil && s != "" && !d.IsSelf(s) {
		log.Debug("shell from passwd", "shell", s)
		return s
	}

	log.Debug("falling back to default shell", "shell", Fallback)
	return Fallback
}

// IsSelf reports whether shell is tabterm: its name contains "tabterm" or
// it resolves to the running binary.
func (d *Detector) IsSelf(shell string) bool {
	if strings.Contains(filepath.Base(shell), "tabterm") {
		return true
	}
	if d.Self == "" {
		return false
	}
	if shell == d.Self {
		return true
	}
	resolved, err := filepath.EvalSymlinks(shell)
	return err == nil && resolved == d.Self
}

// passwdShell returns the login shell field of uid's entry in a
// passwd(5)-format file.
func passwdShell(path string, uid int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	want := strconv.Itoa(uid)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// name:passwd:uid:gid:gecos:home:shell
		fields := strings.Split(line, ":")
		if len(fields) != 7 || fields[2] != want {
			continue
		}
		return fields[6], nil
	}
	return "", sc.Err()
}

// commandEnv is the caller's environment for `-c` commands, minus the
// tabterm shell override. TERM and the rest pass through untouched.
func commandEnv(env []string) []string {
	out := make([]string, 0, len(env))
	for _, kv := range env {
		if name, _, _ := strings.Cut(kv, "="); name == config.UserShellEnv {
			continue
		}
		out = append(out, kv)
	}
	return out
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

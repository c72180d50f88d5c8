// Package terminal runs shells on pseudo-terminals and feeds their output
// into a terminal-emulation Screen.
//
// A Session owns one child process and the master side of its pty. Its read
// loop runs on its own goroutine and reports back over two channels:
// Refresh fires (coalesced) whenever the screen changed, and Done is closed
// once the session has died, whether it was killed or the shell exited.
package terminal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/zhubert/tabterm/internal/config"
	pkgerrors "github.com/zhubert/tabterm/internal/errors"
	"github.com/zhubert/tabterm/internal/logger"
	"github.com/zhubert/tabterm/internal/process"
)

const (
	// pollInterval bounds how long the read loop waits before it re-checks
	// for cancellation.
	pollInterval = 100 * time.Millisecond

	// readChunk is the largest read taken from the master in one go.
	readChunk = 64 * 1024

	// reapWait bounds how long a session whose read loop ended waits for
	// the shell's exit status before Done closes.
	reapWait = time.Second

	DefaultRows = 24
	DefaultCols = 80
)

// errClosed is returned by fd operations once the master has been released.
var errClosed = errors.New("pty master closed")

// Options configures Spawn.
type Options struct {
	Shell string   // absolute path of the shell to run as a login shell
	Env   []string // base environment; nil means os.Environ()
	Rows  int
	Cols  int

	// NewScreen builds the emulation engine. Nil means NewVTScreen.
	NewScreen func(rows, cols int, reply io.Writer) Screen
}

// Session is one shell process attached to a pseudo-terminal.
type Session struct {
	key   string
	shell string
	pid   int
	cmd   *exec.Cmd

	master *os.File
	fdMu   sync.RWMutex // read lock for fd use, write lock to close it
	fd     int

	mu     sync.Mutex // serializes Resize and guards rows, cols, err
	rows   int
	cols   int
	err    error
	screen Screen

	alive       atomic.Bool
	releaseOnce sync.Once
	screenOnce  sync.Once
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup

	refresh  chan struct{}
	done     chan struct{}
	waitDone chan struct{}
	exitCode atomic.Int64

	log *slog.Logger
}

// Spawn starts opts.Shell as a login shell on a new pty and starts its read
// loop. Any failure to allocate the pty or start the process is a spawn
// error and leaves nothing running.
func Spawn(opts Options) (*Session, error) {
	if opts.Shell == "" {
		return nil, pkgerrors.SpawnFailed("shell", errors.New("no shell configured"))
	}
	rows, cols := opts.Rows, opts.Cols
	if rows <= 0 {
		rows = DefaultRows
	}
	if cols <= 0 {
		cols = DefaultCols
	}
	env := opts.Env
	if env == nil {
		env = os.Environ()
	}

	cmd := exec.Command(opts.Shell, "--login")
	cmd.Env = ChildEnv(env)

	master, err := startPTY(cmd, rows, cols)
	if err != nil {
		return nil, pkgerrors.SpawnFailed(opts.Shell, err)
	}

	// Fd switches the file to blocking mode, so it has to come first.
	fd := int(master.Fd())
	if err := setNonblock(fd); err != nil {
		_ = master.Close()
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, pkgerrors.SpawnFailed(opts.Shell, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		key:      uuid.New().String(),
		shell:    opts.Shell,
		pid:      cmd.Process.Pid,
		cmd:      cmd,
		master:   master,
		fd:       fd,
		rows:     rows,
		cols:     cols,
		ctx:      ctx,
		cancel:   cancel,
		refresh:  make(chan struct{}, 1),
		done:     make(chan struct{}),
		waitDone: make(chan struct{}),
	}
	s.exitCode.Store(-1)
	s.alive.Store(true)
	s.log = logger.WithSession(s.key).With("pid", s.pid)

	newScreen := opts.NewScreen
	if newScreen == nil {
		newScreen = func(rows, cols int, reply io.Writer) Screen {
			return NewVTScreen(rows, cols, reply)
		}
	}
	s.screen = newScreen(rows, cols, replyWriter{s})

	go s.reap()
	s.wg.Add(1)
	go s.readLoop()

	s.log.Info("session started", "shell", s.shell, "rows", rows, "cols", cols)
	return s, nil
}

// ChildEnv returns env prepared for a child shell: TERM and COLORTERM are
// forced and the tabterm shell override is removed.
func ChildEnv(env []string) []string {
	out := make([]string, 0, len(env)+2)
	for _, kv := range env {
		name, _, _ := strings.Cut(kv, "=")
		switch name {
		case "TERM", "COLORTERM", config.UserShellEnv:
			continue
		}
		out = append(out, kv)
	}
	return append(out, "TERM=xterm-256color", "COLORTERM=truecolor")
}

func (s *Session) Key() string    { return s.key }
func (s *Session) PID() int       { return s.pid }
func (s *Session) Shell() string  { return s.shell }
func (s *Session) Screen() Screen { return s.screen }

// Alive reports whether the session still owns its pty and process.
func (s *Session) Alive() bool { return s.alive.Load() }

// Refresh receives a value whenever new output reached the screen. Bursts
// of output coalesce into a single pending value.
func (s *Session) Refresh() <-chan struct{} { return s.refresh }

// Done is closed when the session dies.
func (s *Session) Done() <-chan struct{} { return s.done }

// Err returns the I/O error that ended the session, or nil if it is alive,
// was killed, or reached end of file.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ExitCode returns the shell's exit status, or -1 while it has not been
// reaped.
func (s *Session) ExitCode() int { return int(s.exitCode.Load()) }

// Size returns the current dimensions. The pty and the screen always agree
// with it.
func (s *Session) Size() (rows, cols int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows, s.cols
}

// Write sends p to the shell. It never blocks for long and never fails:
// once the session is dead, or if the shell stops draining its input,
// the bytes are dropped.
func (s *Session) Write(p []byte) {
	if len(p) == 0 || !s.Alive() {
		return
	}
	s.fdMu.RLock()
	defer s.fdMu.RUnlock()
	if s.fd < 0 {
		return
	}
	for len(p) > 0 {
		n, err := writeFD(s.fd, p)
		if n > 0 {
			p = p[n:]
		}
		switch {
		case err == nil:
		case isTemporary(err):
			ready, perr := pollWritable(s.fd, pollInterval)
			if perr != nil || !ready {
				s.log.Debug("write dropped", "bytes", len(p), "error", perr)
				return
			}
		default:
			s.log.Debug("write failed", "error", pkgerrors.SessionIO("terminal.write", s.pid, err))
			return
		}
	}
}

// Resize sets the pty window size, signals the shell's process group and
// resizes the screen. It does nothing once the session is dead.
func (s *Session) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Alive() || (rows == s.rows && cols == s.cols) {
		return
	}

	s.fdMu.RLock()
	err := errClosed
	if s.fd >= 0 {
		err = setWinsize(s.fd, rows, cols)
	}
	s.fdMu.RUnlock()
	if err != nil {
		s.log.Debug("resize failed", "rows", rows, "cols", cols, "error", err)
		return
	}
	if err := process.NotifyResize(s.pid); err != nil {
		s.log.Debug("SIGWINCH failed", "error", err)
	}
	s.screen.Resize(rows, cols)
	s.rows, s.cols = rows, cols
}

// Kill terminates the shell and releases the pty. It is safe to call any
// number of times, concurrently, and after the session died on its own.
func (s *Session) Kill() {
	s.release(nil, false)
	s.wg.Wait()
	s.screenOnce.Do(func() {
		_ = s.screen.Close()
	})
}

// release runs exactly once, from Kill or from the read loop when the shell
// goes away. From the read loop the shell is normally already exiting, so the
// reaper gets up to reapWait to record ExitCode before Done closes.
func (s *Session) release(cause error, fromReader bool) {
	s.releaseOnce.Do(func() {
		s.alive.Store(false)
		s.cancel()

		if fromReader {
			select {
			case <-s.waitDone:
			case <-time.After(reapWait):
				s.log.Debug("shell not reaped after read loop ended", "wait", reapWait)
			}
		}

		select {
		case <-s.waitDone:
		default:
			if err := process.Terminate(s.pid); err != nil {
				s.log.Debug("terminate failed", "error", err)
			}
		}

		s.fdMu.Lock()
		if err := s.master.Close(); err != nil {
			s.log.Debug("close master failed", "error", err)
		}
		s.fd = -1
		s.fdMu.Unlock()

		if cause != nil {
			s.mu.Lock()
			s.err = cause
			s.mu.Unlock()
		}
		close(s.done)
		s.log.Info("session released", "error", cause)
	})
}

func (s *Session) reap() {
	err := s.cmd.Wait()
	if s.cmd.ProcessState != nil {
		s.exitCode.Store(int64(s.cmd.ProcessState.ExitCode()))
	}
	s.log.Debug("shell exited", "error", err)
	close(s.waitDone)
}

func (s *Session) readLoop() {
	defer s.wg.Done()

	buf := make([]byte, readChunk)
	var pending []byte
	for {
		if s.ctx.Err() != nil {
			return
		}
		n, err := s.readOnce(buf)
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			var cause error
			if !errors.Is(err, io.EOF) && !isHangup(err) {
				cause = pkgerrors.SessionIO("terminal.read", s.pid, err)
			}
			s.log.Debug("read loop ending", "error", err)
			s.release(cause, true)
			return
		}
		if n == 0 {
			continue
		}

		var text []byte
		text, pending = decodeChunk(pending, buf[:n])
		if len(text) == 0 {
			continue
		}
		s.screen.Feed(text)
		s.signalRefresh()
	}
}

// readOnce waits up to pollInterval for output and reads what is there.
// (0, nil) means nothing arrived yet.
func (s *Session) readOnce(buf []byte) (int, error) {
	s.fdMu.RLock()
	defer s.fdMu.RUnlock()
	if s.fd < 0 {
		return 0, errClosed
	}

	ready, err := pollReadable(s.fd, pollInterval)
	if err != nil {
		if isTemporary(err) {
			return 0, nil
		}
		return 0, err
	}
	if !ready {
		return 0, nil
	}

	n, err := readFD(s.fd, buf)
	switch {
	case err != nil && isTemporary(err):
		return 0, nil
	case err != nil:
		return 0, err
	case n == 0:
		return 0, io.EOF
	}
	return n, nil
}

func (s *Session) signalRefresh() {
	select {
	case s.refresh <- struct{}{}:
	default:
	}
}

// decodeChunk prepends pending to chunk and returns the valid UTF-8 text
// along with any trailing bytes of a character split across reads. Invalid
// sequences become U+FFFD.
func decodeChunk(pending, chunk []byte) (text, rest []byte) {
	b := chunk
	if len(pending) > 0 {
		b = append(append([]byte{}, pending...), chunk...)
	}

	cut := len(b)
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				cut = i
			}
			break
		}
	}
	if cut < len(b) {
		rest = append([]byte{}, b[cut:]...)
	}
	if utf8.Valid(b[:cut]) {
		return b[:cut], rest
	}
	return []byte(strings.ToValidUTF8(string(b[:cut]), "\uFFFD")), rest
}

// replyWriter lets the screen answer terminal queries through the session.
type replyWriter struct{ s *Session }

func (w replyWriter) Write(p []byte) (int, error) {
	w.s.Write(p)
	return len(p), nil
}

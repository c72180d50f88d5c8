// Package daemon implements the per-user session daemon. It owns no terminals;
// it answers health queries on a unix socket so service managers and the
// status command can tell whether a user's session is up.
package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhubert/tabterm/internal/logger"
)

const (
	// RequestStatus is the only request the daemon understands.
	RequestStatus = "status"

	readTimeout = 5 * time.Second
	maxRequest  = 1024
)

// Status is the JSON line returned for a status request.
type Status struct {
	ID            string  `json:"id"`
	User          string  `json:"user"`
	PID           int     `json:"pid"`
	Hostname      string  `json:"hostname"`
	Started       string  `json:"started"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Options configures a Daemon.
type Options struct {
	SocketDir string
	LogDir    string
	User      string
	// Stderr receives log output in addition to the per-user log file.
	// Defaults to os.Stderr.
	Stderr io.Writer
}

// Daemon is the running daemon state. Create with New, drive with Run and
// release with Close.
type Daemon struct {
	id       string
	user     string
	pid      int
	hostname string
	started  time.Time

	socketPath string
	listener   net.Listener
	log        *logger.DaemonLogger

	closed   bool
	closedMu sync.RWMutex
	wg       sync.WaitGroup
}

// SocketPath returns <dir>/<user>.sock.
func SocketPath(dir, user string) string {
	return filepath.Join(dir, user+".sock")
}

// New prepares the daemon and binds its socket. A socket that cannot be
// created is logged and the daemon runs without one.
func New(opts Options) *Daemon {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	hostname, _ := os.Hostname()

	d := &Daemon{
		id:         uuid.New().String(),
		user:       opts.User,
		pid:        os.Getpid(),
		hostname:   hostname,
		started:    time.Now().UTC(),
		socketPath: SocketPath(opts.SocketDir, opts.User),
		log:        logger.NewDaemonLogger(stderr, opts.LogDir, opts.User),
	}

	d.log.Info("daemon starting", "user", d.user, "pid", d.pid, "id", d.id)

	ln, err := listen(opts.SocketDir, d.socketPath)
	if err != nil {
		d.log.Warn("cannot create socket, running without it", "socketPath", d.socketPath, "error", err)
		return d
	}
	d.listener = ln
	d.log.Info("listening", "socketPath", d.socketPath)
	return d
}

func listen(dir, path string) (net.Listener, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	// Remove a stale socket left by a previous run
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return net.Listen("unix", path)
}

// Listening reports whether the daemon has a socket.
func (d *Daemon) Listening() bool {
	return d.listener != nil
}

// Status returns the current status snapshot.
func (d *Daemon) Status() Status {
	return Status{
		ID:            d.id,
		User:          d.user,
		PID:           d.pid,
		Hostname:      d.hostname,
		Started:       d.started.Format(time.RFC3339),
		UptimeSeconds: time.Since(d.started).Seconds(),
	}
}

func (d *Daemon) isClosed() bool {
	d.closedMu.RLock()
	defer d.closedMu.RUnlock()
	return d.closed
}

// Run serves status requests until ctx is cancelled or Close is called.
// Without a socket it just waits for ctx.
func (d *Daemon) Run(ctx context.Context) error {
	if d.listener == nil {
		<-ctx.Done()
		d.log.Info("stop requested")
		return nil
	}

	stop := context.AfterFunc(ctx, func() {
		d.log.Info("stop requested")
		d.shutdown()
	})
	defer stop()

	for {
		conn, err := d.listener.Accept()
		if err != nil {
			if d.isClosed() {
				return nil
			}
			d.log.Warn("accept error (continuing)", "error", err)
			continue
		}

		// Add under the read lock so Close never waits while a handler is
		// still being registered.
		d.closedMu.RLock()
		if d.closed {
			d.closedMu.RUnlock()
			conn.Close()
			return nil
		}
		d.wg.Add(1)
		d.closedMu.RUnlock()
		go d.handle(conn)
	}
}

func (d *Daemon) handle(conn net.Conn) {
	defer d.wg.Done()
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	line, err := bufio.NewReader(io.LimitReader(conn, maxRequest)).ReadString('\n')
	if err != nil && line == "" {
		d.log.Debug("read error", "error", err)
		return
	}

	req := strings.TrimSpace(line)
	if req != RequestStatus {
		d.log.Debug("ignoring unknown request", "request", req)
		return
	}

	data, err := json.Marshal(d.Status())
	if err != nil {
		d.log.Error("failed to encode status", "error", err)
		return
	}
	if _, err := conn.Write(append(data, '\n')); err != nil {
		d.log.Debug("write error", "error", err)
	}
}

// shutdown marks the daemon closed and closes the listener. Safe to call
// more than once.
func (d *Daemon) shutdown() error {
	d.closedMu.Lock()
	if d.closed {
		d.closedMu.Unlock()
		return nil
	}
	d.closed = true
	d.closedMu.Unlock()

	if d.listener == nil {
		return nil
	}
	return d.listener.Close()
}

// Close stops serving, waits for in-flight requests, unlinks the socket and
// closes the log file.
func (d *Daemon) Close() error {
	err := d.shutdown()
	d.wg.Wait()

	if d.listener != nil {
		if removeErr := os.Remove(d.socketPath); removeErr != nil && !os.IsNotExist(removeErr) {
			d.log.Warn("failed to remove socket file", "socketPath", d.socketPath, "error", removeErr)
		}
	}
	d.log.Info("daemon stopped")
	if closeErr := d.log.Close(); err == nil {
		err = closeErr
	}
	return err
}

// Query asks the daemon listening on socketPath for its status.
func Query(ctx context.Context, socketPath string) (*Status, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", socketPath, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	} else {
		conn.SetDeadline(time.Now().Add(readTimeout))
	}

	if _, err := conn.Write([]byte(RequestStatus + "\n")); err != nil {
		return nil, fmt.Errorf("send status request: %w", err)
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return nil, fmt.Errorf("read status: %w", err)
	}

	var st Status
	if err := json.Unmarshal(line, &st); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &st, nil
}

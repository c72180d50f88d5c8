//go:build unix

package terminal

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/zhubert/tabterm/internal/config"
	pkgerrors "github.com/zhubert/tabterm/internal/errors"
)

// fakeShell writes an executable script that runs body. The session passes
// --login, which body sees as $1.
func fakeShell(t *testing.T, body string) string {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
	path := filepath.Join(t.TempDir(), "shell")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func spawnTest(t *testing.T, body string, rows, cols int) *Session {
	t.Helper()
	s, err := Spawn(Options{Shell: fakeShell(t, body), Rows: rows, Cols: cols})
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	t.Cleanup(s.Kill)
	return s
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func getWinsize(fd int) (rows, cols int, err error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Row), int(ws.Col), nil
}

func TestSpawn_Errors(t *testing.T) {
	tests := []struct {
		name  string
		shell string
	}{
		{"empty shell", ""},
		{"missing binary", filepath.Join(t.TempDir(), "no-such-shell")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Spawn(Options{Shell: tt.shell})
			if err == nil {
				s.Kill()
				t.Fatal("expected spawn error")
			}
			if !pkgerrors.Is(err, pkgerrors.KindSpawn) {
				t.Errorf("error kind = %v, want KindSpawn", pkgerrors.GetKind(err))
			}
		})
	}
}

func TestSession_EchoReachesScreen(t *testing.T) {
	s := spawnTest(t, "exec /bin/sh", 24, 80)

	if !s.Alive() {
		t.Fatal("session should be alive after spawn")
	}
	s.Write([]byte("echo hi\n"))

	ok := waitFor(t, 5*time.Second, func() bool {
		rows, _ := s.Screen().Size()
		for row := 0; row < rows; row++ {
			// The echoed command line also contains "hi"; the output line is
			// exactly "hi".
			if RowText(s.Screen(), row) == "hi" {
				return true
			}
		}
		return false
	})
	if !ok {
		t.Fatal("output of echo never reached the screen")
	}

	// Nothing drains Refresh in this test, so one signal must be pending.
	select {
	case <-s.Refresh():
	default:
		t.Error("expected a pending refresh signal")
	}
}

func TestSession_KillTwice(t *testing.T) {
	s := spawnTest(t, "exec /bin/sh", 24, 80)

	s.Kill()
	s.Kill()

	if s.Alive() {
		t.Error("Alive() = true after Kill")
	}
	select {
	case <-s.Done():
	default:
		t.Error("Done should be closed after Kill")
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v, want nil after Kill", s.Err())
	}

	// Dead sessions swallow writes and ignore resizes.
	s.Write([]byte("echo after\n"))
	s.Resize(40, 120)
	if rows, cols := s.Size(); rows != 24 || cols != 80 {
		t.Errorf("Size() after dead resize = %dx%d, want 24x80", rows, cols)
	}
}

func TestSession_ConcurrentKill(t *testing.T) {
	s := spawnTest(t, "exec /bin/sh", 24, 80)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Kill()
		}()
	}
	wg.Wait()

	if s.Alive() {
		t.Error("Alive() = true after concurrent Kill")
	}
}

func TestSession_NaturalExit(t *testing.T) {
	s := spawnTest(t, "exit 3", 24, 80)

	select {
	case <-s.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("session did not die after the shell exited")
	}
	if s.Alive() {
		t.Error("Alive() = true after shell exit")
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v, want nil for a normal exit", s.Err())
	}
	if !waitFor(t, 2*time.Second, func() bool { return s.ExitCode() == 3 }) {
		t.Errorf("ExitCode() = %d, want 3", s.ExitCode())
	}
	// Kill after natural death is a no-op.
	s.Kill()
}

func TestSession_ExitCodeSetWhenDoneCloses(t *testing.T) {
	for i := 0; i < 5; i++ {
		s := spawnTest(t, "exit 3", 24, 80)
		select {
		case <-s.Done():
		case <-time.After(5 * time.Second):
			t.Fatal("session did not die after the shell exited")
		}
		if got := s.ExitCode(); got != 3 {
			t.Fatalf("run %d: ExitCode() = %d as soon as Done closed, want 3", i, got)
		}
	}
}

func TestSpawn_LoginArgAndChildEnv(t *testing.T) {
	shell := fakeShell(t, `echo "$1 $TERM $COLORTERM ${TABTERM_USER_SHELL-unset}"; read x`)
	s, err := Spawn(Options{
		Shell: shell,
		Env: []string{
			"TERM=dumb",
			"COLORTERM=",
			config.UserShellEnv + "=/usr/local/bin/tabterm",
		},
		Rows: 24,
		Cols: 80,
	})
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	t.Cleanup(s.Kill)

	want := "--login xterm-256color truecolor unset"
	if !waitFor(t, 5*time.Second, func() bool { return Contains(s.Screen(), want) }) {
		t.Errorf("screen does not show %q", want)
	}
}

func TestSession_ResizeKeepsPtyAndScreenInStep(t *testing.T) {
	s := spawnTest(t, "exec /bin/sh", 24, 80)

	s.Resize(30, 100)

	s.fdMu.RLock()
	ptyRows, ptyCols, err := getWinsize(s.fd)
	s.fdMu.RUnlock()
	if err != nil {
		t.Fatalf("getWinsize() error = %v", err)
	}
	scrRows, scrCols := s.Screen().Size()
	rows, cols := s.Size()

	if ptyRows != 30 || ptyCols != 100 {
		t.Errorf("pty size = %dx%d, want 30x100", ptyRows, ptyCols)
	}
	if scrRows != 30 || scrCols != 100 {
		t.Errorf("screen size = %dx%d, want 30x100", scrRows, scrCols)
	}
	if rows != 30 || cols != 100 {
		t.Errorf("Size() = %dx%d, want 30x100", rows, cols)
	}
}

func TestSession_ResizeVisibleToShell(t *testing.T) {
	s := spawnTest(t, "exec /bin/sh", 24, 80)

	s.Resize(30, 100)
	s.Write([]byte("stty size\n"))

	if !waitFor(t, 5*time.Second, func() bool { return Contains(s.Screen(), "30 100") }) {
		t.Error("shell did not observe the new window size")
	}
}

func TestChildEnv(t *testing.T) {
	base := []string{
		"HOME=/home/u",
		"TERM=dumb",
		"COLORTERM=",
		config.UserShellEnv + "=/usr/bin/tabterm",
		"PATH=/bin",
	}
	got := ChildEnv(base)

	want := []string{"HOME=/home/u", "PATH=/bin", "TERM=xterm-256color", "COLORTERM=truecolor"}
	if !slices.Equal(got, want) {
		t.Errorf("ChildEnv() = %v, want %v", got, want)
	}
	if base[1] != "TERM=dumb" {
		t.Error("ChildEnv must not modify its input")
	}
}

func TestDecodeChunk(t *testing.T) {
	euro := []byte("€") // e2 82 ac
	tests := []struct {
		name     string
		pending  []byte
		chunk    []byte
		wantText string
		wantRest []byte
	}{
		{"ascii", nil, []byte("abc"), "abc", nil},
		{"complete multibyte", nil, euro, "€", nil},
		{"split tail kept", nil, append([]byte("a"), euro[:2]...), "a", euro[:2]},
		{"pending completed", euro[:2], append(euro[2:3:3], 'b'), "€b", nil},
		{"invalid replaced", nil, []byte{'x', 0xff, 'y'}, "x�y", nil},
		{"lone continuation replaced", nil, []byte{0x82, 'z'}, "�z", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, rest := decodeChunk(tt.pending, tt.chunk)
			if string(text) != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
			if !bytes.Equal(rest, tt.wantRest) {
				t.Errorf("rest = %v, want %v", rest, tt.wantRest)
			}
		})
	}
}

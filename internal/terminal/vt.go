package terminal

import (
	"io"
	"sync"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/vt"
)

// VTScreen is a Screen backed by a charmbracelet/x/vt emulator.
type VTScreen struct {
	mu     sync.Mutex
	emu    *vt.Emulator
	rows   int
	cols   int
	closed bool

	drained chan struct{}
}

// NewVTScreen creates a rows x cols emulator. Replies the emulator produces
// for terminal queries (cursor position reports, device attributes) are
// copied to reply, which is normally the session's pty master. A nil reply
// discards them.
func NewVTScreen(rows, cols int, reply io.Writer) *VTScreen {
	if reply == nil {
		reply = io.Discard
	}
	s := &VTScreen{
		emu:     vt.NewEmulator(cols, rows),
		rows:    rows,
		cols:    cols,
		drained: make(chan struct{}),
	}
	// The emulator blocks on Write until its replies are read.
	go func() {
		defer close(s.drained)
		_, _ = io.Copy(reply, s.emu)
	}()
	return s
}

func (s *VTScreen) Feed(p []byte) {
	if len(p) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	_, _ = s.emu.Write(p)
}

func (s *VTScreen) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emu.Resize(cols, rows)
	s.rows, s.cols = rows, cols
}

func (s *VTScreen) Size() (rows, cols int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows, s.cols
}

func (s *VTScreen) Cell(row, col int) Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row < 0 || col < 0 || row >= s.rows || col >= s.cols {
		return blankCell
	}
	return fromUV(s.emu.CellAt(col, row))
}

func (s *VTScreen) Cursor() (row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos := s.emu.CursorPosition()
	return pos.Y, pos.X
}

// Close stops the emulator's reply stream. The last grid stays readable so a
// dead session keeps showing its final output.
func (s *VTScreen) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	err := s.emu.Close()
	s.mu.Unlock()

	<-s.drained
	return err
}

func fromUV(c *uv.Cell) Cell {
	if c == nil {
		return blankCell
	}
	if c.Width == 0 {
		return Cell{}
	}
	out := Cell{
		Content:   c.Content,
		Width:     c.Width,
		Fg:        c.Style.Fg,
		Bg:        c.Style.Bg,
		Bold:      c.Style.Attrs&uv.AttrBold != 0,
		Italic:    c.Style.Attrs&uv.AttrItalic != 0,
		Reverse:   c.Style.Attrs&uv.AttrReverse != 0,
		Strike:    c.Style.Attrs&uv.AttrStrikethrough != 0,
		Underline: c.Style.Underline != 0,
	}
	if out.Content == "" {
		out.Content = " "
	}
	return out
}

package terminal

import (
	"image/color"
	"testing"
	"time"
)

func TestVTScreen_FeedAndRowText(t *testing.T) {
	s := NewVTScreen(5, 20, nil)
	defer s.Close()

	s.Feed([]byte("hello\r\nworld"))

	if got := RowText(s, 0); got != "hello" {
		t.Errorf("RowText(0) = %q, want %q", got, "hello")
	}
	if got := RowText(s, 1); got != "world" {
		t.Errorf("RowText(1) = %q, want %q", got, "world")
	}
	if !Contains(s, "world") {
		t.Error("Contains(world) = false")
	}
	if Contains(s, "absent") {
		t.Error("Contains(absent) = true")
	}
}

func TestVTScreen_Attributes(t *testing.T) {
	s := NewVTScreen(2, 10, nil)
	defer s.Close()

	s.Feed([]byte("\x1b[1mB\x1b[0m\x1b[7mR\x1b[0mP"))

	if c := s.Cell(0, 0); !c.Bold || c.Content != "B" {
		t.Errorf("Cell(0,0) = %+v, want bold B", c)
	}
	if c := s.Cell(0, 1); !c.Reverse || c.Bold {
		t.Errorf("Cell(0,1) = %+v, want reverse, not bold", c)
	}
	if c := s.Cell(0, 2); c.Bold || c.Reverse || c.Content != "P" {
		t.Errorf("Cell(0,2) = %+v, want plain P", c)
	}
}

func TestVTScreen_Resize(t *testing.T) {
	s := NewVTScreen(24, 80, nil)
	defer s.Close()

	s.Resize(30, 100)
	if rows, cols := s.Size(); rows != 30 || cols != 100 {
		t.Errorf("Size() = %dx%d, want 30x100", rows, cols)
	}

	// Invalid sizes are ignored.
	s.Resize(0, 10)
	if rows, cols := s.Size(); rows != 30 || cols != 100 {
		t.Errorf("Size() after invalid resize = %dx%d, want 30x100", rows, cols)
	}
}

func TestVTScreen_OutOfRangeIsBlank(t *testing.T) {
	s := NewVTScreen(2, 2, nil)
	defer s.Close()

	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if c := s.Cell(pos[0], pos[1]); c != blankCell {
			t.Errorf("Cell(%d,%d) = %+v, want blank", pos[0], pos[1], c)
		}
	}
}

func TestVTScreen_QueryDoesNotBlock(t *testing.T) {
	s := NewVTScreen(5, 20, nil)
	defer s.Close()

	done := make(chan struct{})
	go func() {
		// Device attributes and cursor position requests produce replies.
		s.Feed([]byte("\x1b[c\x1b[6n\x1b[c\x1b[6n"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Feed blocked on terminal query")
	}
}

func TestVTScreen_CloseKeepsCells(t *testing.T) {
	s := NewVTScreen(2, 10, nil)
	s.Feed([]byte("frozen"))

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	s.Feed([]byte("\r\nignored"))
	if got := RowText(s, 0); got != "frozen" {
		t.Errorf("RowText(0) after close = %q, want frozen", got)
	}
	if Contains(s, "ignored") {
		t.Error("Feed after Close should be ignored")
	}
}

func TestCell_SameStyle(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	tests := []struct {
		name string
		a, b Cell
		want bool
	}{
		{"both default", Cell{}, Cell{Content: "x"}, true},
		{"fg differs", Cell{Fg: red}, Cell{}, false},
		{"equal colors", Cell{Fg: red}, Cell{Fg: color.RGBA{R: 255, A: 255}}, true},
		{"bold differs", Cell{Bold: true}, Cell{}, false},
		{"strike differs", Cell{Strike: true}, Cell{Strike: false}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.SameStyle(tt.b); got != tt.want {
				t.Errorf("SameStyle() = %v, want %v", got, tt.want)
			}
		})
	}
}

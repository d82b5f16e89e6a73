package server

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"pixlet/internal/editor"
	"pixlet/internal/grid"
)

// An 80x24 terminal gives a 42 pixel canvas side, so a 16x16 grid maps
// terminal column 1 to grid column 0 and column 22 to grid column 8.
func newTestConn(t *testing.T) *editorConn {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := newEditorConn("abcd1234", "alice", t.TempDir(), editor.DefaultOptions(), 80, 24, log)
	if err != nil {
		t.Fatalf("newEditorConn: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func feed(t *testing.T, c *editorConn, input string) bool {
	t.Helper()
	for _, ev := range parseInput([]byte(input)) {
		quit, err := c.handle(ev)
		if err != nil {
			t.Fatalf("handle %+v: %v", ev, err)
		}
		if quit {
			return true
		}
	}
	return false
}

func TestEditorConnStroke(t *testing.T) {
	c := newTestConn(t)

	feed(t, c, "\x1b[<0;1;1M\x1b[<32;22;1M\x1b[<0;22;1m")

	g := c.sess.Grid()
	for col := 0; col <= 8; col++ {
		if got := g.At(0, col); got != grid.Black {
			t.Errorf("cell (0,%d) = %v, want black", col, got)
		}
	}
	if got := g.At(1, 0); got != grid.White {
		t.Errorf("cell (1,0) = %v, want white", got)
	}
	if got := c.sess.History().Len(); got != 2 {
		t.Errorf("history len = %d, want 2", got)
	}
}

func TestEditorConnUndoRedoKeys(t *testing.T) {
	tests := []struct {
		name       string
		undo, redo string
	}{
		{"ctrl", "\x1a", "\x19"},
		{"meta", "\x1bz", "\x1bZ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestConn(t)
			feed(t, c, "\x1b[<0;1;1M\x1b[<0;1;1m")

			feed(t, c, tt.undo)
			if got := c.sess.Grid().At(0, 0); got != grid.White {
				t.Errorf("after undo = %v, want white", got)
			}
			feed(t, c, tt.redo)
			if got := c.sess.Grid().At(0, 0); got != grid.Black {
				t.Errorf("after redo = %v, want black", got)
			}
		})
	}
}

func TestEditorConnResizePrompt(t *testing.T) {
	c := newTestConn(t)

	for _, in := range []string{"r7\r", "r65\r"} {
		feed(t, c, in)
		if got := c.sess.Grid().Width(); got != 16 {
			t.Errorf("width after %q = %d, want 16", in, got)
		}
		if !strings.Contains(c.message, "between") {
			t.Errorf("message after %q = %q", in, c.message)
		}
	}

	feed(t, c, "rabc\r")
	if !strings.Contains(c.message, "not a number") {
		t.Errorf("message = %q", c.message)
	}

	feed(t, c, "r33\x7f2\r")
	if got := c.sess.Grid().Width(); got != 32 {
		t.Errorf("width = %d, want 32", got)
	}
	if c.mode != modeEdit {
		t.Error("prompt should close after enter")
	}

	feed(t, c, "r12\x1b")
	if got := c.sess.Grid().Width(); got != 32 {
		t.Errorf("escape should cancel, width = %d", got)
	}
}

func TestEditorConnClearConfirm(t *testing.T) {
	c := newTestConn(t)
	feed(t, c, "\x1b[<0;1;1M\x1b[<0;1;1m")

	feed(t, c, "cn")
	if got := c.sess.Grid().At(0, 0); got != grid.Black {
		t.Errorf("declined clear changed grid: %v", got)
	}

	feed(t, c, "cy")
	if got := c.sess.Grid().At(0, 0); got != grid.White {
		t.Errorf("confirmed clear left %v", got)
	}
	if got := c.sess.History().Len(); got != 3 {
		t.Errorf("history len = %d, want 3", got)
	}
}

func TestEditorConnExport(t *testing.T) {
	c := newTestConn(t)
	feed(t, c, "\x1b[<0;1;1M\x1b[<0;1;1mx")

	path := filepath.Join(c.exportDir, "alice-abcd1234.png")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("export missing: %v (message %q)", err, c.message)
	}
	g, err := grid.LoadPNG(path, grid.White)
	if err != nil {
		t.Fatalf("LoadPNG: %v", err)
	}
	if g.Width() != 16 || g.At(0, 0) != grid.Black {
		t.Errorf("exported %dx%d, (0,0) = %v", g.Width(), g.Height(), g.At(0, 0))
	}
}

func TestEditorConnToolsAndZoom(t *testing.T) {
	c := newTestConn(t)

	feed(t, c, "f3")
	if c.sess.Tool() != editor.ToolFill {
		t.Errorf("tool = %v, want FILL", c.sess.Tool())
	}
	if c.sess.BrushSize() != 3 {
		t.Errorf("brush = %d, want 3", c.sess.BrushSize())
	}

	feed(t, c, "+")
	if got := c.sess.Zoom(); got != 1.25 {
		t.Errorf("zoom = %v, want 1.25", got)
	}
	feed(t, c, "\x1b[<65;5;5M")
	if got := c.sess.Zoom(); got != 1.15 {
		t.Errorf("zoom = %v, want 1.15", got)
	}
	if c.sess.Drawing() {
		t.Error("wheel must not start a gesture")
	}
}

func TestEditorConnQuitAndFrame(t *testing.T) {
	c := newTestConn(t)
	if out := c.frame(); out == "" {
		t.Error("first frame should paint the terminal")
	}
	if status := c.hud().Status; !strings.Contains(status, "PENCIL") || !strings.Contains(status, "16x16") {
		t.Errorf("status = %q", status)
	}
	if feed(t, c, "p") {
		t.Error("p should not quit")
	}
	if !feed(t, c, "q") {
		t.Error("q should quit")
	}
	if !feed(t, c, "\x03") {
		t.Error("ctrl-c should quit")
	}
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"alice":     "alice",
		"../etc":    "___etc",
		"":          "anonymous",
		"bob smith": "bob_smith",
	}
	for in, want := range tests {
		if got := sanitizeName(in); got != want {
			t.Errorf("sanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEditorConnLostButtonEndsGesture(t *testing.T) {
	c := newTestConn(t)

	// Press, then a hover report with no button: the release was missed.
	feed(t, c, "\x1b[<0;1;1M\x1b[<35;22;1M")
	if c.sess.Drawing() {
		t.Fatal("gesture should end when the button is no longer held")
	}
	if got := c.sess.History().Len(); got != 2 {
		t.Errorf("history len = %d, want 2", got)
	}
	if got := c.sess.Grid().At(0, 8); got != grid.White {
		t.Errorf("hover after release painted (0,8): %v", got)
	}
	if _, _, ok := c.sess.Preview(); !ok {
		t.Error("hover preview should follow the pointer")
	}
}

func TestEditorConnLeaveKeepsStroke(t *testing.T) {
	c := newTestConn(t)

	// Drag out of the canvas (column 60 is past the 42 pixel side), then
	// back in at column 22: the line continues from the last cell.
	feed(t, c, "\x1b[<0;1;1M\x1b[<32;60;1M\x1b[<32;22;1M\x1b[<0;22;1m")
	for col := 0; col <= 8; col++ {
		if got := c.sess.Grid().At(0, col); got != grid.Black {
			t.Errorf("cell (0,%d) = %v, want black", col, got)
		}
	}
	if got := c.sess.History().Len(); got != 2 {
		t.Errorf("history len = %d, want 2", got)
	}
}

func TestEditorConnResizeBounds(t *testing.T) {
	c := newTestConn(t)
	for _, n := range []int{8, 64} {
		feed(t, c, "r"+strconv.Itoa(n)+"\r")
		if got := c.sess.Grid().Width(); got != n {
			t.Errorf("width after resize to %d = %d (message %q)", n, got, c.message)
		}
	}
}

func TestInputDecoderSplitReport(t *testing.T) {
	var dec inputDecoder
	if evs := dec.Feed([]byte("\x1b[<32;22"), true); len(evs) != 0 {
		t.Fatalf("partial report decoded as %+v", evs)
	}
	evs := dec.Feed([]byte(";3M"), false)
	want := []Event{{Kind: EventMouse, Button: ButtonLeft, Col: 22, Row: 3, Motion: true}}
	if !reflect.DeepEqual(evs, want) {
		t.Errorf("split report = %+v, want %+v", evs, want)
	}
	if len(dec.pending) != 0 {
		t.Errorf("pending = %q after a complete report", dec.pending)
	}
}

func TestInputDecoderEscape(t *testing.T) {
	var dec inputDecoder

	// A short read ending in ESC is the Escape key.
	evs := dec.Feed([]byte("\x1b"), false)
	if len(evs) != 1 || evs[0].Kind != EventEscape {
		t.Errorf("short read ESC = %+v", evs)
	}

	// A full read ending in ESC waits for the next byte.
	if evs := dec.Feed([]byte("ab\x1b"), true); len(evs) != 2 {
		t.Errorf("full read = %+v, want two keys", evs)
	}
	evs = dec.Feed([]byte("z"), false)
	if len(evs) != 1 || evs[0].Key != 'z' || !evs[0].Meta {
		t.Errorf("completed chord = %+v, want Meta-z", evs)
	}

	// A split UTF-8 rune is completed too.
	if evs := dec.Feed([]byte{0xc3}, true); len(evs) != 0 {
		t.Errorf("half rune decoded as %+v", evs)
	}
	evs = dec.Feed([]byte{0xa9}, false)
	if len(evs) != 1 || evs[0].Key != 'é' {
		t.Errorf("rune = %+v, want é", evs)
	}
}

func TestEditorConnSplitReportKeepsBrush(t *testing.T) {
	c := newTestConn(t)
	var dec inputDecoder
	for _, chunk := range []string{"\x1b[<0;1;1M\x1b[<32;22", ";1M\x1b[<0;22;1m"} {
		for _, ev := range dec.Feed([]byte(chunk), false) {
			if _, err := c.handle(ev); err != nil {
				t.Fatal(err)
			}
		}
	}
	if got := c.sess.BrushSize(); got != 1 {
		t.Errorf("brush size = %d, want 1", got)
	}
	if got := c.sess.Grid().At(0, 8); got != grid.Black {
		t.Errorf("cell (0,8) = %v, want black", got)
	}
}

func TestEditorConnOtherButtons(t *testing.T) {
	c := newTestConn(t)

	// A right-button release does not end a left-button stroke.
	feed(t, c, "\x1b[<0;1;1M\x1b[<2;1;1m")
	if !c.sess.Drawing() {
		t.Fatal("right release ended the stroke")
	}
	feed(t, c, "\x1b[<0;1;1m")
	if c.sess.Drawing() {
		t.Fatal("left release should end the stroke")
	}

	// Right-button drags do not paint.
	feed(t, c, "\x1b[<2;22;1M\x1b[<34;22;1M\x1b[<2;22;1m")
	if got := c.sess.Grid().At(0, 8); got != grid.White {
		t.Errorf("right drag painted (0,8): %v", got)
	}
	if got := c.sess.History().Len(); got != 2 {
		t.Errorf("history len = %d, want 2", got)
	}
}

func TestEditorConnCtrlCInPrompts(t *testing.T) {
	for _, prefix := range []string{"r1", "c"} {
		c := newTestConn(t)
		feed(t, c, prefix)
		if !feed(t, c, "\x03") {
			t.Errorf("ctrl-c after %q should quit", prefix)
		}
	}
}

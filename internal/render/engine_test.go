package render

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"pixlet/internal/grid"
)

func TestNewViewport(t *testing.T) {
	tests := []struct {
		name     string
		w, h     int
		zoom     float64
		wantSide int
		wantRows int
	}{
		{"wide terminal", 80, 24, 1, 42, 21},
		{"tall terminal", 30, 60, 1, 30, 57},
		{"zoomed out", 80, 24, 0.5, 21, 21},
		{"zoomed in", 80, 24, 2, 84, 21},
		{"tiny", 1, 2, 0.25, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp := NewViewport(tt.w, tt.h, tt.zoom)
			if vp.Side != tt.wantSide {
				t.Errorf("Side = %d, want %d", vp.Side, tt.wantSide)
			}
			if vp.Rows != tt.wantRows {
				t.Errorf("Rows = %d, want %d", vp.Rows, tt.wantRows)
			}
		})
	}
}

func TestViewportPointer(t *testing.T) {
	vp := NewViewport(80, 24, 1)
	x, y := vp.PointerToSurface(1, 1)
	if x != 0.5 || y != 0.5 {
		t.Errorf("PointerToSurface(1,1) = %v,%v", x, y)
	}
	x, y = vp.PointerToSurface(10, 4)
	if x != 9.5 || y != 6.5 {
		t.Errorf("PointerToSurface(10,4) = %v,%v", x, y)
	}
	if !vp.InCanvas(1, 1) {
		t.Error("top-left should be in canvas")
	}
	if vp.InCanvas(43, 1) {
		t.Error("column past side should be outside canvas")
	}
	if vp.InCanvas(1, 22) {
		t.Error("HUD row should be outside canvas")
	}
}

func TestEngineRenderHalfBlocks(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(0, 1, color.NRGBA{B: 255, A: 255})
	img.Set(1, 0, color.NRGBA{G: 255, A: 255})
	img.Set(1, 1, color.NRGBA{G: 255, A: 255})

	vp := Viewport{Cols: 2, Rows: 1, Side: 2}
	e := NewEngine(2, 1+HUDRows)
	out := e.Render(img, vp, HUD{Status: "PENCIL"}, 2, 1+HUDRows)

	c := e.current[0][0]
	if c.Ch != UpperHalf || c.Fg != grid.RGB(255, 0, 0) || c.Bg != grid.RGB(0, 0, 255) {
		t.Errorf("cell(0,0) = %+v", c)
	}
	if c := e.current[0][1]; c.Fg != grid.RGB(0, 255, 0) || c.Bg != grid.RGB(0, 255, 0) {
		t.Errorf("cell(0,1) = %+v", c)
	}
	if !strings.Contains(out, "38;2;255;0;0;48;2;0;0;255m▀") {
		t.Errorf("output missing half-block SGR: %q", out)
	}
}

func TestEngineDiff(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	vp := Viewport{Cols: 4, Rows: 2, Side: 4}
	e := NewEngine(10, 2+HUDRows)

	first := e.Render(img, vp, HUD{}, 10, 2+HUDRows)
	if first == "" {
		t.Fatal("first frame should paint everything")
	}
	if again := e.Render(img, vp, HUD{}, 10, 2+HUDRows); again != "" {
		t.Errorf("unchanged frame emitted %q", again)
	}

	img.Set(3, 3, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	out := e.Render(img, vp, HUD{}, 10, 2+HUDRows)
	if !strings.HasPrefix(out, MoveTo(2, 4)) {
		t.Errorf("diff should start at the changed cell, got %q", out)
	}

	e.Invalidate()
	if out := e.Render(img, vp, HUD{}, 10, 2+HUDRows); len(out) < len(first)/2 {
		t.Error("Invalidate should repaint the whole frame")
	}
}

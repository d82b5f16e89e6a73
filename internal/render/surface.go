package render

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"

	"pixlet/internal/editor"
	"pixlet/internal/grid"
)

const (
	// PreviewAlpha is the opacity of the hover brush preview.
	PreviewAlpha = 0.5
	// GridLineAlpha is the opacity of the black cell boundary lines.
	GridLineAlpha = 0.15
)

// canvasBackdrop fills surface area not covered by a non-square grid.
var canvasBackdrop = gg.RGB(0.2, 0.2, 0.2)

// Surface is the fixed-size logical display surface the grid is drawn on.
type Surface struct {
	dc   *gg.Context
	size int
}

// NewSurface creates an editor.DisplaySize square surface.
func NewSurface() *Surface {
	return &Surface{
		dc:   gg.NewContext(editor.DisplaySize, editor.DisplaySize),
		size: editor.DisplaySize,
	}
}

// Close releases the drawing context.
func (s *Surface) Close() error {
	return s.dc.Close()
}

// Size returns the logical side length.
func (s *Surface) Size() int { return s.size }

// Image returns a copy of the current surface pixels.
func (s *Surface) Image() image.Image {
	_ = s.dc.FlushGPU()
	return s.dc.Image()
}

// EncodePNG writes the surface, grid lines and all, as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	if err := s.dc.FlushGPU(); err != nil {
		return fmt.Errorf("flush surface: %w", err)
	}
	return s.dc.EncodePNG(w)
}

// Present repaints what res invalidated. A visible hover preview always
// forces a full repaint so the preview never leaves stale pixels.
func (s *Surface) Present(sess *editor.Session, res editor.Result) error {
	if cells, c, ok := sess.Preview(); ok && res.Redraw != editor.RedrawNone {
		return s.DrawHover(sess.Grid(), cells, c)
	}
	switch res.Redraw {
	case editor.RedrawFull:
		return s.Redraw(sess.Grid())
	case editor.RedrawCells:
		return s.RedrawCells(sess.Grid(), res.Cells)
	}
	return nil
}

// Redraw paints every cell and then the grid lines.
func (s *Surface) Redraw(g *grid.Grid) error {
	return s.drawFrame(g, nil, grid.Color{})
}

// DrawHover repaints the grid with a translucent brush preview in c over
// preview, with grid lines drawn last so the preview never hides them.
func (s *Surface) DrawHover(g *grid.Grid, preview []editor.Cell, c grid.Color) error {
	return s.drawFrame(g, preview, c)
}

func (s *Surface) drawFrame(g *grid.Grid, preview []editor.Cell, c grid.Color) error {
	s.dc.ClearWithColor(canvasBackdrop)
	cs := editor.CellSize(g.Width(), g.Height())

	for row := 0; row < g.Height(); row++ {
		for col := 0; col < g.Width(); col++ {
			if err := s.fillCell(row, col, cs, g.At(row, col)); err != nil {
				return err
			}
		}
	}

	if len(preview) > 0 {
		s.dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, PreviewAlpha)
		for _, pc := range preview {
			x0, y0 := edge(pc.Col, cs), edge(pc.Row, cs)
			s.dc.DrawRectangle(x0, y0, edge(pc.Col+1, cs)-x0, edge(pc.Row+1, cs)-y0)
		}
		if err := s.dc.Fill(); err != nil {
			return fmt.Errorf("fill preview: %w", err)
		}
	}

	return s.drawGridLines(g, cs)
}

// RedrawCells repaints only the given cells together with their four
// border lines. The right and bottom lines sit on the first pixel column
// and row of the neighbouring cells, so those one-pixel strips are refilled
// with the neighbours' colors before stroking; every line pixel is then
// covered exactly as often as in a full redraw.
func (s *Surface) RedrawCells(g *grid.Grid, cells []editor.Cell) error {
	cs := editor.CellSize(g.Width(), g.Height())
	for _, c := range cells {
		if !g.InBounds(c.Row, c.Col) {
			continue
		}
		if err := s.fillCell(c.Row, c.Col, cs, g.At(c.Row, c.Col)); err != nil {
			return err
		}

		x0, y0 := edge(c.Col, cs), edge(c.Row, cs)
		x1, y1 := edge(c.Col+1, cs), edge(c.Row+1, cs)
		if c.Col+1 < g.Width() {
			if err := s.fillRect(x1, y0, 1, y1-y0, g.At(c.Row, c.Col+1)); err != nil {
				return err
			}
		}
		if c.Row+1 < g.Height() {
			if err := s.fillRect(x0, y1, x1-x0, 1, g.At(c.Row+1, c.Col)); err != nil {
				return err
			}
		}

		s.setGridLineStyle()
		s.dc.DrawLine(x0+0.5, y0, x0+0.5, y1+1) // left
		s.dc.DrawLine(x0, y0+0.5, x1+1, y0+0.5) // top
		s.dc.DrawLine(x1+0.5, y0, x1+0.5, y1)   // right
		s.dc.DrawLine(x0, y1+0.5, x1, y1+0.5)   // bottom
		if err := s.dc.Stroke(); err != nil {
			return fmt.Errorf("stroke cell border: %w", err)
		}
	}
	return nil
}

func (s *Surface) fillCell(row, col int, cs float64, c grid.Color) error {
	x0, y0 := edge(col, cs), edge(row, cs)
	if err := s.fillRect(x0, y0, edge(col+1, cs)-x0, edge(row+1, cs)-y0, c); err != nil {
		return fmt.Errorf("fill cell (%d,%d): %w", row, col, err)
	}
	return nil
}

func (s *Surface) fillRect(x, y, w, h float64, c grid.Color) error {
	s.dc.SetColor(c)
	s.dc.DrawRectangle(x, y, w, h)
	return s.dc.Fill()
}

func (s *Surface) setGridLineStyle() {
	s.dc.SetRGBA(0, 0, 0, GridLineAlpha)
	s.dc.SetLineWidth(1)
}

// drawGridLines strokes one vertical line per column boundary and one
// horizontal line per row boundary, offset by half a unit so each lands
// on a single pixel row or column.
func (s *Surface) drawGridLines(g *grid.Grid, cs float64) error {
	s.setGridLineStyle()
	w := edge(g.Width(), cs)
	h := edge(g.Height(), cs)
	for col := 0; col <= g.Width(); col++ {
		x := edge(col, cs) + 0.5
		s.dc.DrawLine(x, 0, x, h)
	}
	for row := 0; row <= g.Height(); row++ {
		y := edge(row, cs) + 0.5
		s.dc.DrawLine(0, y, w, y)
	}
	if err := s.dc.Stroke(); err != nil {
		return fmt.Errorf("stroke grid lines: %w", err)
	}
	return nil
}

// edge returns the device pixel where cell boundary i starts. Boundaries
// are floored to whole pixels so every cell owns whole pixels and fills
// never blend across a boundary.
func edge(i int, cs float64) float64 {
	return math.Floor(float64(i)*cs + 1e-9)
}

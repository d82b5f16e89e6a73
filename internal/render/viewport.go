package render

// HUDRows is the number of terminal rows reserved for the status bar.
const HUDRows = 3

// Viewport places the display surface inside a terminal. Each terminal
// cell shows two vertically stacked surface pixels, so the canvas area is
// Cols x 2*Rows terminal pixels.
type Viewport struct {
	Cols, Rows int // canvas area in terminal cells
	// Side is the rendered side length of the square surface in terminal
	// pixels. It may exceed the canvas area when zoomed in, in which case
	// only the top-left part is visible.
	Side int
}

// NewViewport fits the surface into the terminal at the given zoom.
func NewViewport(termW, termH int, zoom float64) Viewport {
	cols := termW
	rows := termH - HUDRows
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	fit := cols
	if 2*rows < fit {
		fit = 2 * rows
	}
	side := int(float64(fit) * zoom)
	if side < 1 {
		side = 1
	}

	return Viewport{Cols: cols, Rows: rows, Side: side}
}

// PointerToSurface converts a 1-based terminal cell position into pixel
// coordinates on the rendered surface, pointing at the centre of the upper
// half-cell. Positions outside the canvas are returned as-is; the
// editor's mapper clamps them.
func (v Viewport) PointerToSurface(col, row int) (float64, float64) {
	x := float64(col-1) + 0.5
	y := float64(row-1)*2 + 0.5
	return x, y
}

// InCanvas reports whether a 1-based terminal position lies over the
// visible part of the surface.
func (v Viewport) InCanvas(col, row int) bool {
	x, y := col-1, (row-1)*2
	return x >= 0 && y >= 0 && x < v.Side && y < v.Side && x < v.Cols && row-1 < v.Rows
}

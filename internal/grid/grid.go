// Package grid holds the editable pixel-art color buffer.
package grid

import "errors"

const (
	// MinSize is the smallest supported grid dimension.
	MinSize = 8
	// MaxSize is the largest supported grid dimension.
	MaxSize = 64
)

// ErrOutOfRange is returned by Get for coordinates outside the grid.
var ErrOutOfRange = errors.New("cell out of range")

// Grid is a row-major width x height buffer of colors. Every cell always
// holds a valid color.
type Grid struct {
	width, height int
	cells         []Color
}

// New creates a width x height grid with every cell set to fill.
// Dimensions below 1 are raised to 1.
func New(width, height int, fill Color) *Grid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	g := &Grid{
		width:  width,
		height: height,
		cells:  make([]Color, width*height),
	}
	g.Fill(fill)
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (row, col) addresses a cell.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.height && col >= 0 && col < g.width
}

// Get returns the color at (row, col).
func (g *Grid) Get(row, col int) (Color, error) {
	if !g.InBounds(row, col) {
		return Color{}, ErrOutOfRange
	}
	return g.cells[row*g.width+col], nil
}

// At is Get without the error; out-of-range reads return the zero Color.
func (g *Grid) At(row, col int) Color {
	c, _ := g.Get(row, col)
	return c
}

// Set writes one cell. Out-of-range coordinates are ignored.
// It reports whether the cell value actually changed.
func (g *Grid) Set(row, col int, c Color) bool {
	if !g.InBounds(row, col) {
		return false
	}
	i := row*g.width + col
	if g.cells[i] == c {
		return false
	}
	g.cells[i] = c
	return true
}

// Fill sets every cell to c.
func (g *Grid) Fill(c Color) {
	for i := range g.cells {
		g.cells[i] = c
	}
}

// Snapshot is an immutable copy of a grid's cell contents.
type Snapshot struct {
	width, height int
	cells         []Color
}

// Width of the grid the snapshot was taken from.
func (s Snapshot) Width() int { return s.width }

// Height of the grid the snapshot was taken from.
func (s Snapshot) Height() int { return s.height }

// At returns the recorded color at (row, col), or the zero Color when out of range.
func (s Snapshot) At(row, col int) Color {
	if row < 0 || row >= s.height || col < 0 || col >= s.width {
		return Color{}
	}
	return s.cells[row*s.width+col]
}

// Snapshot returns a deep copy of the cell contents.
func (g *Grid) Snapshot() Snapshot {
	cells := make([]Color, len(g.cells))
	copy(cells, g.cells)
	return Snapshot{width: g.width, height: g.height, cells: cells}
}

// Restore replaces all cell contents with those of s. Dimensions never
// change; a snapshot of a different size is ignored and Restore returns false.
func (g *Grid) Restore(s Snapshot) bool {
	if s.width != g.width || s.height != g.height {
		return false
	}
	copy(g.cells, s.cells)
	return true
}

// Matches reports whether the grid currently holds exactly the contents of s.
func (g *Grid) Matches(s Snapshot) bool {
	if s.width != g.width || s.height != g.height {
		return false
	}
	for i, c := range g.cells {
		if s.cells[i] != c {
			return false
		}
	}
	return true
}

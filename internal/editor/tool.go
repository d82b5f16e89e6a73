// Package editor implements the pixel-art editing engine: tools, stroke
// interpolation, coordinate mapping and undo/redo history over a grid.
package editor

import "pixlet/internal/grid"

// Tool is the active drawing tool.
type Tool int

const (
	ToolPencil Tool = iota
	ToolEraser
	ToolFill
	ToolEyedropper
)

var toolNames = []string{"PENCIL", "ERASER", "FILL", "PICKER"}

func (t Tool) String() string {
	if int(t) >= 0 && int(t) < len(toolNames) {
		return toolNames[t]
	}
	return "UNKNOWN"
}

// Valid reports whether t is one of the four tools.
func (t Tool) Valid() bool {
	return t >= ToolPencil && t <= ToolEyedropper
}

// Brushes reports whether the tool stamps a brush (pencil or eraser).
func (t Tool) Brushes() bool {
	return t == ToolPencil || t == ToolEraser
}

// Cell addresses one grid cell.
type Cell struct {
	Row, Col int
}

const (
	// MinBrush is the smallest brush side length.
	MinBrush = 1
	// MaxBrush is the largest brush side length.
	MaxBrush = 5
)

// BrushCells returns the in-bounds cells of a square brush of side size
// centered on c. The offset is size/2 (floored), so even sizes extend
// toward lower indices: a 2x2 brush at (5,5) covers rows and cols 4..5.
func BrushCells(g *grid.Grid, c Cell, size int) []Cell {
	if size < 1 {
		size = 1
	}
	offset := size / 2
	cells := make([]Cell, 0, size*size)
	for dr := -offset; dr < size-offset; dr++ {
		for dc := -offset; dc < size-offset; dc++ {
			r, col := c.Row+dr, c.Col+dc
			if !g.InBounds(r, col) {
				continue
			}
			cells = append(cells, Cell{r, col})
		}
	}
	return cells
}

// Stamp paints a brush of side size centered on c with color and returns
// the cells whose value changed.
func Stamp(g *grid.Grid, c Cell, size int, color grid.Color) []Cell {
	var changed []Cell
	for _, bc := range BrushCells(g, c, size) {
		if g.Set(bc.Row, bc.Col, color) {
			changed = append(changed, bc)
		}
	}
	return changed
}

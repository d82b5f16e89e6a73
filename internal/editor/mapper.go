package editor

import "math"

// DisplaySize is the logical side length of the square display surface.
const DisplaySize = 640

// CellSize returns the display-space side length of one cell for a grid
// of the given dimensions: min(DisplaySize/width, DisplaySize/height).
func CellSize(width, height int) float64 {
	if width < 1 || height < 1 {
		return DisplaySize
	}
	return math.Min(float64(DisplaySize)/float64(width), float64(DisplaySize)/float64(height))
}

// Mapper converts pointer positions on the rendered display surface into
// grid cells.
type Mapper struct {
	// RenderedW and RenderedH are the surface's actual on-screen size,
	// which may differ from DisplaySize because of zoom or device scaling.
	RenderedW, RenderedH float64
	// GridW and GridH are the grid dimensions in cells.
	GridW, GridH int
}

// NewMapper creates a mapper for a grid shown at the given rendered size.
func NewMapper(renderedW, renderedH float64, gridW, gridH int) Mapper {
	return Mapper{RenderedW: renderedW, RenderedH: renderedH, GridW: gridW, GridH: gridH}
}

// CellAt maps pointer coordinates (relative to the surface's top-left) to
// a cell. The result is always clamped into the grid so a drag that leaves
// the surface keeps hitting the nearest edge cell.
func (m Mapper) CellAt(x, y float64) Cell {
	scaleX, scaleY := 1.0, 1.0
	if m.RenderedW > 0 {
		scaleX = DisplaySize / m.RenderedW
	}
	if m.RenderedH > 0 {
		scaleY = DisplaySize / m.RenderedH
	}

	cs := CellSize(m.GridW, m.GridH)
	col := int(math.Floor(x * scaleX / cs))
	row := int(math.Floor(y * scaleY / cs))

	return Cell{
		Row: clampInt(row, 0, m.GridH-1),
		Col: clampInt(col, 0, m.GridW-1),
	}
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

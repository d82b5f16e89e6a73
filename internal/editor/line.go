package editor

// Line returns the 8-connected Bresenham line from a to b, both endpoints
// included. Consecutive cells differ by at most one row and one column.
func Line(a, b Cell) []Cell {
	dx := abs(b.Col - a.Col)
	dy := abs(b.Row - a.Row)
	sx, sy := 1, 1
	if a.Col > b.Col {
		sx = -1
	}
	if a.Row > b.Row {
		sy = -1
	}
	err := dx - dy

	cells := make([]Cell, 0, max(dx, dy)+1)
	row, col := a.Row, a.Col
	for {
		cells = append(cells, Cell{row, col})
		if row == b.Row && col == b.Col {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			col += sx
		}
		if e2 < dx {
			err += dx
			row += sy
		}
	}
	return cells
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package editor

import "pixlet/internal/grid"

// FloodFill recolors every cell 4-connected to start that shares start's
// original color. It returns the recolored cells, or nil when start is out
// of range or already has the replacement color.
//
// An explicit work-list replaces recursion so a 64x64 single-color grid
// cannot exhaust the stack.
func FloodFill(g *grid.Grid, start Cell, replacement grid.Color) []Cell {
	target, err := g.Get(start.Row, start.Col)
	if err != nil || target == replacement {
		return nil
	}

	var filled []Cell
	stack := []Cell{start}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cur, err := g.Get(c.Row, c.Col)
		if err != nil || cur != target {
			continue
		}
		g.Set(c.Row, c.Col, replacement)
		filled = append(filled, c)

		stack = append(stack,
			Cell{c.Row - 1, c.Col},
			Cell{c.Row + 1, c.Col},
			Cell{c.Row, c.Col - 1},
			Cell{c.Row, c.Col + 1},
		)
	}
	return filled
}

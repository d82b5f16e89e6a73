package editor

import "pixlet/internal/grid"

// DefaultColorHistoryCapacity is the number of recent colors kept.
const DefaultColorHistoryCapacity = 20

// ColorHistory is a most-recently-used list of distinct colors.
type ColorHistory struct {
	colors   []grid.Color
	capacity int
}

// NewColorHistory creates an empty history holding at most capacity colors.
func NewColorHistory(capacity int) *ColorHistory {
	if capacity < 1 {
		capacity = DefaultColorHistoryCapacity
	}
	return &ColorHistory{capacity: capacity}
}

// Add moves c to the front, inserting it if absent and evicting the least
// recently used color when full.
func (h *ColorHistory) Add(c grid.Color) {
	for i, existing := range h.colors {
		if existing == c {
			copy(h.colors[1:i+1], h.colors[:i])
			h.colors[0] = c
			return
		}
	}
	if len(h.colors) < h.capacity {
		h.colors = append(h.colors, grid.Color{})
	}
	copy(h.colors[1:], h.colors)
	h.colors[0] = c
}

// Colors returns a copy of the list, most recent first.
func (h *ColorHistory) Colors() []grid.Color {
	out := make([]grid.Color, len(h.colors))
	copy(out, h.colors)
	return out
}

// Len returns the number of colors held.
func (h *ColorHistory) Len() int { return len(h.colors) }

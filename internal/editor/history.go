package editor

import "pixlet/internal/grid"

// DefaultHistoryCapacity bounds the undo stack when no capacity is configured.
const DefaultHistoryCapacity = 50

// History is a bounded snapshot stack with a cursor at the current entry.
// Entries after the cursor are the redo-able future.
type History struct {
	entries  []grid.Snapshot
	index    int
	capacity int
}

// NewHistory creates a history seeded with initial as its only entry.
func NewHistory(initial grid.Snapshot, capacity int) *History {
	if capacity < 1 {
		capacity = DefaultHistoryCapacity
	}
	h := &History{capacity: capacity}
	h.Reset(initial)
	return h
}

// Reset drops every entry and records initial as the only one.
func (h *History) Reset(initial grid.Snapshot) {
	h.entries = append(h.entries[:0], initial)
	h.index = 0
}

// Record truncates the redo future, appends s and moves the cursor onto it.
// When capacity is exceeded the oldest entry is evicted and the cursor
// stays on the newest entry.
func (h *History) Record(s grid.Snapshot) {
	h.entries = append(h.entries[:h.index+1], s)
	h.index++
	if len(h.entries) > h.capacity {
		// Drop the oldest entry; copy so the backing array does not grow forever.
		n := copy(h.entries, h.entries[1:])
		h.entries[n] = grid.Snapshot{}
		h.entries = h.entries[:n]
		h.index--
	}
}

// Undo moves the cursor back one entry and returns it. ok is false at the
// oldest entry.
func (h *History) Undo() (s grid.Snapshot, ok bool) {
	if h.index == 0 {
		return grid.Snapshot{}, false
	}
	h.index--
	return h.entries[h.index], true
}

// Redo moves the cursor forward one entry and returns it. ok is false at
// the newest entry.
func (h *History) Redo() (s grid.Snapshot, ok bool) {
	if h.index >= len(h.entries)-1 {
		return grid.Snapshot{}, false
	}
	h.index++
	return h.entries[h.index], true
}

// Current returns the entry under the cursor.
func (h *History) Current() grid.Snapshot {
	return h.entries[h.index]
}

// Len returns the number of stored entries.
func (h *History) Len() int { return len(h.entries) }

// Index returns the cursor position.
func (h *History) Index() int { return h.index }

// Capacity returns the maximum number of entries.
func (h *History) Capacity() int { return h.capacity }

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }

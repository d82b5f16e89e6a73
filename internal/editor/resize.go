package editor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pixlet/internal/grid"
)

var (
	// ErrResizeNotNumeric is returned for resize input that is not an integer.
	ErrResizeNotNumeric = errors.New("grid size must be a whole number")
	// ErrResizeOutOfRange is returned for sizes outside grid.MinSize..grid.MaxSize.
	ErrResizeOutOfRange = fmt.Errorf("grid size must be between %d and %d", grid.MinSize, grid.MaxSize)
)

// ParseGridSize validates user-entered resize input.
func ParseGridSize(input string) (int, error) {
	s := strings.TrimSpace(input)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, ErrResizeNotNumeric)
	}
	if n < grid.MinSize || n > grid.MaxSize {
		return 0, fmt.Errorf("%d: %w", n, ErrResizeOutOfRange)
	}
	return n, nil
}

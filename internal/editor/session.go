package editor

import "pixlet/internal/grid"

// Redraw tells the caller how much of the display surface a call invalidated.
type Redraw int

const (
	RedrawNone Redraw = iota
	// RedrawCells means only Result.Cells need repainting.
	RedrawCells
	// RedrawFull means the whole surface must be repainted.
	RedrawFull
)

// Result describes the effect of one Session call.
type Result struct {
	// Changed is true when grid contents changed.
	Changed bool
	Redraw  Redraw
	// Cells lists the changed cells when Redraw == RedrawCells.
	Cells []Cell
	// Committed is true when a history entry was appended.
	Committed bool
}

// Merge folds o into r, widening the redraw region as needed.
func (r *Result) Merge(o Result) {
	r.Changed = r.Changed || o.Changed
	r.Committed = r.Committed || o.Committed
	switch {
	case o.Redraw == RedrawFull || r.Redraw == RedrawFull:
		r.Redraw = RedrawFull
		r.Cells = nil
	case o.Redraw == RedrawCells:
		r.Redraw = RedrawCells
		r.Cells = append(r.Cells, o.Cells...)
	}
}

func cellsResult(cells []Cell) Result {
	if len(cells) == 0 {
		return Result{}
	}
	return Result{Changed: true, Redraw: RedrawCells, Cells: cells}
}

var fullRedraw = Result{Redraw: RedrawFull}

// Options configures a new Session.
type Options struct {
	Size                 int
	Background           grid.Color
	Color                grid.Color
	BrushSize            int
	HistoryCapacity      int
	ColorHistoryCapacity int
	Palette              []grid.Color
}

// DefaultOptions returns a 16x16 white grid with a black pencil.
func DefaultOptions() Options {
	return Options{
		Size:                 16,
		Background:           grid.White,
		Color:                grid.Black,
		BrushSize:            1,
		HistoryCapacity:      DefaultHistoryCapacity,
		ColorHistoryCapacity: DefaultColorHistoryCapacity,
	}
}

// Session is one editing session: the grid, its history, the tool state and
// the view zoom. It is not safe for concurrent use; the owner feeds it
// events one at a time.
type Session struct {
	grid    *grid.Grid
	history *History
	colors  *ColorHistory

	tool       Tool
	color      grid.Color
	background grid.Color
	brush      int
	zoom       Zoom

	palette    []grid.Color
	paletteIdx int

	// Gesture state. last is the last committed cell of the active stroke
	// and seeds the next interpolated line.
	drawing bool
	last    Cell

	hovering bool
	hover    Cell
}

// NewSession creates a session with a fresh grid and a single-entry history.
func NewSession(opts Options) *Session {
	size := opts.Size
	if size < grid.MinSize || size > grid.MaxSize {
		size = DefaultOptions().Size
	}
	s := &Session{
		colors:     NewColorHistory(opts.ColorHistoryCapacity),
		tool:       ToolPencil,
		color:      opts.Color,
		background: opts.Background,
		brush:      clampInt(opts.BrushSize, MinBrush, MaxBrush),
		zoom:       1,
		palette:    append([]grid.Color(nil), opts.Palette...),
	}
	s.grid = grid.New(size, size, s.background)
	s.history = NewHistory(s.grid.Snapshot(), opts.HistoryCapacity)
	return s
}

// Grid returns the live grid. Callers must not mutate it.
func (s *Session) Grid() *grid.Grid { return s.grid }

// History returns the undo history.
func (s *Session) History() *History { return s.history }

// RecentColors returns recently used colors, most recent first.
func (s *Session) RecentColors() []grid.Color { return s.colors.Colors() }

// Tool returns the active tool.
func (s *Session) Tool() Tool { return s.tool }

// Color returns the active drawing color.
func (s *Session) Color() grid.Color { return s.color }

// Background returns the eraser/clear color.
func (s *Session) Background() grid.Color { return s.background }

// BrushSize returns the brush side length.
func (s *Session) BrushSize() int { return s.brush }

// Zoom returns the view zoom factor.
func (s *Session) Zoom() Zoom { return s.zoom }

// Drawing reports whether a pointer gesture is in progress.
func (s *Session) Drawing() bool { return s.drawing }

// Mapper returns a coordinate mapper for the surface at its rendered size.
func (s *Session) Mapper(renderedW, renderedH float64) Mapper {
	return NewMapper(renderedW, renderedH, s.grid.Width(), s.grid.Height())
}

// SelectTool switches the active tool. Invalid tools are ignored.
func (s *Session) SelectTool(t Tool) Result {
	if !t.Valid() || t == s.tool {
		return Result{}
	}
	s.tool = t
	return s.clearHover()
}

// SetColor sets the active drawing color.
func (s *Session) SetColor(c grid.Color) Result {
	s.color = c
	if s.hovering && s.tool == ToolPencil {
		return fullRedraw
	}
	return Result{}
}

// CyclePalette moves the active color step entries through the palette.
func (s *Session) CyclePalette(step int) Result {
	n := len(s.palette)
	if n == 0 {
		return Result{}
	}
	s.paletteIdx = ((s.paletteIdx+step)%n + n) % n
	return s.SetColor(s.palette[s.paletteIdx])
}

// SetBrushSize sets the brush side length, clamped to MinBrush..MaxBrush.
func (s *Session) SetBrushSize(n int) Result {
	s.brush = clampInt(n, MinBrush, MaxBrush)
	if s.hovering {
		return fullRedraw
	}
	return Result{}
}

// ZoomIn steps the zoom up by ZoomStep.
func (s *Session) ZoomIn() Result { return s.setZoom(s.zoom.Step(ZoomStep)) }

// ZoomOut steps the zoom down by ZoomStep.
func (s *Session) ZoomOut() Result { return s.setZoom(s.zoom.Step(-ZoomStep)) }

// Wheel applies wheel notches: positive zooms in, negative zooms out.
// It never starts a gesture.
func (s *Session) Wheel(notches int) Result {
	return s.setZoom(s.zoom.Step(float64(notches) * WheelZoomStep))
}

func (s *Session) setZoom(z Zoom) Result {
	if z == s.zoom {
		return Result{}
	}
	s.zoom = z
	return fullRedraw
}

// PointerDown starts a gesture on c. Fill and eyedropper act immediately
// and complete their gesture in the same call.
func (s *Session) PointerDown(c Cell) Result {
	if !s.grid.InBounds(c.Row, c.Col) {
		return Result{}
	}
	res := s.clearHover()

	switch s.tool {
	case ToolPencil, ToolEraser:
		s.drawing = true
		s.last = c
		res.Merge(s.stamp(c))

	case ToolFill:
		filled := FloodFill(s.grid, c, s.color)
		if len(filled) == 0 {
			return res
		}
		s.colors.Add(s.color)
		res.Merge(Result{Changed: true, Redraw: RedrawFull})
		res.Committed = s.commit()

	case ToolEyedropper:
		s.color = s.grid.At(c.Row, c.Col)
		s.tool = ToolPencil
	}
	return res
}

// PointerMove continues the active gesture toward c, interpolating from the
// last committed cell so no cell is skipped. Without an active gesture it
// updates the hover preview.
func (s *Session) PointerMove(c Cell) Result {
	if !s.drawing {
		return s.Hover(c)
	}
	if !s.grid.InBounds(c.Row, c.Col) {
		return Result{}
	}
	if c == s.last {
		return s.stamp(c)
	}

	var res Result
	for _, lc := range Line(s.last, c) {
		res.Merge(s.stamp(lc))
	}
	s.last = c
	return res
}

// PointerUp ends the active gesture and records exactly one history entry,
// even when the stroke repainted cells with the colors they already had.
func (s *Session) PointerUp() Result {
	if !s.drawing {
		return Result{}
	}
	s.drawing = false
	s.history.Record(s.grid.Snapshot())
	return Result{Committed: true}
}

// PointerLeave clears the hover preview. An active gesture keeps its last
// cell so re-entering continues the line.
func (s *Session) PointerLeave() Result {
	return s.clearHover()
}

// Hover sets the hover preview cell. Previews exist only for brush tools
// while no gesture is active.
func (s *Session) Hover(c Cell) Result {
	if s.drawing || !s.tool.Brushes() || !s.grid.InBounds(c.Row, c.Col) {
		return s.clearHover()
	}
	if s.hovering && s.hover == c {
		return Result{}
	}
	s.hovering = true
	s.hover = c
	return fullRedraw
}

// Preview returns the cells and color of the hover preview, if any.
func (s *Session) Preview() (cells []Cell, c grid.Color, ok bool) {
	if !s.hovering || s.drawing || !s.tool.Brushes() {
		return nil, grid.Color{}, false
	}
	return BrushCells(s.grid, s.hover, s.brush), s.toolColor(), true
}

// Undo restores the previous history entry.
func (s *Session) Undo() Result {
	s.finishGesture()
	snap, ok := s.history.Undo()
	if !ok {
		return Result{}
	}
	s.grid.Restore(snap)
	return Result{Changed: true, Redraw: RedrawFull}
}

// Redo restores the next history entry.
func (s *Session) Redo() Result {
	s.finishGesture()
	snap, ok := s.history.Redo()
	if !ok {
		return Result{}
	}
	s.grid.Restore(snap)
	return Result{Changed: true, Redraw: RedrawFull}
}

// Apply runs a keyboard history command.
func (s *Session) Apply(cmd Command) Result {
	switch cmd {
	case CommandUndo:
		return s.Undo()
	case CommandRedo:
		return s.Redo()
	}
	return Result{}
}

// Resize validates input and replaces the grid with a fresh n x n grid,
// resetting history. Invalid input leaves the session untouched.
func (s *Session) Resize(input string) (Result, error) {
	n, err := ParseGridSize(input)
	if err != nil {
		return Result{}, err
	}
	s.drawing = false
	s.hovering = false
	s.grid = grid.New(n, n, s.background)
	s.history.Reset(s.grid.Snapshot())
	return Result{Changed: true, Redraw: RedrawFull}, nil
}

// Clear fills the grid with the background color as one undoable step.
// The caller is responsible for confirming with the user first.
func (s *Session) Clear() Result {
	s.finishGesture()
	s.grid.Fill(s.background)
	if !s.commit() {
		return Result{}
	}
	return Result{Changed: true, Redraw: RedrawFull, Committed: true}
}

func (s *Session) toolColor() grid.Color {
	if s.tool == ToolEraser {
		return s.background
	}
	return s.color
}

func (s *Session) stamp(c Cell) Result {
	changed := Stamp(s.grid, c, s.brush, s.toolColor())
	if s.tool == ToolPencil {
		s.colors.Add(s.color)
	}
	return cellsResult(changed)
}

// commit records the grid as a new history entry unless it already matches
// the current entry. Fill and clear use it so a no-op records nothing.
func (s *Session) commit() bool {
	if s.grid.Matches(s.history.Current()) {
		return false
	}
	s.history.Record(s.grid.Snapshot())
	return true
}

func (s *Session) finishGesture() {
	if s.drawing {
		s.PointerUp()
	}
}

func (s *Session) clearHover() Result {
	if !s.hovering {
		return Result{}
	}
	s.hovering = false
	return fullRedraw
}

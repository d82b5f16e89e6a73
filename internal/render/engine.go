package render

import (
	"image"
	"strings"

	"golang.org/x/image/draw"

	"pixlet/internal/grid"
)

// Cell represents a single terminal cell with full RGB color.
type Cell struct {
	Ch     rune
	Fg, Bg grid.Color
	Bold   bool
}

var sentinel = Cell{Ch: '\x00', Fg: grid.RGB(255, 0, 0), Bg: grid.RGB(0, 0, 255), Bold: true}

var (
	backdrop = grid.RGB(10, 10, 15)
	hudBg    = grid.RGB(15, 18, 30)
	hudText  = grid.RGB(180, 180, 195)
	hudDim   = grid.RGB(110, 110, 125)
	hudLabel = grid.RGB(100, 220, 220)
)

// HUD is the status bar content below the canvas.
type HUD struct {
	Status  string       // tool, brush, color, zoom and history summary
	Color   grid.Color   // current drawing color
	Recent  []grid.Color // recently used colors, most recent first
	Message string       // prompt, notice or help line
}

// Engine is a per-session double-buffer diff renderer.
type Engine struct {
	width, height int
	current       [][]Cell
	next          [][]Cell
	firstFrame    bool
	scaled        *image.NRGBA
}

// NewEngine creates a renderer for the given terminal dimensions.
func NewEngine(width, height int) *Engine {
	e := &Engine{}
	e.Resize(width, height)
	return e
}

// Resize adjusts the renderer for a new terminal size.
func (e *Engine) Resize(width, height int) {
	e.width = width
	e.height = height
	e.current = e.makeBuffer(sentinel)
	e.next = e.makeBuffer(Cell{})
	e.firstFrame = true
}

// Invalidate forces the next frame to repaint every cell.
func (e *Engine) Invalidate() {
	e.firstFrame = true
}

func (e *Engine) makeBuffer(fill Cell) [][]Cell {
	buf := make([][]Cell, e.height)
	for y := 0; y < e.height; y++ {
		buf[y] = make([]Cell, e.width)
		for x := 0; x < e.width; x++ {
			buf[y][x] = fill
		}
	}
	return buf
}

// Render produces the ANSI output for the current frame. The canvas image
// is scaled to the viewport's side length and drawn two pixels per cell.
func (e *Engine) Render(canvas image.Image, vp Viewport, hud HUD, termW, termH int) string {
	if termW != e.width || termH != e.height {
		e.Resize(termW, termH)
	}

	bgCell := Cell{Ch: ' ', Bg: backdrop}
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			e.next[y][x] = bgCell
		}
	}

	e.drawCanvas(canvas, vp)
	e.drawHUD(hud)

	return e.flush()
}

func (e *Engine) drawCanvas(canvas image.Image, vp Viewport) {
	if canvas == nil || vp.Side <= 0 {
		return
	}
	if e.scaled == nil || e.scaled.Bounds().Dx() != vp.Side {
		e.scaled = image.NewNRGBA(image.Rect(0, 0, vp.Side, vp.Side))
	}
	draw.NearestNeighbor.Scale(e.scaled, e.scaled.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)

	rows := min(vp.Rows, e.height-HUDRows)
	cols := min(vp.Cols, e.width, vp.Side)
	for ty := 0; ty < rows; ty++ {
		top := ty * 2
		if top >= vp.Side {
			break
		}
		for tx := 0; tx < cols; tx++ {
			c := Cell{Ch: UpperHalf, Fg: pixelAt(e.scaled, tx, top), Bg: backdrop}
			if top+1 < vp.Side {
				c.Bg = pixelAt(e.scaled, tx, top+1)
			}
			e.next[ty][tx] = c
		}
	}
}

func pixelAt(img *image.NRGBA, x, y int) grid.Color {
	i := img.PixOffset(x, y)
	return grid.RGB(img.Pix[i], img.Pix[i+1], img.Pix[i+2])
}

func (e *Engine) drawHUD(hud HUD) {
	hudY := e.height - HUDRows
	if hudY < 0 {
		return
	}
	for row := 0; row < HUDRows; row++ {
		for x := 0; x < e.width; x++ {
			e.next[hudY+row][x] = Cell{Ch: ' ', Bg: hudBg}
		}
	}

	// Row 0: current color swatch and status line
	col := e.writeText(hudY, 1, "██", hud.Color, hudBg, false)
	e.writeText(hudY, col+1, hud.Status, hudText, hudBg, true)

	// Row 1: recent colors
	col = e.writeText(hudY+1, 1, "Recent ", hudLabel, hudBg, true)
	for _, c := range hud.Recent {
		col = e.writeText(hudY+1, col, "██", c, hudBg, false)
		col++
	}

	// Row 2: message or help
	e.writeText(hudY+2, 1, hud.Message, hudDim, hudBg, false)
}

// writeText writes colored text starting at col. Returns the next column position.
func (e *Engine) writeText(row, col int, text string, fg, bg grid.Color, bold bool) int {
	for _, r := range text {
		if col >= e.width {
			break
		}
		if row >= 0 && row < e.height && col >= 0 {
			e.next[row][col] = Cell{Ch: r, Fg: fg, Bg: bg, Bold: bold}
		}
		col++
	}
	return col
}

// flush diffs current vs next and emits only changed cells.
func (e *Engine) flush() string {
	var sb strings.Builder
	sb.Grow(16384)

	lastRow, lastCol := -1, -1
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			nc := e.next[y][x]
			if e.firstFrame || nc != e.current[y][x] {
				// Only emit cursor position if not consecutive
				if y != lastRow || x != lastCol {
					sb.WriteString(MoveTo(y+1, x+1))
				}
				WriteCellSGR(&sb, nc)
				lastRow = y
				lastCol = x + 1
			}
		}
	}

	if sb.Len() > 0 {
		sb.WriteString(Reset)
	}

	e.current, e.next = e.next, e.current
	e.firstFrame = false

	return sb.String()
}

package server

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"pixlet/internal/editor"
	"pixlet/internal/grid"
	"pixlet/internal/render"
)

const helpText = "p pencil  e eraser  f fill  i picker  1-5 brush  +/- zoom  [ ] color  ^Z undo  ^Y redo  r resize  c clear  x export  q quit"

type mode int

const (
	modeEdit mode = iota
	modeResize
	modeConfirmClear
)

// editorConn binds one editing session to a terminal. All methods run on
// the connection's event goroutine.
type editorConn struct {
	id        string
	user      string
	exportDir string
	log       *slog.Logger

	sess    *editor.Session
	surface *render.Surface
	engine  *render.Engine

	termW, termH int

	mode    mode
	prompt  []rune
	message string
}

func newEditorConn(id, user, exportDir string, opts editor.Options, termW, termH int, log *slog.Logger) (*editorConn, error) {
	c := &editorConn{
		id:        id,
		user:      user,
		exportDir: exportDir,
		log:       log,
		sess:      editor.NewSession(opts),
		surface:   render.NewSurface(),
		engine:    render.NewEngine(termW, termH),
		termW:     termW,
		termH:     termH,
		message:   helpText,
	}
	if err := c.surface.Redraw(c.sess.Grid()); err != nil {
		c.surface.Close()
		return nil, fmt.Errorf("initial redraw: %w", err)
	}
	return c, nil
}

func (c *editorConn) Close() error {
	return c.surface.Close()
}

func (c *editorConn) viewport() render.Viewport {
	return render.NewViewport(c.termW, c.termH, float64(c.sess.Zoom()))
}

// resize records new terminal dimensions.
func (c *editorConn) resize(w, h int) {
	c.termW, c.termH = w, h
}

// handle applies one input event. It reports whether the user asked to quit.
func (c *editorConn) handle(ev Event) (quit bool, err error) {
	if ev.Kind == EventKey && ev.Ctrl && ev.Key == 'c' {
		return true, nil
	}

	var res editor.Result
	switch c.mode {
	case modeResize:
		res = c.handleResizePrompt(ev)
	case modeConfirmClear:
		res = c.handleClearConfirm(ev)
	default:
		if ev.Kind == EventMouse {
			res = c.handleMouse(ev)
		} else {
			res, quit = c.handleKey(ev)
		}
	}
	if err := c.surface.Present(c.sess, res); err != nil {
		return quit, fmt.Errorf("present: %w", err)
	}
	return quit, nil
}

func (c *editorConn) handleMouse(ev Event) editor.Result {
	vp := c.viewport()

	if ev.Wheel != 0 {
		return c.sess.Wheel(ev.Wheel)
	}
	if ev.Release {
		if ev.Button != ButtonLeft {
			return editor.Result{}
		}
		return c.sess.PointerUp()
	}

	var res editor.Result
	if ev.Motion && ev.Button == ButtonNone && c.sess.Drawing() {
		// The release happened outside the terminal.
		res = c.sess.PointerUp()
	}

	inside := vp.InCanvas(ev.Col, ev.Row)
	x, y := vp.PointerToSurface(ev.Col, ev.Row)
	cell := c.sess.Mapper(float64(vp.Side), float64(vp.Side)).CellAt(x, y)

	switch {
	case !ev.Motion && ev.Button == ButtonLeft:
		if !inside {
			return res
		}
		return c.sess.PointerDown(cell)
	case ev.Motion && ev.Button != ButtonLeft && ev.Button != ButtonNone:
		// Drags with other buttons neither paint nor hover.
	case ev.Motion && inside:
		res.Merge(c.sess.PointerMove(cell))
	case ev.Motion:
		res.Merge(c.sess.PointerLeave())
	}
	return res
}

func (c *editorConn) handleKey(ev Event) (editor.Result, bool) {
	if ev.Kind != EventKey {
		return editor.Result{}, false
	}
	if ev.Ctrl || ev.Meta {
		cmd := editor.CommandFor(editor.Chord{Key: ev.Key, Ctrl: ev.Ctrl, Meta: ev.Meta})
		return c.sess.Apply(cmd), false
	}

	switch unicode.ToLower(ev.Key) {
	case 'q':
		return editor.Result{}, true
	case 'p':
		return c.sess.SelectTool(editor.ToolPencil), false
	case 'e':
		return c.sess.SelectTool(editor.ToolEraser), false
	case 'f':
		return c.sess.SelectTool(editor.ToolFill), false
	case 'i':
		return c.sess.SelectTool(editor.ToolEyedropper), false
	case '1', '2', '3', '4', '5':
		return c.sess.SetBrushSize(int(ev.Key - '0')), false
	case '+', '=':
		return c.sess.ZoomIn(), false
	case '-', '_':
		return c.sess.ZoomOut(), false
	case ']':
		return c.sess.CyclePalette(1), false
	case '[':
		return c.sess.CyclePalette(-1), false
	case 'x':
		c.export()
	case 'r':
		c.mode = modeResize
		c.prompt = c.prompt[:0]
		c.message = fmt.Sprintf("New grid size (%d-%d): ", grid.MinSize, grid.MaxSize)
	case 'c':
		c.mode = modeConfirmClear
		c.message = "Clear the whole grid? (y/n)"
	case '?', 'h':
		c.message = helpText
	}
	return editor.Result{}, false
}

func (c *editorConn) handleResizePrompt(ev Event) editor.Result {
	switch ev.Kind {
	case EventEscape:
		c.mode = modeEdit
		c.message = "Resize cancelled"
		return editor.Result{}
	case EventBackspace:
		if len(c.prompt) > 0 {
			c.prompt = c.prompt[:len(c.prompt)-1]
		}
	case EventEnter:
		c.mode = modeEdit
		input := string(c.prompt)
		res, err := c.sess.Resize(input)
		switch {
		case errors.Is(err, editor.ErrResizeNotNumeric):
			c.message = fmt.Sprintf("%q is not a number", input)
		case errors.Is(err, editor.ErrResizeOutOfRange):
			c.message = fmt.Sprintf("Grid size must be between %d and %d", grid.MinSize, grid.MaxSize)
		case err != nil:
			c.message = err.Error()
		default:
			c.message = fmt.Sprintf("Grid resized to %dx%d", c.sess.Grid().Width(), c.sess.Grid().Height())
			c.log.Info("grid resized", "size", c.sess.Grid().Width())
		}
		return res
	case EventKey:
		if !ev.Ctrl && !ev.Meta && len(c.prompt) < 8 {
			c.prompt = append(c.prompt, ev.Key)
		}
	}
	c.message = fmt.Sprintf("New grid size (%d-%d): %s", grid.MinSize, grid.MaxSize, string(c.prompt))
	return editor.Result{}
}

func (c *editorConn) handleClearConfirm(ev Event) editor.Result {
	if ev.Kind == EventMouse {
		return editor.Result{}
	}
	c.mode = modeEdit
	if ev.Kind == EventKey && unicode.ToLower(ev.Key) == 'y' && !ev.Ctrl && !ev.Meta {
		c.message = "Cleared"
		return c.sess.Clear()
	}
	c.message = "Clear cancelled"
	return editor.Result{}
}

// export writes the grid as a 1:1 PNG into the export directory.
func (c *editorConn) export() {
	path, err := c.exportPNG()
	if err != nil {
		c.message = "Export failed: " + err.Error()
		c.log.Error("export failed", "err", err)
		return
	}
	c.message = "Exported " + path
	c.log.Info("exported grid", "path", path)
}

func (c *editorConn) exportPNG() (string, error) {
	if err := os.MkdirAll(c.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.png", sanitizeName(c.user), c.id)
	path := filepath.Join(c.exportDir, name)
	if err := c.sess.Grid().SavePNG(path); err != nil {
		return "", err
	}
	return path, nil
}

// sanitizeName keeps a username safe for use in a file name.
func sanitizeName(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, s)
	if s == "" {
		return "anonymous"
	}
	return s
}

// frame renders the terminal output for the current state.
func (c *editorConn) frame() string {
	return c.engine.Render(c.surface.Image(), c.viewport(), c.hud(), c.termW, c.termH)
}

func (c *editorConn) hud() render.HUD {
	g := c.sess.Grid()
	h := c.sess.History()
	status := fmt.Sprintf("%s  brush %d  %s  zoom %d%%  %dx%d  history %d/%d",
		c.sess.Tool(), c.sess.BrushSize(), c.sess.Color().Hex(),
		c.sess.Zoom().Percent(), g.Width(), g.Height(), h.Index()+1, h.Len())
	return render.HUD{
		Status:  status,
		Color:   c.sess.Color(),
		Recent:  c.sess.RecentColors(),
		Message: c.message,
	}
}

// Package tedit is a small terminal text editor. It puts the terminal in raw
// mode and draws with VT100 escape sequences directly, without depending on
// ncurses or a screen library.
package tedit

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/x/ansi"
)

const helpMessage = "HELP: Ctrl-Q = quit | Ctrl-S = save"

// Editor holds the complete state of one editing session.
type Editor struct {
	tty    *Terminal
	out    io.Writer
	keys   *KeyDecoder
	buf    *Buffer
	view   *Viewport
	screen *Renderer
	cfg    Config
	logger *log.Logger

	status StatusMessage
	now    func() time.Time
}

// New creates an editor drawing on tty.
func New(tty *Terminal, cfg Config, logger *log.Logger) *Editor {
	return newEditor(tty, tty, cfg, logger)
}

func newEditor(in io.ByteReader, out io.Writer, cfg Config, logger *log.Logger) *Editor {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	e := &Editor{
		out:    out,
		keys:   NewKeyDecoder(in),
		buf:    NewBuffer(cfg.TabStop),
		view:   NewViewport(1, 1),
		screen: NewRenderer(out, cfg.MessageTimeout()),
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
	if tty, ok := in.(*Terminal); ok {
		e.tty = tty
	}
	return e
}

// Open loads a file into the editor.
func (e *Editor) Open(filename string) error {
	if err := e.buf.Open(filename); err != nil {
		return err
	}
	e.view.SetCursor(e.buf, 0, 0)
	e.logger.Printf("opened %s: %d lines", filename, e.buf.NumRows())
	return nil
}

// SetStatusMessage sets the editor status message.
func (e *Editor) SetStatusMessage(format string, args ...interface{}) {
	e.status = StatusMessage{Text: fmt.Sprintf(format, args...), Time: e.now()}
}

// ---------- Window size ----------

// SetWindowSize sets the terminal size. Two lines are kept for the status
// and message bars.
func (e *Editor) SetWindowSize(rows, cols int) {
	e.view.SetSize(e.buf, rows-2, cols)
}

func (e *Editor) updateWindowSize() error {
	rows, cols, err := e.tty.WindowSize()
	if err != nil {
		return fmt.Errorf("getWindowSize: %w", err)
	}
	e.SetWindowSize(rows, cols)
	e.logger.Printf("window size %dx%d", cols, rows)
	return nil
}

// ---------- Editor operations ----------

func (e *Editor) insertChar(c byte) {
	cx, cy := e.view.Cursor()
	e.buf.InsertChar(cy, cx, c)
	e.view.SetCursor(e.buf, cx+1, cy)
}

func (e *Editor) insertNewline() {
	cx, cy := e.view.Cursor()
	e.buf.SplitRow(cy, cx)
	e.view.SetCursor(e.buf, 0, cy+1)
}

func (e *Editor) delChar() {
	cx, cy := e.view.Cursor()
	if cy == e.buf.NumRows() {
		return
	}
	if cx == 0 && cy == 0 {
		return
	}
	if cx > 0 {
		e.buf.DeleteChar(cy, cx-1)
		e.view.SetCursor(e.buf, cx-1, cy)
		return
	}
	prevLen := e.buf.RowLen(cy - 1)
	e.buf.JoinRow(cy)
	e.view.SetCursor(e.buf, prevLen, cy-1)
}

// Save writes the buffer to disk and reports the outcome in the status bar.
func (e *Editor) Save() {
	n, err := e.buf.Save()
	switch {
	case errors.Is(err, ErrNoFilename):
		e.SetStatusMessage("No filename, nothing saved")
	case err != nil:
		e.logger.Printf("save %s failed: %v", e.buf.Filename(), err)
		e.SetStatusMessage("Can't save! I/O error: %v", err)
	default:
		e.logger.Printf("saved %s: %d bytes", e.buf.Filename(), n)
		e.SetStatusMessage("%d bytes written to disk", n)
	}
}

// ---------- Event processing ----------

// ProcessKey applies one key to the editor. It returns false when the key
// asks to quit.
func (e *Editor) ProcessKey(c Key) bool {
	switch c {
	case KeyNone:
		// Nothing
	case Ctrl('q'):
		return false
	case Ctrl('s'):
		e.Save()
	case keyEnter:
		e.insertNewline()
	case keyBackspace, Ctrl('h'):
		e.delChar()
	case KeyDelete:
		// Nothing follows the end of the last row
		if cx, cy := e.view.Cursor(); cy < e.buf.NumRows()-1 || cx < e.buf.RowLen(cy) {
			e.view.MoveCursor(e.buf, KeyArrowRight)
			e.delChar()
		}
	case KeyHome:
		e.view.Home()
	case KeyEnd:
		e.view.End(e.buf)
	case KeyPageUp, KeyPageDown:
		e.view.Page(e.buf, c)
	case KeyArrowUp, KeyArrowDown, KeyArrowLeft, KeyArrowRight:
		e.view.MoveCursor(e.buf, c)
	case Ctrl('l'), KeyEsc:
		// The screen is redrawn after every key
	default:
		if c == keyTab || (c >= ' ' && c < keyBackspace) || (c > keyBackspace && c <= 0xff) {
			e.insertChar(byte(c))
		}
	}
	return true
}

// RefreshScreen scrolls the cursor into view and draws a frame.
func (e *Editor) RefreshScreen() error {
	e.view.Scroll(e.buf)
	return e.screen.Render(e.buf, e.view, e.status, e.now())
}

// ---------- Main loop ----------

// Run is the main editor loop. It enables raw mode and processes keys until
// the user quits or SIGTERM/SIGHUP arrives. The terminal is restored on
// every return path.
func (e *Editor) Run() (err error) {
	if e.tty == nil {
		return ErrNotTerminal
	}
	if err := e.tty.EnableRawMode(); err != nil {
		return err
	}
	if e.cfg.AltScreen {
		io.WriteString(e.out, ansi.SetAltScreenSaveCursorMode)
	}
	defer func() {
		if e.cfg.AltScreen {
			io.WriteString(e.out, ansi.ResetAltScreenSaveCursorMode)
		}
		if rerr := e.tty.DisableRawMode(); rerr != nil && err == nil {
			err = rerr
		}
		if err != nil {
			e.logger.Printf("fatal: %v", err)
		}
	}()

	if err := e.updateWindowSize(); err != nil {
		return err
	}

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	defer signal.Stop(winch)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(stop)

	e.SetStatusMessage(helpMessage)
	redraw := true
	for {
		if redraw {
			if err := e.RefreshScreen(); err != nil {
				return err
			}
		}
		redraw = true

		c, err := e.keys.ReadKey()
		if err != nil {
			return err
		}
		if c == KeyNone {
			select {
			case <-winch:
				if err := e.updateWindowSize(); err != nil {
					return err
				}
			case sig := <-stop:
				e.logger.Printf("received %v, quitting", sig)
				e.clearScreen()
				return nil
			default:
				redraw = false
			}
			continue
		}
		if !e.ProcessKey(c) {
			e.logger.Printf("quit")
			e.clearScreen()
			return nil
		}
	}
}

func (e *Editor) clearScreen() {
	io.WriteString(e.out, ansi.EraseEntireScreen+ansi.CursorHomePosition)
}

package tedit

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Version is shown in the welcome banner.
const Version = "0.0.1"

// DefaultMessageTimeout is how long a status message stays on screen.
const DefaultMessageTimeout = 5 * time.Second

const nameWidth = 20

// inverseVideo starts the reversed colours of the status bar.
var inverseVideo = ansi.SGR(ansi.ReverseAttr)

// StatusMessage is a short note shown in the bottom line of the screen.
type StatusMessage struct {
	Text string
	Time time.Time
}

// Visible reports whether the message should still be drawn at now.
func (m StatusMessage) Visible(now time.Time, timeout time.Duration) bool {
	return m.Text != "" && now.Sub(m.Time) < timeout
}

// Renderer draws frames. Each frame is composed in memory and sent to the
// terminal with a single write, so a partly drawn screen is never shown.
type Renderer struct {
	out            io.Writer
	ab             bytes.Buffer
	messageTimeout time.Duration
}

// NewRenderer returns a renderer writing frames to out.
func NewRenderer(out io.Writer, messageTimeout time.Duration) *Renderer {
	if messageTimeout <= 0 {
		messageTimeout = DefaultMessageTimeout
	}
	return &Renderer{out: out, messageTimeout: messageTimeout}
}

// Render draws one full frame. Viewport.Scroll must have been called for
// the current cursor position.
func (r *Renderer) Render(b *Buffer, v *Viewport, msg StatusMessage, now time.Time) error {
	ab := &r.ab
	ab.Reset()

	ab.WriteString(ansi.HideCursor)
	ab.WriteString(ansi.CursorHomePosition)

	r.drawRows(b, v)
	r.drawStatusBar(b, v)
	r.drawMessageBar(v, msg, now)

	row, col := v.ScreenCursor()
	ab.WriteString(ansi.CursorPosition(col, row))
	ab.WriteString(ansi.ShowCursor)

	_, err := r.out.Write(ab.Bytes())
	return err
}

func (r *Renderer) drawRows(b *Buffer, v *Viewport) {
	ab := &r.ab
	rowoff, coloff := v.Offsets()
	screenrows, screencols := v.Size()

	for y := 0; y < screenrows; y++ {
		filerow := y + rowoff
		if filerow >= b.NumRows() {
			if b.NumRows() == 0 && y == screenrows/3 {
				r.drawWelcome(screencols)
			} else {
				ab.WriteByte('~')
			}
		} else {
			render := b.Row(filerow).Render()
			start := clamp(coloff, 0, len(render))
			end := clamp(coloff+screencols, start, len(render))
			ab.Write(render[start:end])
		}
		ab.WriteString(ansi.EraseLineRight)
		ab.WriteString("\r\n")
	}
}

func (r *Renderer) drawWelcome(screencols int) {
	ab := &r.ab
	welcome := fmt.Sprintf("Tedit Editor -- version %s", Version)
	if len(welcome) > screencols {
		welcome = welcome[:screencols]
	}
	padding := (screencols - len(welcome)) / 2
	if padding > 0 {
		ab.WriteByte('~')
		padding--
	}
	ab.WriteString(strings.Repeat(" ", padding))
	ab.WriteString(welcome)
}

func (r *Renderer) drawStatusBar(b *Buffer, v *Viewport) {
	ab := &r.ab
	_, screencols := v.Size()
	_, cy := v.Cursor()

	name := b.Filename()
	if name == "" {
		name = "[No Name]"
	}
	modified := ""
	if b.Modified() {
		modified = "(modified)"
	}
	status := fmt.Sprintf("%s - %d lines %s",
		runewidth.Truncate(name, nameWidth, ""), b.NumRows(), modified)
	rstatus := fmt.Sprintf("%d/%d", cy+1, b.NumRows())

	status = runewidth.Truncate(status, screencols, "")
	width := runewidth.StringWidth(status)
	rwidth := runewidth.StringWidth(rstatus)

	ab.WriteString(inverseVideo)
	ab.WriteString(status)
	for width < screencols {
		if screencols-width == rwidth {
			ab.WriteString(rstatus)
			break
		}
		ab.WriteByte(' ')
		width++
	}
	ab.WriteString(ansi.ResetStyle)
	ab.WriteString("\r\n")
}

func (r *Renderer) drawMessageBar(v *Viewport, msg StatusMessage, now time.Time) {
	ab := &r.ab
	ab.WriteString(ansi.EraseLineRight)
	if msg.Visible(now, r.messageTimeout) {
		_, screencols := v.Size()
		ab.WriteString(runewidth.Truncate(msg.Text, screencols, ""))
	}
}

package tedit

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// countingWriter records every Write call.
type countingWriter struct {
	bytes.Buffer
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.Buffer.Write(p)
}

// frameLines splits a frame into its terminal lines with the leading
// cursor sequences and erase-line sequences removed.
func frameLines(t *testing.T, frame string) []string {
	t.Helper()
	prefix := ansi.HideCursor + ansi.CursorHomePosition
	if !strings.HasPrefix(frame, prefix) {
		t.Fatalf("frame does not start with hide cursor + home: %q", frame[:min(len(frame), 20)])
	}
	if !strings.HasSuffix(frame, ansi.ShowCursor) {
		t.Fatalf("frame does not end with show cursor")
	}
	body := strings.TrimPrefix(frame, prefix)
	body = strings.ReplaceAll(body, ansi.EraseLineRight, "")
	return strings.Split(body, "\r\n")
}

func renderFrame(t *testing.T, b *Buffer, v *Viewport, msg StatusMessage, now time.Time) (string, int) {
	t.Helper()
	var w countingWriter
	v.Scroll(b)
	if err := NewRenderer(&w, 0).Render(b, v, msg, now); err != nil {
		t.Fatal(err)
	}
	return w.String(), w.writes
}

func TestRenderEmptyBufferWelcome(t *testing.T) {
	b := NewBuffer(DefaultTabStop)
	v := NewViewport(22, 80) // 24x80 terminal
	frame, writes := renderFrame(t, b, v, StatusMessage{}, time.Now())
	if writes != 1 {
		t.Fatalf("frame was sent in %d writes, want 1", writes)
	}

	ls := frameLines(t, frame)
	// 22 text lines, the status bar, and the message bar
	if len(ls) != 24 {
		t.Fatalf("got %d lines, want 24", len(ls))
	}
	for y := 0; y < 22; y++ {
		if !strings.HasPrefix(ls[y], "~") {
			t.Errorf("line %d = %q, want a ~ filler", y, ls[y])
		}
		if y == 22/3 {
			if !strings.Contains(ls[y], "Tedit Editor -- version "+Version) {
				t.Errorf("line %d = %q, want the welcome banner", y, ls[y])
			}
			if len(ls[y]) > 78 {
				t.Errorf("welcome line is %d cells wide", len(ls[y]))
			}
			continue
		}
		if ls[y] != "~" {
			t.Errorf("line %d = %q, want ~", y, ls[y])
		}
	}
	if !strings.Contains(ls[22], "[No Name] - 0 lines") {
		t.Errorf("status bar = %q", ls[22])
	}
}

func TestRenderWelcomeCentered(t *testing.T) {
	b := NewBuffer(DefaultTabStop)
	v := NewViewport(3, 40)
	frame, _ := renderFrame(t, b, v, StatusMessage{}, time.Now())
	ls := frameLines(t, frame)
	welcome := "Tedit Editor -- version " + Version
	padding := (40 - len(welcome)) / 2
	want := "~" + strings.Repeat(" ", padding-1) + welcome
	if ls[1] != want {
		t.Fatalf("welcome line = %q, want %q", ls[1], want)
	}

	// Too narrow for the banner: it is cut to the width
	v = NewViewport(3, 10)
	frame, _ = renderFrame(t, b, v, StatusMessage{}, time.Now())
	if got := frameLines(t, frame)[1]; got != welcome[:10] {
		t.Fatalf("narrow welcome line = %q", got)
	}
}

func TestRenderNoWelcomeWithRows(t *testing.T) {
	b := newTestBuffer("only line")
	v := NewViewport(6, 40)
	frame, _ := renderFrame(t, b, v, StatusMessage{}, time.Now())
	if strings.Contains(frame, "Tedit Editor") {
		t.Fatal("welcome banner drawn for a buffer with rows")
	}
	ls := frameLines(t, frame)
	if ls[0] != "only line" {
		t.Errorf("line 0 = %q", ls[0])
	}
	for y := 1; y < 6; y++ {
		if ls[y] != "~" {
			t.Errorf("line %d = %q, want ~", y, ls[y])
		}
	}
}

func TestRenderHorizontalSlice(t *testing.T) {
	b := newTestBuffer("0123456789abcdef", "short", "\tx")
	v := NewViewport(3, 6)
	v.SetCursor(b, 12, 0)
	frame, _ := renderFrame(t, b, v, StatusMessage{}, time.Now())
	ls := frameLines(t, frame)
	// rx 12 in a 6 wide window: coloff = 7
	if ls[0] != "789abc" {
		t.Errorf("line 0 = %q, want %q", ls[0], "789abc")
	}
	if ls[1] != "" {
		t.Errorf("line 1 = %q, want it empty", ls[1])
	}
	if ls[2] != " x" {
		t.Errorf("line 2 = %q, want %q", ls[2], " x")
	}
	if !strings.Contains(frame, "\x1b[1;6H") {
		t.Errorf("cursor not placed at 1;6 in %q", frame)
	}
}

func TestRenderStatusBar(t *testing.T) {
	b := newTestBuffer("a", "b", "c")
	b.SetFilename("a-rather-long-file-name-for-the-status-bar.txt")
	b.InsertChar(0, 0, 'x')
	v := NewViewport(5, 60)
	v.SetCursor(b, 0, 1)
	frame, _ := renderFrame(t, b, v, StatusMessage{}, time.Now())
	status := frameLines(t, frame)[5]

	if !strings.HasPrefix(status, "\x1b[7m") || !strings.HasSuffix(status, "\x1b[m") {
		t.Fatalf("status bar is not inverted: %q", status)
	}
	text := strings.TrimSuffix(strings.TrimPrefix(status, inverseVideo), ansi.ResetStyle)
	if len(text) != 60 {
		t.Errorf("status bar is %d cells wide, want 60", len(text))
	}
	if !strings.HasPrefix(text, "a-rather-long-file-n - 3 lines (modified)") {
		t.Errorf("status bar = %q", text)
	}
	if !strings.HasSuffix(text, " 2/3") {
		t.Errorf("status bar = %q, want the row indicator on the right", text)
	}
}

func TestRenderStatusBarNarrow(t *testing.T) {
	b := newTestBuffer("a")
	b.SetFilename("file.txt")
	v := NewViewport(1, 8)
	frame, _ := renderFrame(t, b, v, StatusMessage{}, time.Now())
	status := frameLines(t, frame)[1]
	text := strings.TrimSuffix(strings.TrimPrefix(status, inverseVideo), ansi.ResetStyle)
	if text != "file.txt" {
		t.Fatalf("status bar = %q, want it cut to 8 cells", text)
	}
}

func TestRenderMessageExpires(t *testing.T) {
	b := newTestBuffer("a")
	v := NewViewport(2, 20)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	msg := StatusMessage{Text: "a message longer than the screen", Time: now}

	frame, _ := renderFrame(t, b, v, msg, now.Add(4*time.Second))
	ls := frameLines(t, frame)
	last := ls[len(ls)-1]
	if !strings.HasPrefix(last, "a message longer tha") {
		t.Fatalf("message bar = %q", last)
	}
	if strings.Contains(last, "a message longer than") {
		t.Fatalf("message was not cut to the width: %q", last)
	}

	frame, _ = renderFrame(t, b, v, msg, now.Add(5*time.Second))
	if strings.Contains(frame, "a message") {
		t.Fatal("message still drawn after it expired")
	}
}

func TestRenderReusesBuffer(t *testing.T) {
	b := newTestBuffer("first")
	v := NewViewport(2, 20)
	var w countingWriter
	r := NewRenderer(&w, time.Second)
	v.Scroll(b)
	if err := r.Render(b, v, StatusMessage{}, time.Now()); err != nil {
		t.Fatal(err)
	}
	first := w.Len()
	if err := r.Render(b, v, StatusMessage{}, time.Now()); err != nil {
		t.Fatal(err)
	}
	if w.writes != 2 || w.Len() != 2*first {
		t.Fatalf("second frame differs from the first: %d writes, %d bytes", w.writes, w.Len())
	}
}

func TestStatusMessageVisible(t *testing.T) {
	now := time.Now()
	if (StatusMessage{}).Visible(now, time.Minute) {
		t.Error("empty message should not be visible")
	}
	m := StatusMessage{Text: "hi", Time: now}
	if !m.Visible(now.Add(time.Second), 5*time.Second) {
		t.Error("fresh message should be visible")
	}
	if m.Visible(now.Add(5*time.Second), 5*time.Second) {
		t.Error("message should expire after the timeout")
	}
}

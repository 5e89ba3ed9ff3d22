package tedit

// Viewport holds the cursor and the scroll offsets of the visible window.
//
// cx and cy are buffer coordinates: cx is a raw column in row cy and cy may
// be NumRows, the virtual row after the last line. rx is the render column
// of cx and is recomputed by Scroll; it is never updated on its own.
type Viewport struct {
	cx, cy     int
	rx         int
	rowoff     int
	coloff     int
	screenrows int
	screencols int
}

// NewViewport returns a viewport with the cursor at the top left of a text
// area of rows by cols cells.
func NewViewport(rows, cols int) *Viewport {
	v := &Viewport{}
	v.resize(rows, cols)
	return v
}

// Cursor returns the cursor position in buffer coordinates.
func (v *Viewport) Cursor() (cx, cy int) { return v.cx, v.cy }

// Offsets returns the buffer row and render column shown at the top left.
func (v *Viewport) Offsets() (rowoff, coloff int) { return v.rowoff, v.coloff }

// Size returns the size of the text area in cells.
func (v *Viewport) Size() (rows, cols int) { return v.screenrows, v.screencols }

// ScreenCursor returns the 1-based terminal position of the cursor.
func (v *Viewport) ScreenCursor() (row, col int) {
	return v.cy - v.rowoff + 1, v.rx - v.coloff + 1
}

func (v *Viewport) resize(rows, cols int) {
	v.screenrows = max(rows, 1)
	v.screencols = max(cols, 1)
}

// SetSize changes the text area size and pulls the cursor back inside the
// buffer.
func (v *Viewport) SetSize(b *Buffer, rows, cols int) {
	v.resize(rows, cols)
	v.SetCursor(b, v.cx, v.cy)
}

// SetCursor moves the cursor, clamping it into the buffer.
func (v *Viewport) SetCursor(b *Buffer, cx, cy int) {
	v.cy = clamp(cy, 0, b.NumRows())
	v.cx = clamp(cx, 0, b.RowLen(v.cy))
}

// Scroll recomputes rx and moves the offsets just enough for the cursor to
// be visible. Calling it again without changes leaves everything as is.
func (v *Viewport) Scroll(b *Buffer) {
	v.rx = b.CxToRx(v.cy, v.cx)

	if v.cy < v.rowoff {
		v.rowoff = v.cy
	}
	if v.cy >= v.rowoff+v.screenrows {
		v.rowoff = v.cy - v.screenrows + 1
	}
	if v.rx < v.coloff {
		v.coloff = v.rx
	}
	if v.rx >= v.coloff+v.screencols {
		v.coloff = v.rx - v.screencols + 1
	}
}

// MoveCursor moves the cursor one step in the direction of an arrow key.
func (v *Viewport) MoveCursor(b *Buffer, key Key) {
	row := b.Row(v.cy)

	switch key {
	case KeyArrowLeft:
		if v.cx != 0 {
			v.cx--
		} else if v.cy > 0 {
			v.cy--
			v.cx = b.RowLen(v.cy)
		}
	case KeyArrowRight:
		if row != nil && v.cx < row.Len() {
			v.cx++
		} else if row != nil && v.cx == row.Len() {
			v.cy++
			v.cx = 0
		}
	case KeyArrowUp:
		if v.cy != 0 {
			v.cy--
		}
	case KeyArrowDown:
		if v.cy < b.NumRows() {
			v.cy++
		}
	}

	// Snap cx to the end of a shorter row
	if rowlen := b.RowLen(v.cy); v.cx > rowlen {
		v.cx = rowlen
	}
}

// Page moves the cursor a screen up or down. The cursor first jumps to the
// top or bottom edge of the window and then moves one screen from there.
func (v *Viewport) Page(b *Buffer, key Key) {
	dir := KeyArrowDown
	if key == KeyPageUp {
		v.cy = v.rowoff
		dir = KeyArrowUp
	} else {
		v.cy = min(v.rowoff+v.screenrows-1, b.NumRows())
	}
	for times := v.screenrows; times > 0; times-- {
		v.MoveCursor(b, dir)
	}
}

// Home moves the cursor to the start of the row.
func (v *Viewport) Home() {
	v.cx = 0
}

// End moves the cursor to the end of the row.
func (v *Viewport) End(b *Buffer) {
	if v.cy < b.NumRows() {
		v.cx = b.RowLen(v.cy)
	}
}

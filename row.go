package tedit

// DefaultTabStop is the tab width used when none is configured.
const DefaultTabStop = 8

// Row is a single line of the file being edited. chars holds the bytes as
// they are on disk, render holds what is drawn on screen.
type Row struct {
	chars  []byte
	render []byte
}

func newRow(s []byte, tabStop int) *Row {
	row := &Row{chars: append([]byte(nil), s...)}
	row.update(tabStop)
	return row
}

// Chars returns the raw bytes of the row. The slice must not be modified.
func (r *Row) Chars() []byte { return r.chars }

// Render returns the display form of the row. The slice must not be modified.
func (r *Row) Render() []byte { return r.render }

// Len returns the number of raw bytes in the row.
func (r *Row) Len() int { return len(r.chars) }

// update rebuilds render from chars. It is called after every change to
// chars; render is never patched in place.
func (r *Row) update(tabStop int) {
	tabs := 0
	for _, c := range r.chars {
		if c == '\t' {
			tabs++
		}
	}
	render := make([]byte, 0, len(r.chars)+tabs*(tabStop-1))
	for _, c := range r.chars {
		if c == '\t' {
			render = append(render, ' ')
			for len(render)%tabStop != 0 {
				render = append(render, ' ')
			}
		} else {
			render = append(render, c)
		}
	}
	r.render = render
}

// CxToRx maps a raw column to the render column it is drawn at. cx is
// clamped to [0, Len()].
func (r *Row) CxToRx(cx, tabStop int) int {
	cx = clamp(cx, 0, len(r.chars))
	rx := 0
	for _, c := range r.chars[:cx] {
		if c == '\t' {
			rx += (tabStop - 1) - (rx % tabStop)
		}
		rx++
	}
	return rx
}

func (r *Row) insertChar(at int, c byte, tabStop int) {
	at = clamp(at, 0, len(r.chars))
	r.chars = append(r.chars, 0)
	copy(r.chars[at+1:], r.chars[at:])
	r.chars[at] = c
	r.update(tabStop)
}

func (r *Row) deleteChar(at int, tabStop int) bool {
	if at < 0 || at >= len(r.chars) {
		return false
	}
	r.chars = append(r.chars[:at], r.chars[at+1:]...)
	r.update(tabStop)
	return true
}

func (r *Row) appendBytes(s []byte, tabStop int) {
	r.chars = append(r.chars, s...)
	r.update(tabStop)
}

func (r *Row) truncate(at int, tabStop int) {
	r.chars = r.chars[:clamp(at, 0, len(r.chars))]
	r.update(tabStop)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package tedit

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNoFilename is returned by Save when the buffer is not tied to a file.
var ErrNoFilename = errors.New("no filename")

// Buffer is the document: an ordered list of rows plus the file it was
// read from and a count of unsaved changes.
type Buffer struct {
	rows     []*Row
	dirty    int
	filename string
	tabStop  int
}

// NewBuffer returns an empty, unnamed buffer. A tabStop below 1 selects
// DefaultTabStop.
func NewBuffer(tabStop int) *Buffer {
	if tabStop < 1 {
		tabStop = DefaultTabStop
	}
	return &Buffer{tabStop: tabStop}
}

// NumRows returns the number of rows in the buffer.
func (b *Buffer) NumRows() int { return len(b.rows) }

// Row returns row at, or nil when at is out of range.
func (b *Buffer) Row(at int) *Row {
	if at < 0 || at >= len(b.rows) {
		return nil
	}
	return b.rows[at]
}

// RowLen returns the raw length of row at, 0 for rows that do not exist.
func (b *Buffer) RowLen(at int) int {
	if row := b.Row(at); row != nil {
		return row.Len()
	}
	return 0
}

// Dirty returns the number of changes since the last load or save.
func (b *Buffer) Dirty() int { return b.dirty }

// Modified reports whether there are unsaved changes.
func (b *Buffer) Modified() bool { return b.dirty > 0 }

// Filename returns the associated file, or "" if there is none.
func (b *Buffer) Filename() string { return b.filename }

// SetFilename ties the buffer to a file.
func (b *Buffer) SetFilename(filename string) { b.filename = filename }

// CxToRx maps a raw column in row at to a render column. The virtual row
// past the end of the buffer always maps to 0.
func (b *Buffer) CxToRx(at, cx int) int {
	row := b.Row(at)
	if row == nil {
		return 0
	}
	return row.CxToRx(cx, b.tabStop)
}

// ---------- Loading and saving ----------

// Load replaces the contents of the buffer. Trailing newlines and carriage
// returns are stripped from every line.
func (b *Buffer) Load(lines [][]byte) {
	b.rows = make([]*Row, 0, len(lines))
	for _, line := range lines {
		b.rows = append(b.rows, newRow(bytes.TrimRight(line, "\r\n"), b.tabStop))
	}
	b.dirty = 0
}

// ReadFrom loads newline separated text from r. A final newline ends the
// last line, it does not start an empty one.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	var (
		lines [][]byte
		total int64
	)
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		total += int64(len(line))
		if len(line) > 0 {
			lines = append(lines, line)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, err
		}
	}
	b.Load(lines)
	return total, nil
}

// Open loads a file into the buffer and ties the buffer to it. A file that
// does not exist yet gives an empty buffer that will be created on save.
func (b *Buffer) Open(filename string) error {
	b.filename = filename
	f, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			b.Load(nil)
			return nil
		}
		return err
	}
	defer f.Close()
	if _, err := b.ReadFrom(f); err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}
	return nil
}

// Bytes returns the buffer contents with every row terminated by "\n".
func (b *Buffer) Bytes() []byte {
	total := 0
	for _, row := range b.rows {
		total += row.Len() + 1
	}
	buf := make([]byte, 0, total)
	for _, row := range b.rows {
		buf = append(buf, row.chars...)
		buf = append(buf, '\n')
	}
	return buf
}

// Save writes the buffer to its file and returns the number of bytes
// written. On failure the dirty count is left as it was.
func (b *Buffer) Save() (int, error) {
	if b.filename == "" {
		return 0, ErrNoFilename
	}
	buf := b.Bytes()
	if err := os.WriteFile(b.filename, buf, 0644); err != nil {
		return 0, err
	}
	b.dirty = 0
	return len(buf), nil
}

// ---------- Row operations ----------

func (b *Buffer) insertRow(at int, s []byte) bool {
	if at < 0 || at > len(b.rows) {
		return false
	}
	row := newRow(s, b.tabStop)
	b.rows = append(b.rows, nil)
	copy(b.rows[at+1:], b.rows[at:])
	b.rows[at] = row
	return true
}

// InsertRow inserts a new row holding s before row at. at may equal
// NumRows to append.
func (b *Buffer) InsertRow(at int, s []byte) {
	if b.insertRow(at, s) {
		b.dirty++
	}
}

// InsertChar inserts c into row at column col. col is clamped to the row.
// Inserting on the virtual row past the end first appends an empty row;
// the whole operation counts as one change.
func (b *Buffer) InsertChar(at, col int, c byte) {
	if at == len(b.rows) {
		b.insertRow(at, nil)
	}
	row := b.Row(at)
	if row == nil {
		return
	}
	row.insertChar(col, c, b.tabStop)
	b.dirty++
}

// DeleteChar removes the byte at column col of row at.
func (b *Buffer) DeleteChar(at, col int) {
	row := b.Row(at)
	if row == nil {
		return
	}
	if row.deleteChar(col, b.tabStop) {
		b.dirty++
	}
}

// SplitRow breaks row at in two at column col, the tail becoming a new row
// below it. On the virtual row past the end an empty row is appended.
func (b *Buffer) SplitRow(at, col int) {
	if at == len(b.rows) {
		b.InsertRow(at, nil)
		return
	}
	row := b.Row(at)
	if row == nil {
		return
	}
	col = clamp(col, 0, row.Len())
	if col == 0 {
		b.InsertRow(at, nil)
		return
	}
	b.insertRow(at+1, row.chars[col:])
	row.truncate(col, b.tabStop)
	b.dirty++
}

// JoinRow appends row at to the row above it and removes it. Row 0 has
// nothing above it and is left alone.
func (b *Buffer) JoinRow(at int) {
	if at <= 0 || at >= len(b.rows) {
		return
	}
	b.rows[at-1].appendBytes(b.rows[at].chars, b.tabStop)
	b.rows = append(b.rows[:at], b.rows[at+1:]...)
	b.dirty++
}

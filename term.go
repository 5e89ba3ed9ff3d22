package tedit

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrNotTerminal is returned by OpenTerminal when stdin is not a tty.
var ErrNotTerminal = errors.New("not a tty")

// maxReplyTimeouts bounds the wait for a cursor position reply to about a
// second.
const maxReplyTimeouts = 10

// Terminal is the controlling terminal: raw mode, timed byte reads,
// window size and output.
type Terminal struct {
	in, out     int
	origTermios unix.Termios
	rawmode     bool
}

// OpenTerminal wraps the given input and output files. in must be a
// terminal.
func OpenTerminal(in, out *os.File) (*Terminal, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	return &Terminal{in: fd, out: int(out.Fd())}, nil
}

// EnableRawMode switches off line buffering, echo, signal keys and output
// processing. Reads return after one byte or after 100ms with nothing.
func (t *Terminal) EnableRawMode() error {
	if t.rawmode {
		return nil
	}
	orig, err := unix.IoctlGetTermios(t.in, ioctlReadTermios)
	if err != nil {
		return fmt.Errorf("tcgetattr: %w", err)
	}
	t.origTermios = *orig

	raw := *orig
	// Input modes
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	// Output modes
	raw.Oflag &^= unix.OPOST
	// Control modes
	raw.Cflag |= unix.CS8
	// Local modes
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	// Control chars
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 1

	if err := unix.IoctlSetTermios(t.in, ioctlWriteTermios, &raw); err != nil {
		return fmt.Errorf("tcsetattr: %w", err)
	}
	t.rawmode = true
	return nil
}

// DisableRawMode restores the terminal to its original mode.
func (t *Terminal) DisableRawMode() error {
	if !t.rawmode {
		return nil
	}
	if err := unix.IoctlSetTermios(t.in, ioctlWriteTermios, &t.origTermios); err != nil {
		return fmt.Errorf("tcsetattr: %w", err)
	}
	t.rawmode = false
	return nil
}

// ReadByte reads a single byte. It returns ErrTimeout when the read window
// passed without input.
func (t *Terminal) ReadByte() (byte, error) {
	var buf [1]byte
	n, err := unix.Read(t.in, buf[:])
	if n == 1 {
		return buf[0], nil
	}
	if err == nil || err == unix.EAGAIN || err == unix.EINTR {
		return 0, ErrTimeout
	}
	return 0, fmt.Errorf("read: %w", err)
}

// Write sends p to the terminal.
func (t *Terminal) Write(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		n, err := unix.Write(t.out, p[written:])
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return written, fmt.Errorf("write: %w", err)
		}
		written += n
	}
	return written, nil
}

// WindowSize returns the terminal size in cells. When the size ioctl is
// unavailable the cursor is pushed to the bottom right corner and its
// position is queried, which needs raw mode.
func (t *Terminal) WindowSize() (rows, cols int, err error) {
	ws, err := unix.IoctlGetWinsize(t.out, unix.TIOCGWINSZ)
	if err == nil && ws.Col != 0 {
		return int(ws.Row), int(ws.Col), nil
	}
	// Push the cursor to the bottom right corner, the terminal stops it there
	if _, err := t.Write([]byte(ansi.CursorForward(999) + ansi.CursorDown(999))); err != nil {
		return 0, 0, err
	}
	return t.cursorPosition()
}

func (t *Terminal) cursorPosition() (rows, cols int, err error) {
	if _, err := t.Write([]byte(ansi.RequestCursorPositionReport)); err != nil {
		return 0, 0, err
	}
	var buf [32]byte
	i, timeouts := 0, 0
	for i < len(buf)-1 {
		c, err := t.ReadByte()
		if errors.Is(err, ErrTimeout) && timeouts < maxReplyTimeouts {
			timeouts++
			continue
		}
		if err != nil || c == 'R' {
			break
		}
		buf[i] = c
		i++
	}
	if buf[0] != byte(KeyEsc) || buf[1] != '[' {
		return 0, 0, fmt.Errorf("failed to parse cursor position")
	}
	if _, err := fmt.Sscanf(string(buf[2:i]), "%d;%d", &rows, &cols); err != nil {
		return 0, 0, fmt.Errorf("failed to parse cursor position: %w", err)
	}
	return rows, cols, nil
}

package tedit

import (
	"errors"
	"io"
)

// Key is a decoded keypress. Values below 256 are the raw byte that was
// read, named keys start at 1000.
type Key int

// Key constants
const (
	KeyNone      Key = -1
	keyTab       Key = 9
	keyEnter     Key = 13
	KeyEsc       Key = 27
	keyBackspace Key = 127
)

// Named keys
const (
	KeyArrowLeft Key = iota + 1000
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
)

// ErrTimeout is returned by a byte source when the read window elapsed
// without any input.
var ErrTimeout = errors.New("read timed out")

// Ctrl returns the control byte for a letter, the same as pressing Ctrl
// together with it.
func Ctrl(k byte) Key {
	return Key(k & 0x1f)
}

// KeyDecoder turns a stream of raw terminal bytes into keys.
type KeyDecoder struct {
	r io.ByteReader
}

// NewKeyDecoder returns a decoder reading from r. r must return ErrTimeout
// when no byte arrived within its read window.
func NewKeyDecoder(r io.ByteReader) *KeyDecoder {
	return &KeyDecoder{r: r}
}

// ReadKey reads the next key. It returns KeyNone and a nil error when the
// read window elapsed with no input, so the caller can loop.
func (d *KeyDecoder) ReadKey() (Key, error) {
	c, err := d.r.ReadByte()
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return KeyNone, nil
		}
		return KeyNone, err
	}
	if Key(c) != KeyEsc {
		return Key(c), nil
	}

	var seq [3]byte
	for i := 0; i < 2; i++ {
		if seq[i], err = d.r.ReadByte(); err != nil {
			return d.escOrFail(err)
		}
	}

	switch seq[0] {
	case '[':
		if seq[1] >= '0' && seq[1] <= '9' {
			if seq[2], err = d.r.ReadByte(); err != nil {
				return d.escOrFail(err)
			}
			if seq[2] == '~' {
				// 1/7 and 4/8 differ between terminal emulators
				switch seq[1] {
				case '1', '7':
					return KeyHome, nil
				case '3':
					return KeyDelete, nil
				case '4', '8':
					return KeyEnd, nil
				case '5':
					return KeyPageUp, nil
				case '6':
					return KeyPageDown, nil
				}
			}
			return KeyEsc, nil
		}
		switch seq[1] {
		case 'A':
			return KeyArrowUp, nil
		case 'B':
			return KeyArrowDown, nil
		case 'C':
			return KeyArrowRight, nil
		case 'D':
			return KeyArrowLeft, nil
		case 'H':
			return KeyHome, nil
		case 'F':
			return KeyEnd, nil
		}
	case 'O':
		switch seq[1] {
		case 'H':
			return KeyHome, nil
		case 'F':
			return KeyEnd, nil
		}
	}
	return KeyEsc, nil
}

// escOrFail maps a timeout inside an escape sequence to a lone Esc press.
func (d *KeyDecoder) escOrFail(err error) (Key, error) {
	if errors.Is(err, ErrTimeout) {
		return KeyEsc, nil
	}
	return KeyNone, err
}

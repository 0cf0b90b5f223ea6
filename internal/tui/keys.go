// Package tui runs the interactive questionnaire on a raw-mode
// terminal: it decodes keystrokes, paints the question list with its
// suggestion panes, and drives the session and the reconfiguration
// engine until the user finishes or quits.
package tui

import (
	"bufio"
	"io"

	"github.com/harrison/labeller/internal/field"
)

// control bytes
const (
	byteCtrlC     = 0x03
	byteTab       = 0x09
	byteEnter     = 0x0d
	byteNewline   = 0x0a
	byteEscape    = 0x1b
	byteBackspace = 0x7f
)

// readKey decodes one keystroke from the reader. quit is set for
// Ctrl-C; io errors (including EOF) are returned as-is.
func readKey(r *bufio.Reader) (key field.Key, quit bool, err error) {
	b, err := r.ReadByte()
	if err != nil {
		return field.Key{}, false, err
	}

	switch b {
	case byteCtrlC:
		return field.Key{}, true, nil
	case byteEnter, byteNewline:
		return field.Key{Type: field.KeyEnter}, false, nil
	case byteTab:
		return field.Key{Type: field.KeyTab}, false, nil
	case byteBackspace, 0x08:
		return field.Key{Type: field.KeyBackspace}, false, nil
	case byteEscape:
		return readEscape(r)
	}

	if b >= 0x20 && b < byteBackspace {
		return field.Rune(rune(b)), false, nil
	}
	// Unknown control byte: swallow it.
	return field.Key{}, false, nil
}

// readEscape decodes the tail of an ESC sequence. A bare escape (no
// buffered bytes follow) is ignored rather than treated as input.
func readEscape(r *bufio.Reader) (field.Key, bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return field.Key{}, false, nil
		}
		return field.Key{}, false, err
	}
	if b != '[' && b != 'O' {
		return field.Key{}, false, nil
	}

	b, err = r.ReadByte()
	if err != nil {
		return field.Key{}, false, err
	}
	switch b {
	case 'A':
		return field.Key{Type: field.KeyUp}, false, nil
	case 'B':
		return field.Key{Type: field.KeyDown}, false, nil
	case 'C':
		return field.Key{Type: field.KeyRight}, false, nil
	case 'D':
		return field.Key{Type: field.KeyLeft}, false, nil
	case 'H':
		return field.Key{Type: field.KeyHome}, false, nil
	case 'F':
		return field.Key{Type: field.KeyEnd}, false, nil
	case 'Z':
		return field.Key{Type: field.KeyShiftTab}, false, nil
	case '1', '3', '4', '7', '8':
		// vt sequences: ESC [ <n> ~
		tail, err := r.ReadByte()
		if err != nil {
			return field.Key{}, false, err
		}
		if tail != '~' {
			return field.Key{}, false, nil
		}
		switch b {
		case '1', '7':
			return field.Key{Type: field.KeyHome}, false, nil
		case '4', '8':
			return field.Key{Type: field.KeyEnd}, false, nil
		case '3':
			return field.Key{Type: field.KeyDelete}, false, nil
		}
	}
	return field.Key{}, false, nil
}

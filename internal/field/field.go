// Package field implements the per-question-type input controllers of
// the questionnaire: free text with typed validation, the masked
// date/time composite, batched vertical single-choice, and horizontal
// single-choice. A controller owns the cursor/edit state of exactly one
// question and translates keystrokes into navigation signals.
package field

import (
	"fmt"

	"github.com/harrison/labeller/internal/question"
)

// KeyType enumerates the keystrokes the controllers distinguish.
type KeyType int

const (
	// KeyNone is an ignored keystroke, e.g. an unrecognised escape
	// sequence.
	KeyNone KeyType = iota
	KeyRune
	KeyEnter
	KeyTab
	KeyShiftTab
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyBackspace
	KeyDelete
)

// Key is one decoded keystroke. Rune is set only for KeyRune.
type Key struct {
	Type KeyType
	Rune rune
}

// Rune wraps r as a printable keystroke.
func Rune(r rune) Key { return Key{Type: KeyRune, Rune: r} }

// Signal is a controller's verdict on a keystroke: how the session
// should move, if at all.
type Signal int

const (
	// SignalNone means the keystroke was consumed (or rejected) without
	// navigation.
	SignalNone Signal = iota
	// SignalAdvance moves focus to the next entry, wrapping to the first.
	SignalAdvance
	// SignalRetreat moves focus to the previous entry, wrapping to the last.
	SignalRetreat
	// SignalReconfigure hands control to the reconfiguration engine.
	SignalReconfigure
	// SignalTerminate ends the session, provided the terminator's answer
	// is truthy.
	SignalTerminate
)

func (s Signal) String() string {
	switch s {
	case SignalNone:
		return "none"
	case SignalAdvance:
		return "advance"
	case SignalRetreat:
		return "retreat"
	case SignalReconfigure:
		return "reconfigure"
	case SignalTerminate:
		return "terminate"
	default:
		return fmt.Sprintf("signal(%d)", int(s))
	}
}

// Controller is the capability set every field kind implements.
// Controllers are created when their descriptor enters a session and
// discarded when it leaves; any answer that must survive a rebuild is
// captured into a snapshot before the controller is dropped.
type Controller interface {
	// Descriptor returns the immutable question this controller edits.
	Descriptor() *question.Descriptor
	// HasAnswer reports whether Answer would currently succeed.
	HasAnswer() bool
	// Answer produces the typed answer, or an *InvalidAnswerError when
	// the field is empty-and-required or unparseable.
	Answer() (question.Value, error)
	// SetAnswer programmatically fills the field; it fails with an
	// *InvalidAnswerError when the value's type or domain does not match
	// the field kind.
	SetAnswer(question.Value) error
	// HandleKey processes one keystroke and returns the navigation
	// signal it implies.
	HandleKey(Key) Signal
	// RawText is the current edit buffer as displayed, used for the
	// diagnostic results log.
	RawText() string
	// Errored reports whether the field is currently highlighted as
	// erroneous (required-but-empty on an attempted advance).
	Errored() bool
}

// InvalidAnswerError reports that a controller could not produce or
// accept a value. It is recovered locally by redisplaying the field;
// it never propagates to the session.
type InvalidAnswerError struct {
	Question string
	Reason   string
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("invalid answer for %q: %s", e.Question, e.Reason)
}

func invalidAnswer(d *question.Descriptor, format string, args ...any) *InvalidAnswerError {
	return &InvalidAnswerError{
		Question: d.EffectiveID(),
		Reason:   fmt.Sprintf(format, args...),
	}
}

// New builds the controller matching the descriptor's kind. The shared
// history store backs text-field autocompletion; choice and date kinds
// ignore it.
func New(d *question.Descriptor, history *question.HistoryStore) (Controller, error) {
	switch d.Kind {
	case question.KindDate:
		return NewDateController(d), nil
	case question.KindText:
		return NewTextController(d, history), nil
	case question.KindVerticalChoice:
		return NewVerticalController(d)
	case question.KindHorizontalChoice:
		return NewHorizontalController(d)
	default:
		return nil, fmt.Errorf("unknown question kind %v for %q", d.Kind, d.EffectiveID())
	}
}

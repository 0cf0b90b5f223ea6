package field

import (
	"strconv"
	"strings"

	"github.com/harrison/labeller/internal/question"
)

// BatchSize is the number of choices shown per page of a vertical
// single-choice field.
const BatchSize = 15

// VerticalController edits a single-choice question whose options are
// shown in fixed-size pages. The user types the numeric index of a
// choice; the index commits automatically as soon as no further digit
// could extend it to a different valid in-range index. Left/right
// paginate between batches and clear the pending digits.
type VerticalController struct {
	desc *question.Descriptor

	batch   int
	buf     string
	errored bool
}

// NewVerticalController validates that the descriptor carries at least
// one choice.
func NewVerticalController(d *question.Descriptor) (*VerticalController, error) {
	if len(d.Choices) == 0 {
		return nil, invalidAnswer(d, "vertical choice question has no choices")
	}
	return &VerticalController{desc: d}, nil
}

// Descriptor implements Controller.
func (c *VerticalController) Descriptor() *question.Descriptor { return c.desc }

// RawText implements Controller.
func (c *VerticalController) RawText() string { return c.buf }

// Errored implements Controller.
func (c *VerticalController) Errored() bool { return c.errored }

// Batch returns the current page index.
func (c *VerticalController) Batch() int { return c.batch }

// BatchChoices returns the choices visible on the current page together
// with the global index of the first one.
func (c *VerticalController) BatchChoices() (start int, choices []string) {
	start = c.batch * BatchSize
	end := start + BatchSize
	if end > len(c.desc.Choices) {
		end = len(c.desc.Choices)
	}
	return start, c.desc.Choices[start:end]
}

func (c *VerticalController) maxBatch() int {
	return (len(c.desc.Choices) - 1) / BatchSize
}

// HasAnswer implements Controller.
func (c *VerticalController) HasAnswer() bool {
	_, err := c.Answer()
	return err == nil
}

// Answer returns the choice text at the typed index.
func (c *VerticalController) Answer() (question.Value, error) {
	if c.buf == "" {
		if c.desc.Required {
			return question.Value{}, invalidAnswer(c.desc, "answer is required but no choice is selected")
		}
		return question.String(""), nil
	}
	idx, err := strconv.Atoi(c.buf)
	if err != nil || idx < 0 || idx >= len(c.desc.Choices) {
		return question.Value{}, invalidAnswer(c.desc, "index %q is out of range", c.buf)
	}
	return question.String(c.desc.Choices[idx]), nil
}

// SetAnswer accepts the choice text or its integer index.
func (c *VerticalController) SetAnswer(v question.Value) error {
	var idx int
	switch v.Kind {
	case question.ValueString:
		idx = -1
		for i, choice := range c.desc.Choices {
			if choice == v.Str {
				idx = i
				break
			}
		}
		if idx < 0 {
			return invalidAnswer(c.desc, "%q is not a valid choice", v.Str)
		}
	case question.ValueInt:
		idx = int(v.Int)
		if idx < 0 || idx >= len(c.desc.Choices) {
			return invalidAnswer(c.desc, "index %d is out of range", idx)
		}
	default:
		return invalidAnswer(c.desc, "expected choice text or index, got kind %v", v.Kind)
	}
	c.buf = strconv.Itoa(idx)
	c.batch = idx / BatchSize
	c.errored = false
	return nil
}

// RefreshChoices swaps in a recomputed choice list, keeping the current
// answer when it still exists in the new list and clearing it
// otherwise. Used by the reconfiguration engine's address list refresh.
func (c *VerticalController) RefreshChoices(choices []string) {
	var kept string
	if v, err := c.Answer(); err == nil && !v.IsZero() {
		kept = v.Str
	}

	c.desc.Choices = append([]string(nil), choices...)
	c.buf = ""
	if c.batch > c.maxBatch() {
		c.batch = c.maxBatch()
	}

	if kept != "" {
		// Best effort: the previous selection survives only if present.
		_ = c.SetAnswer(question.String(kept))
	}
}

// HandleKey implements Controller.
func (c *VerticalController) HandleKey(k Key) Signal {
	switch k.Type {
	case KeyEnter, KeyDown:
		return c.tryCommit()
	case KeyUp, KeyShiftTab:
		if c.desc.Required && c.buf == "" {
			c.errored = true
		}
		return SignalRetreat
	case KeyLeft:
		if c.batch > 0 {
			c.batch--
			c.buf = ""
		}
		return SignalNone
	case KeyRight:
		if c.batch < c.maxBatch() {
			c.batch++
			c.buf = ""
		}
		return SignalNone
	case KeyHome:
		if c.buf == "" {
			return SignalRetreat
		}
		return SignalNone
	case KeyEnd:
		return c.tryCommit()
	case KeyBackspace, KeyDelete:
		if c.buf != "" {
			c.buf = c.buf[:len(c.buf)-1]
		}
		return SignalNone
	case KeyRune:
		if k.Rune < '0' || k.Rune > '9' {
			return SignalNone
		}
		return c.typeDigit(k.Rune)
	default:
		return SignalNone
	}
}

// typeDigit appends a digit when the resulting number is a valid
// in-range index or the prefix of one, then auto-commits once no
// appended digit could still reach a different valid index.
func (c *VerticalController) typeDigit(r rune) Signal {
	candidate := c.buf + string(r)
	value, err := strconv.Atoi(candidate)
	if err != nil {
		return SignalNone
	}

	start, choices := c.BatchChoices()
	end := start + len(choices)
	if !indexReachable(candidate, value, start, end) {
		return SignalNone
	}
	c.buf = candidate
	c.errored = false

	if value >= start && value < end && !extendable(candidate, value, start, end) {
		return c.commitSignal()
	}
	return SignalNone
}

// indexReachable reports whether candidate is a valid in-range index or
// a string prefix of one.
func indexReachable(candidate string, value, start, end int) bool {
	for idx := start; idx < end; idx++ {
		if idx == value || strings.HasPrefix(strconv.Itoa(idx), candidate) {
			return true
		}
	}
	return false
}

// extendable reports whether some other valid in-range index has
// candidate as a proper string prefix, i.e. whether waiting for more
// digits could still change the selection.
func extendable(candidate string, value, start, end int) bool {
	for idx := start; idx < end; idx++ {
		if idx != value && strings.HasPrefix(strconv.Itoa(idx), candidate) {
			return true
		}
	}
	return false
}

// tryCommit validates the pending digits as a full-list index and, on
// success, emits the navigation signal the descriptor dictates.
func (c *VerticalController) tryCommit() Signal {
	if c.buf == "" {
		if c.desc.Required {
			c.errored = true
			return SignalNone
		}
		return SignalAdvance
	}
	idx, err := strconv.Atoi(c.buf)
	if err != nil || idx < 0 || idx >= len(c.desc.Choices) {
		c.errored = true
		return SignalNone
	}
	c.errored = false
	return c.commitSignal()
}

func (c *VerticalController) commitSignal() Signal {
	if c.desc.Reconfigurer {
		return SignalReconfigure
	}
	if c.desc.Terminator {
		return SignalTerminate
	}
	return SignalAdvance
}

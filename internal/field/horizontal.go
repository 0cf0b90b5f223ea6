package field

import (
	"strings"

	"github.com/harrison/labeller/internal/question"
)

// HorizontalController edits a single-choice question rendered as a row
// of exclusive toggles. Tab and shift-tab move focus between the
// choices; wrapping past the boundary advances or retreats to the
// neighbouring question. Enter commits the focused choice and raises
// the terminate or reconfigure signal when the descriptor asks for it.
type HorizontalController struct {
	desc *question.Descriptor

	focus    int
	selected int
	errored  bool
}

// NewHorizontalController validates that the descriptor carries at
// least one choice.
func NewHorizontalController(d *question.Descriptor) (*HorizontalController, error) {
	if len(d.Choices) == 0 {
		return nil, invalidAnswer(d, "horizontal choice question has no choices")
	}
	return &HorizontalController{desc: d, selected: -1}, nil
}

// Descriptor implements Controller.
func (c *HorizontalController) Descriptor() *question.Descriptor { return c.desc }

// Errored implements Controller.
func (c *HorizontalController) Errored() bool { return c.errored }

// Focus returns the index of the currently focused choice.
func (c *HorizontalController) Focus() int { return c.focus }

// Selected returns the committed choice index, or -1.
func (c *HorizontalController) Selected() int { return c.selected }

// RawText implements Controller.
func (c *HorizontalController) RawText() string {
	if c.selected < 0 {
		return ""
	}
	return c.desc.Choices[c.selected]
}

// HasAnswer implements Controller.
func (c *HorizontalController) HasAnswer() bool { return c.selected >= 0 }

// Answer returns the committed choice text.
func (c *HorizontalController) Answer() (question.Value, error) {
	if c.selected < 0 {
		if c.desc.Required {
			return question.Value{}, invalidAnswer(c.desc, "no answer selected")
		}
		return question.String(""), nil
	}
	return question.String(c.desc.Choices[c.selected]), nil
}

// SetAnswer selects the given choice text.
func (c *HorizontalController) SetAnswer(v question.Value) error {
	if v.Kind != question.ValueString {
		return invalidAnswer(c.desc, "expected choice text, got kind %v", v.Kind)
	}
	for i, choice := range c.desc.Choices {
		if choice == v.Str {
			c.selected = i
			c.focus = i
			c.errored = false
			return nil
		}
	}
	return invalidAnswer(c.desc, "%q is not a valid choice", v.Str)
}

// Truthy reports whether the committed answer counts as affirmative for
// termination purposes: anything except "", "n" and "no".
func (c *HorizontalController) Truthy() bool {
	if c.selected < 0 {
		return false
	}
	answer := strings.ToLower(c.desc.Choices[c.selected])
	return answer != "" && answer != "n" && answer != "no"
}

// HandleKey implements Controller.
func (c *HorizontalController) HandleKey(k Key) Signal {
	last := len(c.desc.Choices) - 1
	switch k.Type {
	case KeyEnter:
		c.selected = c.focus
		c.errored = false
		if c.desc.Terminator {
			return SignalTerminate
		}
		if c.desc.Reconfigurer {
			return SignalReconfigure
		}
		return SignalAdvance
	case KeyTab:
		if c.focus == last {
			return c.tryAdvance()
		}
		c.focus++
		return SignalNone
	case KeyShiftTab:
		if c.focus == 0 {
			return SignalRetreat
		}
		c.focus--
		return SignalNone
	case KeyRight:
		if c.focus == last {
			return c.tryAdvance()
		}
		c.focus++
		return SignalNone
	case KeyLeft:
		if c.focus == 0 {
			return SignalRetreat
		}
		c.focus--
		return SignalNone
	case KeyHome:
		if c.focus == 0 {
			return SignalRetreat
		}
		c.focus = 0
		return SignalNone
	case KeyEnd:
		if c.focus == last {
			return c.tryAdvance()
		}
		c.focus = last
		return SignalNone
	case KeyUp:
		return SignalRetreat
	case KeyDown:
		return c.tryAdvance()
	default:
		return SignalNone
	}
}

func (c *HorizontalController) tryAdvance() Signal {
	if !c.HasAnswer() && c.desc.Required {
		c.errored = true
		return SignalNone
	}
	c.errored = false
	return SignalAdvance
}

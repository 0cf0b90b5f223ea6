package field

import (
	"strconv"
	"strings"

	"github.com/harrison/labeller/internal/question"
)

// TextController edits a free-text field restricted to an input
// character class. It keeps a live autocomplete set over the AI and
// history suggestion lists plus the shared per-question history store,
// and auto-replaces the buffer when a wildcard narrows the candidates
// to exactly one.
type TextController struct {
	desc    *question.Descriptor
	history *question.HistoryStore

	buf     []rune
	cursor  int
	errored bool
}

// NewTextController creates the controller, pre-filling the descriptor's
// default text when present.
func NewTextController(d *question.Descriptor, history *question.HistoryStore) *TextController {
	c := &TextController{desc: d, history: history}
	if d.Default != "" {
		c.buf = []rune(d.Default)
		c.cursor = len(c.buf)
	}
	return c
}

// Descriptor implements Controller.
func (c *TextController) Descriptor() *question.Descriptor { return c.desc }

// RawText implements Controller.
func (c *TextController) RawText() string { return string(c.buf) }

// Errored implements Controller.
func (c *TextController) Errored() bool { return c.errored }

// Cursor returns the cursor position within the buffer, in runes.
func (c *TextController) Cursor() int { return c.cursor }

// HasAnswer implements Controller.
func (c *TextController) HasAnswer() bool {
	_, err := c.Answer()
	return err == nil
}

// Answer converts the buffer per the input class: string for the letter
// classes, float64 for Float, int64 for Integer. Empty-and-required or
// unparseable input yields an *InvalidAnswerError.
func (c *TextController) Answer() (question.Value, error) {
	text := strings.TrimSpace(string(c.buf))

	if text == "" {
		if c.desc.Required {
			return question.Value{}, invalidAnswer(c.desc, "answer is required but input is empty")
		}
		return question.String(""), nil
	}

	switch c.desc.Input {
	case question.Float:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return question.Value{}, invalidAnswer(c.desc, "cannot parse %q as float", text)
		}
		return question.FloatVal(f), nil
	case question.Integer:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return question.Value{}, invalidAnswer(c.desc, "cannot parse %q as integer", text)
		}
		return question.IntVal(i), nil
	default:
		return question.String(text), nil
	}
}

// SetAnswer fills the buffer from a value of the matching type and
// records it in the history store.
func (c *TextController) SetAnswer(v question.Value) error {
	var text string
	switch c.desc.Input {
	case question.Float:
		switch v.Kind {
		case question.ValueFloat:
			text = strconv.FormatFloat(v.Float, 'f', -1, 64)
		case question.ValueInt:
			text = strconv.FormatInt(v.Int, 10)
		default:
			return invalidAnswer(c.desc, "expected float value, got %v", v.Kind)
		}
	case question.Integer:
		if v.Kind != question.ValueInt {
			return invalidAnswer(c.desc, "expected integer value, got %v", v.Kind)
		}
		text = strconv.FormatInt(v.Int, 10)
	default:
		if v.Kind != question.ValueString {
			return invalidAnswer(c.desc, "expected string value, got %v", v.Kind)
		}
		for _, r := range v.Str {
			if !c.desc.Input.Accepts(r) {
				return invalidAnswer(c.desc, "character %q not allowed", r)
			}
		}
		text = v.Str
	}

	c.buf = []rune(text)
	c.cursor = len(c.buf)
	c.errored = false
	c.recordHistory()
	return nil
}

// HandleKey implements Controller.
func (c *TextController) HandleKey(k Key) Signal {
	switch k.Type {
	case KeyEnter, KeyDown:
		return c.tryAdvance()
	case KeyUp, KeyShiftTab:
		return c.retreat()
	case KeyTab:
		// A unique prefix match accepts the suggestion and advances.
		matches := question.MatchPrefix(c.suggestionPool(), string(c.buf), c.cursor)
		if len(matches) == 1 {
			c.replaceBuffer(matches[0])
			return c.tryAdvance()
		}
		return SignalNone
	case KeyHome:
		if c.cursor == 0 {
			return c.retreat()
		}
		c.cursor = 0
		return SignalNone
	case KeyEnd:
		if c.cursor == len(c.buf) {
			return c.tryAdvance()
		}
		c.cursor = len(c.buf)
		return SignalNone
	case KeyLeft:
		if c.cursor > 0 {
			c.cursor--
		}
		return SignalNone
	case KeyRight:
		if c.cursor < len(c.buf) {
			c.cursor++
		}
		return SignalNone
	case KeyBackspace:
		if c.cursor > 0 {
			c.buf = append(c.buf[:c.cursor-1], c.buf[c.cursor:]...)
			c.cursor--
		}
		return SignalNone
	case KeyDelete:
		if c.cursor < len(c.buf) {
			c.buf = append(c.buf[:c.cursor], c.buf[c.cursor+1:]...)
		}
		return SignalNone
	case KeyRune:
		if !c.desc.Input.Accepts(k.Rune) {
			return SignalNone
		}
		c.buf = append(c.buf[:c.cursor], append([]rune{k.Rune}, c.buf[c.cursor:]...)...)
		c.cursor++
		c.applyWildcard()
		return SignalNone
	default:
		return SignalNone
	}
}

// AISuggestions returns the AI suggestions currently matching the
// buffer, filtered with wildcard support.
func (c *TextController) AISuggestions() []string {
	return question.FilterWildcard(string(c.buf), c.desc.AITexts())
}

// HistorySuggestions returns the matching history suggestions: the
// descriptor's static list merged with the shared store's entries for
// this question.
func (c *TextController) HistorySuggestions() []string {
	pool := append(c.desc.HistoryTexts(), c.history.Get(c.desc.EffectiveID())...)
	return question.FilterWildcard(string(c.buf), pool)
}

// suggestionPool is the union used for tab completion: AI suggestions,
// static history suggestions, and the shared store.
func (c *TextController) suggestionPool() []string {
	pool := append(c.desc.AITexts(), c.desc.HistoryTexts()...)
	return append(pool, c.history.Get(c.desc.EffectiveID())...)
}

// applyWildcard auto-replaces the buffer when it contains '*' and
// exactly one candidate remains after filtering, AI suggestions first.
func (c *TextController) applyWildcard() {
	if !strings.ContainsRune(string(c.buf), '*') {
		c.errored = false
		return
	}
	ai := c.AISuggestions()
	if len(ai) == 1 && !question.IsNoMatch(ai) {
		c.replaceBuffer(ai[0])
		return
	}
	hist := c.HistorySuggestions()
	if len(hist) == 1 && !question.IsNoMatch(hist) {
		c.replaceBuffer(hist[0])
	}
}

func (c *TextController) replaceBuffer(text string) {
	c.buf = []rune(text)
	c.cursor = len(c.buf)
}

// tryAdvance gates advancing on the required-ness contract: a
// required-but-empty field blocks with an error highlight, an
// optional-and-empty field passes through.
func (c *TextController) tryAdvance() Signal {
	if strings.TrimSpace(string(c.buf)) == "" {
		if c.desc.Required {
			c.errored = true
			return SignalNone
		}
		return SignalAdvance
	}
	if !c.HasAnswer() {
		c.errored = true
		return SignalNone
	}
	c.errored = false
	c.recordHistory()
	if c.desc.Reconfigurer {
		return SignalReconfigure
	}
	return SignalAdvance
}

func (c *TextController) retreat() Signal {
	// Retreating is always allowed; the error highlight is kept if the
	// field is required and empty so the user sees it on the way back.
	if c.desc.Required && strings.TrimSpace(string(c.buf)) == "" {
		c.errored = true
	}
	return SignalRetreat
}

func (c *TextController) recordHistory() {
	text := strings.TrimSpace(string(c.buf))
	if text != "" {
		c.history.Add(c.desc.EffectiveID(), text)
	}
}

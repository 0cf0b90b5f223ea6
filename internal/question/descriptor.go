// Package question defines the immutable descriptions of questionnaire
// fields, their typed answers, and the suggestion matching shared by all
// field kinds.
//
// A Descriptor says what a question is (prompt, expected answer type,
// required-ness, suggestion lists); it carries no runtime edit state.
// Runtime state lives in the field controllers (internal/field).
package question

import "fmt"

// Kind identifies the field type a descriptor describes.
type Kind int

const (
	// KindDate is a masked YYYY-MM-DD[ HH:MM] composite field.
	KindDate Kind = iota
	// KindText is a free-text field restricted to an input class.
	KindText
	// KindVerticalChoice is a single-choice list shown in batched pages.
	KindVerticalChoice
	// KindHorizontalChoice is a single-choice row of exclusive toggles.
	KindHorizontalChoice
)

func (k Kind) String() string {
	switch k {
	case KindDate:
		return "date"
	case KindText:
		return "text"
	case KindVerticalChoice:
		return "vertical-choice"
	case KindHorizontalChoice:
		return "horizontal-choice"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// InputClass restricts which characters a text field accepts.
type InputClass int

const (
	// Letters accepts a-z/A-Z plus the autocomplete wildcard '*'.
	Letters InputClass = iota
	// LettersColon additionally accepts ':' (account identifiers,
	// bookkeeping categories).
	LettersColon
	// LettersSpace accepts letters and spaces, no wildcard.
	LettersSpace
	// LettersDigits accepts letters and digits, no wildcard.
	LettersDigits
	// Float accepts digits and a decimal point.
	Float
	// Integer accepts digits only.
	Integer
)

// Accepts reports whether r may be typed into a field of this class.
func (c InputClass) Accepts(r rune) bool {
	isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	isDigit := r >= '0' && r <= '9'
	switch c {
	case Letters:
		return isLetter || r == '*'
	case LettersColon:
		return isLetter || r == ':' || r == '*'
	case LettersSpace:
		return isLetter || r == ' '
	case LettersDigits:
		return isLetter || isDigit
	case Float:
		return isDigit || r == '.'
	case Integer:
		return isDigit
	default:
		return false
	}
}

// AISuggestion is a model-proposed answer with its confidence.
type AISuggestion struct {
	Text        string
	Probability float64
	Model       string
}

// HistorySuggestion is a previously accepted answer with its frequency.
type HistorySuggestion struct {
	Text      string
	Frequency int
}

// Descriptor is the immutable specification of one question. The only
// field mutated after session construction is Choices, which the
// reconfiguration engine replaces wholesale when the address candidate
// list is refreshed.
type Descriptor struct {
	// ID is the stable question identity. Empty IDs fall back to the
	// prompt text; duplicates within a session are suffixed _2, _3, ...
	// at session build time.
	ID     string
	Prompt string
	Kind   Kind

	// Required rejects an empty answer when the user tries to advance.
	Required bool
	// Reconfigurer marks a field whose answer may trigger a structural
	// rebuild of the question list.
	Reconfigurer bool
	// Terminator marks a field whose truthy answer ends the session.
	Terminator bool

	// DateOnly drops the HH:MM part of a KindDate field.
	DateOnly bool
	// Input is the character class of a KindText field.
	Input InputClass
	// Choices is the ordered option list of the choice kinds.
	Choices []string
	// Default pre-fills a KindText field's buffer.
	Default string

	AISuggestions      []AISuggestion
	HistorySuggestions []HistorySuggestion
}

// EffectiveID returns the identity used for history storage, duplicate
// detection and answer extraction: the explicit ID when set, otherwise
// the prompt text.
func (d *Descriptor) EffectiveID() string {
	if d.ID != "" {
		return d.ID
	}
	return d.Prompt
}

// Clone returns a deep copy so a rebuilt session never aliases the
// choice slices of the session it replaces.
func (d *Descriptor) Clone() *Descriptor {
	c := *d
	c.Choices = append([]string(nil), d.Choices...)
	c.AISuggestions = append([]AISuggestion(nil), d.AISuggestions...)
	c.HistorySuggestions = append([]HistorySuggestion(nil), d.HistorySuggestions...)
	return &c
}

// AITexts returns the suggestion texts in order.
func (d *Descriptor) AITexts() []string {
	texts := make([]string, 0, len(d.AISuggestions))
	for _, s := range d.AISuggestions {
		texts = append(texts, s.Text)
	}
	return texts
}

// HistoryTexts returns the history suggestion texts in order.
func (d *Descriptor) HistoryTexts() []string {
	texts := make([]string, 0, len(d.HistorySuggestions))
	for _, s := range d.HistorySuggestions {
		texts = append(texts, s.Text)
	}
	return texts
}

// Package session holds the ordered questionnaire state: descriptor and
// controller pairs, the focus position, and the shared answer history.
// It drives navigation between fields and collects the final answers
// once a terminator field ends the run.
package session

import (
	"fmt"

	"github.com/harrison/labeller/internal/field"
	"github.com/harrison/labeller/internal/question"
)

// State enumerates the session lifecycle.
type State int

const (
	// StateBrowsing is the normal interactive state: keystrokes are
	// delegated to the focused controller.
	StateBrowsing State = iota
	// StateReconfiguring is the transient state while the question
	// list is being rebuilt after a reconfigurer field fired.
	StateReconfiguring
	// StateTerminated is final: no further keystrokes are processed.
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateBrowsing:
		return "browsing"
	case StateReconfiguring:
		return "reconfiguring"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Entry pairs a descriptor with the controller editing its answer. The
// descriptor held here is the session's own copy: its ID may carry a
// disambiguation suffix not present on the caller's descriptor.
type Entry struct {
	Descriptor *question.Descriptor
	Controller field.Controller
}

// DuplicateQuestionError reports two descriptors resolving to the same
// identity at construction time even after counter suffixing. Repeated
// identities are normal (account blocks reuse theirs and get "_2",
// "_3", ... appended); the error fires only when a suffixed identity
// collides with one the caller passed explicitly.
type DuplicateQuestionError struct {
	ID string
}

func (e *DuplicateQuestionError) Error() string {
	return fmt.Sprintf("duplicate question id %q", e.ID)
}

// IncompleteAnswersError reports answer collection being invoked while
// some fields cannot produce a value. Termination gating should make
// this unreachable; it is checked anyway.
type IncompleteAnswersError struct {
	Missing []string
}

func (e *IncompleteAnswersError) Error() string {
	return fmt.Sprintf("%d questions are unanswered: %v", len(e.Missing), e.Missing)
}

// Answer is one collected (identity, value) pair, emitted in entry
// order.
type Answer struct {
	ID     string
	Prompt string
	Value  question.Value
}

// Session is the ordered questionnaire. Entries are significant in
// order: it is both the display order and the answer order.
type Session struct {
	entries []*Entry
	focus   int
	state   State
	history *question.HistoryStore
}

// New builds a session from an ordered descriptor list. Each
// descriptor is cloned; a repeated identity gets a counter suffix
// ("_2", "_3", ...), skipping suffixes that an explicit ID already
// occupies, so every entry ends up unique. An explicit ID whose first
// occurrence collides with an identity assigned earlier is
// unresolvably ambiguous and construction fails with
// DuplicateQuestionError.
func New(descriptors []*question.Descriptor, history *question.HistoryStore) (*Session, error) {
	if history == nil {
		history = question.NewHistoryStore()
	}
	s := &Session{history: history}

	taken := map[string]bool{}
	count := map[string]int{}
	for _, d := range descriptors {
		c := d.Clone()
		base := c.EffectiveID()
		count[base]++
		id := base
		if taken[id] {
			if count[base] == 1 {
				// First occurrence of this identity, yet it is taken:
				// it collides with a suffix assigned earlier.
				return nil, &DuplicateQuestionError{ID: id}
			}
			for {
				id = fmt.Sprintf("%s_%d", base, count[base])
				if !taken[id] {
					break
				}
				count[base]++
			}
			c.ID = id
		}
		taken[id] = true

		ctrl, err := field.New(c, history)
		if err != nil {
			return nil, err
		}
		s.entries = append(s.entries, &Entry{Descriptor: c, Controller: ctrl})
	}
	if len(s.entries) == 0 {
		return nil, fmt.Errorf("session needs at least one question")
	}
	return s, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Terminated reports whether the session has reached its final state.
func (s *Session) Terminated() bool { return s.state == StateTerminated }

// Len returns the number of entries.
func (s *Session) Len() int { return len(s.entries) }

// Entries returns the live entry slice. Callers must not reorder it.
func (s *Session) Entries() []*Entry { return s.entries }

// Focus returns the focused entry index.
func (s *Session) Focus() int { return s.focus }

// Focused returns the entry currently receiving keystrokes.
func (s *Session) Focused() *Entry { return s.entries[s.focus] }

// History returns the shared per-question answer history.
func (s *Session) History() *question.HistoryStore { return s.history }

// IndexOf returns the position of the entry with the given identity,
// or -1.
func (s *Session) IndexOf(id string) int {
	for i, e := range s.entries {
		if e.Descriptor.EffectiveID() == id {
			return i
		}
	}
	return -1
}

// Descriptors returns clones of the current descriptors in entry
// order, suitable as the base of a recomputed question list.
func (s *Session) Descriptors() []*question.Descriptor {
	out := make([]*question.Descriptor, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Descriptor.Clone()
	}
	return out
}

// HandleKey feeds one keystroke to the focused controller and moves
// focus per the returned signal. Advance wraps to the first entry,
// retreat wraps to the last. Reconfigure is returned to the caller
// untouched (the reconfiguration engine owns the rebuild); terminate
// is honoured only when the terminator currently holds a truthy
// answer, and otherwise degrades to a plain advance.
func (s *Session) HandleKey(k field.Key) field.Signal {
	if s.state != StateBrowsing {
		return field.SignalNone
	}

	sig := s.Focused().Controller.HandleKey(k)
	switch sig {
	case field.SignalAdvance:
		s.Advance()
	case field.SignalRetreat:
		s.Retreat()
	case field.SignalReconfigure:
		s.state = StateReconfiguring
	case field.SignalTerminate:
		if truthy(s.Focused().Controller) {
			s.state = StateTerminated
		} else {
			s.Advance()
			return field.SignalAdvance
		}
	}
	return sig
}

type truthyController interface {
	Truthy() bool
}

func truthy(c field.Controller) bool {
	if tc, ok := c.(truthyController); ok {
		return tc.Truthy()
	}
	v, err := c.Answer()
	if err != nil {
		return false
	}
	return !v.IsZero()
}

// Advance moves focus to the next entry, wrapping to the first.
func (s *Session) Advance() {
	s.focus = (s.focus + 1) % len(s.entries)
}

// Retreat moves focus to the previous entry, wrapping to the last.
func (s *Session) Retreat() {
	s.focus = (s.focus - 1 + len(s.entries)) % len(s.entries)
}

// FocusFirstUnanswered moves focus to the first entry without an
// answer, or leaves it on the last entry when everything is answered,
// and resumes browsing. Called after a rebuild.
func (s *Session) FocusFirstUnanswered() {
	s.focus = len(s.entries) - 1
	for i, e := range s.entries {
		if !e.Controller.HasAnswer() {
			s.focus = i
			break
		}
	}
	if s.state != StateTerminated {
		s.state = StateBrowsing
	}
}

// ResumeBrowsing aborts a reconfiguration attempt that made no
// structural change, leaving focus where it was.
func (s *Session) ResumeBrowsing() {
	if s.state == StateReconfiguring {
		s.state = StateBrowsing
	}
}

// Answers collects every entry's typed answer in entry order. It fails
// with IncompleteAnswersError naming the offending questions if any
// controller cannot currently produce one.
func (s *Session) Answers() ([]Answer, error) {
	answers := make([]Answer, 0, len(s.entries))
	var missing []string
	for _, e := range s.entries {
		v, err := e.Controller.Answer()
		if err != nil {
			missing = append(missing, e.Descriptor.EffectiveID())
			continue
		}
		answers = append(answers, Answer{
			ID:     e.Descriptor.EffectiveID(),
			Prompt: e.Descriptor.Prompt,
			Value:  v,
		})
	}
	if len(missing) > 0 {
		return nil, &IncompleteAnswersError{Missing: missing}
	}
	return answers, nil
}

// RawResults returns the current raw edit text of every entry keyed by
// question identity, answered or not. Used for the best-effort side
// log written on abrupt quit.
func (s *Session) RawResults() []RawResult {
	out := make([]RawResult, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, RawResult{
			ID:   e.Descriptor.EffectiveID(),
			Text: e.Controller.RawText(),
		})
	}
	return out
}

// RawResult is one diagnostic (identity, raw text) pair.
type RawResult struct {
	ID   string
	Text string
}

// Package reconfig rebuilds the questionnaire when a reconfigurer
// field's answer changes the required question structure: adding and
// removing account blocks, toggling the manual address sub-questions,
// and refreshing the address selector's candidate list. Every rebuild
// follows the same shape: snapshot the answers, recompute the
// descriptor list on a scratch slice, build a fresh session, reapply
// the snapshot by prompt match and refocus. A failed rebuild leaves
// the previous session untouched.
package reconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harrison/labeller/internal/field"
	"github.com/harrison/labeller/internal/question"
	"github.com/harrison/labeller/internal/receipt"
	"github.com/harrison/labeller/internal/session"
)

// ErrNoAccountsAvailable means a new account block was requested but
// every configured account is already claimed by an earlier block.
var ErrNoAccountsAvailable = errors.New("no unclaimed accounts remain for a new account block")

// StructuralConsistencyError reports an unexpected interleaving in the
// question list, e.g. a non-account question inside an account block
// run. The list is corrupted and must not be silently repaired.
type StructuralConsistencyError struct {
	Index int
	ID    string
}

func (e *StructuralConsistencyError) Error() string {
	return fmt.Sprintf("question list is inconsistent at index %d (%s)", e.Index, e.ID)
}

// Engine applies the rebuild policies. Addresses is optional: when
// nil, the address selector's choices are never refreshed.
type Engine struct {
	accounts   []string
	currencies []string
	addresses  func(activeCategory string) []string
}

// New builds an engine over the configured accounts and currencies.
func New(accounts, currencies []string, addresses func(activeCategory string) []string) *Engine {
	return &Engine{
		accounts:   append([]string(nil), accounts...),
		currencies: append([]string(nil), currencies...),
		addresses:  addresses,
	}
}

// Rebuild inspects the focused reconfigurer field and applies the
// matching policy. It returns the session to continue with: a freshly
// built one when the structure changed, or the same one otherwise. On
// error the input session is restored to browsing and remains valid.
func (e *Engine) Rebuild(s *session.Session) (*session.Session, error) {
	trigger := s.Focused()
	var err error
	next := s

	switch receipt.BaseID(trigger.Descriptor.EffectiveID()) {
	case receipt.IDAddAccount:
		next, err = e.rebuildAccounts(s)
	case receipt.IDAddressSelector:
		next, err = e.rebuildManualAddress(s)
	case receipt.IDExpenseCategory:
		// Structure is unchanged; only the address list moves.
	default:
		// Not a policy the engine knows. Leave the session as is.
	}
	if err != nil {
		s.ResumeBrowsing()
		return s, err
	}

	e.refreshAddresses(next)
	next.FocusFirstUnanswered()
	return next, nil
}

// rebuildAccounts handles the "add another account?" field. "y"
// appends a fresh block after the current one unless a later block
// already exists; "n" removes every block after the current one.
func (e *Engine) rebuildAccounts(s *session.Session) (*session.Session, error) {
	focus := s.Focus()
	if answerTruthy(s.Focused().Controller) {
		if laterAddAccountExists(s, focus) {
			return s, nil
		}
		available := e.availableAccounts(s)
		if len(available) == 0 {
			return s, ErrNoAccountsAvailable
		}
		descs := s.Descriptors()
		block := receipt.AccountQuestions(available, e.currencies)
		return e.swap(s, insertDescriptors(descs, focus+1, block))
	}

	// "n": drop the account blocks that follow. The run after the
	// trigger must be exclusively account questions.
	end := focus + 1
	entries := s.Entries()
	for end < len(entries) && receipt.IsAccountQuestion(entries[end].Descriptor.EffectiveID()) {
		end++
	}
	for i := end; i < len(entries); i++ {
		if receipt.IsAccountQuestion(entries[i].Descriptor.EffectiveID()) {
			return s, &StructuralConsistencyError{Index: i, ID: entries[i].Descriptor.EffectiveID()}
		}
	}
	if end == focus+1 {
		return s, nil
	}
	descs := s.Descriptors()
	return e.swap(s, append(descs[:focus+1], descs[end:]...))
}

// rebuildManualAddress inserts the six manual address sub-questions
// after the address selector when its answer is the manual entry, and
// removes them when the answer moved away from it.
func (e *Engine) rebuildManualAddress(s *session.Session) (*session.Session, error) {
	focus := s.Focus()
	v, err := s.Focused().Controller.Answer()
	if err != nil {
		return s, nil
	}
	manualWanted := v.Str == receipt.ManualAddressChoice

	entries := s.Entries()
	manualPresent := focus+1 < len(entries) &&
		receipt.BaseID(entries[focus+1].Descriptor.EffectiveID()) == receipt.IDShopName
	if manualWanted == manualPresent {
		return s, nil
	}

	descs := s.Descriptors()
	if manualWanted {
		return e.swap(s, insertDescriptors(descs, focus+1, receipt.ManualAddressQuestions()))
	}

	// Validate the full six-question run before removing anything.
	want := receipt.ManualAddressQuestions()
	for i, m := range want {
		at := focus + 1 + i
		if at >= len(entries) || receipt.BaseID(entries[at].Descriptor.EffectiveID()) != m.ID {
			id := "missing"
			if at < len(entries) {
				id = entries[at].Descriptor.EffectiveID()
			}
			return s, &StructuralConsistencyError{Index: at, ID: id}
		}
	}
	return e.swap(s, append(descs[:focus+1], descs[focus+1+len(want):]...))
}

// swap performs the scratch rebuild: a new session over the recomputed
// descriptor list, with the old session's answers reapplied. The old
// session is only abandoned if construction succeeds.
func (e *Engine) swap(s *session.Session, descs []*question.Descriptor) (*session.Session, error) {
	snap := s.Snapshot()
	rebuilt, err := session.New(descs, s.History())
	if err != nil {
		return s, err
	}
	rebuilt.Apply(snap)
	return rebuilt, nil
}

// refreshAddresses recomputes the address selector's candidate list
// for the committed bookkeeping category, preserving its answer when
// it survives the new list.
func (e *Engine) refreshAddresses(s *session.Session) {
	if e.addresses == nil {
		return
	}
	var category string
	var selector *field.VerticalController
	for _, entry := range s.Entries() {
		switch receipt.BaseID(entry.Descriptor.EffectiveID()) {
		case receipt.IDExpenseCategory:
			if v, err := entry.Controller.Answer(); err == nil {
				category = v.Str
			}
		case receipt.IDAddressSelector:
			if vc, ok := entry.Controller.(*field.VerticalController); ok {
				selector = vc
			}
		}
	}
	if selector == nil {
		return
	}
	selector.RefreshChoices(e.addresses(category))
}

// availableAccounts returns the configured accounts not yet claimed by
// any account chooser in the session.
func (e *Engine) availableAccounts(s *session.Session) []string {
	claimed := map[string]bool{}
	for _, entry := range s.Entries() {
		if receipt.BaseID(entry.Descriptor.EffectiveID()) != receipt.IDAccount {
			continue
		}
		if v, err := entry.Controller.Answer(); err == nil && v.Str != "" {
			claimed[v.Str] = true
		}
	}
	var available []string
	for _, a := range e.accounts {
		if !claimed[a] {
			available = append(available, a)
		}
	}
	return available
}

func laterAddAccountExists(s *session.Session, focus int) bool {
	for i, entry := range s.Entries() {
		if i > focus && receipt.BaseID(entry.Descriptor.EffectiveID()) == receipt.IDAddAccount {
			return true
		}
	}
	return false
}

func answerTruthy(c field.Controller) bool {
	v, err := c.Answer()
	if err != nil {
		return false
	}
	answer := strings.ToLower(v.Str)
	return answer != "" && answer != "n" && answer != "no"
}

func insertDescriptors(descs []*question.Descriptor, at int, block []*question.Descriptor) []*question.Descriptor {
	out := make([]*question.Descriptor, 0, len(descs)+len(block))
	out = append(out, descs[:at]...)
	out = append(out, block...)
	return append(out, descs[at:]...)
}

package reconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/labeller/internal/question"
	"github.com/harrison/labeller/internal/receipt"
	"github.com/harrison/labeller/internal/session"
)

var (
	testAccounts   = []string{"alice:triodos:checking", "bob:rabobank:savings", "carol:ing:checking"}
	testCurrencies = []string{"EUR", "USD"}
	testCategories = []string{"groceries", "transport"}
)

func newEngine(addresses func(string) []string) *Engine {
	return New(testAccounts, testCurrencies, addresses)
}

// baseSession builds date, category, one account block and the
// terminator, with the block's account and add-another fields already
// answered as given.
func baseSession(t *testing.T, account, addAnother string) *session.Session {
	t.Helper()
	s, err := session.New(receipt.BaseQuestions(testAccounts, testCurrencies, testCategories), nil)
	require.NoError(t, err)
	if account != "" {
		at := s.IndexOf(receipt.IDAccount)
		require.NoError(t, s.Entries()[at].Controller.SetAnswer(question.String(account)))
	}
	at := s.IndexOf(receipt.IDAddAccount)
	require.NoError(t, s.Entries()[at].Controller.SetAnswer(question.String(addAnother)))
	focusOn(s, at)
	return s
}

// focusOn walks the session focus to the given index without answering
// anything on the way.
func focusOn(s *session.Session, idx int) {
	for s.Focus() != idx {
		s.Advance()
	}
}

func ids(s *session.Session) []string {
	out := make([]string, 0, s.Len())
	for _, e := range s.Entries() {
		out = append(out, receipt.BaseID(e.Descriptor.EffectiveID()))
	}
	return out
}

func TestAddAccountBlock(t *testing.T) {
	s := baseSession(t, "alice:triodos:checking", "y")
	before := s.Len()

	rebuilt, err := newEngine(nil).Rebuild(s)
	require.NoError(t, err)
	require.NotSame(t, s, rebuilt)
	assert.Equal(t, before+5, rebuilt.Len())

	assert.Equal(t, []string{
		receipt.IDReceiptDate,
		receipt.IDExpenseCategory,
		receipt.IDAccount,
		receipt.IDCurrency,
		receipt.IDAmountPaid,
		receipt.IDChangeReturned,
		receipt.IDAddAccount,
		receipt.IDAccount,
		receipt.IDCurrency,
		receipt.IDAmountPaid,
		receipt.IDChangeReturned,
		receipt.IDAddAccount,
		receipt.IDDone,
	}, ids(rebuilt))

	t.Run("new chooser excludes claimed accounts", func(t *testing.T) {
		second := rebuilt.Entries()[7]
		assert.Equal(t, "account_2", second.Descriptor.EffectiveID())
		assert.Equal(t, []string{"bob:rabobank:savings", "carol:ing:checking"}, second.Descriptor.Choices)
	})

	t.Run("earlier answers survive the rebuild", func(t *testing.T) {
		v, err := rebuilt.Entries()[2].Controller.Answer()
		require.NoError(t, err)
		assert.Equal(t, "alice:triodos:checking", v.Str)
	})

	t.Run("focus lands on the first unanswered entry", func(t *testing.T) {
		// The date field is pre-seeded with the current time, so the
		// first unanswered entry is the category.
		assert.Equal(t, 1, rebuilt.Focus())
		assert.Equal(t, session.StateBrowsing, rebuilt.State())
	})
}

func TestAddAccountThirdBlock(t *testing.T) {
	s := baseSession(t, "alice:triodos:checking", "y")
	eng := newEngine(nil)

	two, err := eng.Rebuild(s)
	require.NoError(t, err)
	require.Equal(t, 13, two.Len())

	// Answer the second block's chooser and ask for a third. The fresh
	// block's identities must land past the suffixes the second block
	// already occupies.
	at := two.IndexOf("account_2")
	require.NoError(t, two.Entries()[at].Controller.SetAnswer(question.String("bob:rabobank:savings")))
	at = two.IndexOf("add_account_2")
	require.NoError(t, two.Entries()[at].Controller.SetAnswer(question.String("y")))
	focusOn(two, at)

	three, err := eng.Rebuild(two)
	require.NoError(t, err)
	require.NotSame(t, two, three)
	require.Equal(t, 18, three.Len())

	third := three.Entries()[at+1]
	assert.Equal(t, "account_3", third.Descriptor.EffectiveID())
	assert.Equal(t, []string{"carol:ing:checking"}, third.Descriptor.Choices)
	assert.Equal(t, "add_account_3", three.Entries()[at+5].Descriptor.EffectiveID())

	t.Run("earlier choosers keep their answers", func(t *testing.T) {
		v, err := three.Entries()[2].Controller.Answer()
		require.NoError(t, err)
		assert.Equal(t, "alice:triodos:checking", v.Str)
		v, err = three.Entries()[7].Controller.Answer()
		require.NoError(t, err)
		assert.Equal(t, "bob:rabobank:savings", v.Str)
	})
}

func TestAddAccountNoLaterDuplicate(t *testing.T) {
	s := baseSession(t, "alice:triodos:checking", "y")
	rebuilt, err := newEngine(nil).Rebuild(s)
	require.NoError(t, err)

	// Answer "y" again on the FIRST block: a later block already
	// exists, so nothing structural happens.
	at := rebuilt.IndexOf(receipt.IDAddAccount)
	focusOn(rebuilt, at)
	again, err := newEngine(nil).Rebuild(rebuilt)
	require.NoError(t, err)
	assert.Same(t, rebuilt, again)
	assert.Equal(t, 13, again.Len())
}

func TestAddAccountExhaustsAccounts(t *testing.T) {
	engine := New(testAccounts[:1], testCurrencies, nil)
	s := baseSession(t, "alice:triodos:checking", "y")

	same, err := engine.Rebuild(s)
	require.ErrorIs(t, err, ErrNoAccountsAvailable)
	assert.Same(t, s, same, "a failed rebuild must not replace the session")
	assert.Equal(t, session.StateBrowsing, s.State())
	assert.Equal(t, 8, s.Len())
}

func TestAddAccountNoRemovesLaterBlocks(t *testing.T) {
	s := baseSession(t, "alice:triodos:checking", "y")
	rebuilt, err := newEngine(nil).Rebuild(s)
	require.NoError(t, err)
	require.Equal(t, 13, rebuilt.Len())

	// Flip the first block's answer to "n": the appended block goes
	// away again.
	at := rebuilt.IndexOf(receipt.IDAddAccount)
	require.NoError(t, rebuilt.Entries()[at].Controller.SetAnswer(question.String("n")))
	focusOn(rebuilt, at)
	trimmed, err := newEngine(nil).Rebuild(rebuilt)
	require.NoError(t, err)
	assert.Equal(t, 8, trimmed.Len())

	v, err := trimmed.Entries()[2].Controller.Answer()
	require.NoError(t, err)
	assert.Equal(t, "alice:triodos:checking", v.Str, "first block keeps its answer")
}

func TestAddAccountNoWithoutLaterBlocksIsNoop(t *testing.T) {
	s := baseSession(t, "alice:triodos:checking", "n")
	same, err := newEngine(nil).Rebuild(s)
	require.NoError(t, err)
	assert.Same(t, s, same)
}

func TestRemoveDetectsInterleavedQuestions(t *testing.T) {
	// Hand-build a corrupted list: an account chooser stranded after
	// the terminator.
	descs := receipt.BaseQuestions(testAccounts, testCurrencies, testCategories)
	stray := receipt.AccountQuestions(testAccounts, testCurrencies)[0]
	descs = append(descs, stray)
	s, err := session.New(descs, nil)
	require.NoError(t, err)

	at := s.IndexOf(receipt.IDAddAccount)
	require.NoError(t, s.Entries()[at].Controller.SetAnswer(question.String("n")))
	focusOn(s, at)

	same, err := newEngine(nil).Rebuild(s)
	var structural *StructuralConsistencyError
	require.ErrorAs(t, err, &structural)
	assert.Same(t, s, same)
	assert.Equal(t, session.StateBrowsing, s.State())
}

func manualSession(t *testing.T, addresses func(string) []string, answer string) (*session.Session, *Engine) {
	t.Helper()
	choices := []string{receipt.ManualAddressChoice, "bakker van dorst", "albert heijn"}
	descs := []*question.Descriptor{
		receipt.DateQuestion(),
		receipt.CategoryQuestion(testCategories),
		receipt.AddressQuestion(choices),
	}
	descs = append(descs, receipt.AccountQuestions(testAccounts, testCurrencies)...)
	descs = append(descs, receipt.DoneQuestion())
	s, err := session.New(descs, nil)
	require.NoError(t, err)

	at := s.IndexOf(receipt.IDAddressSelector)
	require.NoError(t, s.Entries()[at].Controller.SetAnswer(question.String(answer)))
	focusOn(s, at)
	return s, newEngine(addresses)
}

func TestManualAddressToggle(t *testing.T) {
	s, engine := manualSession(t, nil, receipt.ManualAddressChoice)
	before := s.Len()

	withManual, err := engine.Rebuild(s)
	require.NoError(t, err)
	assert.Equal(t, before+6, withManual.Len())

	at := withManual.IndexOf(receipt.IDAddressSelector)
	assert.Equal(t, receipt.IDShopName, withManual.Entries()[at+1].Descriptor.EffectiveID())
	assert.Equal(t, receipt.IDCountry, withManual.Entries()[at+6].Descriptor.EffectiveID())

	t.Run("selecting manual again is a noop", func(t *testing.T) {
		focusOn(withManual, at)
		same, err := engine.Rebuild(withManual)
		require.NoError(t, err)
		assert.Same(t, withManual, same)
	})

	t.Run("moving away removes the six sub-questions", func(t *testing.T) {
		require.NoError(t, withManual.Entries()[at].Controller.SetAnswer(question.String("albert heijn")))
		focusOn(withManual, at)
		without, err := engine.Rebuild(withManual)
		require.NoError(t, err)
		assert.Equal(t, before, without.Len())
		assert.NotContains(t, ids(without), receipt.IDShopName)
	})
}

func TestManualAddressRemovalValidatesRun(t *testing.T) {
	s, engine := manualSession(t, nil, receipt.ManualAddressChoice)
	withManual, err := engine.Rebuild(s)
	require.NoError(t, err)

	// Corrupt the run: rebuild a session where a foreign question sits
	// inside the manual block.
	descs := withManual.Descriptors()
	at := withManual.IndexOf(receipt.IDAddressSelector)
	descs[at+3] = receipt.DateQuestion()
	descs[at+3].ID = "receipt_date_extra"
	corrupted, err := session.New(descs, withManual.History())
	require.NoError(t, err)

	sel := corrupted.IndexOf(receipt.IDAddressSelector)
	require.NoError(t, corrupted.Entries()[sel].Controller.SetAnswer(question.String("albert heijn")))
	focusOn(corrupted, sel)

	_, err = engine.Rebuild(corrupted)
	var structural *StructuralConsistencyError
	require.ErrorAs(t, err, &structural)
	assert.Equal(t, sel+3, structural.Index)
}

func TestCategoryCommitRefreshesAddresses(t *testing.T) {
	addresses := func(category string) []string {
		if category == "groceries" {
			return []string{receipt.ManualAddressChoice, "*albert heijn", "bakker van dorst"}
		}
		return []string{receipt.ManualAddressChoice, "albert heijn", "bakker van dorst"}
	}
	s, engine := manualSession(t, addresses, "albert heijn")

	cat := s.IndexOf(receipt.IDExpenseCategory)
	require.NoError(t, s.Entries()[cat].Controller.SetAnswer(question.String("groceries")))
	focusOn(s, cat)

	same, err := engine.Rebuild(s)
	require.NoError(t, err)
	assert.Same(t, s, same)

	at := s.IndexOf(receipt.IDAddressSelector)
	assert.Equal(t, []string{receipt.ManualAddressChoice, "*albert heijn", "bakker van dorst"},
		s.Entries()[at].Descriptor.Choices)

	t.Run("vanished selection is cleared", func(t *testing.T) {
		// The previous answer "albert heijn" is now starred, so the
		// plain text no longer exists in the list.
		assert.False(t, s.Entries()[at].Controller.HasAnswer())
	})
}

func TestUnrelatedAnswersSurviveRebuild(t *testing.T) {
	s := baseSession(t, "alice:triodos:checking", "y")
	cat := s.IndexOf(receipt.IDExpenseCategory)
	require.NoError(t, s.Entries()[cat].Controller.SetAnswer(question.String("groceries")))
	amount := s.IndexOf(receipt.IDAmountPaid)
	require.NoError(t, s.Entries()[amount].Controller.SetAnswer(question.FloatVal(10.50)))

	rebuilt, err := newEngine(nil).Rebuild(s)
	require.NoError(t, err)

	v, err := rebuilt.Entries()[rebuilt.IndexOf(receipt.IDExpenseCategory)].Controller.Answer()
	require.NoError(t, err)
	assert.Equal(t, "groceries", v.Str)

	got, err := rebuilt.Entries()[rebuilt.IndexOf(receipt.IDAmountPaid)].Controller.Answer()
	require.NoError(t, err)
	assert.InDelta(t, 10.50, got.Float, 1e-9)
}

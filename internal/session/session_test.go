package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/labeller/internal/field"
	"github.com/harrison/labeller/internal/question"
)

func textQuestion(prompt string) *question.Descriptor {
	return &question.Descriptor{
		Prompt:   prompt,
		Kind:     question.KindText,
		Required: true,
		Input:    question.LettersSpace,
	}
}

func doneQuestion() *question.Descriptor {
	return &question.Descriptor{
		ID:         "done",
		Prompt:     "Done?",
		Kind:       question.KindHorizontalChoice,
		Required:   true,
		Terminator: true,
		Choices:    []string{"no", "yes"},
	}
}

func typeText(s *Session, text string) {
	for _, r := range text {
		s.HandleKey(field.Rune(r))
	}
}

func TestNewSuffixesDuplicatePrompts(t *testing.T) {
	s, err := New([]*question.Descriptor{
		textQuestion("Belongs to account:"),
		textQuestion("Belongs to account:"),
		textQuestion("Belongs to account:"),
	}, nil)
	require.NoError(t, err)

	ids := make([]string, 0, s.Len())
	for _, e := range s.Entries() {
		ids = append(ids, e.Descriptor.EffectiveID())
	}
	assert.Equal(t, []string{
		"Belongs to account:",
		"Belongs to account:_2",
		"Belongs to account:_3",
	}, ids)
}

func TestNewSuffixesDuplicateExplicitIDs(t *testing.T) {
	a := textQuestion("Belongs to account:")
	a.ID = "account"
	b := textQuestion("Belongs to account:")
	b.ID = "account"

	s, err := New([]*question.Descriptor{a, b}, nil)
	require.NoError(t, err)
	assert.Equal(t, "account", s.Entries()[0].Descriptor.EffectiveID())
	assert.Equal(t, "account_2", s.Entries()[1].Descriptor.EffectiveID())
}

func TestNewSkipsSuffixesTakenByExplicitIDs(t *testing.T) {
	// The list a second rebuild produces: the earlier blocks carry the
	// suffixed identities as explicit IDs, the fresh block repeats the
	// factory ID. The repeat must land past every occupied suffix.
	a := textQuestion("Belongs to account:")
	a.ID = "account"
	b := textQuestion("Belongs to account:")
	b.ID = "account_2"
	c := textQuestion("Belongs to account:")
	c.ID = "account"

	s, err := New([]*question.Descriptor{a, b, c}, nil)
	require.NoError(t, err)
	assert.Equal(t, "account", s.Entries()[0].Descriptor.EffectiveID())
	assert.Equal(t, "account_2", s.Entries()[1].Descriptor.EffectiveID())
	assert.Equal(t, "account_3", s.Entries()[2].Descriptor.EffectiveID())
}

func TestNewRejectsUnresolvableCollision(t *testing.T) {
	a := textQuestion("Belongs to account:")
	a.ID = "account"
	b := textQuestion("Belongs to account:")
	b.ID = "account"
	c := textQuestion("Account number two:")
	c.ID = "account_2"

	// The second "account" is suffixed to "account_2", which the third
	// descriptor claims explicitly.
	_, err := New([]*question.Descriptor{a, b, c}, nil)
	var dup *DuplicateQuestionError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "account_2", dup.ID)
}

func TestNewClonesDescriptors(t *testing.T) {
	orig := textQuestion("City:")
	s, err := New([]*question.Descriptor{orig, textQuestion("City:")}, nil)
	require.NoError(t, err)

	assert.Empty(t, orig.ID, "caller's descriptor must not gain the suffix")
	assert.Equal(t, "City:_2", s.Entries()[1].Descriptor.EffectiveID())
}

func TestHandleKeyFocusMovement(t *testing.T) {
	s, err := New([]*question.Descriptor{
		textQuestion("Shop name:"),
		textQuestion("City:"),
		textQuestion("Country:"),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, StateBrowsing, s.State())
	assert.Equal(t, 0, s.Focus())

	typeText(s, "bakery")
	assert.Equal(t, field.SignalAdvance, s.HandleKey(field.Key{Type: field.KeyEnter}))
	assert.Equal(t, 1, s.Focus())

	assert.Equal(t, field.SignalRetreat, s.HandleKey(field.Key{Type: field.KeyUp}))
	assert.Equal(t, 0, s.Focus())

	// Retreat from the first entry wraps to the last.
	s.HandleKey(field.Key{Type: field.KeyUp})
	assert.Equal(t, 2, s.Focus())
}

func TestHandleKeyAdvanceWrapsToFirst(t *testing.T) {
	s, err := New([]*question.Descriptor{
		textQuestion("Shop name:"),
		textQuestion("City:"),
	}, nil)
	require.NoError(t, err)

	typeText(s, "bakery")
	s.HandleKey(field.Key{Type: field.KeyEnter})
	typeText(s, "utrecht")
	s.HandleKey(field.Key{Type: field.KeyEnter})
	assert.Equal(t, 0, s.Focus())
}

func TestTerminationRequiresTruthyAnswer(t *testing.T) {
	s, err := New([]*question.Descriptor{
		textQuestion("Shop name:"),
		doneQuestion(),
	}, nil)
	require.NoError(t, err)

	typeText(s, "bakery")
	s.HandleKey(field.Key{Type: field.KeyEnter})
	assert.Equal(t, 1, s.Focus())

	// "no" is falsy: the terminate request degrades to an advance.
	assert.Equal(t, field.SignalAdvance, s.HandleKey(field.Key{Type: field.KeyEnter}))
	assert.False(t, s.Terminated())
	assert.Equal(t, 0, s.Focus())

	// Back to the done field, move to "yes" and commit.
	s.HandleKey(field.Key{Type: field.KeyUp})
	s.HandleKey(field.Key{Type: field.KeyTab})
	assert.Equal(t, field.SignalTerminate, s.HandleKey(field.Key{Type: field.KeyEnter}))
	assert.True(t, s.Terminated())

	// Terminal state: further keystrokes are ignored.
	assert.Equal(t, field.SignalNone, s.HandleKey(field.Rune('x')))
}

func TestAnswersCollection(t *testing.T) {
	s, err := New([]*question.Descriptor{
		textQuestion("Shop name:"),
		textQuestion("City:"),
	}, nil)
	require.NoError(t, err)

	t.Run("incomplete", func(t *testing.T) {
		typeText(s, "bakery")
		_, err := s.Answers()
		var incomplete *IncompleteAnswersError
		require.ErrorAs(t, err, &incomplete)
		assert.Equal(t, []string{"City:"}, incomplete.Missing)
	})

	t.Run("complete and ordered", func(t *testing.T) {
		s.HandleKey(field.Key{Type: field.KeyEnter})
		typeText(s, "utrecht")

		answers, err := s.Answers()
		require.NoError(t, err)
		require.Len(t, answers, 2)
		assert.Equal(t, "Shop name:", answers[0].ID)
		assert.Equal(t, "bakery", answers[0].Value.Str)
		assert.Equal(t, "utrecht", answers[1].Value.Str)
	})
}

func TestRawResultsIncludesUnanswered(t *testing.T) {
	s, err := New([]*question.Descriptor{
		textQuestion("Shop name:"),
		textQuestion("City:"),
	}, nil)
	require.NoError(t, err)

	typeText(s, "bak")
	raw := s.RawResults()
	require.Len(t, raw, 2)
	assert.Equal(t, RawResult{ID: "Shop name:", Text: "bak"}, raw[0])
	assert.Equal(t, RawResult{ID: "City:", Text: ""}, raw[1])
}

func TestHistoryIsRecordedUnderQuestionIdentity(t *testing.T) {
	history := question.NewHistoryStore()
	s, err := New([]*question.Descriptor{
		textQuestion("Shop name:"),
		textQuestion("City:"),
	}, history)
	require.NoError(t, err)

	typeText(s, "bakery")
	s.HandleKey(field.Key{Type: field.KeyEnter})

	assert.Equal(t, []string{"bakery"}, history.Get("Shop name:"))
	assert.Empty(t, history.Get("City:"))
}

func TestFocusFirstUnanswered(t *testing.T) {
	s, err := New([]*question.Descriptor{
		textQuestion("Shop name:"),
		textQuestion("City:"),
		textQuestion("Country:"),
	}, nil)
	require.NoError(t, err)

	require.NoError(t, s.Entries()[0].Controller.SetAnswer(question.String("bakery")))
	require.NoError(t, s.Entries()[2].Controller.SetAnswer(question.String("nl")))

	s.FocusFirstUnanswered()
	assert.Equal(t, 1, s.Focus())

	require.NoError(t, s.Entries()[1].Controller.SetAnswer(question.String("utrecht")))
	s.FocusFirstUnanswered()
	assert.Equal(t, 2, s.Focus(), "all answered: focus rests on the last entry")
}

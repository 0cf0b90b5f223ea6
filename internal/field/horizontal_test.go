package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/labeller/internal/question"
)

func horizontalDescriptor(choices ...string) *question.Descriptor {
	return &question.Descriptor{
		Prompt:   "The receipt was processed successfully:",
		Kind:     question.KindHorizontalChoice,
		Required: true,
		Choices:  choices,
	}
}

func TestHorizontalControllerRequiresChoices(t *testing.T) {
	_, err := NewHorizontalController(horizontalDescriptor())
	var invalid *InvalidAnswerError
	require.ErrorAs(t, err, &invalid)
}

func TestHorizontalControllerFocusWalk(t *testing.T) {
	c, err := NewHorizontalController(horizontalDescriptor("yes", "no", "later"))
	require.NoError(t, err)

	assert.Equal(t, 0, c.Focus())
	assert.Equal(t, SignalNone, c.HandleKey(Key{Type: KeyTab}))
	assert.Equal(t, SignalNone, c.HandleKey(Key{Type: KeyRight}))
	assert.Equal(t, 2, c.Focus())

	// Past the last choice the question is left, not wrapped.
	assert.Equal(t, SignalNone, c.HandleKey(Key{Type: KeyTab}),
		"required question without an answer must not advance")
	assert.True(t, c.Errored())

	assert.Equal(t, SignalNone, c.HandleKey(Key{Type: KeyShiftTab}))
	assert.Equal(t, SignalNone, c.HandleKey(Key{Type: KeyLeft}))
	assert.Equal(t, 0, c.Focus())
	assert.Equal(t, SignalRetreat, c.HandleKey(Key{Type: KeyShiftTab}))
}

func TestHorizontalControllerHomeEnd(t *testing.T) {
	c, err := NewHorizontalController(horizontalDescriptor("yes", "no", "later"))
	require.NoError(t, err)

	assert.Equal(t, SignalNone, c.HandleKey(Key{Type: KeyEnd}))
	assert.Equal(t, 2, c.Focus())
	assert.Equal(t, SignalNone, c.HandleKey(Key{Type: KeyHome}))
	assert.Equal(t, 0, c.Focus())

	// At the boundaries the keys fall through to navigation.
	assert.Equal(t, SignalRetreat, c.HandleKey(Key{Type: KeyHome}))
}

func TestHorizontalControllerCommit(t *testing.T) {
	c, err := NewHorizontalController(horizontalDescriptor("yes", "no"))
	require.NoError(t, err)

	c.HandleKey(Key{Type: KeyTab})
	assert.Equal(t, SignalAdvance, c.HandleKey(Key{Type: KeyEnter}))

	v, err := c.Answer()
	require.NoError(t, err)
	assert.Equal(t, "no", v.Str)
	assert.Equal(t, "no", c.RawText())

	// Once answered, tabbing off the row advances.
	c.HandleKey(Key{Type: KeyEnd})
	assert.Equal(t, SignalAdvance, c.HandleKey(Key{Type: KeyTab}))
}

func TestHorizontalControllerSignals(t *testing.T) {
	t.Run("terminator", func(t *testing.T) {
		d := horizontalDescriptor("yes", "no")
		d.Terminator = true
		c, err := NewHorizontalController(d)
		require.NoError(t, err)
		assert.Equal(t, SignalTerminate, c.HandleKey(Key{Type: KeyEnter}))
	})

	t.Run("reconfigurer", func(t *testing.T) {
		d := horizontalDescriptor("yes", "no")
		d.Reconfigurer = true
		c, err := NewHorizontalController(d)
		require.NoError(t, err)
		assert.Equal(t, SignalReconfigure, c.HandleKey(Key{Type: KeyEnter}))
	})
}

func TestHorizontalControllerTruthy(t *testing.T) {
	c, err := NewHorizontalController(horizontalDescriptor("yes", "no", "N", "maybe"))
	require.NoError(t, err)

	assert.False(t, c.Truthy(), "no selection is never affirmative")

	cases := map[string]bool{
		"yes":   true,
		"no":    false,
		"N":     false,
		"maybe": true,
	}
	for choice, want := range cases {
		require.NoError(t, c.SetAnswer(question.String(choice)))
		assert.Equal(t, want, c.Truthy(), "choice %q", choice)
	}
}

func TestHorizontalControllerSetAnswer(t *testing.T) {
	c, err := NewHorizontalController(horizontalDescriptor("yes", "no"))
	require.NoError(t, err)

	require.NoError(t, c.SetAnswer(question.String("no")))
	assert.Equal(t, 1, c.Selected())
	assert.Equal(t, 1, c.Focus(), "focus follows the restored answer")

	var invalid *InvalidAnswerError
	require.ErrorAs(t, c.SetAnswer(question.String("perhaps")), &invalid)
	require.ErrorAs(t, c.SetAnswer(question.IntVal(0)), &invalid)
}

func TestHorizontalControllerOptionalEmpty(t *testing.T) {
	d := horizontalDescriptor("yes", "no")
	d.Required = false
	c, err := NewHorizontalController(d)
	require.NoError(t, err)

	assert.Equal(t, SignalAdvance, c.HandleKey(Key{Type: KeyDown}))
	v, err := c.Answer()
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

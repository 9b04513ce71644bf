package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinPadEmitsOnceAtFourDigits(t *testing.T) {
	pad := NewPinPad("")
	for _, k := range []string{"1", "2", "3"} {
		_, complete, err := pad.Press(k)
		require.NoError(t, err)
		assert.False(t, complete)
	}

	attempt, complete, err := pad.Press("4")
	require.NoError(t, err)
	assert.True(t, complete)
	assert.Equal(t, "1234", attempt)

	_, complete, err = pad.Press("5")
	require.NoError(t, err)
	assert.False(t, complete)
	assert.Equal(t, "1234", pad.Digits())
}

func TestPinPadRejectsNonDigits(t *testing.T) {
	pad := NewPinPad("1")
	for _, k := range []string{"a", "", "12", "#"} {
		_, _, err := pad.Press(k)
		assert.ErrorIs(t, err, ErrInvalidKey, k)
	}
	assert.Equal(t, "1", pad.Digits())
}

func TestPinPadEditing(t *testing.T) {
	pad := NewPinPad("123")
	pad.Backspace()
	assert.Equal(t, "12", pad.Digits())

	pad.Clear()
	assert.Equal(t, "", pad.Digits())
	pad.Backspace()
	assert.Equal(t, "", pad.Digits())

	pad = NewPinPad("1234")
	pad.Backspace()
	attempt, complete, err := pad.Press("9")
	require.NoError(t, err)
	assert.True(t, complete)
	assert.Equal(t, "1239", attempt)
}

func TestNewPinPadTruncatesOverlongInput(t *testing.T) {
	assert.Equal(t, "1234", NewPinPad("123456").Digits())
}

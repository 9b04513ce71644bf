package service

import (
	"errors"

	"github.com/ubox-pos/cloud-dashboard/internal/auth"
)

// ErrInvalidKey is returned for keypad input other than a single decimal digit.
var ErrInvalidKey = errors.New("invalid keypad key")

// PinPad accumulates keypad presses and emits one attempt when the PIN is complete.
// Once full, further digits are ignored until the pad is cleared or shortened.
type PinPad struct {
	digits string
}

// NewPinPad restores a pad from previously entered digits.
func NewPinPad(digits string) *PinPad {
	if len(digits) > auth.PinLength {
		digits = digits[:auth.PinLength]
	}
	return &PinPad{digits: digits}
}

// Press appends a digit. It returns the complete PIN and true exactly when this
// press filled the pad.
func (p *PinPad) Press(key string) (string, bool, error) {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return "", false, ErrInvalidKey
	}
	if len(p.digits) >= auth.PinLength {
		return "", false, nil
	}
	p.digits += key
	if len(p.digits) == auth.PinLength {
		return p.digits, true, nil
	}
	return "", false, nil
}

// Backspace removes the last digit.
func (p *PinPad) Backspace() {
	if len(p.digits) > 0 {
		p.digits = p.digits[:len(p.digits)-1]
	}
}

// Clear empties the pad.
func (p *PinPad) Clear() {
	p.digits = ""
}

// Digits returns what has been entered so far.
func (p *PinPad) Digits() string {
	return p.digits
}

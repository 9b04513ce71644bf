package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PinLength is the number of digits of a staff PIN.
const PinLength = 4

// HashPIN hashes a staff PIN for caching. An empty PIN hashes to the empty string.
func HashPIN(pin string, cost int) (string, error) {
	if pin == "" {
		return "", nil
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// MatchPIN reports whether entered is exactly the PIN behind hashed.
// Accounts without a PIN never match.
func MatchPIN(hashed, entered string) (bool, error) {
	if hashed == "" || len(entered) != PinLength {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(entered))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

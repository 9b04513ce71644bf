package domain

import "time"

// Device is a POS terminal registered for a business.
type Device struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Fingerprint  string    `json:"fingerprint"`
	IsAuthorized bool      `json:"isAuthorized"`
	Role         string    `json:"role"`
	LastSeen     time.Time `json:"lastSeen"`
	CreatedAt    time.Time `json:"createdAt"`
}

package domain

import "time"

// UserInfo is the business owner or member that signed in to the dashboard.
type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session holds the upstream credentials and identifiers of one browser session.
type Session struct {
	ID           string      `json:"id"`
	Token        string      `json:"token"`
	User         UserInfo    `json:"user"`
	BusinessID   string      `json:"business_id"`
	BusinessName string      `json:"business_name"`
	DisplayName  string      `json:"display_name"`
	CreatedAt    time.Time   `json:"created_at"`
	ExpiresAt    time.Time   `json:"expires_at"`
	Panel        *PanelState `json:"panel,omitempty"`
}

// HasBusiness reports whether a business is bound to the session.
func (s *Session) HasBusiness() bool {
	return s != nil && s.BusinessID != ""
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

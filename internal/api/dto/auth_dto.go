package dto

import (
	"time"

	"github.com/ubox-pos/cloud-dashboard/internal/domain"
)

// LoginRequest payload for owner login.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// RegisterRequest payload for owner registration.
type RegisterRequest struct {
	Name         string `json:"name" form:"name" validate:"required"`
	Email        string `json:"email" form:"email" validate:"required,email"`
	Password     string `json:"password" form:"password" validate:"required,min=6"`
	BusinessName string `json:"businessName" form:"businessName"`
}

// AuthResponse is returned after login or registration.
type AuthResponse struct {
	Token      string          `json:"token"`
	ExpiresAt  time.Time       `json:"expires_at"`
	User       domain.UserInfo `json:"user"`
	BusinessID string          `json:"business_id,omitempty"`
	LicenseKey string          `json:"license_key,omitempty"`
	Redirect   string          `json:"redirect"`
}

// SessionResponse describes the current session without its upstream token.
type SessionResponse struct {
	ID           string          `json:"id"`
	User         domain.UserInfo `json:"user"`
	DisplayName  string          `json:"display_name"`
	BusinessID   string          `json:"business_id,omitempty"`
	BusinessName string          `json:"business_name,omitempty"`
	ExpiresAt    time.Time       `json:"expires_at"`
}

// NewSessionResponse maps a session.
func NewSessionResponse(sess *domain.Session) SessionResponse {
	return SessionResponse{
		ID:           sess.ID,
		User:         sess.User,
		DisplayName:  sess.DisplayName,
		BusinessID:   sess.BusinessID,
		BusinessName: sess.BusinessName,
		ExpiresAt:    sess.ExpiresAt,
	}
}

// LoginViewResponse describes the public login page.
type LoginViewResponse struct {
	Title         string `json:"title"`
	LoginAction   string `json:"login_action"`
	RegisterPath  string `json:"register_action"`
	Authenticated bool   `json:"authenticated"`
	Redirect      string `json:"redirect,omitempty"`
}

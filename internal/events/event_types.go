package events

import (
	"time"

	"github.com/ubox-pos/cloud-dashboard/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPinAttempted  EventType = "pin_attempted"
	EventAccessGranted EventType = "access_granted"
	EventAccessDenied  EventType = "access_denied"
	EventSessionOpened EventType = "session_opened"
	EventSessionClosed EventType = "session_closed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	SessionID  string      `json:"session_id"`
	BusinessID string      `json:"business_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// PinAttemptPayload describes one evaluated PIN attempt.
type PinAttemptPayload struct {
	Category  domain.PanelCategory `json:"category"`
	AccountID string               `json:"account_id"`
	Outcome   string               `json:"outcome"`
}

// AccessGrantedPayload carries where the staff member was routed.
type AccessGrantedPayload struct {
	Category domain.PanelCategory    `json:"category"`
	Target   domain.NavigationTarget `json:"target"`
}

// SessionPayload describes a session lifecycle change.
type SessionPayload struct {
	UserID string `json:"user_id"`
}

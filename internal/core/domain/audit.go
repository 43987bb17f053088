package domain

import "time"

// AuthEventType classifies an entry in the authentication audit trail.
type AuthEventType string

const (
	EventRegistered     AuthEventType = "registered"
	EventLoginSucceeded AuthEventType = "login_succeeded"
	EventLoginFailed    AuthEventType = "login_failed"
	EventAccessDenied   AuthEventType = "access_denied"
)

// AuthEvent is an append-only audit record. UserID is zero when the caller
// could not be identified.
type AuthEvent struct {
	Type       AuthEventType
	UserID     int64
	Email      string
	Operation  Operation
	Reason     string
	RequestID  string
	OccurredAt time.Time
}

package domain

import "time"

// EventKind tags an audit event category. Authentication outcomes are
// security events; other management actions use KindOther.
type EventKind string

const (
	KindSecurity EventKind = "security"
	KindOther    EventKind = "other"
)

// Fixed reason recorded for successful logins; failures carry a
// human-readable reason of their own.
const ReasonLoginSuccess = "Successful login"

// AuthEvent is one append-only audit record of an authentication outcome.
// Records are write-once: nothing in this system mutates or deletes them.
type AuthEvent struct {
	Kind      EventKind   `json:"kind"`
	Username  string      `json:"username"`
	Role      string      `json:"role"`
	Origin    string      `json:"origin"`
	Outcome   AuthOutcome `json:"outcome"`
	Reason    string      `json:"reason"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewAuthSuccess builds the success audit record for a principal.
func NewAuthSuccess(p *Principal) AuthEvent {
	return newAuthEvent(p, OutcomeOK, ReasonLoginSuccess)
}

// NewAuthFailure builds a failure audit record with the given reason.
func NewAuthFailure(p *Principal, outcome AuthOutcome, reason string) AuthEvent {
	return newAuthEvent(p, outcome, reason)
}

func newAuthEvent(p *Principal, outcome AuthOutcome, reason string) AuthEvent {
	ts := time.Now().UTC()
	if p.LastAttemptAt != nil {
		ts = *p.LastAttemptAt
	}
	return AuthEvent{
		Kind:      KindSecurity,
		Username:  p.Username,
		Role:      p.Role.Name,
		Origin:    p.Origin,
		Outcome:   outcome,
		Reason:    reason,
		Timestamp: ts,
	}
}

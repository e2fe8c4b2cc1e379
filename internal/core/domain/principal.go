package domain

import (
	"errors"
	"fmt"
	"time"
)

// RoleSystemAdmin is the highest-privilege role. API login for this role is
// disabled unless the operator explicitly enables it.
const RoleSystemAdmin = "system_admin"

const RoleStandard = "standard"

var ErrPrincipalNotFound = errors.New("principal not found")
var ErrPrincipalExists = errors.New("principal already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrPrincipalInactive = errors.New("inactive principal")
var ErrPrincipalLocked = errors.New("principal locked")
var ErrAdminAPIDisabled = errors.New("administrator api login disabled")
var ErrRoleNotFound = errors.New("role not found")

// AuthOutcome is the terminal result of one authentication attempt.
type AuthOutcome string

const (
	OutcomeOK           AuthOutcome = "ok"
	OutcomeUnauthorized AuthOutcome = "unauthorized"
	OutcomeForbidden    AuthOutcome = "forbidden"
)

// Role is the access profile a principal authenticates under. Both the
// principal's own Active flag and the role's Active flag must be true for a
// login to succeed.
type Role struct {
	Name        string `json:"name"`
	Active      bool   `json:"active"`
	SystemAdmin bool   `json:"system_admin"`
}

// Principal models an account capable of authenticating.
//
// FailureCount, LastAttemptAt, Origin, SessionID, Active and StatusNote are
// mutated only by the authentication flow; role changes and unlock happen
// through the administrative user workflows. Principals are never physically
// deleted, only soft-deleted via Deleted.
type Principal struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email,omitempty"`
	FirstName     string     `json:"first_name,omitempty"`
	LastName      string     `json:"last_name,omitempty"`
	SecretHash    string     `json:"-"`
	Role          Role       `json:"role"`
	Active        bool       `json:"active"`
	Deleted       bool       `json:"-"`
	FailureCount  int        `json:"-"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
	Origin        string     `json:"-"`
	SessionID     string     `json:"-"`
	StatusNote    string     `json:"status_note,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CanAuthenticate reports whether the account is in a state that permits
// login at all: not soft-deleted, active, and holding an active role.
func (p *Principal) CanAuthenticate() bool {
	return !p.Deleted && p.Active && p.Role.Active
}

// LockNote is the operator-facing status note written when the failure
// threshold is reached.
func LockNote(maxAttempts int) string {
	return fmt.Sprintf("Locked after %d failed authentication attempts.", maxAttempts)
}

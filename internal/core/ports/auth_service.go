package ports

import (
	"context"

	"github.com/transferdesk/management-api/internal/core/domain"
)

// AuthResult is the terminal result of one authentication attempt. Token is
// set only when Outcome is OutcomeOK.
type AuthResult struct {
	Outcome   domain.AuthOutcome
	Token     string
	Principal *domain.Principal
}

// AuthService sequences a single login attempt: principal lookup, admin
// gate, activity check, credential verification, lockout accounting, and
// session-token issuance. Fatal infrastructure failures (store unreachable,
// signing key unavailable) are returned as errors; everything else is a
// normal AuthResult.
type AuthService interface {
	Authenticate(ctx context.Context, username, secret, origin string) (*AuthResult, error)
}

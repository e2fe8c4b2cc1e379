package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/transferdesk/management-api/internal/api/metrics"
	"github.com/transferdesk/management-api/internal/core/domain"
	"github.com/transferdesk/management-api/internal/core/ports"
)

const defaultMaxAttempts = 5

// SessionCache abstracts the fast-path session-id store (Redis). Misses and
// failures fall through to the principal record, so cache writes are
// best-effort.
type SessionCache interface {
	Put(ctx context.Context, username, sessionID string) error
}

// AuthConfig is the operator-provided authentication policy, loaded once at
// process start and injected here. It is immutable at runtime.
type AuthConfig struct {
	// MaxAttempts is the number of consecutive failed logins that locks the
	// account.
	MaxAttempts int
	// AdminAPILogin permits the system administrator role to log in through
	// the API. Disabled by default.
	AdminAPILogin bool
	JWTSecret     string
	TokenTTL      time.Duration
}

type authService struct {
	repo     ports.PrincipalRepository
	audit    ports.AuditSink
	sessions SessionCache
	cfg      AuthConfig
	log      zerolog.Logger
}

// NewAuthService returns the AuthService implementation. A non-positive
// MaxAttempts falls back to defaultMaxAttempts and a non-positive TokenTTL
// to 24h.
func NewAuthService(
	repo ports.PrincipalRepository,
	audit ports.AuditSink,
	sessions SessionCache,
	cfg AuthConfig,
	log zerolog.Logger,
) ports.AuthService {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &authService{repo: repo, audit: audit, sessions: sessions, cfg: cfg, log: log}
}

// Authenticate runs one login attempt end to end.
func (s *authService) Authenticate(ctx context.Context, username, secret, origin string) (*ports.AuthResult, error) {
	// 1. Resolve the principal. Unknown usernames terminate silently: the
	// identity is unknown, so there is nothing to audit and nothing to mutate.
	p, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if err == domain.ErrPrincipalNotFound {
			return &ports.AuthResult{Outcome: domain.OutcomeUnauthorized}, nil
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	// 2. Stamp the attempt before any further checks.
	now := time.Now().UTC()
	p.LastAttemptAt = &now
	p.Origin = origin

	// 3. Admin gate. A distinguishable-by-log denial, but the response code
	// matches the generic unauthorized path.
	if p.Role.SystemAdmin && !s.cfg.AdminAPILogin {
		s.audit.Append(domain.NewAuthFailure(p, domain.OutcomeUnauthorized, "Administrator disabled."))
		return &ports.AuthResult{Outcome: domain.OutcomeUnauthorized, Principal: p}, nil
	}

	// 4. Activity check: soft-deleted, disabled, or holding a disabled role.
	if !p.CanAuthenticate() {
		s.audit.Append(domain.NewAuthFailure(p, domain.OutcomeForbidden, "Inactive principal"))
		return &ports.AuthResult{Outcome: domain.OutcomeForbidden, Principal: p}, nil
	}

	// 5. Verify the secret. A mismatch is a normal negative result, not an
	// error.
	if bcrypt.CompareHashAndPassword([]byte(p.SecretHash), []byte(secret)) != nil {
		return s.recordFailure(ctx, p)
	}

	return s.recordSuccess(ctx, p)
}

// recordFailure increments the consecutive-failure counter and locks the
// account once the configured threshold is reached. The mutation is
// persisted before the outcome is returned; a store failure is fatal so a
// lost increment can never be reported as a counted attempt.
func (s *authService) recordFailure(ctx context.Context, p *domain.Principal) (*ports.AuthResult, error) {
	p.FailureCount++

	if p.FailureCount >= s.cfg.MaxAttempts {
		p.Active = false
		p.StatusNote = domain.LockNote(s.cfg.MaxAttempts)
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("authenticate: persist failed attempt: %w", err)
	}

	if !p.Active {
		s.audit.Append(domain.NewAuthFailure(p, domain.OutcomeForbidden, "Max allowed authentication attempts exhausted."))
		metrics.LockoutsTotal.Inc()
		s.log.Warn().
			Str("username", p.Username).
			Int("failures", p.FailureCount).
			Msg("principal locked")
		return &ports.AuthResult{Outcome: domain.OutcomeForbidden, Principal: p}, nil
	}

	s.audit.Append(domain.NewAuthFailure(p, domain.OutcomeUnauthorized, "Invalid credentials."))
	return &ports.AuthResult{Outcome: domain.OutcomeUnauthorized, Principal: p}, nil
}

// recordSuccess resets the failure counter, issues a fresh session token and
// persists the new session id. Overwriting the stored session id is what
// revokes any previously issued token.
func (s *authService) recordSuccess(ctx context.Context, p *domain.Principal) (*ports.AuthResult, error) {
	token, sessionID, err := s.issueToken(p)
	if err != nil {
		return nil, fmt.Errorf("authenticate: issue token: %w", err)
	}

	p.FailureCount = 0
	p.SessionID = sessionID

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("authenticate: persist session: %w", err)
	}

	if s.sessions != nil {
		if err := s.sessions.Put(ctx, p.Username, sessionID); err != nil {
			s.log.Warn().Err(err).Str("username", p.Username).Msg("session cache write failed")
		}
	}

	s.audit.Append(domain.NewAuthSuccess(p))
	return &ports.AuthResult{Outcome: domain.OutcomeOK, Token: token, Principal: p}, nil
}

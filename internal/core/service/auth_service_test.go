package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/transferdesk/management-api/internal/core/domain"
	"github.com/transferdesk/management-api/internal/core/ports"
)

type stubPrincipalRepo struct {
	principals map[string]*domain.Principal
	saveErr    error
	saves      int
}

func newStubPrincipalRepo() *stubPrincipalRepo {
	return &stubPrincipalRepo{principals: make(map[string]*domain.Principal)}
}

func clonePrincipal(p *domain.Principal) *domain.Principal {
	if p == nil {
		return nil
	}
	clone := *p
	if p.LastAttemptAt != nil {
		t := *p.LastAttemptAt
		clone.LastAttemptAt = &t
	}
	return &clone
}

func (r *stubPrincipalRepo) add(p *domain.Principal) {
	if p.ID == "" {
		p.ID = p.Username
	}
	r.principals[p.Username] = clonePrincipal(p)
}

func (r *stubPrincipalRepo) FindByUsername(_ context.Context, username string) (*domain.Principal, error) {
	p, ok := r.principals[username]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	return clonePrincipal(p), nil
}

func (r *stubPrincipalRepo) FindByID(_ context.Context, id string) (*domain.Principal, error) {
	for _, p := range r.principals {
		if p.ID == id {
			return clonePrincipal(p), nil
		}
	}
	return nil, domain.ErrPrincipalNotFound
}

func (r *stubPrincipalRepo) Create(_ context.Context, p *domain.Principal) (*domain.Principal, error) {
	if _, exists := r.principals[p.Username]; exists {
		return nil, domain.ErrPrincipalExists
	}
	r.add(clonePrincipal(p))
	return clonePrincipal(r.principals[p.Username]), nil
}

func (r *stubPrincipalRepo) Save(_ context.Context, p *domain.Principal) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.principals[p.Username] = clonePrincipal(p)
	return nil
}

func (r *stubPrincipalRepo) List(_ context.Context, _ ports.ListPrincipalsFilter) ([]*domain.Principal, int64, error) {
	var out []*domain.Principal
	for _, p := range r.principals {
		out = append(out, clonePrincipal(p))
	}
	return out, int64(len(out)), nil
}

type captureSink struct {
	events []domain.AuthEvent
}

func (c *captureSink) Append(e domain.AuthEvent) {
	c.events = append(c.events, e)
}

func hashSecret(t *testing.T, secret string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash secret: %v", err)
	}
	return string(h)
}

func activePrincipal(t *testing.T, username, secret string) *domain.Principal {
	t.Helper()
	return &domain.Principal{
		Username:   username,
		SecretHash: hashSecret(t, secret),
		Role:       domain.Role{Name: domain.RoleStandard, Active: true},
		Active:     true,
	}
}

func newTestAuthService(repo ports.PrincipalRepository, sink ports.AuditSink, cfg AuthConfig) ports.AuthService {
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "test-secret"
	}
	return NewAuthService(repo, sink, nil, cfg, zerolog.Nop())
}

func TestAuthenticate_UnknownUsername(t *testing.T) {
	repo := newStubPrincipalRepo()
	sink := &captureSink{}
	svc := newTestAuthService(repo, sink, AuthConfig{MaxAttempts: 3})

	result, err := svc.Authenticate(context.Background(), "nobody", "whatever", "10.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != domain.OutcomeUnauthorized {
		t.Fatalf("expected unauthorized, got %s", result.Outcome)
	}
	if len(sink.events) != 0 {
		t.Fatalf("expected zero audit events, got %d", len(sink.events))
	}
	if repo.saves != 0 {
		t.Fatalf("expected no persistence, got %d saves", repo.saves)
	}
}

func TestAuthenticate_Success(t *testing.T) {
	repo := newStubPrincipalRepo()
	sink := &captureSink{}
	p := activePrincipal(t, "alice", "s3cret")
	p.FailureCount = 3
	repo.add(p)
	svc := newTestAuthService(repo, sink, AuthConfig{MaxAttempts: 5})

	result, err := svc.Authenticate(context.Background(), "alice", "s3cret", "10.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != domain.OutcomeOK {
		t.Fatalf("expected ok, got %s", result.Outcome)
	}
	if result.Token == "" {
		t.Fatalf("expected token")
	}

	stored := repo.principals["alice"]
	if stored.FailureCount != 0 {
		t.Fatalf("expected failure count reset to 0, got %d", stored.FailureCount)
	}
	if stored.SessionID == "" {
		t.Fatalf("expected session id persisted")
	}
	if stored.Origin != "10.0.0.1" {
		t.Fatalf("expected origin recorded, got %q", stored.Origin)
	}
	if stored.LastAttemptAt == nil {
		t.Fatalf("expected attempt timestamp recorded")
	}

	if len(sink.events) != 1 {
		t.Fatalf("expected one audit event, got %d", len(sink.events))
	}
	ev := sink.events[0]
	if ev.Outcome != domain.OutcomeOK || ev.Reason != domain.ReasonLoginSuccess {
		t.Fatalf("unexpected audit event: %+v", ev)
	}
	if ev.Kind != domain.KindSecurity {
		t.Fatalf("expected security event, got %s", ev.Kind)
	}
}

func TestAuthenticate_SuccessTokenClaims(t *testing.T) {
	repo := newStubPrincipalRepo()
	repo.add(activePrincipal(t, "alice", "s3cret"))
	svc := newTestAuthService(repo, &captureSink{}, AuthConfig{MaxAttempts: 5})

	result, err := svc.Authenticate(context.Background(), "alice", "s3cret", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(result.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != "alice" {
		t.Fatalf("expected sub alice, got %v", claims["sub"])
	}
	if claims["jti"] != repo.principals["alice"].SessionID {
		t.Fatalf("token jti does not match stored session id")
	}
	if claims["role"] != domain.RoleStandard {
		t.Fatalf("expected role claim, got %v", claims["role"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Fatalf("expected expiry claim")
	}
}

func TestAuthenticate_WrongSecretIncrementsCounter(t *testing.T) {
	repo := newStubPrincipalRepo()
	sink := &captureSink{}
	p := activePrincipal(t, "alice", "s3cret")
	p.FailureCount = 1
	repo.add(p)
	svc := newTestAuthService(repo, sink, AuthConfig{MaxAttempts: 5})

	result, err := svc.Authenticate(context.Background(), "alice", "wrong", "10.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != domain.OutcomeUnauthorized {
		t.Fatalf("expected unauthorized, got %s", result.Outcome)
	}

	stored := repo.principals["alice"]
	if stored.FailureCount != 2 {
		t.Fatalf("expected failure count 2, got %d", stored.FailureCount)
	}
	if !stored.Active {
		t.Fatalf("principal must remain active below the threshold")
	}
	if len(sink.events) != 1 || sink.events[0].Outcome != domain.OutcomeUnauthorized {
		t.Fatalf("expected one failure audit event, got %+v", sink.events)
	}
}

func TestAuthenticate_ThresholdLocksAccount(t *testing.T) {
	repo := newStubPrincipalRepo()
	sink := &captureSink{}
	p := activePrincipal(t, "alice", "s3cret")
	p.FailureCount = 4
	repo.add(p)
	svc := newTestAuthService(repo, sink, AuthConfig{MaxAttempts: 5})

	result, err := svc.Authenticate(context.Background(), "alice", "wrong", "10.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != domain.OutcomeForbidden {
		t.Fatalf("expected forbidden, got %s", result.Outcome)
	}

	stored := repo.principals["alice"]
	if stored.Active {
		t.Fatalf("expected principal deactivated")
	}
	if stored.FailureCount != 5 {
		t.Fatalf("expected failure count 5, got %d", stored.FailureCount)
	}
	if !strings.Contains(stored.StatusNote, "5") {
		t.Fatalf("status note must embed the configured maximum, got %q", stored.StatusNote)
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected one audit event, got %d", len(sink.events))
	}
	if sink.events[0].Reason != "Max allowed authentication attempts exhausted." {
		t.Fatalf("unexpected reason: %q", sink.events[0].Reason)
	}
}

func TestAuthenticate_LockoutScenario(t *testing.T) {
	// maxAttempts = 3: three wrong attempts lock the account, a fourth with
	// the correct secret is still refused.
	repo := newStubPrincipalRepo()
	sink := &captureSink{}
	repo.add(activePrincipal(t, "alice", "s3cret"))
	svc := newTestAuthService(repo, sink, AuthConfig{MaxAttempts: 3})

	for i := 1; i <= 3; i++ {
		result, err := svc.Authenticate(context.Background(), "alice", "wrong", "10.0.0.1")
		if err != nil {
			t.Fatalf("attempt %d: unexpected error: %v", i, err)
		}
		stored := repo.principals["alice"]
		if stored.FailureCount != i {
			t.Fatalf("attempt %d: expected failure count %d, got %d", i, i, stored.FailureCount)
		}
		if i < 3 {
			if !stored.Active {
				t.Fatalf("attempt %d: expected principal still active", i)
			}
			if result.Outcome != domain.OutcomeUnauthorized {
				t.Fatalf("attempt %d: expected unauthorized, got %s", i, result.Outcome)
			}
		} else {
			if stored.Active {
				t.Fatalf("expected principal locked after attempt 3")
			}
			if result.Outcome != domain.OutcomeForbidden {
				t.Fatalf("expected forbidden on locking attempt, got %s", result.Outcome)
			}
			if !strings.Contains(stored.StatusNote, strconv.Itoa(3)) {
				t.Fatalf("status note must contain 3, got %q", stored.StatusNote)
			}
		}
	}

	result, err := svc.Authenticate(context.Background(), "alice", "s3cret", "10.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != domain.OutcomeForbidden {
		t.Fatalf("locked principal with correct secret: expected forbidden, got %s", result.Outcome)
	}
}

func TestAuthenticate_DeletedPrincipal(t *testing.T) {
	repo := newStubPrincipalRepo()
	sink := &captureSink{}
	p := activePrincipal(t, "alice", "s3cret")
	p.Deleted = true
	repo.add(p)
	svc := newTestAuthService(repo, sink, AuthConfig{MaxAttempts: 5})

	result, err := svc.Authenticate(context.Background(), "alice", "s3cret", "10.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != domain.OutcomeForbidden {
		t.Fatalf("expected forbidden, got %s", result.Outcome)
	}
	if len(sink.events) != 1 || sink.events[0].Reason != "Inactive principal" {
		t.Fatalf("expected inactive-principal audit event, got %+v", sink.events)
	}
}

func TestAuthenticate_InactiveRole(t *testing.T) {
	repo := newStubPrincipalRepo()
	sink := &captureSink{}
	p := activePrincipal(t, "alice", "s3cret")
	p.Role.Active = false
	repo.add(p)
	svc := newTestAuthService(repo, sink, AuthConfig{MaxAttempts: 5})

	result, err := svc.Authenticate(context.Background(), "alice", "s3cret", "10.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Indistinguishable in response from a soft-deleted principal.
	if result.Outcome != domain.OutcomeForbidden {
		t.Fatalf("expected forbidden, got %s", result.Outcome)
	}
	if len(sink.events) != 1 || sink.events[0].Reason != "Inactive principal" {
		t.Fatalf("expected inactive-principal audit event, got %+v", sink.events)
	}
}

func TestAuthenticate_AdminGateClosed(t *testing.T) {
	repo := newStubPrincipalRepo()
	sink := &captureSink{}
	p := activePrincipal(t, "root", "s3cret")
	p.Role = domain.Role{Name: domain.RoleSystemAdmin, Active: true, SystemAdmin: true}
	repo.add(p)
	svc := newTestAuthService(repo, sink, AuthConfig{MaxAttempts: 5, AdminAPILogin: false})

	result, err := svc.Authenticate(context.Background(), "root", "s3cret", "10.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != domain.OutcomeUnauthorized {
		t.Fatalf("expected unauthorized, got %s", result.Outcome)
	}
	if repo.principals["root"].FailureCount != 0 {
		t.Fatalf("admin gate must not touch the failure counter")
	}
	if len(sink.events) != 1 || sink.events[0].Reason != "Administrator disabled." {
		t.Fatalf("expected admin-disabled audit event, got %+v", sink.events)
	}
}

func TestAuthenticate_AdminGateOpen(t *testing.T) {
	repo := newStubPrincipalRepo()
	p := activePrincipal(t, "root", "s3cret")
	p.Role = domain.Role{Name: domain.RoleSystemAdmin, Active: true, SystemAdmin: true}
	repo.add(p)
	svc := newTestAuthService(repo, &captureSink{}, AuthConfig{MaxAttempts: 5, AdminAPILogin: true})

	result, err := svc.Authenticate(context.Background(), "root", "s3cret", "10.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != domain.OutcomeOK {
		t.Fatalf("expected ok, got %s", result.Outcome)
	}
}

func TestAuthenticate_NewLoginRevokesPriorSession(t *testing.T) {
	repo := newStubPrincipalRepo()
	repo.add(activePrincipal(t, "alice", "s3cret"))
	svc := newTestAuthService(repo, &captureSink{}, AuthConfig{MaxAttempts: 5})

	first, err := svc.Authenticate(context.Background(), "alice", "s3cret", "")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	firstSession := repo.principals["alice"].SessionID

	second, err := svc.Authenticate(context.Background(), "alice", "s3cret", "")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if first.Token == second.Token {
		t.Fatalf("expected distinct tokens per login")
	}

	stored := repo.principals["alice"].SessionID
	if stored == firstSession {
		t.Fatalf("expected stored session id overwritten")
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(first.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}); err != nil {
		t.Fatalf("parse first token: %v", err)
	}
	if claims["jti"] == stored {
		t.Fatalf("first token must no longer match the stored session id")
	}
}

func TestAuthenticate_PersistFailureIsFatal(t *testing.T) {
	repo := newStubPrincipalRepo()
	repo.add(activePrincipal(t, "alice", "s3cret"))
	repo.saveErr = errors.New("store down")
	svc := newTestAuthService(repo, &captureSink{}, AuthConfig{MaxAttempts: 5})

	if _, err := svc.Authenticate(context.Background(), "alice", "wrong", ""); err == nil {
		t.Fatalf("expected error when failed attempt cannot be persisted")
	}
	if _, err := svc.Authenticate(context.Background(), "alice", "s3cret", ""); err == nil {
		t.Fatalf("expected error when session cannot be persisted")
	}
}

func TestAuthenticate_MissingSigningKeyIsFatal(t *testing.T) {
	repo := newStubPrincipalRepo()
	sink := &captureSink{}
	repo.add(activePrincipal(t, "alice", "s3cret"))
	svc := NewAuthService(repo, sink, nil, AuthConfig{MaxAttempts: 5}, zerolog.Nop())

	if _, err := svc.Authenticate(context.Background(), "alice", "s3cret", ""); err == nil {
		t.Fatalf("expected error when signing key is unavailable")
	}
	if repo.principals["alice"].SessionID != "" {
		t.Fatalf("no session must be persisted when issuance fails")
	}
}

func TestAuthenticate_SessionCacheFailureIsDegraded(t *testing.T) {
	repo := newStubPrincipalRepo()
	repo.add(activePrincipal(t, "alice", "s3cret"))
	cache := &failingCache{}
	svc := NewAuthService(repo, &captureSink{}, cache, AuthConfig{MaxAttempts: 5, JWTSecret: "test-secret"}, zerolog.Nop())

	result, err := svc.Authenticate(context.Background(), "alice", "s3cret", "")
	if err != nil {
		t.Fatalf("cache failure must not fail the login: %v", err)
	}
	if result.Outcome != domain.OutcomeOK {
		t.Fatalf("expected ok, got %s", result.Outcome)
	}
}

type failingCache struct{}

func (f *failingCache) Put(context.Context, string, string) error {
	return errors.New("cache down")
}

func TestNewAuthService_Defaults(t *testing.T) {
	svc := NewAuthService(newStubPrincipalRepo(), &captureSink{}, nil, AuthConfig{JWTSecret: "x"}, zerolog.Nop())
	impl, ok := svc.(*authService)
	if !ok {
		t.Fatalf("unexpected implementation type")
	}
	if impl.cfg.MaxAttempts != defaultMaxAttempts {
		t.Fatalf("expected default max attempts, got %d", impl.cfg.MaxAttempts)
	}
	if impl.cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected default ttl, got %s", impl.cfg.TokenTTL)
	}
}

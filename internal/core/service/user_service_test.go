package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/transferdesk/management-api/internal/core/domain"
	"github.com/transferdesk/management-api/internal/core/ports"
)

func TestUserService_Create(t *testing.T) {
	repo := newStubPrincipalRepo()
	svc := NewUserService(repo, zerolog.Nop())

	p, generated, err := svc.Create(context.Background(), ports.CreatePrincipalInput{
		Username: "alice",
		Email:    "alice@example.com",
		Secret:   "initial-pass",
		Role:     domain.RoleStandard,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if generated != "" {
		t.Fatalf("expected no generated password when one was supplied")
	}
	if p.SecretHash == "initial-pass" {
		t.Fatalf("expected secret to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.SecretHash), []byte("initial-pass")); err != nil {
		t.Fatalf("stored hash does not match secret: %v", err)
	}
	if !p.Active || p.Deleted {
		t.Fatalf("new principal must start active and not deleted")
	}
	if p.Role.SystemAdmin {
		t.Fatalf("standard role must not carry the admin marker")
	}
}

func TestUserService_Create_GeneratedPassword(t *testing.T) {
	repo := newStubPrincipalRepo()
	svc := NewUserService(repo, zerolog.Nop())

	p, generated, err := svc.Create(context.Background(), ports.CreatePrincipalInput{
		Username: "bob",
		Role:     domain.RoleSystemAdmin,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(generated) != generatedPasswordLength {
		t.Fatalf("expected %d-character generated password, got %d", generatedPasswordLength, len(generated))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.SecretHash), []byte(generated)); err != nil {
		t.Fatalf("generated password does not verify: %v", err)
	}
	if !p.Role.SystemAdmin {
		t.Fatalf("expected admin marker on system_admin role")
	}
}

func TestUserService_Create_Duplicate(t *testing.T) {
	repo := newStubPrincipalRepo()
	svc := NewUserService(repo, zerolog.Nop())

	in := ports.CreatePrincipalInput{Username: "carol", Secret: "pass-123x", Role: domain.RoleStandard}
	if _, _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, _, err := svc.Create(context.Background(), in); err != domain.ErrPrincipalExists {
		t.Fatalf("expected ErrPrincipalExists, got %v", err)
	}
}

func TestUserService_Update_UnlockClearsLockState(t *testing.T) {
	repo := newStubPrincipalRepo()
	p := activePrincipal(t, "alice", "s3cret")
	p.Active = false
	p.FailureCount = 5
	p.StatusNote = domain.LockNote(5)
	repo.add(p)
	svc := NewUserService(repo, zerolog.Nop())

	active := true
	updated, err := svc.Update(context.Background(), "alice", ports.UpdatePrincipalInput{Active: &active})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Active {
		t.Fatalf("expected principal reactivated")
	}
	if updated.FailureCount != 0 {
		t.Fatalf("unlock must reset failure count, got %d", updated.FailureCount)
	}
	if updated.StatusNote != "" {
		t.Fatalf("unlock must clear the status note, got %q", updated.StatusNote)
	}
}

func TestUserService_Delete_SoftDeletes(t *testing.T) {
	repo := newStubPrincipalRepo()
	repo.add(activePrincipal(t, "alice", "s3cret"))
	svc := NewUserService(repo, zerolog.Nop())

	if err := svc.Delete(context.Background(), "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	stored := repo.principals["alice"]
	if stored == nil {
		t.Fatalf("soft delete must retain the record")
	}
	if !stored.Deleted || stored.Active {
		t.Fatalf("expected deleted and inactive, got deleted=%v active=%v", stored.Deleted, stored.Active)
	}
}

func TestRandomString(t *testing.T) {
	a, err := randomString(15)
	if err != nil {
		t.Fatalf("randomString: %v", err)
	}
	b, err := randomString(15)
	if err != nil {
		t.Fatalf("randomString: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct values")
	}
	if len(a) != 15 {
		t.Fatalf("expected length 15, got %d", len(a))
	}
}

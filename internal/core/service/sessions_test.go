package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type stubSessionCache struct {
	id  string
	ok  bool
	err error
}

func (s *stubSessionCache) Get(context.Context, string) (string, bool, error) {
	return s.id, s.ok, s.err
}

func TestSessionResolver_CacheHit(t *testing.T) {
	repo := newStubPrincipalRepo()
	r := NewSessionResolver(repo, &stubSessionCache{id: "cached", ok: true}, zerolog.Nop())

	id, err := r.CurrentSessionID(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "cached" {
		t.Fatalf("expected cached id, got %q", id)
	}
}

func TestSessionResolver_CacheMissFallsThrough(t *testing.T) {
	repo := newStubPrincipalRepo()
	p := activePrincipal(t, "alice", "s3cret")
	p.SessionID = "stored"
	repo.add(p)
	r := NewSessionResolver(repo, &stubSessionCache{}, zerolog.Nop())

	id, err := r.CurrentSessionID(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "stored" {
		t.Fatalf("expected stored id, got %q", id)
	}
}

func TestSessionResolver_CacheErrorFallsThrough(t *testing.T) {
	repo := newStubPrincipalRepo()
	p := activePrincipal(t, "alice", "s3cret")
	p.SessionID = "stored"
	repo.add(p)
	r := NewSessionResolver(repo, &stubSessionCache{err: errors.New("cache down")}, zerolog.Nop())

	id, err := r.CurrentSessionID(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "stored" {
		t.Fatalf("expected stored id, got %q", id)
	}
}

func TestSessionResolver_UnknownPrincipal(t *testing.T) {
	r := NewSessionResolver(newStubPrincipalRepo(), nil, zerolog.Nop())

	if _, err := r.CurrentSessionID(context.Background(), "ghost"); err == nil {
		t.Fatalf("expected error for unknown principal")
	}
}

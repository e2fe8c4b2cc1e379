package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/transferdesk/management-api/internal/core/ports"
)

// SessionGetter is the read side of the session cache.
type SessionGetter interface {
	Get(ctx context.Context, username string) (sessionID string, ok bool, err error)
}

// SessionResolver answers "what is this principal's current session id?" for
// the token middleware's revocation check. It consults the cache first and
// falls through to the principal record on a miss or a cache error.
type SessionResolver struct {
	repo  ports.PrincipalRepository
	cache SessionGetter
	log   zerolog.Logger
}

func NewSessionResolver(repo ports.PrincipalRepository, cache SessionGetter, log zerolog.Logger) *SessionResolver {
	return &SessionResolver{repo: repo, cache: cache, log: log}
}

// CurrentSessionID returns the session id stored on the principal record,
// which a valid token's jti must match. An empty id means no outstanding
// session.
func (r *SessionResolver) CurrentSessionID(ctx context.Context, username string) (string, error) {
	if r.cache != nil {
		id, ok, err := r.cache.Get(ctx, username)
		if err != nil {
			r.log.Warn().Err(err).Str("username", username).Msg("session cache read failed")
		} else if ok {
			return id, nil
		}
	}

	p, err := r.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("resolve session: %w", err)
	}
	return p.SessionID, nil
}

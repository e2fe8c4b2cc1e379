package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/transferdesk/management-api/internal/core/domain"
)

var errNoSigningKey = errors.New("jwt signing key not configured")

// issueToken mints a signed session token for the principal. The jti claim
// is a fresh session identifier; the caller persists it onto the principal
// record so the token can later be invalidated by overwrite.
func (s *authService) issueToken(p *domain.Principal) (token, sessionID string, err error) {
	if s.cfg.JWTSecret == "" {
		return "", "", errNoSigningKey
	}

	sessionID = uuid.NewString()
	now := time.Now().UTC()

	claims := jwt.MapClaims{
		"sub":  p.Username,
		"jti":  sessionID,
		"role": p.Role.Name,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.TokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", "", err
	}
	return token, sessionID, nil
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// SessionChecker resolves a principal's current session identifier. A token
// whose jti claim no longer matches it has been revoked by overwrite.
type SessionChecker interface {
	CurrentSessionID(ctx context.Context, username string) (string, error)
}

// Auth validates the JWT, runs the session revocation check, and injects
// claims into context.
func Auth(jwtSecret string, sessions SessionChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			username, _ := claims["sub"].(string)
			jti, _ := claims["jti"].(string)
			if username == "" || jti == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}

			// Revocation check: a newer login overwrites the stored session
			// id, so tokens from earlier sessions stop verifying here.
			if sessions != nil {
				current, err := sessions.CurrentSessionID(c.Request().Context(), username)
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "session verification failed")
				}
				if current != jti {
					return echo.NewHTTPError(http.StatusUnauthorized, "session revoked")
				}
			}

			c.Set("username", username)
			c.Set("role", claims["role"])
			c.Set("session_id", jti)

			return next(c)
		}
	}
}

package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/transferdesk/management-api/internal/api/metrics"
	"github.com/transferdesk/management-api/internal/core/domain"
	"github.com/transferdesk/management-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type authenticateRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authenticateResponse struct {
	Token string `json:"token"`
}

// Authenticate handles POST /v1/authenticate.
//
// Denials return bare status codes with no body: 401 covers both unknown
// usernames and wrong passwords (and the disabled administrator path, which
// is distinguishable only in the audit log), 403 covers inactive, deleted
// and locked principals.
//
// @Summary      Authenticate with username and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authenticateRequest  true  "Credentials"
// @Success      200   {object}  authenticateResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   "Invalid username or password"
// @Failure      403   "Inactive account"
// @Failure      500   {object}  errorResponse
// @Router       /v1/authenticate [post]
func (h *AuthHandler) Authenticate(c echo.Context) error {
	var req authenticateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	result, err := h.authService.Authenticate(c.Request().Context(), req.Username, req.Password, c.RealIP())
	if err != nil {
		observeAuth("error", start)
		return err
	}
	observeAuth(string(result.Outcome), start)

	switch result.Outcome {
	case domain.OutcomeOK:
		return c.JSON(http.StatusOK, authenticateResponse{Token: result.Token})
	case domain.OutcomeForbidden:
		return c.NoContent(http.StatusForbidden)
	default:
		return c.NoContent(http.StatusUnauthorized)
	}
}

func observeAuth(outcome string, start time.Time) {
	metrics.AuthAttemptsTotal.WithLabelValues(outcome).Inc()
	metrics.AuthDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

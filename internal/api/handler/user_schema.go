package handler

import (
	"time"

	"github.com/transferdesk/management-api/internal/core/domain"
)

type createUserRequest struct {
	Username  string `json:"username" validate:"required,min=3"`
	Email     string `json:"email" validate:"omitempty,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	// Password is optional; when omitted a random one is generated and
	// returned once in the response.
	Password string `json:"password" validate:"omitempty,min=8"`
	Role     string `json:"role" validate:"required,oneof=standard system_admin"`
}

type updateUserRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Active    *bool   `json:"active"`
	Role      *string `json:"role" validate:"omitempty,oneof=standard system_admin"`
}

type userResponse struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email,omitempty"`
	FirstName     string     `json:"first_name,omitempty"`
	LastName      string     `json:"last_name,omitempty"`
	Role          string     `json:"role"`
	Active        bool       `json:"active"`
	StatusNote    string     `json:"status_note,omitempty"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	// GeneratedPassword is set only on creation, and only when the caller
	// did not supply one.
	GeneratedPassword string `json:"generated_password,omitempty"`
}

type userListResponse struct {
	Users []userResponse `json:"users"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
}

func toUserResponse(p *domain.Principal) userResponse {
	return userResponse{
		ID:            p.ID,
		Username:      p.Username,
		Email:         p.Email,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Role:          p.Role.Name,
		Active:        p.Active,
		StatusNote:    p.StatusNote,
		LastAttemptAt: p.LastAttemptAt,
		CreatedAt:     p.CreatedAt,
	}
}

package handler

import (
	"time"

	"github.com/transferdesk/management-api/internal/core/domain"
)

type createLocationRequest struct {
	Name     string `json:"name" validate:"required"`
	Code     string `json:"code" validate:"required"`
	Level    int    `json:"level" validate:"required,gte=1"`
	ParentID string `json:"parent_id"`
}

type updateLocationRequest struct {
	Name   *string `json:"name"`
	Active *bool   `json:"active"`
}

type locationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Level     int       `json:"level"`
	ParentID  string    `json:"parent_id,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type locationListResponse struct {
	Locations []locationResponse `json:"locations"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
}

func toLocationResponse(l *domain.Location) locationResponse {
	return locationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Code:      l.Code,
		Level:     l.Level,
		ParentID:  l.ParentID,
		Active:    l.Active,
		CreatedAt: l.CreatedAt,
	}
}

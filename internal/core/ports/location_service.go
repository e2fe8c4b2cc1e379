package ports

import (
	"context"

	"github.com/transferdesk/management-api/internal/core/domain"
)

// CreateLocationInput carries the fields for adding a hierarchy node.
type CreateLocationInput struct {
	Name     string
	Code     string
	Level    int
	ParentID string
}

// UpdateLocationInput carries partial updates; nil fields are left untouched.
type UpdateLocationInput struct {
	Name   *string
	Active *bool
}

// LocationService manages the administrative location hierarchy.
type LocationService interface {
	Create(ctx context.Context, in CreateLocationInput) (*domain.Location, error)
	Get(ctx context.Context, id string) (*domain.Location, error)
	List(ctx context.Context, parentID string, page, limit int) ([]*domain.Location, int64, error)
	Update(ctx context.Context, id string, in UpdateLocationInput) (*domain.Location, error)
}

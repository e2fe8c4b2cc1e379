package ports

import (
	"context"

	"github.com/transferdesk/management-api/internal/core/domain"
)

// LocationRepository defines persistence operations for the location
// hierarchy.
type LocationRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Location, error)
	Create(ctx context.Context, l *domain.Location) (*domain.Location, error)
	Save(ctx context.Context, l *domain.Location) error
	// List returns a page of locations and the total count. When parentID is
	// non-empty only direct children of that location are returned.
	List(ctx context.Context, parentID string, page, limit int) ([]*domain.Location, int64, error)
}

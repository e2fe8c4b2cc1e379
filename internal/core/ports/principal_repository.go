package ports

import (
	"context"

	"github.com/transferdesk/management-api/internal/core/domain"
)

// ListPrincipalsFilter carries the query parameters for listing principals.
type ListPrincipalsFilter struct {
	Role   string // optional: filter by role name
	Active *bool  // optional: filter by activation flag
	Search string // optional: partial match on username or email
	Page   int    // 1-based
	Limit  int    // max rows per page (capped at 100 by service)
}

// PrincipalRepository defines persistence operations for principals.
//
// Save must be atomic at the level of a single principal record: the
// authentication flow relies on the store to serialise concurrent
// read-modify-write cycles against the failure counter and activation flag.
type PrincipalRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Principal, error)
	FindByID(ctx context.Context, id string) (*domain.Principal, error)
	Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
	Save(ctx context.Context, p *domain.Principal) error
	// List returns a page of principals matching filter and the total count.
	List(ctx context.Context, filter ListPrincipalsFilter) ([]*domain.Principal, int64, error)
}

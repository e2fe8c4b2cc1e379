package ports

import (
	"context"

	"github.com/transferdesk/management-api/internal/core/domain"
)

// CreatePrincipalInput carries the fields for provisioning a new principal.
// When Secret is empty the service generates a random initial password and
// returns it once, in the clear, to the caller.
type CreatePrincipalInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Secret    string
	Role      string
}

// UpdatePrincipalInput carries partial updates; nil fields are left
// untouched. Setting Active to true is the administrative unlock path: it
// also clears the failure counter and status note.
type UpdatePrincipalInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Active    *bool
	Role      *string
}

// UserService implements administrative principal management.
type UserService interface {
	// Create provisions a principal. The second return value is the
	// generated password when none was supplied, otherwise empty.
	Create(ctx context.Context, in CreatePrincipalInput) (*domain.Principal, string, error)
	Get(ctx context.Context, id string) (*domain.Principal, error)
	List(ctx context.Context, filter ListPrincipalsFilter) ([]*domain.Principal, int64, error)
	Update(ctx context.Context, id string, in UpdatePrincipalInput) (*domain.Principal, error)
	// Delete soft-deletes the principal; the record is retained.
	Delete(ctx context.Context, id string) error
}

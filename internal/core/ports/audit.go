package ports

import (
	"context"

	"github.com/transferdesk/management-api/internal/core/domain"
)

// AuditSink receives authentication audit events. Append is fire-and-forget:
// it never blocks the authentication flow and delivery failures are degraded
// to log output by the implementation, not surfaced to the caller.
type AuditSink interface {
	Append(event domain.AuthEvent)
}

// AuditRepository persists audit events. The backing collection is
// append-only; there are no update or delete operations.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
}

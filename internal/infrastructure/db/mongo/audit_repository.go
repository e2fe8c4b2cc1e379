package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/transferdesk/management-api/internal/core/domain"
)

const auditCollection = "auth_events"

// MongoAuditRepository appends authentication events to an insert-only
// collection. There are deliberately no update or delete operations.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuthEvent struct {
	Kind      string `bson:"kind"`
	Username  string `bson:"username"`
	Role      string `bson:"role"`
	Origin    string `bson:"origin,omitempty"`
	Outcome   string `bson:"outcome"`
	Reason    string `bson:"reason"`
	Timestamp int64  `bson:"timestamp"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	doc := mongoAuthEvent{
		Kind:      string(event.Kind),
		Username:  event.Username,
		Role:      event.Role,
		Origin:    event.Origin,
		Outcome:   string(event.Outcome),
		Reason:    event.Reason,
		Timestamp: event.Timestamp.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}

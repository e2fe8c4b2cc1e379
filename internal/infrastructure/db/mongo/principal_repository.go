package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/transferdesk/management-api/internal/core/domain"
	"github.com/transferdesk/management-api/internal/core/ports"
)

const principalCollection = "principals"

type MongoPrincipalRepository struct {
	coll *mongo.Collection
}

func NewPrincipalRepository(db *mongo.Database) *MongoPrincipalRepository {
	return &MongoPrincipalRepository{coll: db.Collection(principalCollection)}
}

type mongoRole struct {
	Name        string `bson:"name"`
	Active      bool   `bson:"active"`
	SystemAdmin bool   `bson:"system_admin"`
}

type mongoPrincipal struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Username      string             `bson:"username"`
	Email         string             `bson:"email,omitempty"`
	FirstName     string             `bson:"first_name,omitempty"`
	LastName      string             `bson:"last_name,omitempty"`
	SecretHash    string             `bson:"secret_hash"`
	Role          mongoRole          `bson:"role"`
	Active        bool               `bson:"active"`
	Deleted       bool               `bson:"deleted"`
	FailureCount  int                `bson:"failure_count"`
	LastAttemptAt int64              `bson:"last_attempt_at,omitempty"`
	Origin        string             `bson:"origin,omitempty"`
	SessionID     string             `bson:"session_id,omitempty"`
	StatusNote    string             `bson:"status_note,omitempty"`
	CreatedAt     int64              `bson:"created_at"`
	UpdatedAt     int64              `bson:"updated_at"`
}

func (r *MongoPrincipalRepository) Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	_, err := r.coll.InsertOne(ctx, toMongoPrincipal(p))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrPrincipalExists
		}
		return nil, fmt.Errorf("insert principal: %w", err)
	}

	// fetch back to get ID
	return r.FindByUsername(ctx, p.Username)
}

func (r *MongoPrincipalRepository) FindByUsername(ctx context.Context, username string) (*domain.Principal, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoPrincipalRepository) FindByID(ctx context.Context, id string) (*domain.Principal, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPrincipalNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoPrincipalRepository) findOne(ctx context.Context, filter bson.M) (*domain.Principal, error) {
	var mp mongoPrincipal
	if err := r.coll.FindOne(ctx, filter).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("find principal: %w", err)
	}
	return fromMongoPrincipal(&mp), nil
}

// Save replaces the whole principal document. A single-document replace is
// atomic in MongoDB, which is the row-level consistency the authentication
// flow depends on for its counter and activation updates.
func (r *MongoPrincipalRepository) Save(ctx context.Context, p *domain.Principal) error {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return fmt.Errorf("save principal: bad id %q", p.ID)
	}

	doc := toMongoPrincipal(p)
	doc.ID = oid

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("save principal: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPrincipalNotFound
	}
	return nil
}

func (r *MongoPrincipalRepository) List(ctx context.Context, filter ports.ListPrincipalsFilter) ([]*domain.Principal, int64, error) {
	query := bson.M{"deleted": false}
	if filter.Role != "" {
		query["role.name"] = filter.Role
	}
	if filter.Active != nil {
		query["active"] = *filter.Active
	}
	if filter.Search != "" {
		query["$or"] = bson.A{
			bson.M{"username": bson.M{"$regex": filter.Search, "$options": "i"}},
			bson.M{"email": bson.M{"$regex": filter.Search, "$options": "i"}},
		}
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count principals: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "username", Value: 1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list principals: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Principal
	for cur.Next(ctx) {
		var mp mongoPrincipal
		if err := cur.Decode(&mp); err != nil {
			return nil, 0, fmt.Errorf("decode principal: %w", err)
		}
		out = append(out, fromMongoPrincipal(&mp))
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list principals: %w", err)
	}
	return out, total, nil
}

func toMongoPrincipal(p *domain.Principal) *mongoPrincipal {
	mp := &mongoPrincipal{
		Username:     p.Username,
		Email:        p.Email,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		SecretHash:   p.SecretHash,
		Role:         mongoRole{Name: p.Role.Name, Active: p.Role.Active, SystemAdmin: p.Role.SystemAdmin},
		Active:       p.Active,
		Deleted:      p.Deleted,
		FailureCount: p.FailureCount,
		Origin:       p.Origin,
		SessionID:    p.SessionID,
		StatusNote:   p.StatusNote,
		CreatedAt:    p.CreatedAt.Unix(),
		UpdatedAt:    p.UpdatedAt.Unix(),
	}
	if p.LastAttemptAt != nil {
		mp.LastAttemptAt = p.LastAttemptAt.Unix()
	}
	return mp
}

func fromMongoPrincipal(mp *mongoPrincipal) *domain.Principal {
	p := &domain.Principal{
		ID:           mp.ID.Hex(),
		Username:     mp.Username,
		Email:        mp.Email,
		FirstName:    mp.FirstName,
		LastName:     mp.LastName,
		SecretHash:   mp.SecretHash,
		Role:         domain.Role{Name: mp.Role.Name, Active: mp.Role.Active, SystemAdmin: mp.Role.SystemAdmin},
		Active:       mp.Active,
		Deleted:      mp.Deleted,
		FailureCount: mp.FailureCount,
		Origin:       mp.Origin,
		SessionID:    mp.SessionID,
		StatusNote:   mp.StatusNote,
		CreatedAt:    unixToTime(mp.CreatedAt),
		UpdatedAt:    unixToTime(mp.UpdatedAt),
	}
	if mp.LastAttemptAt != 0 {
		t := unixToTime(mp.LastAttemptAt)
		p.LastAttemptAt = &t
	}
	return p
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

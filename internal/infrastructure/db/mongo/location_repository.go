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
)

const locationCollection = "locations"

type MongoLocationRepository struct {
	coll *mongo.Collection
}

func NewLocationRepository(db *mongo.Database) *MongoLocationRepository {
	return &MongoLocationRepository{coll: db.Collection(locationCollection)}
}

type mongoLocation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Code      string             `bson:"code"`
	Level     int                `bson:"level"`
	ParentID  string             `bson:"parent_id,omitempty"`
	Active    bool               `bson:"active"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (r *MongoLocationRepository) Create(ctx context.Context, l *domain.Location) (*domain.Location, error) {
	doc := toMongoLocation(l)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrLocationExists
		}
		return nil, fmt.Errorf("insert location: %w", err)
	}

	oid, _ := res.InsertedID.(primitive.ObjectID)
	out := *l
	out.ID = oid.Hex()
	return &out, nil
}

func (r *MongoLocationRepository) FindByID(ctx context.Context, id string) (*domain.Location, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrLocationNotFound
	}

	var ml mongoLocation
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ml); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrLocationNotFound
		}
		return nil, fmt.Errorf("find location: %w", err)
	}
	return fromMongoLocation(&ml), nil
}

func (r *MongoLocationRepository) Save(ctx context.Context, l *domain.Location) error {
	oid, err := primitive.ObjectIDFromHex(l.ID)
	if err != nil {
		return fmt.Errorf("save location: bad id %q", l.ID)
	}

	doc := toMongoLocation(l)
	doc.ID = oid

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("save location: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrLocationNotFound
	}
	return nil
}

func (r *MongoLocationRepository) List(ctx context.Context, parentID string, page, limit int) ([]*domain.Location, int64, error) {
	query := bson.M{}
	if parentID != "" {
		query["parent_id"] = parentID
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count locations: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "level", Value: 1}, {Key: "name", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list locations: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Location
	for cur.Next(ctx) {
		var ml mongoLocation
		if err := cur.Decode(&ml); err != nil {
			return nil, 0, fmt.Errorf("decode location: %w", err)
		}
		out = append(out, fromMongoLocation(&ml))
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list locations: %w", err)
	}
	return out, total, nil
}

func toMongoLocation(l *domain.Location) *mongoLocation {
	return &mongoLocation{
		Name:      l.Name,
		Code:      l.Code,
		Level:     l.Level,
		ParentID:  l.ParentID,
		Active:    l.Active,
		CreatedAt: l.CreatedAt.Unix(),
		UpdatedAt: l.UpdatedAt.Unix(),
	}
}

func fromMongoLocation(ml *mongoLocation) *domain.Location {
	return &domain.Location{
		ID:        ml.ID.Hex(),
		Name:      ml.Name,
		Code:      ml.Code,
		Level:     ml.Level,
		ParentID:  ml.ParentID,
		Active:    ml.Active,
		CreatedAt: time.Unix(ml.CreatedAt, 0).UTC(),
		UpdatedAt: time.Unix(ml.UpdatedAt, 0).UTC(),
	}
}

package repository

import (
	"context"
	"time"

	"inflecto-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ContactRepo handles MongoDB operations for contact requests
type ContactRepo interface {
	Create(ctx context.Context, c *model.Contact) error
	List(ctx context.Context) ([]*model.Contact, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type contactRepo struct {
	collection *mongo.Collection
}

// NewContactRepo creates a new contact repository
func NewContactRepo(db *mongo.Database) ContactRepo {
	return &contactRepo{
		collection: db.Collection("contacts"),
	}
}

func (r *contactRepo) Create(ctx context.Context, c *model.Contact) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid.Hex()
	}
	return nil
}

// List returns every contact request, newest first
func (r *contactRepo) List(ctx context.Context) ([]*model.Contact, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	contacts := []*model.Contact{}
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *contactRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

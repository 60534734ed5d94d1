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

// BlogRepo handles MongoDB operations for blog posts
type BlogRepo interface {
	Create(ctx context.Context, b *model.Blog) error
	List(ctx context.Context) ([]*model.Blog, error)
	GetByID(ctx context.Context, id string) (*model.Blog, error)
}

type blogRepo struct {
	collection *mongo.Collection
}

// NewBlogRepo creates a new blog repository
func NewBlogRepo(db *mongo.Database) BlogRepo {
	return &blogRepo{
		collection: db.Collection("blogs"),
	}
}

func (r *blogRepo) Create(ctx context.Context, b *model.Blog) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, b)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		b.ID = oid.Hex()
	}
	return nil
}

// List returns every post, newest first
func (r *blogRepo) List(ctx context.Context) ([]*model.Blog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	blogs := []*model.Blog{}
	if err := cursor.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// GetByID returns nil without error for unknown or malformed ids
func (r *blogRepo) GetByID(ctx context.Context, id string) (*model.Blog, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var b model.Blog
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

package repository

import (
	"context"
	"time"

	"inflecto-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AssessmentRepo handles MongoDB operations for assessments
type AssessmentRepo interface {
	Create(ctx context.Context, a *model.Assessment) error
	GetByID(ctx context.Context, id string) (*model.Assessment, error)
	AppendAnswers(ctx context.Context, id string, answers []model.StoredAnswer) (bool, error)
	SaveResult(ctx context.Context, id string, result model.Result) (bool, error)
	SetReportStatus(ctx context.Context, id string, status model.ReportStatus, reason string) error
	SaveReport(ctx context.Context, id string, report *model.Report) error
	MarkEmailed(ctx context.Context, id string, at time.Time) error
}

type assessmentRepo struct {
	collection *mongo.Collection
}

// NewAssessmentRepo creates a new assessment repository
func NewAssessmentRepo(db *mongo.Database) AssessmentRepo {
	return &assessmentRepo{
		collection: db.Collection("assessments"),
	}
}

func (r *assessmentRepo) Create(ctx context.Context, a *model.Assessment) error {
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Answers == nil {
		a.Answers = []model.StoredAnswer{}
	}
	if a.ReportStatus == "" {
		a.ReportStatus = model.ReportNotStarted
	}

	_, err := r.collection.InsertOne(ctx, a)
	return err
}

func (r *assessmentRepo) GetByID(ctx context.Context, id string) (*model.Assessment, error) {
	var a model.Assessment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// AppendAnswers reports false when no assessment has the given id
func (r *assessmentRepo) AppendAnswers(ctx context.Context, id string, answers []model.StoredAnswer) (bool, error) {
	update := bson.M{
		"$push": bson.M{"answers": bson.M{"$each": answers}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// SaveResult stores the final result and marks the report pending
func (r *assessmentRepo) SaveResult(ctx context.Context, id string, result model.Result) (bool, error) {
	update := bson.M{"$set": bson.M{
		"result":       result,
		"reportStatus": model.ReportPending,
		"updatedAt":    time.Now().UTC(),
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *assessmentRepo) SetReportStatus(ctx context.Context, id string, status model.ReportStatus, reason string) error {
	update := bson.M{"$set": bson.M{
		"reportStatus": status,
		"reportError":  reason,
		"updatedAt":    time.Now().UTC(),
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *assessmentRepo) SaveReport(ctx context.Context, id string, report *model.Report) error {
	update := bson.M{
		"$set": bson.M{
			"report":       report,
			"reportStatus": model.ReportReady,
			"updatedAt":    time.Now().UTC(),
		},
		"$unset": bson.M{"reportError": ""},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *assessmentRepo) MarkEmailed(ctx context.Context, id string, at time.Time) error {
	update := bson.M{"$set": bson.M{
		"emailedAt": at,
		"updatedAt": time.Now().UTC(),
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

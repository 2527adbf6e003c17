package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/msshahs/prepseed-backend-sub003/internal/model"
)

// GradeRepo manages the claimable grading work items.
type GradeRepo interface {
	// Schedule creates a unit that becomes claimable at readyAt.
	Schedule(ctx context.Context, targetID string, readyAt time.Time) (*model.GradeUnit, error)

	// ClaimNext atomically claims one ready, unclaimed unit and returns it.
	// Returns (nil, nil) when nothing is claimable. The conditional
	// FindOneAndUpdate on a single document is the entire exactly-once
	// argument: once graded flips to true no other poller can observe the
	// unit as claimable.
	ClaimNext(ctx context.Context) (*model.GradeUnit, error)

	// CountGradedSince counts units claimed at or after the given instant.
	CountGradedSince(ctx context.Context, since time.Time) (int64, error)
}

type gradeRepo struct {
	collection *mongo.Collection
}

// NewGradeRepo creates a grade unit repository.
func NewGradeRepo(db *mongo.Database) GradeRepo {
	return &gradeRepo{collection: db.Collection("grade_units")}
}

func (r *gradeRepo) Schedule(ctx context.Context, targetID string, readyAt time.Time) (*model.GradeUnit, error) {
	unit := &model.GradeUnit{
		ID:        primitive.NewObjectID().Hex(),
		TargetID:  targetID,
		Graded:    false,
		ReadyAt:   readyAt,
		CreatedAt: time.Now(),
	}
	if _, err := r.collection.InsertOne(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

func (r *gradeRepo) ClaimNext(ctx context.Context) (*model.GradeUnit, error) {
	now := time.Now()
	filter := bson.M{
		"graded":  false,
		"readyAt": bson.M{"$lte": now},
	}
	update := bson.M{
		"$set": bson.M{
			"graded":    true,
			"claimedAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var unit model.GradeUnit
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&unit)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &unit, nil
}

func (r *gradeRepo) CountGradedSince(ctx context.Context, since time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"graded":    true,
		"claimedAt": bson.M{"$gte": since},
	})
}

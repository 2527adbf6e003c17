package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/msshahs/prepseed-backend-sub003/internal/model"
)

// StatsRepo maintains the per-question running statistics. Attempts are
// appended in bulk by the grading pipeline; the statistics sweep recomputes
// the derived fields for dirty questions.
type StatsRepo interface {
	// AppendAttempts bulk-pushes one attempt per question id and marks the
	// touched questions dirty. Documents are created on first attempt.
	AppendAttempts(ctx context.Context, attempts map[string]model.QuestionAttempt) error

	// ListDirty returns up to limit questions awaiting recomputation.
	ListDirty(ctx context.Context, limit int) ([]*model.QuestionStatistics, error)

	// UpdateDerived writes recomputed limits, accuracy and median for one
	// question and clears its dirty flag.
	UpdateDerived(ctx context.Context, questionID string, limits model.TimeBounds, avgAccuracy, medianTime float64) error
}

type statsRepo struct {
	collection *mongo.Collection
}

// NewStatsRepo creates a question statistics repository.
func NewStatsRepo(db *mongo.Database) StatsRepo {
	return &statsRepo{collection: db.Collection("question_statistics")}
}

func (r *statsRepo) AppendAttempts(ctx context.Context, attempts map[string]model.QuestionAttempt) error {
	if len(attempts) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(attempts))
	now := time.Now()
	for questionID, attempt := range attempts {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": questionID}).
			SetUpdate(bson.M{
				"$push": bson.M{"attempts": attempt},
				"$set":  bson.M{"dirty": true, "updatedAt": now},
			}).
			SetUpsert(true))
	}
	_, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

func (r *statsRepo) ListDirty(ctx context.Context, limit int) ([]*model.QuestionStatistics, error) {
	opts := options.Find().SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"dirty": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var all []*model.QuestionStatistics
	if err = cursor.All(ctx, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (r *statsRepo) UpdateDerived(ctx context.Context, questionID string, limits model.TimeBounds, avgAccuracy, medianTime float64) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": questionID},
		bson.M{"$set": bson.M{
			"perfectTimeLimits": limits,
			"avgAccuracy":       avgAccuracy,
			"medianTime":        medianTime,
			"dirty":             false,
			"updatedAt":         time.Now(),
		}},
	)
	return err
}

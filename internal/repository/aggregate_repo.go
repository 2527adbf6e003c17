package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/msshahs/prepseed-backend-sub003/internal/model"
)

// AggregateRepo owns the one-per-user running metric aggregate. All methods
// that mutate a user's document are expected to be called through the
// per-user update queue; the repository itself performs no locking.
type AggregateRepo interface {
	// Get returns the user's aggregate, or an empty lazily-initialized one
	// when the user has no document yet.
	Get(ctx context.Context, userID string) (*model.UserCategoryAggregate, error)

	// UpsertSnapshot writes the snapshot keyed by its assessment id: an
	// existing snapshot for the same assessment is overwritten in place, a
	// new one is appended, and the running totals are recomputed. The
	// document is created on first touch.
	UpsertSnapshot(ctx context.Context, userID string, snap model.AssessmentSnapshot) error

	// ApplyOvertimeDelta clears the timely question ids and then (re)flags
	// the overrun ones, in that order.
	ApplyOvertimeDelta(ctx context.Context, userID string, removals []string, insertions []model.OvertimeEntry) error
}

type aggregateRepo struct {
	collection *mongo.Collection
}

// NewAggregateRepo creates a user aggregate repository.
func NewAggregateRepo(db *mongo.Database) AggregateRepo {
	return &aggregateRepo{collection: db.Collection("user_category_aggregates")}
}

func (r *aggregateRepo) Get(ctx context.Context, userID string) (*model.UserCategoryAggregate, error) {
	var agg model.UserCategoryAggregate
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&agg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return &model.UserCategoryAggregate{UserID: userID}, nil
		}
		return nil, err
	}
	return &agg, nil
}

func (r *aggregateRepo) UpsertSnapshot(ctx context.Context, userID string, snap model.AssessmentSnapshot) error {
	agg, err := r.Get(ctx, userID)
	if err != nil {
		return err
	}
	agg.PutSnapshot(snap)
	agg.UpdatedAt = time.Now()

	opts := options.Replace().SetUpsert(true)
	_, err = r.collection.ReplaceOne(ctx, bson.M{"_id": userID}, agg, opts)
	return err
}

func (r *aggregateRepo) ApplyOvertimeDelta(ctx context.Context, userID string, removals []string, insertions []model.OvertimeEntry) error {
	// Drop every id mentioned in the pass first, then push the overrun
	// entries: a question in both lists ends the pass flagged, a timely one
	// never stays flagged.
	drop := make([]string, 0, len(removals)+len(insertions))
	drop = append(drop, removals...)
	for _, e := range insertions {
		drop = append(drop, e.QuestionID)
	}
	if len(drop) > 0 {
		_, err := r.collection.UpdateOne(ctx,
			bson.M{"_id": userID},
			bson.M{"$pull": bson.M{"overtime": bson.M{"questionId": bson.M{"$in": drop}}}},
		)
		if err != nil {
			return err
		}
	}
	if len(insertions) == 0 {
		return nil
	}
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$push": bson.M{"overtime": bson.M{"$each": insertions}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

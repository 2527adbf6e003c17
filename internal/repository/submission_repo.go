package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/msshahs/prepseed-backend-sub003/internal/model"
)

// SubmissionRepo reads finished attempts and tracks their processing state.
type SubmissionRepo interface {
	GetByID(ctx context.Context, id string) (*model.Submission, error)

	// ListUnprocessed returns the submissions for a claimed target whose
	// attempt records have not been derived yet, in store order.
	ListUnprocessed(ctx context.Context, targetID string) ([]*model.Submission, error)

	// MarkAttemptsUpdated flags a submission as processed so a later poll of
	// the same target skips it.
	MarkAttemptsUpdated(ctx context.Context, id string) error
}

type submissionRepo struct {
	collection *mongo.Collection
}

// NewSubmissionRepo creates a submission repository.
func NewSubmissionRepo(db *mongo.Database) SubmissionRepo {
	return &submissionRepo{collection: db.Collection("submissions")}
}

func (r *submissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	var sub model.Submission
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepo) ListUnprocessed(ctx context.Context, targetID string) ([]*model.Submission, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"assessmentId":    targetID,
		"attemptsUpdated": false,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []*model.Submission
	if err = cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *submissionRepo) MarkAttemptsUpdated(ctx context.Context, id string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"attemptsUpdated": true}},
	)
	return err
}

package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/msshahs/prepseed-backend-sub003/internal/model"
)

// AssessmentRepo loads assessment definitions with their nested question
// statistics hydrated.
type AssessmentRepo interface {
	// GetGraph returns the definition with Statistics attached to every
	// question that has attempt history.
	GetGraph(ctx context.Context, id string) (*model.AssessmentDefinition, error)
}

type assessmentRepo struct {
	assessments *mongo.Collection
	statistics  *mongo.Collection
}

// NewAssessmentRepo creates an assessment repository.
func NewAssessmentRepo(db *mongo.Database) AssessmentRepo {
	return &assessmentRepo{
		assessments: db.Collection("assessments"),
		statistics:  db.Collection("question_statistics"),
	}
}

func (r *assessmentRepo) GetGraph(ctx context.Context, id string) (*model.AssessmentDefinition, error) {
	var def model.AssessmentDefinition
	err := r.assessments.FindOne(ctx, bson.M{"_id": id}).Decode(&def)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	ids := def.QuestionIDs()
	if len(ids) == 0 {
		return &def, nil
	}

	cursor, err := r.statistics.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var all []*model.QuestionStatistics
	if err = cursor.All(ctx, &all); err != nil {
		return nil, err
	}

	byID := make(map[string]*model.QuestionStatistics, len(all))
	for _, st := range all {
		byID[st.QuestionID] = st
	}
	for si := range def.Sections {
		qs := def.Sections[si].Questions
		for qi := range qs {
			qs[qi].Statistics = byID[qs[qi].QuestionID]
		}
	}
	return &def, nil
}

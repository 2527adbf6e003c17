package model

import "time"

// QuestionAttempt is one learner's recorded attempt at a question, appended
// by the grading pipeline and consumed by the statistics sweep.
type QuestionAttempt struct {
	SubmissionID string  `json:"submissionId" bson:"submissionId"`
	Time         float64 `json:"time" bson:"time"` // seconds
	Correct      int     `json:"correct" bson:"correct"`
}

// QuestionStatistics is the per-question running record: raw attempts plus
// the derived values read by the classifier and the selectivity scorer.
// Attempts are written in bulk by the grading pipeline; the derived fields
// are recomputed by the statistics sweep whenever Dirty is set.
type QuestionStatistics struct {
	QuestionID string            `json:"questionId" bson:"_id"`
	Attempts   []QuestionAttempt `json:"attempts" bson:"attempts"`

	// Derived (statistics sweep)
	PerfectTimeLimits TimeBounds `json:"perfectTimeLimits" bson:"perfectTimeLimits"`
	AvgAccuracy       float64    `json:"avgAccuracy" bson:"avgAccuracy"`
	MedianTime        float64    `json:"medianTime" bson:"medianTime"`

	Dirty     bool      `json:"dirty" bson:"dirty"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

package model

import "time"

// GradeUnit is one claimable unit of grading work, created when an assessment
// window is scheduled. Claiming is the atomic transition graded:false ->
// graded:true on this single document; the store's per-document atomicity is
// the only coordination primitive between polling workers. A claimed unit is
// never reused.
type GradeUnit struct {
	ID       string    `json:"id" bson:"_id,omitempty"`
	TargetID string    `json:"targetId" bson:"targetId"` // assessment id
	Graded   bool      `json:"graded" bson:"graded"`
	ReadyAt  time.Time `json:"readyAt" bson:"readyAt"`

	ClaimedAt *time.Time `json:"claimedAt,omitempty" bson:"claimedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
}

// Claimable reports whether the unit could be claimed at the given instant.
func (u *GradeUnit) Claimable(now time.Time) bool {
	return !u.Graded && !u.ReadyAt.After(now)
}

package model

import "time"

// Correctness values recorded per answered question.
const (
	CorrectUnattempted = -1
	CorrectWrong       = 0
	CorrectRight       = 1
)

// QuestionAnswer is the per-question outcome inside a submission:
// total time spent in seconds and the correctness flag.
type QuestionAnswer struct {
	QuestionID string  `json:"questionId" bson:"questionId"`
	Time       float64 `json:"time" bson:"time"` // seconds
	Correct    int     `json:"correct" bson:"correct"`
}

// Attempted reports whether the learner actually answered the question.
func (a QuestionAnswer) Attempted() bool {
	return a.Correct != CorrectUnattempted
}

// MetaSection mirrors one assessment section at submission time.
type MetaSection struct {
	Name      string           `json:"name" bson:"name"`
	Questions []QuestionAnswer `json:"questions" bson:"questions"`
}

// SubmissionMeta holds the per-section outcomes.
type SubmissionMeta struct {
	Sections []MetaSection `json:"sections" bson:"sections"`
}

// FlowEntry is one transition in the chronological navigation log. Time is
// the duration the learner stayed on the question during this visit, in
// milliseconds as logged by the client.
type FlowEntry struct {
	Section  int     `json:"section" bson:"section"`
	Question int     `json:"question" bson:"question"`
	Time     float64 `json:"time" bson:"time"` // milliseconds
	Response int     `json:"response" bson:"response"`
}

// Submission is one learner's finished attempt at a scheduled assessment.
type Submission struct {
	ID           string         `json:"id" bson:"_id,omitempty"`
	UserID       string         `json:"userId" bson:"userId"`
	AssessmentID string         `json:"assessmentId" bson:"assessmentId"`
	Meta         SubmissionMeta `json:"meta" bson:"meta"`
	Flow         []FlowEntry    `json:"flow" bson:"flow"`

	// AttemptsUpdated marks that per-question attempt records have been
	// derived, so a re-poll of the same target does not reprocess this
	// submission.
	AttemptsUpdated bool `json:"attemptsUpdated" bson:"attemptsUpdated"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// TotalTimeTaken sums the per-question time over all sections, in seconds.
func (s *Submission) TotalTimeTaken() float64 {
	total := 0.0
	for _, sec := range s.Meta.Sections {
		for _, q := range sec.Questions {
			total += q.Time
		}
	}
	return total
}

// Answer returns the recorded answer for a (section, question) position, or
// false when the position is outside the submission's shape.
func (s *Submission) Answer(section, question int) (QuestionAnswer, bool) {
	if section < 0 || section >= len(s.Meta.Sections) {
		return QuestionAnswer{}, false
	}
	qs := s.Meta.Sections[section].Questions
	if question < 0 || question >= len(qs) {
		return QuestionAnswer{}, false
	}
	return qs[question], true
}

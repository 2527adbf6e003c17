package model

import "time"

// TimeBounds are the statistically derived "perfect time limits" for a
// question, in seconds. A zero-valued bounds pair means the question does not
// have enough attempt history yet and is never classified fast or slow.
type TimeBounds struct {
	Min float64 `json:"min" bson:"min"`
	Max float64 `json:"max" bson:"max"`
}

// Defined reports whether the bounds carry usable limits.
func (b TimeBounds) Defined() bool {
	return b.Min > 0 || b.Max > 0
}

// QuestionLink marks a question as part of a comprehension group. All
// questions sharing the same link id draw on one shared reading budget, so
// timing verdicts are pooled across the group.
type QuestionLink struct {
	ID string `json:"id" bson:"id"`
}

// QuestionRef is one question slot inside an assessment section.
type QuestionRef struct {
	QuestionID  string        `json:"questionId" bson:"questionId"`
	CorrectMark float64       `json:"correctMark" bson:"correctMark"`
	Link        *QuestionLink `json:"link,omitempty" bson:"link,omitempty"`

	// Taxonomy used by the performance matrix
	Topic    string `json:"topic" bson:"topic"`
	SubTopic string `json:"subTopic" bson:"subTopic"`
	Level    string `json:"level" bson:"level"` // "easy", "medium", "hard"

	// Statistics is hydrated from the question_statistics collection when the
	// assessment graph is loaded. Nil when no attempt history exists.
	Statistics *QuestionStatistics `json:"statistics,omitempty" bson:"-"`
}

// Bounds returns the perfect time limits for the question, or a zero pair
// when no statistics are available.
func (q *QuestionRef) Bounds() TimeBounds {
	if q.Statistics == nil {
		return TimeBounds{}
	}
	return q.Statistics.PerfectTimeLimits
}

// Section is an ordered run of questions inside an assessment.
type Section struct {
	Name      string        `json:"name" bson:"name"`
	Questions []QuestionRef `json:"questions" bson:"questions"`
}

// AssessmentDefinition is the immutable shape of one scheduled assessment:
// ordered sections of question references plus the total duration. It never
// changes once an attempt has started.
type AssessmentDefinition struct {
	ID       string    `json:"id" bson:"_id,omitempty"`
	Name     string    `json:"name" bson:"name"`
	Duration float64   `json:"duration" bson:"duration"` // seconds
	Sections []Section `json:"sections" bson:"sections"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// QuestionCount returns the total number of question slots.
func (d *AssessmentDefinition) QuestionCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Questions)
	}
	return n
}

// QuestionIDs returns every question id in section order.
func (d *AssessmentDefinition) QuestionIDs() []string {
	ids := make([]string, 0, d.QuestionCount())
	for _, s := range d.Sections {
		for _, q := range s.Questions {
			ids = append(ids, q.QuestionID)
		}
	}
	return ids
}

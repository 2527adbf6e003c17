package model

import "time"

// BucketCounts are the seven outcome buckets tabulated per taxonomy key:
// {correct, incorrect} x {too-fast, optimal, too-slow} plus unattempted.
type BucketCounts struct {
	CorrectFast      int `json:"correctFast" bson:"correctFast"`
	CorrectOptimal   int `json:"correctOptimal" bson:"correctOptimal"`
	CorrectSlow      int `json:"correctSlow" bson:"correctSlow"`
	IncorrectFast    int `json:"incorrectFast" bson:"incorrectFast"`
	IncorrectOptimal int `json:"incorrectOptimal" bson:"incorrectOptimal"`
	IncorrectSlow    int `json:"incorrectSlow" bson:"incorrectSlow"`
	Unattempted      int `json:"unattempted" bson:"unattempted"`
}

// Total returns the number of questions tabulated into the buckets.
func (b BucketCounts) Total() int {
	return b.CorrectFast + b.CorrectOptimal + b.CorrectSlow +
		b.IncorrectFast + b.IncorrectOptimal + b.IncorrectSlow + b.Unattempted
}

// PerformanceMatrix tabulates outcomes at three independent granularities:
// per topic, per sub-topic nested under its topic, and per difficulty tier.
type PerformanceMatrix struct {
	Topics    map[string]*BucketCounts            `json:"topics" bson:"topics"`
	SubTopics map[string]map[string]*BucketCounts `json:"subTopics" bson:"subTopics"`
	Levels    map[string]*BucketCounts            `json:"levels" bson:"levels"`
}

// NewPerformanceMatrix returns an empty matrix with the three fixed
// difficulty tiers pre-allocated.
func NewPerformanceMatrix() PerformanceMatrix {
	return PerformanceMatrix{
		Topics:    make(map[string]*BucketCounts),
		SubTopics: make(map[string]map[string]*BucketCounts),
		Levels: map[string]*BucketCounts{
			"easy":   {},
			"medium": {},
			"hard":   {},
		},
	}
}

// TopicBucket returns the counts for a topic, allocating on first use.
func (m *PerformanceMatrix) TopicBucket(topic string) *BucketCounts {
	b, ok := m.Topics[topic]
	if !ok {
		b = &BucketCounts{}
		m.Topics[topic] = b
	}
	return b
}

// SubTopicBucket returns the counts for a sub-topic nested under its topic.
func (m *PerformanceMatrix) SubTopicBucket(topic, subTopic string) *BucketCounts {
	inner, ok := m.SubTopics[topic]
	if !ok {
		inner = make(map[string]*BucketCounts)
		m.SubTopics[topic] = inner
	}
	b, ok := inner[subTopic]
	if !ok {
		b = &BucketCounts{}
		inner[subTopic] = b
	}
	return b
}

// LevelBucket returns the counts for a difficulty tier. Unknown tiers fold
// into "medium" so malformed content cannot lose a count.
func (m *PerformanceMatrix) LevelBucket(level string) *BucketCounts {
	if b, ok := m.Levels[level]; ok {
		return b
	}
	return m.Levels["medium"]
}

// AssessmentSnapshot is the flat per-assessment metrics record produced by
// one pipeline run over one submission. At most one snapshot per assessment
// id may exist inside a user's aggregate.
type AssessmentSnapshot struct {
	AssessmentID string `json:"assessmentId" bson:"assessmentId"`
	SubmissionID string `json:"submissionId" bson:"submissionId"`

	// Bluffing
	CorrectBluffRatio float64 `json:"correctBluffRatio" bson:"correctBluffRatio"`
	FastAttemptRatio  float64 `json:"fastAttemptRatio" bson:"fastAttemptRatio"`
	CorrectBluffFlag  bool    `json:"correctBluffFlag" bson:"correctBluffFlag"`
	FastAttemptFlag   bool    `json:"fastAttemptFlag" bson:"fastAttemptFlag"`

	// Time lost
	MaxIdleTime   float64 `json:"maxIdleTime" bson:"maxIdleTime"`     // seconds
	EarlyExitTime float64 `json:"earlyExitTime" bson:"earlyExitTime"` // seconds

	// Behavioral indicators, all on a 0-100 scale
	Endurance    float64 `json:"endurance" bson:"endurance"`
	Selectivity  float64 `json:"selectivity" bson:"selectivity"`
	Stamina      float64 `json:"stamina" bson:"stamina"`
	Stubbornness float64 `json:"stubbornness" bson:"stubbornness"`
	Intent       float64 `json:"intent" bson:"intent"`
	Category     int     `json:"category" bson:"category"`

	StuckCount int                `json:"stuckCount" bson:"stuckCount"`
	Overshoots map[string]float64 `json:"overshoots,omitempty" bson:"overshoots,omitempty"`

	Matrix          PerformanceMatrix `json:"matrix" bson:"matrix"`
	ActivityPatches []int             `json:"activityPatches" bson:"activityPatches"`

	ComputedAt time.Time `json:"computedAt" bson:"computedAt"`
}

// OvertimeEntry flags a question the learner has historically overrun.
// Entries behave like bookmarks: re-flagging refreshes the timestamp,
// answering the question in time removes the entry.
type OvertimeEntry struct {
	QuestionID string    `json:"questionId" bson:"questionId"`
	FlaggedAt  time.Time `json:"flaggedAt" bson:"flaggedAt"`
}

// AggregateTotals are the running sums derived from the snapshot list.
type AggregateTotals struct {
	Assessments    int     `json:"assessments" bson:"assessments"`
	IntentSum      float64 `json:"intentSum" bson:"intentSum"`
	EnduranceSum   float64 `json:"enduranceSum" bson:"enduranceSum"`
	SelectivitySum float64 `json:"selectivitySum" bson:"selectivitySum"`
	StaminaSum     float64 `json:"staminaSum" bson:"staminaSum"`
	StuckTotal     int     `json:"stuckTotal" bson:"stuckTotal"`
}

// UserCategoryAggregate is the one-per-user running record of behavioral
// metrics. It is created lazily on a user's first submission and mutated for
// the lifetime of the account. Writers are serialized through the per-user
// update queue; snapshots are keyed by assessment id so reprocessing is
// idempotent regardless of write order.
type UserCategoryAggregate struct {
	UserID    string               `json:"userId" bson:"_id"`
	Snapshots []AssessmentSnapshot `json:"snapshots" bson:"snapshots"`
	Totals    AggregateTotals      `json:"totals" bson:"totals"`
	Overtime  []OvertimeEntry      `json:"overtime" bson:"overtime"`
	UpdatedAt time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// PutSnapshot inserts or replaces the snapshot for its assessment id and
// recomputes the running totals. An existing snapshot is overwritten in
// place; the list never grows a duplicate entry for the same assessment.
func (a *UserCategoryAggregate) PutSnapshot(snap AssessmentSnapshot) {
	replaced := false
	for i := range a.Snapshots {
		if a.Snapshots[i].AssessmentID == snap.AssessmentID {
			a.Snapshots[i] = snap
			replaced = true
			break
		}
	}
	if !replaced {
		a.Snapshots = append(a.Snapshots, snap)
	}
	a.recomputeTotals()
}

func (a *UserCategoryAggregate) recomputeTotals() {
	t := AggregateTotals{Assessments: len(a.Snapshots)}
	for i := range a.Snapshots {
		s := &a.Snapshots[i]
		t.IntentSum += s.Intent
		t.EnduranceSum += s.Endurance
		t.SelectivitySum += s.Selectivity
		t.StaminaSum += s.Stamina
		t.StuckTotal += s.StuckCount
	}
	a.Totals = t
}

// ApplyOvertimeDelta removes the timely question ids and then (re)flags the
// too-slow ones. Removals run first so a question appearing in both lists
// ends the pass flagged, and a timely question never stays flagged.
func (a *UserCategoryAggregate) ApplyOvertimeDelta(removals []string, insertions []OvertimeEntry) {
	drop := make(map[string]bool, len(removals)+len(insertions))
	for _, id := range removals {
		drop[id] = true
	}
	for _, e := range insertions {
		drop[e.QuestionID] = true
	}
	kept := a.Overtime[:0]
	for _, e := range a.Overtime {
		if !drop[e.QuestionID] {
			kept = append(kept, e)
		}
	}
	a.Overtime = append(kept, insertions...)
}

// UserCategorySummary is the cached latest intent/category for a user.
type UserCategorySummary struct {
	UserID    string    `json:"userId"`
	Intent    float64   `json:"intent"`
	Category  int       `json:"category"`
	UpdatedAt time.Time `json:"updatedAt"`
}

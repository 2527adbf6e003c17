package analysis

import (
	"time"

	"github.com/msshahs/prepseed-backend-sub003/internal/model"
)

// Result bundles every stage's output for one submission.
type Result struct {
	Classification Classification
	Metrics        Metrics
	Selectivity    int
	Features       Features
	Intent         float64
	Category       int
	Adjusted       Secondary
}

// Run executes the full analysis pipeline over one submission: timing
// classification, behavioral metrics, selectivity scoring and the intent /
// category model. It is pure and safe to call outside the scheduler.
func Run(def *model.AssessmentDefinition, sub *model.Submission) Result {
	cls := Classify(def, sub)
	m := ComputeMetrics(def, sub, cls)
	sel := Score(def, sub)

	features := FeaturesFrom(def, m)
	intent := IntentScore(features)
	category, adjusted := Categorize(intent, Secondary{
		Endurance:   m.Endurance,
		Selectivity: float64(sel),
		Stamina:     m.Stamina,
	}, m.Stubbornness)

	return Result{
		Classification: cls,
		Metrics:        m,
		Selectivity:    sel,
		Features:       features,
		Intent:         intent,
		Category:       category,
		Adjusted:       adjusted,
	}
}

// Snapshot flattens the result into the per-assessment record stored in the
// user's aggregate.
func (r Result) Snapshot(assessmentID, submissionID string, now time.Time) model.AssessmentSnapshot {
	return model.AssessmentSnapshot{
		AssessmentID:      assessmentID,
		SubmissionID:      submissionID,
		CorrectBluffRatio: r.Metrics.CorrectBluffRatio,
		FastAttemptRatio:  r.Metrics.FastAttemptRatio,
		CorrectBluffFlag:  r.Metrics.CorrectBluffFlag,
		FastAttemptFlag:   r.Metrics.FastAttemptFlag,
		MaxIdleTime:       r.Metrics.MaxIdleTime,
		EarlyExitTime:     r.Metrics.EarlyExitTime,
		Endurance:         r.Adjusted.Endurance,
		Selectivity:       r.Adjusted.Selectivity,
		Stamina:           r.Adjusted.Stamina,
		Stubbornness:      r.Metrics.Stubbornness,
		Intent:            r.Intent,
		Category:          r.Category,
		StuckCount:        r.Metrics.StuckCount,
		Overshoots:        r.Metrics.Overshoots,
		Matrix:            r.Metrics.Matrix,
		ActivityPatches:   r.Metrics.ActivityPatches,
		ComputedAt:        now,
	}
}

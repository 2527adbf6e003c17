package analysis

import (
	"math"

	"github.com/msshahs/prepseed-backend-sub003/internal/model"
)

const (
	// bluffThreshold flips either bluff flag once its ratio reaches it.
	bluffThreshold = 0.4

	// activityWindow is the fixed engagement heat-map bucket size, seconds.
	activityWindow = 240.0
)

// Metrics is the flat per-assessment record derived from one submission.
type Metrics struct {
	TotalQuestions int
	TotalAttempts  int
	TotalCorrect   int

	// Bluffing: correct answers given too fast, and fast attempts overall.
	CorrectBluffs     int
	FastAttempts      int
	CorrectBluffRatio float64
	FastAttemptRatio  float64
	CorrectBluffFlag  bool
	FastAttemptFlag   bool

	// Time lost
	MaxIdleTime   float64 // largest single idle gap, seconds
	EarlyExitTime float64 // unused window at the end, seconds

	// Endurance partition of attempted-and-timed questions.
	CorrectInTime int
	TooSlowCount  int
	Endurance     float64

	// Overtime bucket delta. OvertimeTimely holds ids whose overtime flag
	// must be cleared, OvertimeFlag the ids to (re)flag. Removals apply
	// before insertions.
	OvertimeTimely []string
	OvertimeFlag   []string

	StuckCount   int
	Overshoots   map[string]float64
	Stubbornness float64

	Stamina float64

	Matrix          model.PerformanceMatrix
	ActivityPatches []int
}

// ComputeMetrics derives the behavioral metrics for a submission from its
// timing classification. Every ratio degrades to a defined default when its
// denominator is zero, so a malformed submission yields a best-effort record
// instead of an error.
func ComputeMetrics(def *model.AssessmentDefinition, sub *model.Submission, cls Classification) Metrics {
	m := Metrics{
		TotalQuestions: def.QuestionCount(),
		Overshoots:     cls.Overshoots,
		Matrix:         model.NewPerformanceMatrix(),
	}

	upperBounds := make([][]float64, len(def.Sections))
	for si := range def.Sections {
		qs := def.Sections[si].Questions
		upperBounds[si] = make([]float64, len(qs))
		for qi := range qs {
			ref := &qs[qi]
			upperBounds[si][qi] = ref.Bounds().Max

			ans, ok := sub.Answer(si, qi)
			attempted := ok && ans.Attempted()
			tabulate(&m.Matrix, ref, attempted, ans.Correct, cls)

			if !attempted {
				continue
			}
			m.TotalAttempts++
			id := ref.QuestionID

			if ans.Correct == model.CorrectRight {
				m.TotalCorrect++
				if cls.TooFast[id] {
					m.CorrectBluffs++
				}
			}
			if cls.TooFast[id] {
				m.FastAttempts++
			}

			switch {
			case cls.TooSlow[id]:
				m.TooSlowCount++
				m.OvertimeFlag = append(m.OvertimeFlag, id)
			case cls.InTime(id):
				m.OvertimeTimely = append(m.OvertimeTimely, id)
				if ans.Correct == model.CorrectRight {
					m.CorrectInTime++
				}
			}
		}
	}

	if m.TotalCorrect > 0 {
		m.CorrectBluffRatio = float64(m.CorrectBluffs) / float64(m.TotalCorrect)
	}
	if m.TotalAttempts > 0 {
		m.FastAttemptRatio = float64(m.FastAttempts) / float64(m.TotalAttempts)
	}
	m.CorrectBluffFlag = m.CorrectBluffRatio >= bluffThreshold
	m.FastAttemptFlag = m.FastAttemptRatio >= bluffThreshold

	m.StuckCount = len(cls.Stuck)
	if m.TotalAttempts > 0 {
		m.Stubbornness = 100 * float64(m.StuckCount) / float64(m.TotalAttempts)
	}

	totalTime := sub.TotalTimeTaken()
	m.EarlyExitTime = math.Max(0, def.Duration-totalTime)
	m.MaxIdleTime = maxIdleTime(sub, upperBounds)

	// Endurance: share of timed work finished correctly without overrunning.
	// No timed evidence at all reads as no sign of fatigue.
	if denom := m.CorrectInTime + m.TooSlowCount; denom > 0 {
		m.Endurance = 100 * float64(m.CorrectInTime) / float64(denom)
	} else {
		m.Endurance = 100
	}

	// Stamina: fraction of the allotted window actually worked.
	if def.Duration > 0 {
		m.Stamina = 100 * math.Min(1, totalTime/def.Duration)
	}

	m.ActivityPatches = activityPatches(def.Duration, sub.Flow)
	return m
}

// maxIdleTime finds the largest single idle gap across the flow log: the
// amount by which one logged visit exceeded the question's upper bound. This
// is a maximum, not a sum.
func maxIdleTime(sub *model.Submission, upperBounds [][]float64) float64 {
	maxIdle := 0.0
	for _, e := range sub.Flow {
		if e.Section < 0 || e.Section >= len(upperBounds) {
			continue
		}
		row := upperBounds[e.Section]
		if e.Question < 0 || e.Question >= len(row) || row[e.Question] <= 0 {
			continue
		}
		idle := e.Time/1000 - row[e.Question]
		if idle > maxIdle {
			maxIdle = idle
		}
	}
	return maxIdle
}

func tabulate(matrix *model.PerformanceMatrix, ref *model.QuestionRef, attempted bool, correct int, cls Classification) {
	buckets := []*model.BucketCounts{
		matrix.TopicBucket(ref.Topic),
		matrix.SubTopicBucket(ref.Topic, ref.SubTopic),
		matrix.LevelBucket(ref.Level),
	}
	id := ref.QuestionID
	for _, b := range buckets {
		switch {
		case !attempted:
			b.Unattempted++
		case correct == model.CorrectRight && cls.TooFast[id]:
			b.CorrectFast++
		case correct == model.CorrectRight && cls.TooSlow[id]:
			b.CorrectSlow++
		case correct == model.CorrectRight:
			b.CorrectOptimal++
		case cls.TooFast[id]:
			b.IncorrectFast++
		case cls.TooSlow[id]:
			b.IncorrectSlow++
		default:
			b.IncorrectOptimal++
		}
	}
}

// activityPatches splits the assessment window into fixed 240-second buckets
// and counts, per bucket, the flow entries whose response differs from the
// last-seen response for that (section, question) position. The first
// recorded response counts as a change; a visit that records no response
// does not, so pure navigation never inflates the heat map.
func activityPatches(duration float64, flow []model.FlowEntry) []int {
	if duration <= 0 {
		return nil
	}
	windows := int(math.Ceil(duration / activityWindow))
	if windows == 0 {
		windows = 1
	}
	patches := make([]int, windows)

	type position struct{ section, question int }
	lastSeen := make(map[position]int)

	elapsed := 0.0
	for _, e := range flow {
		elapsed += e.Time / 1000
		pos := position{e.Section, e.Question}
		prev, seen := lastSeen[pos]
		lastSeen[pos] = e.Response
		if !seen && e.Response == 0 {
			continue
		}
		if seen && prev == e.Response {
			continue
		}
		idx := int(elapsed / activityWindow)
		if idx >= windows {
			idx = windows - 1
		}
		if idx < 0 {
			idx = 0
		}
		patches[idx]++
	}
	return patches
}

package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/msshahs/prepseed-backend-sub003/internal/model"
)

const (
	// decisionTime is how long a learner may reasonably sit on a question
	// before walking away from it, seconds. Time beyond it on a low-value
	// question counts as wasted.
	decisionTime = 40.0

	// redShare marks roughly the bottom tenth of questions by value ranking.
	redShare = 0.10

	// maxRed caps the red set on very large papers.
	maxRed = 10
)

// questionValue ranks a question by how much score it returns for the time it
// demands: crowd accuracy against median solve time relative to the per-
// question share of the total duration. Low values are expensive questions.
type questionValue struct {
	section  int
	question int
	id       string
	value    float64
	slowAt   float64 // the question's slow threshold, seconds
}

// Score rates how well the learner allocated time across question values, on
// a 0-100 scale. Questions are colored by ranking: the bottom slice becomes
// red (nonSelectivityFactor 1), the rest green (factor 0). Only time sunk
// into red questions past the decision threshold penalizes, weighted by how
// many green questions were still unresolved at that moment. A submission
// with no red questions or no flow entries scores 0: that is absence of
// evidence, not a perfect score.
func Score(def *model.AssessmentDefinition, sub *model.Submission) int {
	if len(sub.Flow) == 0 {
		return 0
	}

	ranked := rankQuestions(def)
	if len(ranked) == 0 {
		return 0
	}

	redCount := int(math.Ceil(redShare * float64(len(ranked))))
	if redCount > maxRed {
		redCount = maxRed
	}
	if redCount >= len(ranked) {
		redCount = len(ranked) - 1
	}
	if redCount <= 0 {
		return 0
	}

	type position struct{ section, question int }
	red := make(map[position]*questionValue, redCount)
	greenTotal := 0
	greenResolved := make(map[position]bool)
	for i := range ranked {
		q := &ranked[i]
		pos := position{q.section, q.question}
		if i < redCount {
			red[pos] = q
		} else {
			greenTotal++
			greenResolved[pos] = false
		}
	}
	if greenTotal == 0 {
		return 0
	}

	nonSelectivity := 0.0
	for _, e := range sub.Flow {
		pos := position{e.Section, e.Question}
		if resolved, ok := greenResolved[pos]; ok {
			if !resolved && e.Response != 0 {
				greenResolved[pos] = true
			}
			continue
		}
		q, ok := red[pos]
		if !ok || q.slowAt <= 0 {
			continue
		}

		spent := e.Time / 1000
		wasted := math.Min(math.Max(0, spent-decisionTime), q.slowAt)

		unresolved := 0
		for _, done := range greenResolved {
			if !done {
				unresolved++
			}
		}
		// Opportunity cost: lingering hurts more while green questions wait.
		weight := float64(unresolved) / float64(greenTotal)
		nonSelectivity += (wasted / q.slowAt) * weight
	}

	normalized := nonSelectivity / float64(redCount)
	score := int(math.Round(100 * (1 - normalized)))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// rankQuestions orders questions from least to most valuable. Questions with
// no usable statistics are left out of the ranking entirely; they cannot be
// colored red without evidence.
func rankQuestions(def *model.AssessmentDefinition) []questionValue {
	total := def.QuestionCount()
	if total == 0 || def.Duration <= 0 {
		return nil
	}
	share := def.Duration / float64(total)

	var ranked []questionValue
	for si := range def.Sections {
		qs := def.Sections[si].Questions
		for qi := range qs {
			ref := &qs[qi]
			st := ref.Statistics
			if st == nil || len(st.Attempts) == 0 {
				continue
			}
			median := st.MedianTime
			if median <= 0 {
				times := make([]float64, 0, len(st.Attempts))
				for _, a := range st.Attempts {
					times = append(times, a.Time)
				}
				median, _ = stats.Median(times)
			}
			if median <= 0 {
				continue
			}
			ranked = append(ranked, questionValue{
				section:  si,
				question: qi,
				id:       ref.QuestionID,
				value:    st.AvgAccuracy - median/share,
				slowAt:   ref.Bounds().Max,
			})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].value < ranked[j].value
	})
	return ranked
}

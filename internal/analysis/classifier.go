package analysis

import (
	"github.com/msshahs/prepseed-backend-sub003/internal/model"
)

// Timing thresholds. "Too slow" uses the plain upper bound; "stuck" is the
// stricter verdict at 1.25x the upper bound. The two are computed
// independently because they feed different indicators.
const (
	tooSlowMultiplier = 1.0
	stuckMultiplier   = 1.25
)

// Classification holds the timing verdict sets for one submission, keyed by
// question id. A question can appear in both TooSlow and Stuck; Stuck implies
// TooSlow but not the other way around.
type Classification struct {
	TooFast     map[string]bool
	TooSlow     map[string]bool
	Stuck       map[string]bool
	Unattempted map[string]bool

	// Overshoots maps each stuck question to its normalized overrun,
	// (actual - bound) / bound, using pooled values for grouped questions.
	Overshoots map[string]float64
}

func newClassification() Classification {
	return Classification{
		TooFast:     make(map[string]bool),
		TooSlow:     make(map[string]bool),
		Stuck:       make(map[string]bool),
		Unattempted: make(map[string]bool),
		Overshoots:  make(map[string]float64),
	}
}

// InTime reports whether an attempted question drew no fast or slow verdict.
func (c Classification) InTime(questionID string) bool {
	return !c.TooFast[questionID] && !c.TooSlow[questionID] && !c.Unattempted[questionID]
}

// timedGroup pools the answered members of one comprehension group. The
// group's reading budget is shared, so the sum of actual time is compared
// against the sum of the members' individual bounds.
type timedGroup struct {
	members []string
	time    float64
	min     float64
	max     float64
}

// Classify computes the too-fast / too-slow / stuck sets for a submission
// against its assessment definition. Standalone questions are judged on their
// own perfect time limits; questions sharing a link id are judged on pooled
// time against pooled limits, and every member of the group carries the same
// verdict. Questions without usable limits are always in time; unattempted
// questions are excluded from timing and reported separately.
func Classify(def *model.AssessmentDefinition, sub *model.Submission) Classification {
	cls := newClassification()
	groups := make(map[string]*timedGroup)

	for si := range def.Sections {
		qs := def.Sections[si].Questions
		for qi := range qs {
			ref := &qs[qi]
			ans, ok := sub.Answer(si, qi)
			if !ok || !ans.Attempted() {
				cls.Unattempted[ref.QuestionID] = true
				continue
			}
			bounds := ref.Bounds()
			if !bounds.Defined() {
				continue // no statistics yet, always in time
			}
			if ref.Link != nil && ref.Link.ID != "" {
				g, ok := groups[ref.Link.ID]
				if !ok {
					g = &timedGroup{}
					groups[ref.Link.ID] = g
				}
				g.members = append(g.members, ref.QuestionID)
				g.time += ans.Time
				g.min += bounds.Min
				g.max += bounds.Max
				continue
			}
			classifyOne(&cls, []string{ref.QuestionID}, ans.Time, bounds.Min, bounds.Max)
		}
	}

	for _, g := range groups {
		classifyOne(&cls, g.members, g.time, g.min, g.max)
	}
	return cls
}

func classifyOne(cls *Classification, ids []string, elapsed, lower, upper float64) {
	tooFast := elapsed < lower
	tooSlow := elapsed > upper*tooSlowMultiplier
	stuck := elapsed > upper*stuckMultiplier

	overshoot := 0.0
	if stuck && upper > 0 {
		overshoot = (elapsed - upper) / upper
	}

	for _, id := range ids {
		if tooFast {
			cls.TooFast[id] = true
		}
		if tooSlow {
			cls.TooSlow[id] = true
		}
		if stuck {
			cls.Stuck[id] = true
			cls.Overshoots[id] = overshoot
		}
	}
}

package analysis

import (
	"testing"

	"github.com/msshahs/prepseed-backend-sub003/internal/model"
)

func question(id string, min, max float64) model.QuestionRef {
	ref := model.QuestionRef{
		QuestionID:  id,
		CorrectMark: 4,
		Topic:       "algebra",
		SubTopic:    "linear-equations",
		Level:       "medium",
	}
	if min > 0 || max > 0 {
		ref.Statistics = &model.QuestionStatistics{
			QuestionID:        id,
			PerfectTimeLimits: model.TimeBounds{Min: min, Max: max},
		}
	}
	return ref
}

func linked(id, linkID string, min, max float64) model.QuestionRef {
	ref := question(id, min, max)
	ref.Link = &model.QuestionLink{ID: linkID}
	return ref
}

func assessment(duration float64, questions ...model.QuestionRef) *model.AssessmentDefinition {
	return &model.AssessmentDefinition{
		ID:       "assessment-1",
		Name:     "Mock Test 1",
		Duration: duration,
		Sections: []model.Section{{Name: "Section A", Questions: questions}},
	}
}

func submission(answers ...model.QuestionAnswer) *model.Submission {
	return &model.Submission{
		ID:           "submission-1",
		UserID:       "user-1",
		AssessmentID: "assessment-1",
		Meta: model.SubmissionMeta{
			Sections: []model.MetaSection{{Name: "Section A", Questions: answers}},
		},
	}
}

func answer(id string, time float64, correct int) model.QuestionAnswer {
	return model.QuestionAnswer{QuestionID: id, Time: time, Correct: correct}
}

func TestClassifyStandalone(t *testing.T) {
	tests := []struct {
		name    string
		time    float64
		min     float64
		max     float64
		tooFast bool
		tooSlow bool
		stuck   bool
	}{
		{"well inside bounds", 50, 30, 90, false, false, false},
		{"below lower bound", 20, 30, 90, true, false, false},
		{"exactly lower bound", 30, 30, 90, false, false, false},
		{"above upper but below stuck", 100, 30, 90, false, true, false},
		{"exactly stuck threshold", 112.5, 30, 90, false, true, false},
		{"past stuck threshold", 113, 30, 90, false, true, true},
		{"no bounds is always in time", 1, 0, 0, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := assessment(1800, question("q1", tt.min, tt.max))
			sub := submission(answer("q1", tt.time, model.CorrectRight))

			cls := Classify(def, sub)
			if cls.TooFast["q1"] != tt.tooFast {
				t.Errorf("TooFast = %v, want %v", cls.TooFast["q1"], tt.tooFast)
			}
			if cls.TooSlow["q1"] != tt.tooSlow {
				t.Errorf("TooSlow = %v, want %v", cls.TooSlow["q1"], tt.tooSlow)
			}
			if cls.Stuck["q1"] != tt.stuck {
				t.Errorf("Stuck = %v, want %v", cls.Stuck["q1"], tt.stuck)
			}
		})
	}
}

func TestClassifyUnattemptedExcluded(t *testing.T) {
	def := assessment(1800, question("q1", 30, 90), question("q2", 30, 90))
	sub := submission(
		answer("q1", 5, model.CorrectUnattempted),
		answer("q2", 50, model.CorrectRight),
	)

	cls := Classify(def, sub)
	if !cls.Unattempted["q1"] {
		t.Error("q1 should be reported unattempted")
	}
	if cls.TooFast["q1"] || cls.TooSlow["q1"] || cls.Stuck["q1"] {
		t.Error("unattempted question must draw no timing verdict")
	}
	if cls.Unattempted["q2"] {
		t.Error("q2 was attempted")
	}
}

func TestClassifyGroupPoolsTimeAndBounds(t *testing.T) {
	// Each member alone would be in time, but the pooled time (50) is under
	// the pooled lower bound (60): the whole group reads too fast.
	def := assessment(1800,
		linked("p1", "passage-1", 30, 60),
		linked("p2", "passage-1", 30, 60),
	)
	sub := submission(
		answer("p1", 20, model.CorrectRight),
		answer("p2", 30, model.CorrectWrong),
	)

	cls := Classify(def, sub)
	for _, id := range []string{"p1", "p2"} {
		if !cls.TooFast[id] {
			t.Errorf("%s: pooled group should be too fast", id)
		}
		if cls.TooSlow[id] || cls.Stuck[id] {
			t.Errorf("%s: pooled group should not be slow", id)
		}
	}
}

func TestClassifyGroupVerdictIdenticalAcrossMembers(t *testing.T) {
	// Pooled time 160 exceeds 1.25 x pooled upper (150): every member is
	// stuck, including the one that was individually quick.
	def := assessment(1800,
		linked("p1", "passage-1", 30, 60),
		linked("p2", "passage-1", 30, 60),
	)
	sub := submission(
		answer("p1", 10, model.CorrectRight),
		answer("p2", 150, model.CorrectWrong),
	)

	cls := Classify(def, sub)
	for _, id := range []string{"p1", "p2"} {
		if !cls.TooSlow[id] || !cls.Stuck[id] {
			t.Errorf("%s: group verdict must apply to every member", id)
		}
		if cls.TooFast[id] {
			t.Errorf("%s: group is not fast", id)
		}
	}
	want := (160.0 - 120.0) / 120.0
	for _, id := range []string{"p1", "p2"} {
		if got := cls.Overshoots[id]; !almostEqual(got, want) {
			t.Errorf("%s overshoot = %v, want %v", id, got, want)
		}
	}
}

func TestClassifyGroupingDoesNotAffectStandalone(t *testing.T) {
	def := assessment(1800,
		question("q1", 30, 90),
		linked("p1", "passage-1", 30, 60),
		linked("p2", "passage-1", 30, 60),
	)
	sub := submission(
		answer("q1", 20, model.CorrectRight),
		answer("p1", 70, model.CorrectRight),
		answer("p2", 80, model.CorrectWrong),
	)

	cls := Classify(def, sub)
	if !cls.TooFast["q1"] {
		t.Error("standalone verdict must come from the question's own bounds")
	}
	if cls.TooFast["p1"] || cls.TooFast["p2"] {
		t.Error("group at 150 of pooled bounds [60, 120] is not fast")
	}
	if !cls.TooSlow["p1"] || !cls.TooSlow["p2"] {
		t.Error("group at 150 exceeds the pooled upper bound")
	}
	if cls.Stuck["p1"] || cls.Stuck["p2"] {
		t.Error("150 does not exceed 1.25 x 120")
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}

package analysis

import (
	"testing"

	"github.com/msshahs/prepseed-backend-sub003/internal/model"
)

func TestFeaturesFromPessimisticDefaults(t *testing.T) {
	def := assessment(0, question("q1", 30, 90))
	f := FeaturesFrom(def, Metrics{TotalQuestions: 1})

	if f.AttemptRatio != 0 {
		t.Errorf("AttemptRatio = %v, want 0", f.AttemptRatio)
	}
	if f.GuessRatio != 1 {
		t.Errorf("GuessRatio with no attempts = %v, want 1", f.GuessRatio)
	}
	if f.IdleRatio != 1 {
		t.Errorf("IdleRatio with no working window = %v, want 1", f.IdleRatio)
	}
	if f.EarlyExitRatio != 0 {
		t.Errorf("EarlyExitRatio with zero duration = %v, want 0", f.EarlyExitRatio)
	}
}

func TestFeaturesFromNormalizes(t *testing.T) {
	def := assessment(1800, question("q1", 30, 90), question("q2", 20, 60))
	m := Metrics{
		TotalQuestions: 2,
		TotalAttempts:  2,
		FastAttempts:   1,
		EarlyExitTime:  900,
		MaxIdleTime:    90,
	}
	f := FeaturesFrom(def, m)

	if !almostEqual(f.AttemptRatio, 1) {
		t.Errorf("AttemptRatio = %v, want 1", f.AttemptRatio)
	}
	if !almostEqual(f.EarlyExitRatio, 0.5) {
		t.Errorf("EarlyExitRatio = %v, want 0.5", f.EarlyExitRatio)
	}
	if !almostEqual(f.GuessRatio, 0.5) {
		t.Errorf("GuessRatio = %v, want 0.5", f.GuessRatio)
	}
	if !almostEqual(f.IdleRatio, 0.1) {
		t.Errorf("IdleRatio = %v, want 90/900 = 0.1", f.IdleRatio)
	}
}

func TestIntentScore(t *testing.T) {
	tests := []struct {
		name string
		f    Features
		want float64
	}{
		{"perfect attempt", Features{AttemptRatio: 1}, 100},
		{"worst case", Features{EarlyExitRatio: 1, GuessRatio: 1, IdleRatio: 1}, 0},
		{"mixed", Features{AttemptRatio: 0.5, EarlyExitRatio: 0.5, GuessRatio: 0.5, IdleRatio: 0.5}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IntentScore(tt.f); !almostEqual(got, tt.want) {
				t.Errorf("IntentScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategorizeRuleOrder(t *testing.T) {
	tests := []struct {
		name         string
		intent       float64
		sec          Secondary
		stubbornness float64
		want         int
	}{
		{"low intent wins over everything", 59, Secondary{Endurance: 10, Selectivity: 10, Stamina: 10}, 90, CategoryLowIntent},
		{"low endurance", 60, Secondary{Endurance: 59, Selectivity: 90, Stamina: 90}, 0, CategoryLowEndurance},
		{"low selectivity", 60, Secondary{Endurance: 60, Selectivity: 59, Stamina: 90}, 0, CategoryLowSelectivity},
		{"stubborn", 60, Secondary{Endurance: 60, Selectivity: 60, Stamina: 90}, 40, CategoryStubborn},
		{"low stamina", 60, Secondary{Endurance: 60, Selectivity: 60, Stamina: 59}, 39, CategoryLowStamina},
		{"steady", 60, Secondary{Endurance: 60, Selectivity: 60, Stamina: 60}, 0, CategorySteady},
		{"endurance checked before selectivity", 60, Secondary{Endurance: 10, Selectivity: 10, Stamina: 10}, 90, CategoryLowEndurance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Categorize(tt.intent, tt.sec, tt.stubbornness)
			if got != tt.want {
				t.Errorf("Categorize = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCategorizeShrinksSecondaryOnLowIntent(t *testing.T) {
	_, adj := Categorize(30, Secondary{Endurance: 50, Selectivity: 0, Stamina: 100}, 0)

	if !almostEqual(adj.Endurance, 0.8*75+0.2*50) {
		t.Errorf("Endurance = %v, want %v", adj.Endurance, 0.8*75+0.2*50)
	}
	if !almostEqual(adj.Selectivity, 60) {
		t.Errorf("Selectivity = %v, want 60", adj.Selectivity)
	}
	if !almostEqual(adj.Stamina, 80) {
		t.Errorf("Stamina = %v, want 80", adj.Stamina)
	}
}

func TestCategorizeLeavesSecondaryAloneAboveCutoff(t *testing.T) {
	sec := Secondary{Endurance: 70, Selectivity: 70, Stamina: 70}
	_, adj := Categorize(80, sec, 0)
	if adj != sec {
		t.Errorf("secondary metrics changed to %+v, want untouched", adj)
	}
}

// TestRunPipeline drives the whole analysis end to end and checks the parts
// hang together: a full-effort clean submission must land in a better
// category than a rushed one over the same paper.
func TestRunPipeline(t *testing.T) {
	def := assessment(300,
		question("q1", 30, 90),
		question("q2", 20, 60),
	)

	clean := submission(
		answer("q1", 60, model.CorrectRight),
		answer("q2", 40, model.CorrectRight),
	)
	clean.Flow = []model.FlowEntry{
		{Section: 0, Question: 0, Time: 60000, Response: 1},
		{Section: 0, Question: 1, Time: 40000, Response: 2},
	}

	rushed := submission(
		answer("q1", 5, model.CorrectWrong),
		answer("q2", 0, model.CorrectUnattempted),
	)
	rushed.Flow = []model.FlowEntry{
		{Section: 0, Question: 0, Time: 5000, Response: 1},
	}

	cleanRes := Run(def, clean)
	rushedRes := Run(def, rushed)

	if cleanRes.Intent <= rushedRes.Intent {
		t.Errorf("clean intent %v must exceed rushed intent %v", cleanRes.Intent, rushedRes.Intent)
	}
	if rushedRes.Category != CategoryLowIntent {
		t.Errorf("rushed category = %d, want %d", rushedRes.Category, CategoryLowIntent)
	}
	if cleanRes.Category == CategoryLowIntent {
		t.Error("clean full-effort submission must not read as low intent")
	}
	if cleanRes.Metrics.TotalCorrect != 2 {
		t.Errorf("clean TotalCorrect = %d, want 2", cleanRes.Metrics.TotalCorrect)
	}
}

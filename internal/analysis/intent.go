package analysis

import (
	"math"

	"github.com/msshahs/prepseed-backend-sub003/internal/model"
)

// Combiner weights. Attempt coverage dominates; the three loss features
// share the rest evenly.
const (
	weightAttempt   = 0.4
	weightEarlyExit = 0.2
	weightGuess     = 0.2
	weightIdle      = 0.2
)

// Categories produced by the rule chain.
const (
	CategoryLowIntent      = 1
	CategoryLowEndurance   = 2
	CategoryLowSelectivity = 3
	CategoryStubborn       = 4
	CategoryLowStamina     = 5
	CategorySteady         = 6
)

// Rule-chain thresholds and the low-intent shrink blend.
const (
	intentCutoff       = 60.0
	enduranceCutoff    = 60.0
	selectivityCutoff  = 60.0
	stubbornnessCutoff = 40.0
	staminaCutoff      = 60.0

	shrinkDefault = 75.0
	shrinkWeight  = 0.8 // share of the default in the blend
)

// Features are the four normalized inputs to the intent combiner, each in
// [0,1].
type Features struct {
	AttemptRatio   float64 // attempts / total questions
	EarlyExitRatio float64 // early-exit time / duration
	GuessRatio     float64 // too-fast attempts / attempts, 1 when no attempts
	IdleRatio      float64 // max idle gap / (duration - early exit), 1 when that window is gone
}

// FeaturesFrom normalizes a metrics record into combiner features. Every
// zero-denominator case takes the pessimistic default: a submission with no
// attempts reads as all guesswork, a window fully consumed by early exit
// reads as fully idle.
func FeaturesFrom(def *model.AssessmentDefinition, m Metrics) Features {
	f := Features{GuessRatio: 1, IdleRatio: 1}

	if m.TotalQuestions > 0 {
		f.AttemptRatio = clamp01(float64(m.TotalAttempts) / float64(m.TotalQuestions))
	}
	if def.Duration > 0 {
		f.EarlyExitRatio = clamp01(m.EarlyExitTime / def.Duration)
	}
	if m.TotalAttempts > 0 {
		f.GuessRatio = clamp01(float64(m.FastAttempts) / float64(m.TotalAttempts))
	}
	if window := def.Duration - m.EarlyExitTime; window > 0 {
		f.IdleRatio = clamp01(m.MaxIdleTime / window)
	}
	return f
}

// IntentScore combines the features linearly into a 0-100 intent value.
func IntentScore(f Features) float64 {
	raw := weightAttempt*f.AttemptRatio +
		weightEarlyExit*(1-f.EarlyExitRatio) +
		weightGuess*(1-f.GuessRatio) +
		weightIdle*(1-f.IdleRatio)
	return clamp(0, 100, 100*raw)
}

// Secondary are the indicators consulted by the category chain after intent.
type Secondary struct {
	Endurance   float64
	Selectivity float64
	Stamina     float64
}

// Categorize walks the strict ordered rule chain and returns the behavioral
// category together with the possibly-adjusted secondary metrics. When
// intent is below the cutoff the secondary metrics are first shrunk toward
// fixed defaults, deliberately muting noisy signals for a low-intent
// attempt; the chain then stops at category 1 regardless of what the later
// rules would say. The order is load-bearing: a submission failing both the
// intent and endurance rules is always category 1, never 2.
func Categorize(intent float64, sec Secondary, stubbornness float64) (int, Secondary) {
	if intent < intentCutoff {
		sec.Endurance = shrink(sec.Endurance)
		sec.Selectivity = shrink(sec.Selectivity)
		sec.Stamina = shrink(sec.Stamina)
		return CategoryLowIntent, sec
	}
	if sec.Endurance < enduranceCutoff {
		return CategoryLowEndurance, sec
	}
	if sec.Selectivity < selectivityCutoff {
		return CategoryLowSelectivity, sec
	}
	if stubbornness >= stubbornnessCutoff {
		return CategoryStubborn, sec
	}
	if sec.Stamina < staminaCutoff {
		return CategoryLowStamina, sec
	}
	return CategorySteady, sec
}

func shrink(v float64) float64 {
	return shrinkWeight*shrinkDefault + (1-shrinkWeight)*v
}

func clamp01(v float64) float64 {
	return clamp(0, 1, v)
}

func clamp(lo, hi, v float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

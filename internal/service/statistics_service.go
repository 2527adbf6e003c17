package service

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/msshahs/prepseed-backend-sub003/internal/logger"
	"github.com/msshahs/prepseed-backend-sub003/internal/model"
	"github.com/msshahs/prepseed-backend-sub003/internal/repository"
)

// minSamples is how many attempts a question needs before its perfect time
// limits are considered statistically usable. Below it the limits stay zero
// and the classifier treats the question as always in time.
const minSamples = 5

// Percentile cut points for the perfect time limits.
const (
	lowerPercentile = 25.0
	upperPercentile = 75.0
)

// StatisticsService recomputes the derived question statistics - perfect
// time limits, average accuracy and median solve time - for questions whose
// attempt history changed since the last sweep.
type StatisticsService struct {
	stats repository.StatsRepo
	limit int
	log   *logger.Logger
}

// NewStatisticsService creates the statistics maintenance service.
func NewStatisticsService(repo repository.StatsRepo, limit int, log *logger.Logger) *StatisticsService {
	return &StatisticsService{stats: repo, limit: limit, log: log}
}

// Sweep recomputes derived values for up to the configured number of dirty
// questions. Per-question failures are logged and skipped.
func (s *StatisticsService) Sweep(ctx context.Context) error {
	dirty, err := s.stats.ListDirty(ctx, s.limit)
	if err != nil {
		return fmt.Errorf("list dirty statistics: %w", err)
	}
	if len(dirty) == 0 {
		return nil
	}

	updated := 0
	for _, st := range dirty {
		limits, accuracy, median, err := Derive(st.Attempts)
		if err != nil {
			s.log.Warn("statistics derivation failed", "questionId", st.QuestionID, "error", err)
			continue
		}
		if err := s.stats.UpdateDerived(ctx, st.QuestionID, limits, accuracy, median); err != nil {
			s.log.Warn("statistics update failed", "questionId", st.QuestionID, "error", err)
			continue
		}
		updated++
	}
	s.log.Debug("statistics sweep finished", "dirty", len(dirty), "updated", updated)
	return nil
}

// Derive computes the perfect time limits, average accuracy and median solve
// time from a question's attempt history. Limits stay zero until the sample
// is large enough to trust the percentiles.
func Derive(attempts []model.QuestionAttempt) (model.TimeBounds, float64, float64, error) {
	if len(attempts) == 0 {
		return model.TimeBounds{}, 0, 0, nil
	}

	times := make([]float64, 0, len(attempts))
	correct := 0
	for _, a := range attempts {
		times = append(times, a.Time)
		if a.Correct == model.CorrectRight {
			correct++
		}
	}

	accuracy := float64(correct) / float64(len(attempts))
	median, err := stats.Median(times)
	if err != nil {
		return model.TimeBounds{}, 0, 0, err
	}

	if len(attempts) < minSamples {
		return model.TimeBounds{}, accuracy, median, nil
	}

	lower, err := stats.Percentile(times, lowerPercentile)
	if err != nil {
		return model.TimeBounds{}, 0, 0, err
	}
	upper, err := stats.Percentile(times, upperPercentile)
	if err != nil {
		return model.TimeBounds{}, 0, 0, err
	}
	return model.TimeBounds{Min: lower, Max: upper}, accuracy, median, nil
}

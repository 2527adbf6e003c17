package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/msshahs/prepseed-backend-sub003/internal/logger"
	"github.com/msshahs/prepseed-backend-sub003/internal/model"
)

func attemptsOf(times []float64, corrects []int) []model.QuestionAttempt {
	out := make([]model.QuestionAttempt, len(times))
	for i := range times {
		out[i] = model.QuestionAttempt{SubmissionID: "sub", Time: times[i], Correct: corrects[i]}
	}
	return out
}

func TestDeriveEmptyHistory(t *testing.T) {
	limits, accuracy, median, err := Derive(nil)
	require.NoError(t, err)
	require.False(t, limits.Defined())
	require.Zero(t, accuracy)
	require.Zero(t, median)
}

func TestDeriveBelowMinSamplesKeepsLimitsZero(t *testing.T) {
	attempts := attemptsOf(
		[]float64{30, 40, 50, 60},
		[]int{model.CorrectRight, model.CorrectWrong, model.CorrectRight, model.CorrectUnattempted},
	)
	limits, accuracy, median, err := Derive(attempts)
	require.NoError(t, err)
	require.False(t, limits.Defined(), "4 samples are below the trust threshold")
	require.InDelta(t, 0.5, accuracy, 1e-9)
	require.InDelta(t, 45, median, 1e-9)
}

func TestDeriveFullHistory(t *testing.T) {
	attempts := attemptsOf(
		[]float64{10, 20, 30, 40, 50, 60, 70, 80},
		[]int{
			model.CorrectRight, model.CorrectRight, model.CorrectRight, model.CorrectRight,
			model.CorrectWrong, model.CorrectWrong, model.CorrectWrong, model.CorrectWrong,
		},
	)
	limits, accuracy, median, err := Derive(attempts)
	require.NoError(t, err)

	require.True(t, limits.Defined())
	require.Greater(t, limits.Max, limits.Min)
	require.InDelta(t, 0.5, accuracy, 1e-9)
	require.InDelta(t, 45, median, 1e-9)
	require.LessOrEqual(t, limits.Min, median, "the lower percentile cannot exceed the median")
	require.GreaterOrEqual(t, limits.Max, median, "the upper percentile cannot undercut the median")
}

func TestSweepUpdatesDirtyQuestions(t *testing.T) {
	repo := &sweepStatsRepo{
		dirty: []*model.QuestionStatistics{
			{QuestionID: "q1", Attempts: attemptsOf(
				[]float64{10, 20, 30, 40, 50},
				[]int{model.CorrectRight, model.CorrectRight, model.CorrectRight, model.CorrectWrong, model.CorrectWrong},
			)},
			{QuestionID: "q2", Attempts: attemptsOf([]float64{25}, []int{model.CorrectRight})},
		},
	}
	svc := NewStatisticsService(repo, 200, logger.NewNop())
	require.NoError(t, svc.Sweep(context.Background()))

	require.Len(t, repo.updated, 2)

	q1 := repo.updated["q1"]
	require.True(t, q1.limits.Defined())
	require.InDelta(t, 0.6, q1.accuracy, 1e-9)
	require.InDelta(t, 30, q1.median, 1e-9)

	q2 := repo.updated["q2"]
	require.False(t, q2.limits.Defined(), "a single attempt keeps the limits undefined")
	require.InDelta(t, 1.0, q2.accuracy, 1e-9)
	require.InDelta(t, 25, q2.median, 1e-9)
}

type derived struct {
	limits   model.TimeBounds
	accuracy float64
	median   float64
}

type sweepStatsRepo struct {
	dirty   []*model.QuestionStatistics
	updated map[string]derived
}

func (f *sweepStatsRepo) AppendAttempts(ctx context.Context, attempts map[string]model.QuestionAttempt) error {
	return nil
}

func (f *sweepStatsRepo) ListDirty(ctx context.Context, limit int) ([]*model.QuestionStatistics, error) {
	if limit < len(f.dirty) {
		return f.dirty[:limit], nil
	}
	return f.dirty, nil
}

func (f *sweepStatsRepo) UpdateDerived(ctx context.Context, questionID string, limits model.TimeBounds, avgAccuracy, medianTime float64) error {
	if f.updated == nil {
		f.updated = make(map[string]derived)
	}
	f.updated[questionID] = derived{limits: limits, accuracy: avgAccuracy, median: medianTime}
	return nil
}

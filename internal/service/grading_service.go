package service

import (
	"context"
	"fmt"
	"time"

	"github.com/msshahs/prepseed-backend-sub003/internal/analysis"
	"github.com/msshahs/prepseed-backend-sub003/internal/cache"
	"github.com/msshahs/prepseed-backend-sub003/internal/logger"
	"github.com/msshahs/prepseed-backend-sub003/internal/model"
	"github.com/msshahs/prepseed-backend-sub003/internal/queue"
	"github.com/msshahs/prepseed-backend-sub003/internal/repository"
)

// GradingService drives the post-submission pipeline for claimed grade
// units: load the assessment graph, analyze every unprocessed submission and
// serialize the aggregate writes through the per-user update queue.
type GradingService struct {
	grades      repository.GradeRepo
	submissions repository.SubmissionRepo
	assessments repository.AssessmentRepo
	aggregates  repository.AggregateRepo
	stats       repository.StatsRepo
	categories  cache.CategoryCache
	updates     *queue.UpdateQueue
	log         *logger.Logger
}

// NewGradingService creates the grading pipeline service.
func NewGradingService(
	grades repository.GradeRepo,
	submissions repository.SubmissionRepo,
	assessments repository.AssessmentRepo,
	aggregates repository.AggregateRepo,
	stats repository.StatsRepo,
	categories cache.CategoryCache,
	updates *queue.UpdateQueue,
	log *logger.Logger,
) *GradingService {
	return &GradingService{
		grades:      grades,
		submissions: submissions,
		assessments: assessments,
		aggregates:  aggregates,
		stats:       stats,
		categories:  categories,
		updates:     updates,
		log:         log,
	}
}

// ProcessNext claims at most one ready grade unit and runs the pipeline over
// it. It reports whether a unit was claimed; an error from the claim itself
// is transient and simply retried on the next tick.
func (s *GradingService) ProcessNext(ctx context.Context) (bool, error) {
	unit, err := s.grades.ClaimNext(ctx)
	if err != nil {
		return false, fmt.Errorf("claim grade unit: %w", err)
	}
	if unit == nil {
		return false, nil
	}
	if err := s.ProcessUnit(ctx, unit); err != nil {
		return true, err
	}
	return true, nil
}

// ProcessUnit processes every unprocessed submission of an already-claimed
// unit. One malformed submission is logged and skipped; it never aborts the
// rest of the unit.
func (s *GradingService) ProcessUnit(ctx context.Context, unit *model.GradeUnit) error {
	def, err := s.assessments.GetGraph(ctx, unit.TargetID)
	if err != nil {
		return fmt.Errorf("load assessment %s: %w", unit.TargetID, err)
	}
	if def == nil {
		s.log.Warn("claimed unit has no assessment", "unitId", unit.ID, "targetId", unit.TargetID)
		return nil
	}

	subs, err := s.submissions.ListUnprocessed(ctx, unit.TargetID)
	if err != nil {
		return fmt.Errorf("list submissions for %s: %w", unit.TargetID, err)
	}

	processed := 0
	for _, sub := range subs {
		if err := s.processSubmission(ctx, def, sub); err != nil {
			s.log.Warn("submission analysis failed", "submissionId", sub.ID, "userId", sub.UserID, "error", err)
			continue
		}
		processed++
	}
	s.log.Info("grade unit processed", "unitId", unit.ID, "targetId", unit.TargetID,
		"submissions", len(subs), "processed", processed)
	return nil
}

func (s *GradingService) processSubmission(ctx context.Context, def *model.AssessmentDefinition, sub *model.Submission) error {
	now := time.Now()
	result := analysis.Run(def, sub)
	snap := result.Snapshot(def.ID, sub.ID, now)

	removals := result.Metrics.OvertimeTimely
	insertions := make([]model.OvertimeEntry, 0, len(result.Metrics.OvertimeFlag))
	for _, id := range result.Metrics.OvertimeFlag {
		insertions = append(insertions, model.OvertimeEntry{QuestionID: id, FlaggedAt: now})
	}

	userID := sub.UserID
	err := s.updates.Submit("category:"+userID, func(qctx context.Context) error {
		if err := s.aggregates.UpsertSnapshot(qctx, userID, snap); err != nil {
			return fmt.Errorf("upsert snapshot for %s: %w", userID, err)
		}
		if err := s.aggregates.ApplyOvertimeDelta(qctx, userID, removals, insertions); err != nil {
			return fmt.Errorf("overtime delta for %s: %w", userID, err)
		}
		if err := s.categories.Set(qctx, &model.UserCategorySummary{
			UserID:   userID,
			Intent:   result.Intent,
			Category: result.Category,
		}); err != nil {
			// Cache only; the aggregate already holds the truth.
			s.log.Warn("category cache set failed", "userId", userID, "error", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.stats.AppendAttempts(ctx, attemptsFrom(def, sub)); err != nil {
		return fmt.Errorf("append attempts: %w", err)
	}
	if err := s.submissions.MarkAttemptsUpdated(ctx, sub.ID); err != nil {
		return fmt.Errorf("mark attempts updated: %w", err)
	}
	return nil
}

// Recompute re-runs the pure pipeline for one submission on demand, with no
// writes. Used by the ad-hoc analysis endpoint.
func (s *GradingService) Recompute(ctx context.Context, submissionID string) (*analysis.Result, error) {
	sub, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("load submission: %w", err)
	}
	if sub == nil {
		return nil, nil
	}
	def, err := s.assessments.GetGraph(ctx, sub.AssessmentID)
	if err != nil {
		return nil, fmt.Errorf("load assessment: %w", err)
	}
	if def == nil {
		return nil, fmt.Errorf("assessment %s not found", sub.AssessmentID)
	}
	result := analysis.Run(def, sub)
	return &result, nil
}

// Aggregate returns the stored aggregate for a user.
func (s *GradingService) Aggregate(ctx context.Context, userID string) (*model.UserCategoryAggregate, error) {
	return s.aggregates.Get(ctx, userID)
}

func attemptsFrom(def *model.AssessmentDefinition, sub *model.Submission) map[string]model.QuestionAttempt {
	attempts := make(map[string]model.QuestionAttempt)
	for si := range def.Sections {
		qs := def.Sections[si].Questions
		for qi := range qs {
			ans, ok := sub.Answer(si, qi)
			if !ok || !ans.Attempted() {
				continue
			}
			attempts[qs[qi].QuestionID] = model.QuestionAttempt{
				SubmissionID: sub.ID,
				Time:         ans.Time,
				Correct:      ans.Correct,
			}
		}
	}
	return attempts
}

package scheduler

import (
	"context"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/msshahs/prepseed-backend-sub003/internal/logger"
	"github.com/msshahs/prepseed-backend-sub003/internal/service"
)

// Cadences configures the three independent sweep intervals as cron specs
// with a seconds field.
type Cadences struct {
	StatsSweep string
	Grading    string
	Digest     string
}

// Scheduler runs the fixed-interval background sweeps. Ticks of the same job
// may overlap with still-running work from an earlier tick; overlap across
// different claimed units is intended throughput, overlap on one unit is
// prevented solely by the atomic claim. A transient store error fails the
// tick and is retried at the next interval; the loop itself never stops on
// errors.
type Scheduler struct {
	cron       *cron.Cron
	grading    *service.GradingService
	statistics *service.StatisticsService
	digest     *service.DigestService
	log        *logger.Logger
}

// New wires the sweeps to their cadences.
func New(cadences Cadences, grading *service.GradingService, statistics *service.StatisticsService, digest *service.DigestService, log *logger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		grading:    grading,
		statistics: statistics,
		digest:     digest,
		log:        log,
	}

	if _, err := s.cron.AddFunc(cadences.StatsSweep, s.statsTick); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(cadences.Grading, s.gradingTick); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(cadences.Digest, s.digestTick); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins ticking in background goroutines.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop halts scheduling and returns a context that is done once running
// ticks have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) gradingTick() {
	runID := uuid.NewString()
	ctx := context.Background()

	claimed, err := s.grading.ProcessNext(ctx)
	if err != nil {
		s.log.Error("grading tick failed", "runId", runID, "claimed", claimed, "error", err)
		return
	}
	if !claimed {
		s.log.Debug("grading tick found no claimable unit", "runId", runID)
	}
}

func (s *Scheduler) statsTick() {
	if err := s.statistics.Sweep(context.Background()); err != nil {
		s.log.Error("statistics sweep failed", "error", err)
	}
}

func (s *Scheduler) digestTick() {
	if err := s.digest.Run(context.Background()); err != nil {
		s.log.Error("digest run failed", "error", err)
	}
}

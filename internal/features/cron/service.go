package cron_feature

import (
	"context"
	"fmt"
	"sync"
	"time"

	"anchor-sync/internal/config"
	sync_feature "anchor-sync/internal/features/sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type CronService interface {
	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
	// RunNow executes the scheduled job once, outside the schedule.
	RunNow(ctx context.Context) sync_feature.FleetSummary
	Status() SchedulerStatus
}

type CronServiceImpl struct {
	syncService sync_feature.SyncService
	schedule    string
	loc         *time.Location
	logger      *zap.Logger

	scheduler *cron.Cron
	entryID   cron.EntryID
	lastRun   *LastRun
	mu        sync.RWMutex
}

func NewCronService(syncService sync_feature.SyncService, cfg *config.Config, logger *zap.Logger) CronService {
	return &CronServiceImpl{
		syncService: syncService,
		schedule:    cfg.CronSchedule,
		loc:         cfg.Location(),
		logger:      logger,
	}
}

func (s *CronServiceImpl) InitializeScheduler(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("Initializing cron scheduler",
		zap.String("schedule", s.schedule),
		zap.String("timezone", s.loc.String()),
	)
	s.scheduler = cron.New(cron.WithLocation(s.loc))

	entryID, err := s.scheduler.AddFunc(s.schedule, func() {
		s.RunNow(context.Background())
	})
	if err != nil {
		s.scheduler = nil
		return fmt.Errorf("failed to add fleet sync to scheduler: %w", err)
	}
	s.entryID = entryID

	s.scheduler.Start()
	return nil
}

func (s *CronServiceImpl) StopScheduler() error {
	s.mu.RLock()
	scheduler := s.scheduler
	s.mu.RUnlock()

	if scheduler != nil {
		ctx := scheduler.Stop()
		<-ctx.Done()
	}
	return nil
}

func (s *CronServiceImpl) RunNow(ctx context.Context) sync_feature.FleetSummary {
	started := time.Now()
	s.logger.Info("Scheduled fleet sync starting")

	summary := s.syncService.RunFleetSync(ctx)

	s.mu.Lock()
	s.lastRun = &LastRun{
		StartedAt:  started,
		FinishedAt: time.Now(),
		Skipped:    summary.Skipped,
		Anchors:    summary.Anchors,
		Successful: summary.Successful,
		Failed:     summary.Failed,
		TotalSaved: summary.TotalSaved,
	}
	s.mu.Unlock()

	return summary
}

func (s *CronServiceImpl) Status() SchedulerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := SchedulerStatus{
		Running:  s.scheduler != nil,
		Schedule: s.schedule,
		Timezone: s.loc.String(),
	}
	if s.lastRun != nil {
		last := *s.lastRun
		status.LastRun = &last
	}
	if s.scheduler != nil {
		if next := s.scheduler.Entry(s.entryID).Next; !next.IsZero() {
			status.NextRun = &next
		}
	}
	return status
}

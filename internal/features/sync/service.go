package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	gosync "sync"
	"time"

	common_models "anchor-sync/internal/common/models"
	"anchor-sync/internal/config"
	"anchor-sync/internal/connectors"
	"anchor-sync/internal/database"
	"anchor-sync/internal/features/anchor"
	"anchor-sync/internal/features/notification"
	"anchor-sync/internal/features/order"
	"anchor-sync/internal/features/report"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

var (
	ErrAnchorNotFound   = errors.New("anchor does not exist or has been deleted")
	ErrAnchorIDRequired = errors.New("anchorId is required")
)

// FleetLockKey guards fleet runs across replicas
const FleetLockKey = "lock:fleet-sync"

type SyncService interface {
	// SyncAccount pages through one anchor's orders for tr and persists them.
	// It always writes exactly one sync log entry and never panics on
	// ordinary upstream failures.
	SyncAccount(ctx context.Context, a anchor.Anchor, tr TimeRange) AccountResult
	// SyncOneAccount is the on-demand entry point used by the HTTP facade and CLI.
	SyncOneAccount(ctx context.Context, req SyncRequest) SyncResponse
	// RunFleetSync syncs every active anchor in bounded concurrent batches.
	RunFleetSync(ctx context.Context) FleetSummary
	ListLogs(ctx context.Context, filter LogFilter, page common_models.PageQuery) ([]SyncLog, int64, error)
	LogStats(ctx context.Context, filter LogFilter) (*LogStats, error)
	LatestLog(ctx context.Context, anchorID string) (*SyncLog, error)
}

type SyncServiceImpl struct {
	anchors       anchor.AnchorRepository
	source        connectors.OrderSource
	persister     order.Persister
	reports       report.ReportService
	notifications notification.NotificationService
	logs          SyncLogRepository
	locker        database.Locker
	logger        *zap.Logger

	pageSize   int
	maxPages   int
	batchSize  int
	batchDelay time.Duration
	lockTTL    time.Duration
	loc        *time.Location
	now        func() time.Time
	sleep      func(time.Duration)
}

func NewSyncService(
	anchors anchor.AnchorRepository,
	source connectors.OrderSource,
	persister order.Persister,
	reports report.ReportService,
	notifications notification.NotificationService,
	logs SyncLogRepository,
	locker database.Locker,
	cfg *config.Config,
	logger *zap.Logger,
) SyncService {
	return &SyncServiceImpl{
		anchors:       anchors,
		source:        source,
		persister:     persister,
		reports:       reports,
		notifications: notifications,
		logs:          logs,
		locker:        locker,
		logger:        logger,
		pageSize:      positiveOr(cfg.PageSize, 100),
		maxPages:      positiveOr(cfg.MaxPages, 50),
		batchSize:     positiveOr(cfg.BatchSize, 3),
		batchDelay:    cfg.BatchDelay,
		lockTTL:       cfg.FleetLockTTL,
		loc:           cfg.Location(),
		now:           time.Now,
		sleep:         time.Sleep,
	}
}

func positiveOr(v, fallback int) int {
	if v < 1 {
		return fallback
	}
	return v
}

func (s *SyncServiceImpl) SyncAccount(ctx context.Context, a anchor.Anchor, tr TimeRange) AccountResult {
	started := s.now()
	log := s.logger.With(zap.String("anchor", a.AnchorName), zap.String("anchor_id", a.AnchorID))
	log.Info("Account sync started", zap.String("time_range", tr.String()))

	result := AccountResult{
		Anchor:    a.AnchorName,
		AnchorID:  a.AnchorID,
		TimeRange: tr.String(),
	}

	var fetchErr *connectors.FetchError
	for page := 1; page <= s.maxPages; page++ {
		res := s.source.FetchPage(ctx, connectors.PageRequest{
			AnchorName: a.AnchorName,
			Cookie:     a.AnchorCookie,
			PageNo:     page,
			StartTime:  tr.StartTime,
			EndTime:    tr.EndTime,
		})

		if !res.Success {
			fetchErr = res.Err
			if fetchErr == nil {
				fetchErr = &connectors.FetchError{Kind: connectors.KindService, Message: "unknown error"}
			}
			log.Error("Page fetch failed, aborting account",
				zap.Int("page", page),
				zap.String("kind", string(fetchErr.Kind)),
				zap.String("error", fetchErr.Message),
			)
			break
		}
		if len(res.Orders) == 0 {
			log.Info("Page is empty", zap.Int("page", page))
			break
		}

		saved := s.persister.Persist(ctx, res.Orders)
		result.Pages++
		result.TotalFetched += len(res.Orders)
		result.TotalSaved += saved
		log.Info("Page synced",
			zap.Int("page", page),
			zap.Int("fetched", len(res.Orders)),
			zap.Int("saved", saved),
		)

		if len(res.Orders) != s.pageSize || res.TotalCount <= page*s.pageSize {
			break
		}
		if page == s.maxPages {
			log.Warn("Page ceiling reached", zap.Int("max_pages", s.maxPages))
		}
	}

	elapsed := s.now().Sub(started)
	result.DurationMs = elapsed.Milliseconds()
	result.Duration = fmt.Sprintf("%dms", result.DurationMs)

	entry := &SyncLog{
		AnchorID:   a.AnchorID,
		AnchorName: a.AnchorName,
		OrderCount: result.TotalSaved,
		SyncTime:   s.now(),
	}
	counts := fmt.Sprintf("took %s, fetched %d, saved %d, time range: %s",
		result.Duration, result.TotalFetched, result.TotalSaved, tr)

	if fetchErr != nil {
		result.Error = fetchErr.Message
		result.ErrorKind = fetchErr.Kind
		entry.SyncStatus = SyncStatusFailure
		entry.Reason = fmt.Sprintf("sync failed: %s, %s", fetchErr.Message, counts)
	} else {
		result.Success = true
		entry.SyncStatus = SyncStatusSuccess
		entry.Reason = "sync completed, " + counts
	}

	result.Steps = append(result.Steps, s.runStep(ctx, StepSyncLog, func(ctx context.Context) error {
		return s.logs.Create(ctx, entry)
	}))

	if !result.Success {
		if connectors.IsCredentialExpired(result.Error) {
			log.Warn("Anchor cookie expired, marking invalid")
			marked := s.runStep(ctx, StepMarkInvalid, func(ctx context.Context) error {
				return s.anchors.MarkInvalid(ctx, a.AnchorID)
			})
			result.Steps = append(result.Steps, marked)

			// the anchor is only reported once it is actually out of rotation
			if marked.OK {
				result.Steps = append(result.Steps, s.runStep(ctx, StepNotifyExpired, func(ctx context.Context) error {
					return s.notifications.NotifyCredentialExpired(ctx, a.AnchorName)
				}))
			} else {
				result.Steps = append(result.Steps, StepOutcome{Step: StepNotifyExpired, Skipped: true})
			}
		}
		log.Error("Account sync failed", zap.String("error", result.Error), zap.String("duration", result.Duration))
		return result
	}

	if result.TotalSaved > 0 {
		result.Steps = append(result.Steps, s.runStep(ctx, StepAggregate, func(ctx context.Context) error {
			return s.reports.Aggregate(ctx, a.AnchorID, a.AnchorName, tr.StartTime, tr.EndTime)
		}))
	}

	log.Info("Account sync completed",
		zap.Int("fetched", result.TotalFetched),
		zap.Int("saved", result.TotalSaved),
		zap.Int("pages", result.Pages),
		zap.String("duration", result.Duration),
	)
	return result
}

// runStep executes a best-effort follow-up. Errors and panics are logged and
// captured in the outcome, never propagated.
func (s *SyncServiceImpl) runStep(ctx context.Context, step string, fn func(context.Context) error) (out StepOutcome) {
	out.Step = step
	defer func() {
		if r := recover(); r != nil {
			out.OK = false
			out.Error = fmt.Sprintf("panic: %v", r)
			s.logger.Error("Step panicked", zap.String("step", step), zap.Any("panic", r))
		}
	}()

	if err := fn(ctx); err != nil {
		out.Error = err.Error()
		s.logger.Error("Step failed", zap.String("step", step), zap.Error(err))
		return out
	}
	out.OK = true
	return out
}

func (s *SyncServiceImpl) SyncOneAccount(ctx context.Context, req SyncRequest) SyncResponse {
	anchorID := strings.TrimSpace(req.AnchorID)
	if anchorID == "" {
		return SyncResponse{Success: false, Error: ErrAnchorIDRequired.Error()}
	}

	a, err := s.anchors.GetByAnchorID(ctx, anchorID)
	if errors.Is(err, anchor.ErrNotFound) {
		return SyncResponse{Success: false, Error: ErrAnchorNotFound.Error()}
	} else if err != nil {
		s.logger.Error("Failed to load anchor", zap.String("anchor_id", anchorID), zap.Error(err))
		return SyncResponse{Success: false, Error: err.Error()}
	}

	tr, err := ResolveTimeRange(s.now().In(s.loc), req.StartTime, req.EndTime)
	if err != nil {
		return SyncResponse{Success: false, Error: err.Error()}
	}

	result := s.SyncAccount(ctx, *a, tr)
	if !result.Success {
		return SyncResponse{
			Success: false,
			Error:   result.Error,
			Message: fmt.Sprintf("sync of %s failed", a.AnchorName),
			Data:    &result,
		}
	}
	return SyncResponse{
		Success: true,
		Message: fmt.Sprintf("sync of %s completed, saved %d orders", a.AnchorName, result.TotalSaved),
		Data:    &result,
	}
}

func (s *SyncServiceImpl) RunFleetSync(ctx context.Context) FleetSummary {
	release, err := s.locker.Obtain(ctx, FleetLockKey, s.lockTTL)
	if errors.Is(err, database.ErrLockHeld) {
		s.logger.Info("Fleet sync already running elsewhere, skipping")
		return FleetSummary{Skipped: true, Results: []AccountResult{}}
	} else if err != nil {
		// lock backend trouble should not stop the scheduled sync
		s.logger.Warn("Failed to obtain fleet lock, running unguarded", zap.Error(err))
		release = nil
	}
	if release != nil {
		defer func() {
			if err := release(context.Background()); err != nil {
				s.logger.Warn("Failed to release fleet lock", zap.Error(err))
			}
		}()
	}

	return s.runFleet(ctx)
}

func (s *SyncServiceImpl) runFleet(ctx context.Context) FleetSummary {
	started := s.now()
	summary := FleetSummary{Results: []AccountResult{}}

	anchors, err := s.anchors.ListActive(ctx)
	if err != nil {
		s.logger.Error("Failed to load active anchors", zap.Error(err))
		return summary
	}
	summary.Anchors = len(anchors)
	if len(anchors) == 0 {
		s.logger.Info("No active anchors, nothing to sync")
		return summary
	}

	tr, err := ResolveTimeRange(s.now().In(s.loc), "", "")
	if err != nil {
		s.logger.Error("Failed to resolve fleet time range", zap.Error(err))
		return summary
	}
	summary.TimeRange = tr.String()
	s.logger.Info("Fleet sync started",
		zap.Int("anchors", len(anchors)),
		zap.Int("batch_size", s.batchSize),
		zap.String("time_range", tr.String()),
	)

	batches := lo.Chunk(anchors, s.batchSize)
	for i, batch := range batches {
		summary.Results = append(summary.Results, s.syncBatch(ctx, batch, tr)...)

		if i < len(batches)-1 && s.batchDelay > 0 {
			s.sleep(s.batchDelay)
		}
	}

	for _, r := range summary.Results {
		if r.Success {
			summary.Successful++
			summary.TotalFetched += r.TotalFetched
			summary.TotalSaved += r.TotalSaved
		} else {
			summary.Failed++
		}
	}

	s.logger.Info("Fleet sync finished",
		zap.Int("successful", summary.Successful),
		zap.Int("failed", summary.Failed),
		zap.Int("fetched", summary.TotalFetched),
		zap.Int("saved", summary.TotalSaved),
		zap.Duration("elapsed", s.now().Sub(started)),
	)

	if summary.Successful == 0 {
		return summary
	}

	aggregated := s.runStep(ctx, StepAggregateAll, func(ctx context.Context) error {
		return s.reports.AggregateAll(ctx, tr.StartTime, tr.EndTime)
	})
	summary.Steps = append(summary.Steps, aggregated)
	if !aggregated.OK {
		summary.Steps = append(summary.Steps, StepOutcome{Step: StepNotifyDigest, Skipped: true})
		return summary
	}

	var sent bool
	digest := s.runStep(ctx, StepNotifyDigest, func(ctx context.Context) error {
		var err error
		sent, err = s.notifications.NotifyCommissionDigest(ctx)
		return err
	})
	digest.Skipped = digest.OK && !sent
	summary.Steps = append(summary.Steps, digest)
	return summary
}

// syncBatch runs one account per goroutine and settles every outcome. A
// panicking account is reported as a failed result for that account only.
func (s *SyncServiceImpl) syncBatch(ctx context.Context, batch []anchor.Anchor, tr TimeRange) []AccountResult {
	results := make([]AccountResult, len(batch))

	var wg gosync.WaitGroup
	for i, a := range batch {
		wg.Add(1)
		go func(i int, a anchor.Anchor) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("Account sync panicked",
						zap.String("anchor", a.AnchorName),
						zap.String("anchor_id", a.AnchorID),
						zap.Any("panic", r),
					)
					results[i] = AccountResult{
						Anchor:    a.AnchorName,
						AnchorID:  a.AnchorID,
						Error:     fmt.Sprintf("panic: %v", r),
						TimeRange: tr.String(),
					}
				}
			}()
			results[i] = s.SyncAccount(ctx, a, tr)
		}(i, a)
	}
	wg.Wait()

	return results
}

func (s *SyncServiceImpl) ListLogs(ctx context.Context, filter LogFilter, page common_models.PageQuery) ([]SyncLog, int64, error) {
	return s.logs.List(ctx, filter, page)
}

func (s *SyncServiceImpl) LogStats(ctx context.Context, filter LogFilter) (*LogStats, error) {
	return s.logs.Stats(ctx, filter)
}

func (s *SyncServiceImpl) LatestLog(ctx context.Context, anchorID string) (*SyncLog, error) {
	return s.logs.GetLatest(ctx, anchorID)
}

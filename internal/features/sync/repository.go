package sync

import (
	"context"
	"errors"
	"time"

	common_models "anchor-sync/internal/common/models"

	"gorm.io/gorm"
)

var ErrLogNotFound = errors.New("sync log not found")

type SyncLogRepository interface {
	Create(ctx context.Context, log *SyncLog) error
	GetLatest(ctx context.Context, anchorID string) (*SyncLog, error)
	List(ctx context.Context, filter LogFilter, page common_models.PageQuery) ([]SyncLog, int64, error)
	Stats(ctx context.Context, filter LogFilter) (*LogStats, error)
}

type SyncLogRepositoryImpl struct {
	db *gorm.DB
}

func NewSyncLogRepository(db *gorm.DB) SyncLogRepository {
	return &SyncLogRepositoryImpl{db: db}
}

var SyncLogSortFields = []string{"sync_time", "id", "anchor_id", "anchor_name", "sync_status", "order_count", "created_at"}

func (r *SyncLogRepositoryImpl) Create(ctx context.Context, log *SyncLog) error {
	now := time.Now().UTC()
	if log.SyncTime.IsZero() {
		log.SyncTime = now
	}
	log.SyncTime = log.SyncTime.UTC()
	log.CreatedAt = now
	log.UpdatedAt = now
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *SyncLogRepositoryImpl) GetLatest(ctx context.Context, anchorID string) (*SyncLog, error) {
	var l SyncLog
	err := r.db.WithContext(ctx).
		Where("anchor_id = ?", anchorID).
		Order("sync_time DESC").
		Order("id DESC").
		Take(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLogNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *SyncLogRepositoryImpl) filtered(ctx context.Context, filter LogFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&SyncLog{})
	if filter.AnchorID != "" {
		query = query.Where("anchor_id = ?", filter.AnchorID)
	}
	if filter.AnchorName != "" {
		query = query.Where("anchor_name = ?", filter.AnchorName)
	}
	if filter.SyncStatus != "" {
		query = query.Where("sync_status = ?", filter.SyncStatus)
	}
	return query
}

func (r *SyncLogRepositoryImpl) List(ctx context.Context, filter LogFilter, page common_models.PageQuery) ([]SyncLog, int64, error) {
	page = page.Normalize(SyncLogSortFields)

	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	logs := []SyncLog{}
	err := r.filtered(ctx, filter).
		Order(page.OrderBy()).
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *SyncLogRepositoryImpl) Stats(ctx context.Context, filter LogFilter) (*LogStats, error) {
	var s LogStats
	err := r.filtered(ctx, filter).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN sync_status = ? THEN 1 ELSE 0 END), 0) AS success_count,
			COALESCE(SUM(CASE WHEN sync_status = ? THEN 1 ELSE 0 END), 0) AS failed_count,
			COALESCE(SUM(order_count), 0) AS total_orders`,
			SyncStatusSuccess, SyncStatusFailure).
		Scan(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

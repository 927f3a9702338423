package report

import (
	"context"
	"errors"
	"time"

	common_models "anchor-sync/internal/common/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("report not found")

type ReportRepository interface {
	AggregateDaily(ctx context.Context, anchorName, from, to string) ([]DailyStats, error)
	Upsert(ctx context.Context, r *DailyReport) error
	Get(ctx context.Context, anchorID, reportDate string) (*DailyReport, error)
	List(ctx context.Context, filter Filter, page common_models.PageQuery) ([]DailyReport, int64, error)
	ListAll(ctx context.Context, filter Filter) ([]DailyReport, error)
	// CommissionByDate sums commission per anchor for reports whose date
	// matches the LIKE pattern.
	CommissionByDate(ctx context.Context, datePattern string) (map[string]decimal.Decimal, error)
}

type ReportRepositoryImpl struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &ReportRepositoryImpl{db: db}
}

var ReportSortFields = []string{"report_date", "anchor_name", "order_count", "order_amount", "commission", "created_at"}

// sums are rounded to the column scale; sqlite adds REAL values in binary
const moneyScale = 4

// AggregateDaily groups an anchor's orders paid within [from, to] by day.
// Bounds use the stored text format YYYY-MM-DD HH:mm:ss.
func (r *ReportRepositoryImpl) AggregateDaily(ctx context.Context, anchorName, from, to string) ([]DailyStats, error) {
	stats := []DailyStats{}
	err := r.db.WithContext(ctx).
		Table("orders").
		Select(`SUBSTR(order_paid_time, 1, 10) AS report_date,
			COUNT(*) AS order_count,
			COALESCE(SUM(order_amount), 0) AS order_amount,
			COALESCE(SUM(predict_amount), 0) AS commission,
			COALESCE(SUM(buy_amount), 0) AS buy_count,
			COALESCE(SUM(CASE WHEN refund_amount > 0 THEN 1 ELSE 0 END), 0) AS refund_count,
			COALESCE(SUM(CASE WHEN refund_amount > 0 THEN refund_amount ELSE 0 END), 0) AS refund_amount`).
		Where("ad_user_nick = ?", anchorName).
		Where("order_paid_time >= ? AND order_paid_time <= ?", from, to).
		Group("SUBSTR(order_paid_time, 1, 10)").
		Order("report_date").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	for i := range stats {
		stats[i].OrderAmount = stats[i].OrderAmount.Round(moneyScale)
		stats[i].Commission = stats[i].Commission.Round(moneyScale)
		stats[i].RefundAmount = stats[i].RefundAmount.Round(moneyScale)
	}
	return stats, nil
}

func (r *ReportRepositoryImpl) Upsert(ctx context.Context, rep *DailyReport) error {
	now := time.Now().UTC()
	rep.UpdatedAt = now
	if rep.CreatedAt.IsZero() {
		rep.CreatedAt = now
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "anchor_id"}, {Name: "report_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"anchor_name", "order_count", "order_amount", "commission",
				"buy_count", "refund_count", "refund_amount", "updated_at",
			}),
		}).
		Create(rep).Error
}

func (r *ReportRepositoryImpl) Get(ctx context.Context, anchorID, reportDate string) (*DailyReport, error) {
	var rep DailyReport
	err := r.db.WithContext(ctx).
		Where("anchor_id = ? AND report_date = ?", anchorID, reportDate).
		First(&rep).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *ReportRepositoryImpl) filtered(ctx context.Context, filter Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&DailyReport{})
	if filter.AnchorID != "" {
		query = query.Where("anchor_id = ?", filter.AnchorID)
	}
	if filter.AnchorName != "" {
		query = query.Where("anchor_name = ?", filter.AnchorName)
	}
	if filter.StartDate != "" {
		query = query.Where("report_date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		query = query.Where("report_date <= ?", filter.EndDate)
	}
	return query
}

func (r *ReportRepositoryImpl) List(ctx context.Context, filter Filter, page common_models.PageQuery) ([]DailyReport, int64, error) {
	page = page.Normalize(ReportSortFields)

	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	reports := []DailyReport{}
	err := r.filtered(ctx, filter).
		Order(page.OrderBy()).
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *ReportRepositoryImpl) ListAll(ctx context.Context, filter Filter) ([]DailyReport, error) {
	reports := []DailyReport{}
	err := r.filtered(ctx, filter).Order("report_date DESC, anchor_name").Find(&reports).Error
	return reports, err
}

func (r *ReportRepositoryImpl) CommissionByDate(ctx context.Context, datePattern string) (map[string]decimal.Decimal, error) {
	var rows []struct {
		AnchorName string
		Commission decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&DailyReport{}).
		Select("anchor_name, COALESCE(SUM(commission), 0) AS commission").
		Where("report_date LIKE ?", datePattern).
		Group("anchor_name").
		Order("anchor_name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.AnchorName] = row.Commission.Round(moneyScale)
	}
	return out, nil
}

package report

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	common_models "anchor-sync/internal/common/models"
	"anchor-sync/internal/features/anchor"
	"anchor-sync/pkg/export"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrInvalidAPITime = errors.New("invalid api time format")

var apiDatePattern = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})\s`)

type ReportService interface {
	// Aggregate rebuilds the daily reports of one anchor for the span
	// between two wallet timestamps (YYYYMMDD HH:mm:ss).
	Aggregate(ctx context.Context, anchorID, anchorName, startTime, endTime string) error
	// AggregateAll runs Aggregate for every active anchor. Per anchor
	// failures are logged and skipped.
	AggregateAll(ctx context.Context, startTime, endTime string) error
	CommissionDigest(ctx context.Context, today, month string) ([]AnchorCommission, error)
	List(ctx context.Context, filter Filter, page common_models.PageQuery) ([]DailyReport, int64, error)
	ExportToExcel(ctx context.Context, filter Filter) ([]byte, string, error)
}

type ReportServiceImpl struct {
	ReportRepo ReportRepository
	AnchorRepo anchor.AnchorRepository
	logger     *zap.Logger
}

func NewReportService(reportRepo ReportRepository, anchorRepo anchor.AnchorRepository, logger *zap.Logger) ReportService {
	return &ReportServiceImpl{
		ReportRepo: reportRepo,
		AnchorRepo: anchorRepo,
		logger:     logger,
	}
}

// APITimeToDate converts "20250120 00:00:00" to "2025-01-20".
func APITimeToDate(apiTime string) (string, error) {
	m := apiDatePattern.FindStringSubmatch(apiTime)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidAPITime, apiTime)
	}
	return m[1] + "-" + m[2] + "-" + m[3], nil
}

func (s *ReportServiceImpl) Aggregate(ctx context.Context, anchorID, anchorName, startTime, endTime string) error {
	startDate, err := APITimeToDate(startTime)
	if err != nil {
		return err
	}
	endDate, err := APITimeToDate(endTime)
	if err != nil {
		return err
	}

	stats, err := s.ReportRepo.AggregateDaily(ctx, anchorName, startDate+" 00:00:00", endDate+" 23:59:59")
	if err != nil {
		return fmt.Errorf("aggregate orders for %s: %w", anchorName, err)
	}

	written := 0
	for _, st := range stats {
		// days without orders keep whatever report they had
		if st.OrderCount <= 0 {
			continue
		}
		err := s.ReportRepo.Upsert(ctx, &DailyReport{
			AnchorID:     anchorID,
			AnchorName:   anchorName,
			ReportDate:   st.ReportDate,
			OrderCount:   st.OrderCount,
			OrderAmount:  st.OrderAmount,
			Commission:   st.Commission,
			BuyCount:     st.BuyCount,
			RefundCount:  st.RefundCount,
			RefundAmount: st.RefundAmount,
		})
		if err != nil {
			return fmt.Errorf("save report %s/%s: %w", anchorName, st.ReportDate, err)
		}
		written++
	}

	s.logger.Info("Reports aggregated",
		zap.String("anchor", anchorName),
		zap.String("anchor_id", anchorID),
		zap.Int("days", written),
	)
	return nil
}

func (s *ReportServiceImpl) AggregateAll(ctx context.Context, startTime, endTime string) error {
	anchors, err := s.AnchorRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active anchors: %w", err)
	}
	if len(anchors) == 0 {
		s.logger.Info("No active anchors, skipping report aggregation")
		return nil
	}

	for _, a := range anchors {
		if err := s.Aggregate(ctx, a.AnchorID, a.AnchorName, startTime, endTime); err != nil {
			s.logger.Error("Report aggregation failed",
				zap.String("anchor", a.AnchorName),
				zap.String("anchor_id", a.AnchorID),
				zap.Error(err),
			)
		}
	}
	return nil
}

// CommissionDigest merges commission for today (YYYY-MM-DD) and the month
// (YYYY-MM) per anchor, sorted by anchor name.
func (s *ReportServiceImpl) CommissionDigest(ctx context.Context, today, month string) ([]AnchorCommission, error) {
	todayData, err := s.ReportRepo.CommissionByDate(ctx, today)
	if err != nil {
		return nil, err
	}
	monthData, err := s.ReportRepo.CommissionByDate(ctx, month+"%")
	if err != nil {
		return nil, err
	}

	names := lo.Union(lo.Keys(todayData), lo.Keys(monthData))
	sort.Strings(names)

	return lo.Map(names, func(name string, _ int) AnchorCommission {
		return AnchorCommission{
			AnchorName: name,
			Today:      valueOrZero(todayData, name),
			Month:      valueOrZero(monthData, name),
		}
	}), nil
}

func valueOrZero(m map[string]decimal.Decimal, key string) decimal.Decimal {
	if v, ok := m[key]; ok {
		return v
	}
	return decimal.Zero
}

func (s *ReportServiceImpl) List(ctx context.Context, filter Filter, page common_models.PageQuery) ([]DailyReport, int64, error) {
	return s.ReportRepo.List(ctx, filter, page)
}

var exportColumns = []string{
	"report_date", "anchor_id", "anchor_name", "order_count", "order_amount",
	"commission", "buy_count", "refund_count", "refund_amount",
}

func (s *ReportServiceImpl) ExportToExcel(ctx context.Context, filter Filter) ([]byte, string, error) {
	reports, err := s.ReportRepo.ListAll(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	rows := lo.Map(reports, func(r DailyReport, _ int) []any {
		return []any{
			r.ReportDate, r.AnchorID, r.AnchorName, r.OrderCount, r.OrderAmount,
			r.Commission, r.BuyCount, r.RefundCount, r.RefundAmount,
		}
	})
	return export.ToExcel(exportColumns, rows, fmt.Sprintf("reports-%s", time.Now().Format("20060102150405")))
}

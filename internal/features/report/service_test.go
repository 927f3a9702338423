package report

import (
	"context"
	"fmt"
	"testing"

	"anchor-sync/internal/database"
	"anchor-sync/internal/features/anchor"
	"anchor-sync/internal/features/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(context.Background(), database.DriverSQLite,
		"file:"+t.Name()+"?mode=memory&cache=shared",
		&anchor.Anchor{}, &order.Order{}, &DailyReport{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type fixture struct {
	db      *gorm.DB
	orders  order.OrderRepository
	reports ReportRepository
	anchors anchor.AnchorRepository
	service ReportService
}

func newFixture(t *testing.T) *fixture {
	db := newTestDB(t)
	f := &fixture{
		db:      db,
		orders:  order.NewOrderRepository(db),
		reports: NewReportRepository(db),
		anchors: anchor.NewAnchorRepository(db),
	}
	f.service = NewReportService(f.reports, f.anchors, zap.NewNop())
	return f
}

func (f *fixture) addOrders(t *testing.T, anchorName, day string, n int, amount string) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, f.orders.Upsert(context.Background(), order.Order{
			BizOrderID:    fmt.Sprintf("%s-%s-%d", anchorName, day, i),
			AdUserNick:    anchorName,
			OrderPaidTime: day + " 12:00:00",
			OrderAmount:   decimal.RequireFromString(amount),
			PredictAmount: decimal.RequireFromString("1.5"),
			BuyAmount:     2,
		}))
	}
}

func TestAPITimeToDate(t *testing.T) {
	d, err := APITimeToDate("20250120 00:00:00")
	require.NoError(t, err)
	require.Equal(t, "2025-01-20", d)

	_, err = APITimeToDate("2025-01-20")
	require.ErrorIs(t, err, ErrInvalidAPITime)
}

func TestAggregate_WritesDailyRows(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addOrders(t, "alice", "2025-01-05", 3, "10")
	f.addOrders(t, "alice", "2025-01-06", 1, "4")
	f.addOrders(t, "bob", "2025-01-05", 2, "100")

	require.NoError(t, f.orders.Upsert(ctx, order.Order{
		BizOrderID:    "refunded",
		AdUserNick:    "alice",
		OrderPaidTime: "2025-01-06 18:00:00",
		OrderAmount:   decimal.NewFromInt(6),
		PredictAmount: decimal.Zero,
		RefundAmount:  decimal.NewNullDecimal(decimal.NewFromInt(6)),
		BuyAmount:     1,
	}))

	require.NoError(t, f.service.Aggregate(ctx, "A1", "alice", "20250101 00:00:00", "20250131 23:59:59"))

	day5, err := f.reports.Get(ctx, "A1", "2025-01-05")
	require.NoError(t, err)
	require.EqualValues(t, 3, day5.OrderCount)
	require.True(t, day5.OrderAmount.Equal(decimal.NewFromInt(30)))
	require.True(t, day5.Commission.Equal(decimal.RequireFromString("4.5")))
	require.EqualValues(t, 6, day5.BuyCount)
	require.Zero(t, day5.RefundCount)

	day6, err := f.reports.Get(ctx, "A1", "2025-01-06")
	require.NoError(t, err)
	require.EqualValues(t, 2, day6.OrderCount)
	require.EqualValues(t, 1, day6.RefundCount)
	require.True(t, day6.RefundAmount.Equal(decimal.NewFromInt(6)))

	all, err := f.reports.ListAll(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2, "bob's orders belong to another anchor")
}

func TestAggregate_SumsAtColumnScale(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i, amount := range []string{"0.1", "0.2"} {
		require.NoError(t, f.orders.Upsert(ctx, order.Order{
			BizOrderID:    fmt.Sprintf("small-%d", i),
			AdUserNick:    "alice",
			OrderPaidTime: "2025-01-05 12:00:00",
			OrderAmount:   decimal.RequireFromString(amount),
			PredictAmount: decimal.RequireFromString(amount),
			BuyAmount:     1,
		}))
	}

	stats, err := f.reports.AggregateDaily(ctx, "alice", "2025-01-01 00:00:00", "2025-01-31 23:59:59")
	require.NoError(t, err)
	require.Len(t, stats, 1)
	require.Equal(t, "0.3", stats[0].Commission.String())
	require.Equal(t, "0.3", stats[0].OrderAmount.String())

	require.NoError(t, f.service.Aggregate(ctx, "A1", "alice", "20250101 00:00:00", "20250131 23:59:59"))
	rep, err := f.reports.Get(ctx, "A1", "2025-01-05")
	require.NoError(t, err)
	require.Equal(t, "0.3", rep.Commission.String())

	month, err := f.reports.CommissionByDate(ctx, "2025-01%")
	require.NoError(t, err)
	require.Equal(t, "0.3", month["alice"].String())
}

func TestGet_MissingReport(t *testing.T) {
	f := newFixture(t)
	_, err := f.reports.Get(context.Background(), "A1", "2025-01-05")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAggregate_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addOrders(t, "alice", "2025-01-05", 3, "10")

	require.NoError(t, f.service.Aggregate(ctx, "A1", "alice", "20250101 00:00:00", "20250131 23:59:59"))
	first, err := f.reports.ListAll(ctx, Filter{})
	require.NoError(t, err)

	require.NoError(t, f.service.Aggregate(ctx, "A1", "alice", "20250101 00:00:00", "20250131 23:59:59"))
	second, err := f.reports.ListAll(ctx, Filter{})
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		require.Equal(t, first[i].ReportDate, second[i].ReportDate)
		require.Equal(t, first[i].OrderCount, second[i].OrderCount)
		require.True(t, first[i].OrderAmount.Equal(second[i].OrderAmount))
		require.True(t, first[i].Commission.Equal(second[i].Commission))
	}
}

func TestAggregate_DayWithoutOrdersKeepsStaleRow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addOrders(t, "alice", "2025-01-05", 10, "10")
	window := []string{"20250101 00:00:00", "20250131 23:59:59"}

	require.NoError(t, f.service.Aggregate(ctx, "A1", "alice", window[0], window[1]))

	// removing some orders recomputes the day
	for i := 0; i < 3; i++ {
		require.NoError(t, f.orders.Delete(ctx, fmt.Sprintf("alice-2025-01-05-%d", i)))
	}
	require.NoError(t, f.service.Aggregate(ctx, "A1", "alice", window[0], window[1]))
	rep, err := f.reports.Get(ctx, "A1", "2025-01-05")
	require.NoError(t, err)
	require.EqualValues(t, 7, rep.OrderCount)

	// removing all of them leaves the last written row in place
	for i := 3; i < 10; i++ {
		require.NoError(t, f.orders.Delete(ctx, fmt.Sprintf("alice-2025-01-05-%d", i)))
	}
	require.NoError(t, f.service.Aggregate(ctx, "A1", "alice", window[0], window[1]))
	rep, err = f.reports.Get(ctx, "A1", "2025-01-05")
	require.NoError(t, err)
	require.EqualValues(t, 7, rep.OrderCount)
}

func TestAggregate_RejectsBadTimes(t *testing.T) {
	f := newFixture(t)
	err := f.service.Aggregate(context.Background(), "A1", "alice", "bad", "20250131 23:59:59")
	require.ErrorIs(t, err, ErrInvalidAPITime)
}

func TestAggregateAll_CoversActiveAnchorsOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.anchors.Create(ctx, &anchor.Anchor{AnchorID: "A1", AnchorName: "alice", Status: anchor.StatusActive}))
	require.NoError(t, f.anchors.Create(ctx, &anchor.Anchor{AnchorID: "B1", AnchorName: "bob", Status: anchor.StatusInvalid}))
	f.addOrders(t, "alice", "2025-01-05", 1, "10")
	f.addOrders(t, "bob", "2025-01-05", 1, "10")

	require.NoError(t, f.service.AggregateAll(ctx, "20250101 00:00:00", "20250131 23:59:59"))

	all, err := f.reports.ListAll(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "A1", all[0].AnchorID)
}

func TestCommissionDigest_MergesTodayAndMonth(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, r := range []DailyReport{
		{AnchorID: "A1", AnchorName: "alice", ReportDate: "2025-03-01", OrderCount: 1, Commission: decimal.NewFromInt(5)},
		{AnchorID: "A1", AnchorName: "alice", ReportDate: "2025-03-07", OrderCount: 1, Commission: decimal.RequireFromString("2.5")},
		{AnchorID: "B1", AnchorName: "bob", ReportDate: "2025-03-02", OrderCount: 1, Commission: decimal.NewFromInt(8)},
		{AnchorID: "C1", AnchorName: "carol", ReportDate: "2025-02-28", OrderCount: 1, Commission: decimal.NewFromInt(99)},
	} {
		r := r
		require.NoError(t, f.reports.Upsert(ctx, &r))
	}

	rows, err := f.service.CommissionDigest(ctx, "2025-03-07", "2025-03")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, "alice", rows[0].AnchorName)
	require.True(t, rows[0].Today.Equal(decimal.RequireFromString("2.5")))
	require.True(t, rows[0].Month.Equal(decimal.RequireFromString("7.5")))

	require.Equal(t, "bob", rows[1].AnchorName)
	require.True(t, rows[1].Today.IsZero())
	require.True(t, rows[1].Month.Equal(decimal.NewFromInt(8)))
}

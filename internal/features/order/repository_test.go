package order

import (
	"context"
	"testing"

	common_models "anchor-sync/internal/common/models"
	"anchor-sync/internal/connectors"
	"anchor-sync/internal/database"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(context.Background(), database.DriverSQLite,
		"file:"+t.Name()+"?mode=memory&cache=shared", &Order{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func testOrder(id, anchor, paid string, amount string) Order {
	return Order{
		BizOrderID:    id,
		AdUserNick:    anchor,
		SellerNick:    "shop-" + anchor,
		OrderStatus:   "paid",
		OrderPaidTime: paid,
		OrderAmount:   decimal.RequireFromString(amount),
		PredictAmount: decimal.RequireFromString(amount).Div(decimal.NewFromInt(10)),
		BuyAmount:     1,
	}
}

func TestUpsert_IsIdempotentOverwrite(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestDB(t))

	require.NoError(t, repo.Upsert(ctx, testOrder("o-1", "alice", "2025-01-05 10:00:00", "10")))
	first, err := repo.Get(ctx, "o-1")
	require.NoError(t, err)

	require.NoError(t, repo.Upsert(ctx, testOrder("o-1", "alice", "2025-01-05 10:00:00", "25.5")))

	orders, total, err := repo.List(ctx, Filter{}, common_models.PageQuery{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	require.True(t, orders[0].OrderAmount.Equal(decimal.RequireFromString("25.5")))
	require.Equal(t, first.CreatedAt.Unix(), orders[0].CreatedAt.Unix())
}

func TestPreparedWriter_UpsertsConcurrently(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestDB(t))

	w, err := repo.Prepare(ctx)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Write(ctx, testOrder("o-1", "alice", "2025-01-05 10:00:00", "10")))
	require.NoError(t, w.Write(ctx, testOrder("o-1", "alice", "2025-01-05 10:00:00", "12")))
	require.Error(t, w.Write(ctx, Order{}))

	got, err := repo.Get(ctx, "o-1")
	require.NoError(t, err)
	require.True(t, got.OrderAmount.Equal(decimal.NewFromInt(12)))
}

func TestPreparedWriter_RejectsWritesAfterClose(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestDB(t))

	first, err := repo.Prepare(ctx)
	require.NoError(t, err)
	second, err := repo.Prepare(ctx)
	require.NoError(t, err)

	require.NoError(t, first.Write(ctx, testOrder("o-1", "alice", "2025-01-05 10:00:00", "10")))
	require.NoError(t, first.Close())
	require.ErrorIs(t, first.Write(ctx, testOrder("o-2", "alice", "2025-01-05 10:00:00", "10")), ErrWriterClosed)

	// the statement cache is shared, so other writers keep working
	require.NoError(t, second.Write(ctx, testOrder("o-2", "alice", "2025-01-05 10:00:00", "10")))
	require.NoError(t, second.Close())

	_, total, err := repo.List(ctx, Filter{}, common_models.PageQuery{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
}

func TestUpsert_KeepsRatiosVerbatim(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestDB(t))

	o := FromRaw(connectors.RawOrder{
		BizOrderID:            "o-1",
		AdUserNick:            "alice",
		OrderAmount:           "10",
		SellerCommissionRatio: "20%",
		OutAdUserRatio:        "abc",
		PartnerRatio:          "0.150",
	})
	require.NoError(t, repo.Upsert(ctx, o))

	got, err := repo.Get(ctx, "o-1")
	require.NoError(t, err)
	require.Equal(t, "20%", got.SellerCommissionRatio)
	require.Equal(t, "abc", got.OutAdUserRatio)
	require.Equal(t, "0.150", got.PartnerRatio)
}

func TestList_FiltersByAnchorAndPaidDate(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestDB(t))

	require.NoError(t, repo.Upsert(ctx, testOrder("o-1", "alice", "2025-01-05 10:00:00", "10")))
	require.NoError(t, repo.Upsert(ctx, testOrder("o-2", "alice", "2025-01-06 23:59:59", "20")))
	require.NoError(t, repo.Upsert(ctx, testOrder("o-3", "bob", "2025-01-06 08:00:00", "30")))

	orders, total, err := repo.List(ctx, Filter{Anchor: "alice", StartDate: "2025-01-06", EndDate: "2025-01-06"}, common_models.PageQuery{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "o-2", orders[0].BizOrderID)

	stats, err := repo.Stats(ctx, Filter{})
	require.NoError(t, err)
	require.EqualValues(t, 3, stats.TotalOrders)
	require.True(t, stats.TotalPredictAmount.Equal(decimal.NewFromInt(6)), stats.TotalPredictAmount.String())
	require.True(t, stats.TotalOrderAmount.Equal(decimal.NewFromInt(60)))
	require.EqualValues(t, 2, stats.TotalAnchors)

	sellers, err := repo.Sellers(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"shop-alice", "shop-bob"}, sellers)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestDB(t))

	require.NoError(t, repo.Upsert(ctx, testOrder("o-1", "alice", "2025-01-05 10:00:00", "10")))
	require.NoError(t, repo.Delete(ctx, "o-1"))
	require.ErrorIs(t, repo.Delete(ctx, "o-1"), ErrNotFound)

	_, err := repo.Get(ctx, "o-1")
	require.ErrorIs(t, err, ErrNotFound)
}

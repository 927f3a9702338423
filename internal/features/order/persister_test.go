package order

import (
	"context"
	"errors"
	"testing"

	common_models "anchor-sync/internal/common/models"
	"anchor-sync/internal/config"
	"anchor-sync/internal/connectors"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func rawOrders(ids ...string) []connectors.RawOrder {
	raws := make([]connectors.RawOrder, len(ids))
	for i, id := range ids {
		raws[i] = connectors.RawOrder{
			BizOrderID:    connectors.FlexString(id),
			AdUserNick:    "alice",
			OrderPaidTime: "2025-01-05 10:00:00",
			OrderAmount:   "10.00",
		}
	}
	return raws
}

func TestPersist_SavesEveryRow(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestDB(t))
	p := NewPersister(repo, &config.Config{DBBatchSize: 2}, zap.NewNop())

	saved := p.Persist(ctx, rawOrders("o-1", "o-2", "o-3", "o-4", "o-5"))
	require.Equal(t, 5, saved)

	// refetching the same page overwrites instead of duplicating
	require.Equal(t, 5, p.Persist(ctx, rawOrders("o-1", "o-2", "o-3", "o-4", "o-5")))
	_, total, err := repo.List(ctx, Filter{}, common_models.PageQuery{})
	require.NoError(t, err)
	require.EqualValues(t, 5, total)
}

func TestPersist_CountsOnlySuccessfulRows(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestDB(t))
	p := NewPersister(repo, &config.Config{DBBatchSize: 50}, zap.NewNop())

	// a row without an id fails on its own
	saved := p.Persist(ctx, rawOrders("o-1", "", "o-3"))
	require.Equal(t, 2, saved)
}

func TestPersist_Empty(t *testing.T) {
	p := NewPersister(nil, &config.Config{}, zap.NewNop())
	require.Zero(t, p.Persist(context.Background(), nil))
}

type failingPrepareRepo struct {
	OrderRepository
	upserts int
}

func (r *failingPrepareRepo) Prepare(context.Context) (OrderWriter, error) {
	return nil, errors.New("prepare failed")
}

func (r *failingPrepareRepo) Upsert(context.Context, Order) error {
	r.upserts++
	return nil
}

func TestPersist_FallsBackToSequentialWrites(t *testing.T) {
	repo := &failingPrepareRepo{}
	p := NewPersister(repo, &config.Config{DBBatchSize: 50}, zap.NewNop())

	saved := p.Persist(context.Background(), rawOrders("o-1", "o-2", "o-3"))
	require.Equal(t, 3, saved)
	require.Equal(t, 3, repo.upserts)
}

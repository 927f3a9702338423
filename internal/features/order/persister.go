package order

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"anchor-sync/internal/config"
	"anchor-sync/internal/connectors"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Persister idempotently stores a page of wallet orders.
type Persister interface {
	Persist(ctx context.Context, raws []connectors.RawOrder) int
}

type PersisterImpl struct {
	repo      OrderRepository
	batchSize int
	logger    *zap.Logger
}

func NewPersister(repo OrderRepository, cfg *config.Config, logger *zap.Logger) Persister {
	batchSize := cfg.DBBatchSize
	if batchSize < 1 {
		batchSize = 50
	}
	return &PersisterImpl{
		repo:      repo,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Persist returns how many orders were written. Row failures are logged and
// skipped; a failure of the batched path itself falls back to writing the
// whole page one order at a time.
func (p *PersisterImpl) Persist(ctx context.Context, raws []connectors.RawOrder) int {
	if len(raws) == 0 {
		return 0
	}

	orders := lo.Map(raws, func(raw connectors.RawOrder, _ int) Order {
		return FromRaw(raw)
	})

	saved, err := p.persistBatched(ctx, orders)
	if err != nil {
		p.logger.Error("Batched order save failed, falling back to sequential writes", zap.Error(err))
		saved = p.persistSequential(ctx, orders)
	}

	if saved != len(orders) {
		p.logger.Warn("Not every order was saved",
			zap.Int("saved", saved),
			zap.Int("received", len(orders)),
		)
	}
	return saved
}

func (p *PersisterImpl) persistBatched(ctx context.Context, orders []Order) (int, error) {
	writer, err := p.repo.Prepare(ctx)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer writer.Close()

	var saved atomic.Int64
	for _, batch := range lo.Chunk(orders, p.batchSize) {
		var (
			wg       sync.WaitGroup
			panicked atomic.Value
		)
		for _, o := range batch {
			wg.Add(1)
			go func(o Order) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						panicked.Store(fmt.Sprint(r))
					}
				}()

				if err := writer.Write(ctx, o); err != nil {
					p.logger.Warn("Failed to save order", zap.String("biz_order_id", o.BizOrderID), zap.Error(err))
					return
				}
				saved.Add(1)
			}(o)
		}
		wg.Wait()

		if r := panicked.Load(); r != nil {
			return int(saved.Load()), fmt.Errorf("batch writer panicked: %v", r)
		}
	}
	return int(saved.Load()), nil
}

func (p *PersisterImpl) persistSequential(ctx context.Context, orders []Order) int {
	saved := 0
	for _, o := range orders {
		if err := p.repo.Upsert(ctx, o); err != nil {
			p.logger.Warn("Failed to save order", zap.String("biz_order_id", o.BizOrderID), zap.Error(err))
			continue
		}
		saved++
	}
	return saved
}

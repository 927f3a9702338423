package order

import (
	"context"
	"errors"
	"sync"

	common_models "anchor-sync/internal/common/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound     = errors.New("order not found")
	ErrWriterClosed = errors.New("order writer is closed")
	errNoBizOrderID = errors.New("order has no biz_order_id")
)

// OrderWriter upserts orders through a cached prepared statement. It is safe
// for concurrent use.
type OrderWriter interface {
	Write(ctx context.Context, o Order) error
	Close() error
}

type OrderRepository interface {
	Prepare(ctx context.Context) (OrderWriter, error)
	Upsert(ctx context.Context, o Order) error
	Get(ctx context.Context, bizOrderID string) (*Order, error)
	List(ctx context.Context, filter Filter, page common_models.PageQuery) ([]Order, int64, error)
	ListAll(ctx context.Context, filter Filter) ([]Order, error)
	Stats(ctx context.Context, filter Filter) (*Stats, error)
	Sellers(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, bizOrderID string) error
}

type OrderRepositoryImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &OrderRepositoryImpl{db: db}
}

var OrderSortFields = []string{
	"order_paid_time", "biz_order_id", "seller_nick", "order_status",
	"order_amount", "predict_amount", "buy_amount", "created_at", "updated_at",
}

// every column but the key and created_at is replaced on conflict
var updateColumns = []string{
	"parent_order_id", "seller_nick", "item_id", "item_title",
	"ad_user_nick", "agency_nick", "order_status", "order_paid_time", "order_amount",
	"order_commission_amount", "predict_amount", "seller_commission_ratio", "remark", "refund_amount",
	"predict_total_amount", "out_ad_user_name", "out_ad_user_fee", "out_ad_user_ratio", "out_ad_user_type",
	"rid", "end_time", "picture", "refund_end_time", "partner_ratio",
	"partner_predict_amount", "modify_time", "extend_info", "buy_amount", "updated_at",
}

var onConflict = clause.OnConflict{
	Columns:   []clause.Column{{Name: "biz_order_id"}},
	DoUpdates: clause.AssignmentColumns(updateColumns),
}

func upsert(db *gorm.DB, o Order) error {
	if o.BizOrderID == "" {
		return errNoBizOrderID
	}
	o.ID = 0
	return db.Clauses(onConflict).Create(&o).Error
}

// preparedWriter shares the session's statement cache with every other writer
// from the same repository, so Close only retires this handle.
type preparedWriter struct {
	mu     sync.RWMutex
	db     *gorm.DB
	closed bool
}

func (w *preparedWriter) Write(ctx context.Context, o Order) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrWriterClosed
	}
	return upsert(w.db.WithContext(ctx), o)
}

func (w *preparedWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (r *OrderRepositoryImpl) Prepare(ctx context.Context) (OrderWriter, error) {
	session := r.db.WithContext(ctx).Session(&gorm.Session{PrepareStmt: true})
	if err := session.Error; err != nil {
		return nil, err
	}
	return &preparedWriter{db: session}, nil
}

func (r *OrderRepositoryImpl) Upsert(ctx context.Context, o Order) error {
	return upsert(r.db.WithContext(ctx), o)
}

func (r *OrderRepositoryImpl) Get(ctx context.Context, bizOrderID string) (*Order, error) {
	var o Order
	err := r.db.WithContext(ctx).Where("biz_order_id = ?", bizOrderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepositoryImpl) filtered(ctx context.Context, filter Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&Order{})
	if filter.BizOrderID != "" {
		query = query.Where("biz_order_id = ?", filter.BizOrderID)
	}
	if filter.SellerNick != "" {
		query = query.Where("seller_nick = ?", filter.SellerNick)
	}
	if filter.OrderStatus != "" {
		query = query.Where("order_status = ?", filter.OrderStatus)
	}
	if filter.Anchor != "" {
		query = query.Where("ad_user_nick = ?", filter.Anchor)
	}
	if filter.StartDate != "" {
		query = query.Where("SUBSTR(order_paid_time, 1, 10) >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		query = query.Where("SUBSTR(order_paid_time, 1, 10) <= ?", filter.EndDate)
	}
	return query
}

func (r *OrderRepositoryImpl) List(ctx context.Context, filter Filter, page common_models.PageQuery) ([]Order, int64, error) {
	page = page.Normalize(OrderSortFields)

	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orders := []Order{}
	err := r.filtered(ctx, filter).
		Order(page.OrderBy()).
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepositoryImpl) ListAll(ctx context.Context, filter Filter) ([]Order, error) {
	orders := []Order{}
	err := r.filtered(ctx, filter).Order("order_paid_time DESC").Find(&orders).Error
	return orders, err
}

func (r *OrderRepositoryImpl) Stats(ctx context.Context, filter Filter) (*Stats, error) {
	var s Stats
	err := r.filtered(ctx, filter).
		Select(`COUNT(*) AS total_orders,
			COALESCE(SUM(order_amount), 0) AS total_order_amount,
			COALESCE(SUM(predict_amount), 0) AS total_predict_amount,
			COALESCE(AVG(order_amount), 0) AS avg_order_amount,
			COALESCE(SUM(buy_amount), 0) AS total_quantity,
			COUNT(DISTINCT ad_user_nick) AS total_anchors`).
		Scan(&s).Error
	if err != nil {
		return nil, err
	}
	s.TotalOrderAmount = s.TotalOrderAmount.Round(4)
	s.TotalPredictAmount = s.TotalPredictAmount.Round(4)
	s.AvgOrderAmount = s.AvgOrderAmount.Round(2)
	return &s, nil
}

func (r *OrderRepositoryImpl) Sellers(ctx context.Context) ([]string, error) {
	sellers := []string{}
	err := r.db.WithContext(ctx).
		Model(&Order{}).
		Where("seller_nick IS NOT NULL AND seller_nick <> ''").
		Distinct("seller_nick").
		Order("seller_nick").
		Pluck("seller_nick", &sellers).Error
	return sellers, err
}

func (r *OrderRepositoryImpl) Delete(ctx context.Context, bizOrderID string) error {
	res := r.db.WithContext(ctx).Where("biz_order_id = ?", bizOrderID).Delete(&Order{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

package order

import (
	"context"
	"fmt"
	"time"

	common_models "anchor-sync/internal/common/models"
	"anchor-sync/pkg/export"
)

type OrderService interface {
	List(ctx context.Context, filter Filter, page common_models.PageQuery) ([]Order, int64, error)
	Stats(ctx context.Context, filter Filter) (*Stats, error)
	Sellers(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, bizOrderID string) error
	ExportToExcel(ctx context.Context, filter Filter) ([]byte, string, error)
}

type OrderServiceImpl struct {
	repo OrderRepository
}

func NewOrderService(repo OrderRepository) OrderService {
	return &OrderServiceImpl{repo: repo}
}

func (s *OrderServiceImpl) List(ctx context.Context, filter Filter, page common_models.PageQuery) ([]Order, int64, error) {
	return s.repo.List(ctx, filter, page)
}

func (s *OrderServiceImpl) Stats(ctx context.Context, filter Filter) (*Stats, error) {
	return s.repo.Stats(ctx, filter)
}

func (s *OrderServiceImpl) Sellers(ctx context.Context) ([]string, error) {
	return s.repo.Sellers(ctx)
}

func (s *OrderServiceImpl) Delete(ctx context.Context, bizOrderID string) error {
	return s.repo.Delete(ctx, bizOrderID)
}

var exportColumns = []string{
	"biz_order_id", "seller_nick", "item_title", "ad_user_nick", "order_status", "order_paid_time",
	"order_amount", "predict_amount", "seller_commission_ratio", "refund_amount", "buy_amount", "modify_time",
}

func (s *OrderServiceImpl) ExportToExcel(ctx context.Context, filter Filter) ([]byte, string, error) {
	orders, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	rows := make([][]any, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []any{
			o.BizOrderID, o.SellerNick, o.ItemTitle, o.AdUserNick, o.OrderStatus, o.OrderPaidTime,
			o.OrderAmount, o.PredictAmount, o.SellerCommissionRatio, o.RefundAmount, o.BuyAmount, o.ModifyTime,
		})
	}

	filename := fmt.Sprintf("orders-%s", time.Now().Format("20060102150405"))
	return export.ToExcel(exportColumns, rows, filename)
}

package order

import (
	"time"

	"anchor-sync/internal/connectors"

	"github.com/shopspring/decimal"
)

// Order is one persisted wallet order, keyed by BizOrderID
type Order struct {
	ID                    int64               `json:"id,omitempty" gorm:"primaryKey"`
	BizOrderID            string              `json:"biz_order_id" gorm:"size:191;not null;uniqueIndex"`
	ParentOrderID         string              `json:"parent_order_id" gorm:"size:191"`
	SellerNick            string              `json:"seller_nick" gorm:"size:191;index"`
	ItemID                string              `json:"item_id" gorm:"size:191"`
	ItemTitle             string              `json:"item_title" gorm:"type:text"`
	AdUserNick            string              `json:"ad_user_nick" gorm:"size:191;index:idx_orders_ad_user_nick,priority:1"`
	AgencyNick            string              `json:"agency_nick" gorm:"size:191"`
	OrderStatus           string              `json:"order_status" gorm:"size:64"`
	OrderPaidTime         string              `json:"order_paid_time" gorm:"size:32;index:idx_orders_ad_user_nick,priority:2"`
	OrderAmount           decimal.Decimal     `json:"order_amount" gorm:"type:decimal(18,4);not null"`
	OrderCommissionAmount decimal.Decimal     `json:"order_commission_amount" gorm:"type:decimal(18,4);not null"`
	PredictAmount         decimal.Decimal     `json:"predict_amount" gorm:"type:decimal(18,4);not null"`
	SellerCommissionRatio string              `json:"seller_commission_ratio" gorm:"size:64"`
	Remark                string              `json:"remark" gorm:"type:text"`
	RefundAmount          decimal.NullDecimal `json:"refund_amount" gorm:"type:decimal(18,4)"`
	PredictTotalAmount    decimal.Decimal     `json:"predict_total_amount" gorm:"type:decimal(18,4);not null"`
	OutAdUserName         string              `json:"out_ad_user_name" gorm:"size:191"`
	OutAdUserFee          decimal.NullDecimal `json:"out_ad_user_fee" gorm:"type:decimal(18,4)"`
	OutAdUserRatio        string              `json:"out_ad_user_ratio" gorm:"size:64"`
	OutAdUserType         string              `json:"out_ad_user_type" gorm:"size:64"`
	Rid                   string              `json:"rid" gorm:"size:191"`
	EndTime               string              `json:"end_time" gorm:"size:32"`
	Picture               string              `json:"picture" gorm:"type:text"`
	RefundEndTime         string              `json:"refund_end_time" gorm:"size:32"`
	PartnerRatio          string              `json:"partner_ratio" gorm:"size:64"`
	PartnerPredictAmount  decimal.NullDecimal `json:"partner_predict_amount" gorm:"type:decimal(18,4)"`
	ModifyTime            string              `json:"modify_time" gorm:"size:32"`
	ExtendInfo            string              `json:"extend_info" gorm:"type:text"`
	BuyAmount             int                 `json:"buy_amount" gorm:"not null"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// FromRaw coerces a wallet payload into a storable order. Amounts default to
// zero, the nullable ones to NULL, and quantity to 1. Ratios are kept as the
// wallet sent them.
func FromRaw(raw connectors.RawOrder) Order {
	return Order{
		BizOrderID:            raw.BizOrderID.String(),
		ParentOrderID:         raw.ParentOrderID.String(),
		SellerNick:            raw.SellerNick.String(),
		ItemID:                raw.ItemID.String(),
		ItemTitle:             raw.ItemTitle.String(),
		AdUserNick:            raw.AdUserNick.String(),
		AgencyNick:            raw.AgencyNick.String(),
		OrderStatus:           raw.OrderStatus.String(),
		OrderPaidTime:         raw.OrderPaidTime.String(),
		OrderAmount:           raw.OrderAmount.Decimal(),
		OrderCommissionAmount: raw.OrderCommissionAmount.Decimal(),
		PredictAmount:         raw.PredictAmount.Decimal(),
		SellerCommissionRatio: raw.SellerCommissionRatio.String(),
		Remark:                raw.Remark.String(),
		RefundAmount:          raw.RefundAmount.NullDecimal(),
		PredictTotalAmount:    raw.PredictTotalAmount.Decimal(),
		OutAdUserName:         raw.OutAdUserName.String(),
		OutAdUserFee:          raw.OutAdUserFee.NullDecimal(),
		OutAdUserRatio:        raw.OutAdUserRatio.String(),
		OutAdUserType:         raw.OutAdUserType.String(),
		Rid:                   raw.Rid.String(),
		EndTime:               raw.EndTime.String(),
		Picture:               raw.Picture.String(),
		RefundEndTime:         raw.RefundEndTime.String(),
		PartnerRatio:          raw.PartnerRatio.String(),
		PartnerPredictAmount:  raw.PartnerPredictAmount.NullDecimal(),
		ModifyTime:            raw.ModifyTime.String(),
		ExtendInfo:            string(raw.ExtendInfo),
		BuyAmount:             raw.BuyAmount.IntOr(1),
	}
}

// Filter narrows order listings, stats and exports
type Filter struct {
	BizOrderID  string
	SellerNick  string
	OrderStatus string
	Anchor      string // ad_user_nick
	StartDate   string // YYYY-MM-DD, inclusive
	EndDate     string
}

// Stats summarizes the orders matching a filter
type Stats struct {
	TotalOrders        int64           `json:"totalOrders"`
	TotalOrderAmount   decimal.Decimal `json:"totalOrderAmount"`
	TotalPredictAmount decimal.Decimal `json:"totalPredictAmount"`
	AvgOrderAmount     decimal.Decimal `json:"avgOrderAmount"`
	TotalQuantity      int64           `json:"totalQuantity"`
	TotalAnchors       int64           `json:"totalAnchors"`
}

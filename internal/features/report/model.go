package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyReport is the per anchor, per day rollup of persisted orders
type DailyReport struct {
	ID           int64           `json:"id,omitempty" gorm:"primaryKey"`
	AnchorID     string          `json:"anchor_id" gorm:"size:191;not null;uniqueIndex:idx_reports_anchor_date,priority:1"`
	AnchorName   string          `json:"anchor_name" gorm:"size:191;index"`
	ReportDate   string          `json:"report_date" gorm:"size:10;not null;uniqueIndex:idx_reports_anchor_date,priority:2;index"` // YYYY-MM-DD
	OrderCount   int64           `json:"order_count" gorm:"not null"`
	OrderAmount  decimal.Decimal `json:"order_amount" gorm:"type:decimal(18,4);not null"`
	Commission   decimal.Decimal `json:"commission" gorm:"type:decimal(18,4);not null"`
	BuyCount     int64           `json:"buy_count" gorm:"not null"`
	RefundCount  int64           `json:"refund_count" gorm:"not null"`
	RefundAmount decimal.Decimal `json:"refund_amount" gorm:"type:decimal(18,4);not null"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (DailyReport) TableName() string {
	return "reports"
}

// DailyStats is one grouped row of the aggregation query
type DailyStats struct {
	ReportDate   string
	OrderCount   int64
	OrderAmount  decimal.Decimal
	Commission   decimal.Decimal
	BuyCount     int64
	RefundCount  int64
	RefundAmount decimal.Decimal
}

// AnchorCommission is an anchor's commission for today and month to date
type AnchorCommission struct {
	AnchorName string
	Today      decimal.Decimal
	Month      decimal.Decimal
}

// Filter narrows report listings
type Filter struct {
	AnchorID   string
	AnchorName string
	StartDate  string
	EndDate    string
}

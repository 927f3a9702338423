package anchor

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInvalid  Status = "invalid"
	StatusDisabled Status = "disabled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInvalid, StatusDisabled:
		return true
	}
	return false
}

// Anchor is one wallet account whose orders are synced
type Anchor struct {
	ID           int64           `json:"id" gorm:"primaryKey"`
	AnchorID     string          `json:"anchor_id" gorm:"size:191;not null;uniqueIndex"`
	AnchorName   string          `json:"anchor_name" gorm:"size:191;not null"`
	AnchorCookie string          `json:"anchor_cookie,omitempty" gorm:"type:text"`
	Password     string          `json:"password,omitempty" gorm:"size:191;index"`
	Status       Status          `json:"status" gorm:"size:16;not null;index"`
	TotalOrders  int64           `json:"total_orders" gorm:"not null"`
	TotalAmount  decimal.Decimal `json:"total_amount" gorm:"type:decimal(18,4);not null"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Anchor) TableName() string {
	return "anchors"
}

// Filter narrows anchor listings
type Filter struct {
	AnchorID   string
	AnchorName string
	Status     string
}

// Input is the create/update payload
type Input struct {
	AnchorID     string `json:"anchor_id"`
	AnchorName   string `json:"anchor_name"`
	AnchorCookie string `json:"anchor_cookie"`
	Password     string `json:"password"`
	Status       Status `json:"status"`
}

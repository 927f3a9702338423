package connectors

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexString accepts JSON strings, numbers, booleans and null. The wallet
// sends the same field as "12.50" on one order and 12.5 on the next.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(data)
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Decimal parses the value, returning zero when absent or unparseable.
func (f FlexString) Decimal() decimal.Decimal {
	d, ok := f.decimal()
	if !ok {
		return decimal.Zero
	}
	return d
}

// NullDecimal is like Decimal but reports absent or unparseable values as NULL.
func (f FlexString) NullDecimal() decimal.NullDecimal {
	d, ok := f.decimal()
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func (f FlexString) decimal() (decimal.Decimal, bool) {
	s := strings.TrimSpace(string(f))
	s = strings.TrimSuffix(s, "%")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// IntOr parses an integer, returning fallback for absent, zero or unparseable values.
func (f FlexString) IntOr(fallback int) int {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		d, derr := decimal.NewFromString(s)
		if derr != nil {
			return fallback
		}
		n = int(d.IntPart())
	}
	if n == 0 {
		return fallback
	}
	return n
}

// RawText keeps any JSON value as text; strings are unquoted, objects kept verbatim.
type RawText string

func (r *RawText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RawText(s)
		return nil
	}
	*r = RawText(data)
	return nil
}

// RawOrder is one entry of orderPage.dataList as the wallet sends it
type RawOrder struct {
	BizOrderID            FlexString `json:"bizOrderId"`
	ParentOrderID         FlexString `json:"parentOrderId"`
	SellerNick            FlexString `json:"sellerNick"`
	ItemID                FlexString `json:"itemId"`
	ItemTitle             FlexString `json:"itemTitle"`
	AdUserNick            FlexString `json:"adUserNick"`
	AgencyNick            FlexString `json:"agencyNick"`
	OrderStatus           FlexString `json:"orderStatus"`
	OrderPaidTime         FlexString `json:"orderPaidTime"`
	OrderAmount           FlexString `json:"orderAmount"`
	OrderCommissionAmount FlexString `json:"orderCommissionAmount"`
	PredictAmount         FlexString `json:"predictAmount"`
	SellerCommissionRatio FlexString `json:"sellerCommissionRatio"`
	Remark                FlexString `json:"remark"`
	RefundAmount          FlexString `json:"refundAmount"`
	PredictTotalAmount    FlexString `json:"predictTotalAmount"`
	OutAdUserName         FlexString `json:"outAdUserName"`
	OutAdUserFee          FlexString `json:"outAdUserFee"`
	OutAdUserRatio        FlexString `json:"outAdUserRatio"`
	OutAdUserType         FlexString `json:"outAdUserType"`
	Rid                   FlexString `json:"rid"`
	EndTime               FlexString `json:"endTime"`
	Picture               FlexString `json:"picture"`
	RefundEndTime         FlexString `json:"refundEndTime"`
	PartnerRatio          FlexString `json:"partnerRatio"`
	PartnerPredictAmount  FlexString `json:"partnerPredictAmount"`
	ModifyTime            FlexString `json:"modifyTime"`
	ExtendInfo            RawText    `json:"extendInfo"`
	BuyAmount             FlexString `json:"buyAmount"`
}


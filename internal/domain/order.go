package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

type LineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	IsReward  bool            `json:"isReward,omitempty"`
	RewardID  string          `json:"rewardId,omitempty"`
}

func (l LineItem) LineTotal() decimal.Decimal {
	if l.IsReward {
		return decimal.Zero
	}
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Payment struct {
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	ChangeDue   decimal.Decimal `json:"changeDue"`
	ProcessedAt time.Time       `json:"processedAt"`
}

// Order is immutable once settled except for status transitions.
type Order struct {
	ID              string          `json:"id"`
	CustomerID      *string         `json:"customerId,omitempty"`
	CustomerName    string          `json:"customerName"`
	Items           []LineItem      `json:"items"`
	PaidSubtotal    decimal.Decimal `json:"paidSubtotal"`
	DiscountApplied decimal.Decimal `json:"discountApplied"`
	Total           decimal.Decimal `json:"total"`
	PointsEarned    int             `json:"pointsEarned"`
	PointsDeducted  int             `json:"pointsDeducted"`
	RewardUsed      string          `json:"rewardUsed,omitempty"`
	Status          OrderStatus     `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	Payment         *Payment        `json:"payment,omitempty"`
	CreatedBy       string          `json:"createdBy"`
	CreatedByName   string          `json:"createdByName,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

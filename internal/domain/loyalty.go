package domain

import (
	"strconv"
	"strings"
	"time"
)

type LoyaltyCustomer struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CardNumber string    `json:"cardNumber"`
	Points     int       `json:"points"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RewardKind is set explicitly on the reward definition rather than being
// re-derived from the display name at apply time.
type RewardKind string

const (
	RewardPercentDiscount RewardKind = "percent_discount"
	RewardFreeItem        RewardKind = "free_item"
)

type Reward struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Kind           RewardKind `json:"kind"`
	Percent        int        `json:"percent,omitempty"`
	PointsRequired int        `json:"pointsRequired"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// FreeItemName is the display name used for the zero-price line a free-item
// reward adds to an order.
func (r Reward) FreeItemName() string {
	if r.Description != "" {
		return r.Description
	}
	return r.Name
}

// RewardKindFromName classifies rewards from legacy catalogs, where the kind
// was encoded in the display name ("10% Off", "Free Cookie"). Returns the
// percent value for percent rewards. Only import paths should need this.
func RewardKindFromName(name string) (RewardKind, int, bool) {
	for _, tok := range strings.Fields(name) {
		if !strings.HasSuffix(tok, "%") {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSuffix(tok, "%"))
		if err != nil || v <= 0 || v > 100 {
			continue
		}
		return RewardPercentDiscount, v, true
	}
	if strings.Contains(strings.ToLower(name), "free") {
		return RewardFreeItem, 0, true
	}
	return "", 0, false
}

type LedgerEntryType string

const (
	LedgerEarned   LedgerEntryType = "earned"
	LedgerRedeemed LedgerEntryType = "redeemed"
)

// LedgerEntry is an append-only record of a points change. Entries are never
// updated or deleted.
type LedgerEntry struct {
	ID           string          `json:"id"`
	CustomerID   string          `json:"customerId"`
	CustomerName string          `json:"customerName,omitempty"`
	OrderID      string          `json:"orderId"`
	Points       int             `json:"points"`
	Type         LedgerEntryType `json:"type"`
	RewardID     *string         `json:"rewardId,omitempty"`
	RewardName   string          `json:"rewardName,omitempty"`
	ProcessedBy  string          `json:"processedBy,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

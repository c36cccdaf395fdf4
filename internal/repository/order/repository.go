package order

import (
	"context"

	"cafepos/internal/domain"
)

// SettleInput carries the precomputed order snapshot plus everything the
// settlement transaction must apply with it.
type SettleInput struct {
	Order          domain.Order
	RewardID       *string
	Actor          domain.Actor
	ActivityType   string
	ActivityDetail string
}

type Repository interface {
	// Settle applies the order snapshot, stock decrements, point adjustment,
	// ledger entries, and activity record as one transaction. Any failure
	// leaves no trace of the attempt.
	Settle(ctx context.Context, in SettleInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, status string, limit int) ([]domain.Order, error)
	CapturePayment(ctx context.Context, id string, payment domain.Payment, actor domain.Actor) (*domain.Order, error)
	SetStatus(ctx context.Context, id string, from, to domain.OrderStatus, actor domain.Actor) (*domain.Order, error)
	Stats(ctx context.Context) (*domain.DashboardSummary, error)
}

package loyalty

import (
	"context"

	"cafepos/internal/domain"
)

type Repository interface {
	SearchCustomers(ctx context.Context, q string, limit int) ([]domain.LoyaltyCustomer, error)
	GetCustomer(ctx context.Context, id string) (*domain.LoyaltyCustomer, error)
	CreateCustomer(ctx context.Context, name, cardNumber string) (*domain.LoyaltyCustomer, error)
	ListActiveRewards(ctx context.Context) ([]domain.Reward, error)
	GetReward(ctx context.Context, id string) (*domain.Reward, error)
	CreateReward(ctx context.Context, reward domain.Reward) (*domain.Reward, error)
	History(ctx context.Context, customerID string, limit int) ([]domain.LedgerEntry, error)
}

package product

import (
	"context"

	"cafepos/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	AdjustStock(ctx context.Context, id string, delta int) (*domain.Product, error)
	LowStock(ctx context.Context, threshold int) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	EnsureCategory(ctx context.Context, name string) (*domain.Category, error)
}

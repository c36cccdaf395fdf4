package report

import (
	"context"

	"cafepos/internal/domain"
	orderrepo "cafepos/internal/repository/order"
	productrepo "cafepos/internal/repository/product"
)

const lowStockThreshold = 10

type Service struct {
	orders   statsRepo
	products lowStockRepo
}

type statsRepo interface {
	Stats(ctx context.Context) (*domain.DashboardSummary, error)
}

type lowStockRepo interface {
	LowStock(ctx context.Context, threshold int) ([]domain.Product, error)
}

func New(orders orderrepo.Repository, products productrepo.Repository) *Service {
	return &Service{orders: orders, products: products}
}

// Summary assembles the owner dashboard figures.
func (s *Service) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	summary, err := s.orders.Stats(ctx)
	if err != nil {
		return nil, err
	}
	low, err := s.products.LowStock(ctx, lowStockThreshold)
	if err != nil {
		return nil, err
	}
	summary.LowStock = low
	return summary, nil
}

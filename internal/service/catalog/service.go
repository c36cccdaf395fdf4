package catalog

import (
	"context"
	"fmt"
	"strings"

	"cafepos/internal/domain"
	productrepo "cafepos/internal/repository/product"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo productRepo
}

type productRepo interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	AdjustStock(ctx context.Context, id string, delta int) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	EnsureCategory(ctx context.Context, name string) (*domain.Category, error)
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Available   *bool           `json:"available,omitempty"`
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	p, err := s.fromInput(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, *p)
}

func (s *Service) Update(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	p, err := s.fromInput(ctx, in)
	if err != nil {
		return nil, err
	}
	p.ID = id
	return s.repo.Update(ctx, *p)
}

// AdjustStock applies a relative delta so concurrent adjustments compose;
// the repository rejects any adjustment that would take stock negative.
func (s *Service) AdjustStock(ctx context.Context, id string, delta int) (*domain.Product, error) {
	if delta == 0 {
		return s.repo.GetByID(ctx, id)
	}
	return s.repo.AdjustStock(ctx, id, delta)
}

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) fromInput(ctx context.Context, in ProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	if in.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", domain.ErrInvalidInput)
	}
	available := true
	if in.Available != nil {
		available = *in.Available
	}
	p := domain.Product{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Stock:       in.Stock,
		Available:   available,
	}
	if category := strings.TrimSpace(in.Category); category != "" {
		c, err := s.repo.EnsureCategory(ctx, category)
		if err != nil {
			return nil, err
		}
		p.CategoryID = &c.ID
	}
	return &p, nil
}

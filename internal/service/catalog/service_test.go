package catalog

import (
	"context"
	"errors"
	"testing"

	"cafepos/internal/domain"
	"github.com/shopspring/decimal"
)

type stubRepo struct {
	products     []domain.Product
	product      *domain.Product
	getErr       error
	getCalls     int
	created      *domain.Product
	lastCreated  domain.Product
	updated      *domain.Product
	lastUpdated  domain.Product
	adjusted     *domain.Product
	adjustCalls  int
	lastDelta    int
	categories   []domain.Category
	category     *domain.Category
	lastCategory string
}

func (s *stubRepo) List(_ context.Context) ([]domain.Product, error) {
	return s.products, nil
}

func (s *stubRepo) GetByID(_ context.Context, _ string) (*domain.Product, error) {
	s.getCalls++
	return s.product, s.getErr
}

func (s *stubRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.lastCreated = p
	if s.created != nil {
		return s.created, nil
	}
	p.ID = "p1"
	return &p, nil
}

func (s *stubRepo) Update(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.lastUpdated = p
	if s.updated != nil {
		return s.updated, nil
	}
	return &p, nil
}

func (s *stubRepo) AdjustStock(_ context.Context, _ string, delta int) (*domain.Product, error) {
	s.adjustCalls++
	s.lastDelta = delta
	return s.adjusted, nil
}

func (s *stubRepo) ListCategories(_ context.Context) ([]domain.Category, error) {
	return s.categories, nil
}

func (s *stubRepo) EnsureCategory(_ context.Context, name string) (*domain.Category, error) {
	s.lastCategory = name
	if s.category != nil {
		return s.category, nil
	}
	return &domain.Category{ID: "cat1", Name: name}, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreateValidation(t *testing.T) {
	svc := &Service{repo: &stubRepo{}}

	_, err := svc.Create(context.Background(), ProductInput{Name: "  ", Price: dec("10")})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}

	_, err = svc.Create(context.Background(), ProductInput{Name: "Coffee", Price: dec("-1")})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative price, got %v", err)
	}

	_, err = svc.Create(context.Background(), ProductInput{Name: "Coffee", Price: dec("10"), Stock: -5})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative stock, got %v", err)
	}
}

func TestCreateResolvesCategory(t *testing.T) {
	repo := &stubRepo{}
	svc := &Service{repo: repo}

	product, err := svc.Create(context.Background(), ProductInput{
		Name:     "Espresso",
		Category: "  Coffee  ",
		Price:    dec("120.00"),
		Stock:    100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastCategory != "Coffee" {
		t.Fatalf("expected trimmed category name, got %q", repo.lastCategory)
	}
	if product.CategoryID == nil || *product.CategoryID != "cat1" {
		t.Fatalf("category id not attached: %+v", product.CategoryID)
	}
	if !product.Available {
		t.Fatalf("products default to available")
	}
}

func TestCreateHonorsAvailableFlag(t *testing.T) {
	repo := &stubRepo{}
	svc := &Service{repo: repo}

	unavailable := false
	_, err := svc.Create(context.Background(), ProductInput{
		Name:      "Seasonal Special",
		Price:     dec("150.00"),
		Available: &unavailable,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastCreated.Available {
		t.Fatalf("explicit available=false ignored")
	}
}

func TestAdjustStockZeroDeltaReadsOnly(t *testing.T) {
	repo := &stubRepo{product: &domain.Product{ID: "p1", Stock: 7}}
	svc := &Service{repo: repo}

	product, err := svc.AdjustStock(context.Background(), "p1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Stock != 7 {
		t.Fatalf("expected current stock back, got %d", product.Stock)
	}
	if repo.adjustCalls != 0 {
		t.Fatalf("zero delta must not hit the adjustment path")
	}
}

func TestAdjustStockPassesDelta(t *testing.T) {
	repo := &stubRepo{adjusted: &domain.Product{ID: "p1", Stock: 4}}
	svc := &Service{repo: repo}

	if _, err := svc.AdjustStock(context.Background(), "p1", -3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastDelta != -3 {
		t.Fatalf("expected delta -3, got %d", repo.lastDelta)
	}
}

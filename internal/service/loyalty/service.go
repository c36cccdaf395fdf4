package loyalty

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"cafepos/internal/domain"
	loyaltyrepo "cafepos/internal/repository/loyalty"
)

type Service struct {
	repo loyaltyRepo
}

type loyaltyRepo interface {
	SearchCustomers(ctx context.Context, q string, limit int) ([]domain.LoyaltyCustomer, error)
	GetCustomer(ctx context.Context, id string) (*domain.LoyaltyCustomer, error)
	CreateCustomer(ctx context.Context, name, cardNumber string) (*domain.LoyaltyCustomer, error)
	ListActiveRewards(ctx context.Context) ([]domain.Reward, error)
	CreateReward(ctx context.Context, reward domain.Reward) (*domain.Reward, error)
	History(ctx context.Context, customerID string, limit int) ([]domain.LedgerEntry, error)
}

func New(repo loyaltyrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Search matches the operator's free-text query against customer names and
// card numbers. This feeds the autocomplete; order settlement only ever
// receives the id picked from these results.
func (s *Service) Search(ctx context.Context, q string, limit int) ([]domain.LoyaltyCustomer, error) {
	return s.repo.SearchCustomers(ctx, strings.TrimSpace(q), limit)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.LoyaltyCustomer, error) {
	return s.repo.GetCustomer(ctx, id)
}

// Enroll registers a new loyalty customer with a generated LC- card number
// and a zero balance.
func (s *Service) Enroll(ctx context.Context, name string) (*domain.LoyaltyCustomer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrInvalidInput)
	}
	card, err := newCardNumber()
	if err != nil {
		return nil, err
	}
	return s.repo.CreateCustomer(ctx, name, card)
}

func (s *Service) History(ctx context.Context, customerID string, limit int) ([]domain.LedgerEntry, error) {
	if _, err := s.repo.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.History(ctx, customerID, limit)
}

func (s *Service) ListRewards(ctx context.Context) ([]domain.Reward, error) {
	return s.repo.ListActiveRewards(ctx)
}

type RewardInput struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Kind           string `json:"kind"`
	Percent        int    `json:"percent,omitempty"`
	PointsRequired int    `json:"pointsRequired"`
}

// CreateReward validates the explicit reward variant. The kind is part of the
// definition; display names never drive behavior.
func (s *Service) CreateReward(ctx context.Context, in RewardInput) (*domain.Reward, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrInvalidInput)
	}
	if in.PointsRequired < 0 {
		return nil, fmt.Errorf("%w: pointsRequired must not be negative", domain.ErrInvalidInput)
	}
	kind := domain.RewardKind(in.Kind)
	switch kind {
	case domain.RewardPercentDiscount:
		if in.Percent <= 0 || in.Percent > 100 {
			return nil, fmt.Errorf("%w: percent must be between 1 and 100", domain.ErrInvalidInput)
		}
	case domain.RewardFreeItem:
		in.Percent = 0
	default:
		return nil, fmt.Errorf("%w: unknown reward kind %q", domain.ErrInvalidInput, in.Kind)
	}
	return s.repo.CreateReward(ctx, domain.Reward{
		Name:           name,
		Description:    strings.TrimSpace(in.Description),
		Kind:           kind,
		Percent:        in.Percent,
		PointsRequired: in.PointsRequired,
		Active:         true,
	})
}

// newCardNumber builds card numbers like LC-483920.
func newCardNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("LC-%06d", n.Int64()+100000), nil
}

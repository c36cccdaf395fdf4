package order

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cafepos/internal/domain"
	orderrepo "cafepos/internal/repository/order"
	"github.com/shopspring/decimal"
)

const walkInCustomer = "Walk-in Customer"

// Config carries the loyalty divisor and confirmation-gate thresholds.
type Config struct {
	PointsDivisor   decimal.Decimal
	LargeOrderTotal decimal.Decimal
	LargeOrderLines int
}

type Service struct {
	repo     settlementRepo
	products productRepo
	loyalty  loyaltyRepo
	cfg      Config
}

type settlementRepo interface {
	Settle(ctx context.Context, in orderrepo.SettleInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, status string, limit int) ([]domain.Order, error)
	CapturePayment(ctx context.Context, id string, payment domain.Payment, actor domain.Actor) (*domain.Order, error)
	SetStatus(ctx context.Context, id string, from, to domain.OrderStatus, actor domain.Actor) (*domain.Order, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type loyaltyRepo interface {
	GetCustomer(ctx context.Context, id string) (*domain.LoyaltyCustomer, error)
	GetReward(ctx context.Context, id string) (*domain.Reward, error)
}

func New(repo orderrepo.Repository, products productRepo, loyalty loyaltyRepo, cfg Config) *Service {
	return &Service{repo: repo, products: products, loyalty: loyalty, cfg: cfg}
}

type SubmitItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type SubmitInput struct {
	Items        []SubmitItem `json:"items"`
	CustomerID   string       `json:"customerId,omitempty"`
	CustomerName string       `json:"customerName,omitempty"`
	RewardID     string       `json:"rewardId,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	ConfirmToken string       `json:"confirmToken,omitempty"`
}

// Confirmation is returned alongside ErrConfirmationRequired: the exact
// snapshot that will be settled, plus the token that approves it.
type Confirmation struct {
	Order domain.Order `json:"order"`
	Token string       `json:"token"`
}

// Submit builds the draft from the catalog, applies the optional reward,
// runs the confirmation gate, and settles atomically. Nothing is written
// unless the whole settlement succeeds.
func (s *Service) Submit(ctx context.Context, actor domain.Actor, in SubmitInput) (*domain.Order, *Confirmation, error) {
	if len(in.Items) == 0 {
		return nil, nil, domain.ErrEmptyOrder
	}

	var draft Draft
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, nil, fmt.Errorf("%w: product %s quantity must be positive", domain.ErrInvalidInput, item.ProductID)
		}
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, nil, fmt.Errorf("product %s: %w", item.ProductID, domain.ErrNotFound)
			}
			return nil, nil, err
		}
		if !product.Available {
			return nil, nil, fmt.Errorf("%w: product %q is not available", domain.ErrInvalidInput, product.Name)
		}
		draft = draft.AddItem(*product, item.Quantity)
	}
	draft.Notes = strings.TrimSpace(in.Notes)

	if in.CustomerID != "" {
		customer, err := s.loyalty.GetCustomer(ctx, in.CustomerID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, nil, domain.ErrCustomerNotEnrolled
			}
			return nil, nil, err
		}
		draft = draft.WithCustomer(customer)
	}

	if in.RewardID != "" {
		reward, err := s.loyalty.GetReward(ctx, in.RewardID)
		if err != nil {
			return nil, nil, err
		}
		draft, err = draft.ApplyReward(draft.Customer, *reward)
		if err != nil {
			return nil, nil, err
		}
	}

	snapshot := s.snapshot(draft, in, actor)

	if draft.RequiresConfirmation(s.cfg.LargeOrderTotal, s.cfg.LargeOrderLines) {
		token := snapshotToken(snapshot)
		if in.ConfirmToken != token {
			return nil, &Confirmation{Order: snapshot, Token: token}, domain.ErrConfirmationRequired
		}
	}

	var rewardID *string
	if draft.Reward != nil {
		id := draft.Reward.Reward.ID
		rewardID = &id
	}
	settled, err := s.repo.Settle(ctx, orderrepo.SettleInput{
		Order:          snapshot,
		RewardID:       rewardID,
		Actor:          actor,
		ActivityType:   "order_created",
		ActivityDetail: fmt.Sprintf("New order created for %s", snapshot.CustomerName),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("settle order: %w", err)
	}
	return settled, nil, nil
}

// snapshot freezes the draft into the exact order record settlement will
// persist. Reward lines are priced at zero regardless of any stale unit price.
func (s *Service) snapshot(draft Draft, in SubmitInput, actor domain.Actor) domain.Order {
	items := make([]domain.LineItem, len(draft.Lines))
	for i, l := range draft.Lines {
		if l.IsReward {
			l.UnitPrice = decimal.Zero
		}
		items[i] = l
	}

	name := strings.TrimSpace(in.CustomerName)
	var customerID *string
	if draft.Customer != nil {
		id := draft.Customer.ID
		customerID = &id
		name = draft.Customer.Name
	}
	if name == "" {
		name = walkInCustomer
	}

	earned, deducted := draft.Points(s.cfg.PointsDivisor)
	rewardUsed := ""
	if draft.Reward != nil {
		rewardUsed = draft.Reward.Reward.Name
	}

	return domain.Order{
		CustomerID:      customerID,
		CustomerName:    name,
		Items:           items,
		PaidSubtotal:    draft.PaidSubtotal(),
		DiscountApplied: draft.Discount(),
		Total:           draft.Total(),
		PointsEarned:    earned,
		PointsDeducted:  deducted,
		RewardUsed:      rewardUsed,
		Status:          domain.OrderPending,
		Notes:           draft.Notes,
		CreatedBy:       actor.ID,
		CreatedByName:   actor.DisplayName,
	}
}

// snapshotToken hashes the canonical JSON form of the snapshot. The operator
// confirms a token, and settlement only proceeds when the recomputed snapshot
// hashes to the same value, so what was shown is exactly what commits.
func snapshotToken(o domain.Order) string {
	raw, err := json.Marshal(o)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, status string, limit int) ([]domain.Order, error) {
	return s.repo.List(ctx, status, limit)
}

// CapturePayment records tender against a pending order and marks it paid.
// Amounts below the order total are rejected before anything is written.
func (s *Service) CapturePayment(ctx context.Context, actor domain.Actor, orderID string, amount decimal.Decimal, method string) (*domain.Order, error) {
	method = strings.TrimSpace(strings.ToLower(method))
	if method == "" {
		method = "cash"
	}
	// A zero tender is valid against a fully discounted order; the repository
	// compares against the actual total.
	if amount.IsNegative() {
		return nil, domain.ErrPaymentTooLow
	}
	return s.repo.CapturePayment(ctx, orderID, domain.Payment{Amount: amount, Method: method}, actor)
}

func (s *Service) Complete(ctx context.Context, actor domain.Actor, orderID string) (*domain.Order, error) {
	return s.repo.SetStatus(ctx, orderID, domain.OrderPaid, domain.OrderCompleted, actor)
}

func (s *Service) Cancel(ctx context.Context, actor domain.Actor, orderID string) (*domain.Order, error) {
	return s.repo.SetStatus(ctx, orderID, domain.OrderPending, domain.OrderCancelled, actor)
}

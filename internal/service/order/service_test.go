package order

import (
	"context"
	"errors"
	"testing"

	"cafepos/internal/domain"
	orderrepo "cafepos/internal/repository/order"
	"github.com/shopspring/decimal"
)

type stubSettlementRepo struct {
	settleOrder *domain.Order
	settleErr   error
	settleCalls int
	lastSettle  orderrepo.SettleInput

	getOrder *domain.Order
	getErr   error

	captureOrder *domain.Order
	captureErr   error
	lastPayment  domain.Payment

	statusOrder *domain.Order
	statusErr   error
	lastFrom    domain.OrderStatus
	lastTo      domain.OrderStatus
}

func (s *stubSettlementRepo) Settle(_ context.Context, in orderrepo.SettleInput) (*domain.Order, error) {
	s.settleCalls++
	s.lastSettle = in
	if s.settleErr != nil {
		return nil, s.settleErr
	}
	if s.settleOrder != nil {
		return s.settleOrder, nil
	}
	out := in.Order
	out.ID = "o1"
	return &out, nil
}

func (s *stubSettlementRepo) GetByID(_ context.Context, _ string) (*domain.Order, error) {
	return s.getOrder, s.getErr
}

func (s *stubSettlementRepo) List(_ context.Context, _ string, _ int) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubSettlementRepo) CapturePayment(_ context.Context, _ string, payment domain.Payment, _ domain.Actor) (*domain.Order, error) {
	s.lastPayment = payment
	return s.captureOrder, s.captureErr
}

func (s *stubSettlementRepo) SetStatus(_ context.Context, _ string, from, to domain.OrderStatus, _ domain.Actor) (*domain.Order, error) {
	s.lastFrom = from
	s.lastTo = to
	return s.statusOrder, s.statusErr
}

type stubProductRepo struct {
	products map[string]domain.Product
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

type stubLoyaltyRepo struct {
	customer *domain.LoyaltyCustomer
	reward   *domain.Reward
}

func (s *stubLoyaltyRepo) GetCustomer(_ context.Context, id string) (*domain.LoyaltyCustomer, error) {
	if s.customer == nil || s.customer.ID != id {
		return nil, domain.ErrNotFound
	}
	c := *s.customer
	return &c, nil
}

func (s *stubLoyaltyRepo) GetReward(_ context.Context, id string) (*domain.Reward, error) {
	if s.reward == nil || s.reward.ID != id {
		return nil, domain.ErrNotFound
	}
	r := *s.reward
	return &r, nil
}

func testConfig() Config {
	return Config{
		PointsDivisor:   dec("50"),
		LargeOrderTotal: dec("1000"),
		LargeOrderLines: 5,
	}
}

func testActor() domain.Actor {
	return domain.Actor{ID: "s1", DisplayName: "Ana"}
}

func TestSubmitEmptyOrder(t *testing.T) {
	repo := &stubSettlementRepo{}
	svc := &Service{repo: repo, products: &stubProductRepo{}, loyalty: &stubLoyaltyRepo{}, cfg: testConfig()}

	_, _, err := svc.Submit(context.Background(), testActor(), SubmitInput{})
	if !errors.Is(err, domain.ErrEmptyOrder) {
		t.Fatalf("expected ErrEmptyOrder, got %v", err)
	}
	if repo.settleCalls != 0 {
		t.Fatalf("settle must not be called for an empty order")
	}
}

func TestSubmitUnknownProduct(t *testing.T) {
	repo := &stubSettlementRepo{}
	svc := &Service{repo: repo, products: &stubProductRepo{}, loyalty: &stubLoyaltyRepo{}, cfg: testConfig()}

	_, _, err := svc.Submit(context.Background(), testActor(), SubmitInput{
		Items: []SubmitItem{{ProductID: "missing", Quantity: 1}},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if repo.settleCalls != 0 {
		t.Fatalf("settle must not be called when a product is unknown")
	}
}

func TestSubmitWalkInDefaults(t *testing.T) {
	repo := &stubSettlementRepo{}
	products := &stubProductRepo{products: map[string]domain.Product{
		"p1": product("p1", "Coffee", "80.00"),
	}}
	svc := &Service{repo: repo, products: products, loyalty: &stubLoyaltyRepo{}, cfg: testConfig()}

	order, confirmation, err := svc.Submit(context.Background(), testActor(), SubmitInput{
		Items: []SubmitItem{{ProductID: "p1", Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if confirmation != nil {
		t.Fatalf("small order should not need confirmation")
	}
	if order.CustomerName != "Walk-in Customer" {
		t.Fatalf("expected walk-in default name, got %q", order.CustomerName)
	}
	if !order.PaidSubtotal.Equal(dec("160.00")) {
		t.Fatalf("expected subtotal 160.00, got %s", order.PaidSubtotal)
	}
	if order.PointsEarned != 0 || order.PointsDeducted != 0 {
		t.Fatalf("walk-in order must not carry points, got earned=%d deducted=%d", order.PointsEarned, order.PointsDeducted)
	}
	if repo.lastSettle.RewardID != nil {
		t.Fatalf("no reward expected, got %v", *repo.lastSettle.RewardID)
	}
	if repo.lastSettle.ActivityType != "order_created" {
		t.Fatalf("unexpected activity type %q", repo.lastSettle.ActivityType)
	}
}

func TestSubmitWithPercentReward(t *testing.T) {
	repo := &stubSettlementRepo{}
	products := &stubProductRepo{products: map[string]domain.Product{
		"p1": product("p1", "Cake", "500.00"),
	}}
	loyalty := &stubLoyaltyRepo{
		customer: &domain.LoyaltyCustomer{ID: "c1", Name: "Maria", Points: 100},
		reward:   &domain.Reward{ID: "r1", Name: "10% Off", Kind: domain.RewardPercentDiscount, Percent: 10, PointsRequired: 50, Active: true},
	}
	svc := &Service{repo: repo, products: products, loyalty: loyalty, cfg: testConfig()}

	order, _, err := svc.Submit(context.Background(), testActor(), SubmitInput{
		Items:      []SubmitItem{{ProductID: "p1", Quantity: 1}},
		CustomerID: "c1",
		RewardID:   "r1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !order.DiscountApplied.Equal(dec("50.00")) {
		t.Fatalf("expected discount 50.00, got %s", order.DiscountApplied)
	}
	if !order.Total.Equal(dec("450.00")) {
		t.Fatalf("expected total 450.00, got %s", order.Total)
	}
	if order.PointsEarned != 9 || order.PointsDeducted != 50 {
		t.Fatalf("expected earned=9 deducted=50, got earned=%d deducted=%d", order.PointsEarned, order.PointsDeducted)
	}
	if order.CustomerName != "Maria" {
		t.Fatalf("expected enrolled customer name, got %q", order.CustomerName)
	}
	if repo.lastSettle.RewardID == nil || *repo.lastSettle.RewardID != "r1" {
		t.Fatalf("reward id not passed to settlement: %v", repo.lastSettle.RewardID)
	}
}

func TestSubmitRewardWithoutCustomer(t *testing.T) {
	repo := &stubSettlementRepo{}
	products := &stubProductRepo{products: map[string]domain.Product{
		"p1": product("p1", "Coffee", "80.00"),
	}}
	loyalty := &stubLoyaltyRepo{
		reward: &domain.Reward{ID: "r1", Name: "10% Off", Kind: domain.RewardPercentDiscount, Percent: 10, PointsRequired: 50, Active: true},
	}
	svc := &Service{repo: repo, products: products, loyalty: loyalty, cfg: testConfig()}

	_, _, err := svc.Submit(context.Background(), testActor(), SubmitInput{
		Items:    []SubmitItem{{ProductID: "p1", Quantity: 1}},
		RewardID: "r1",
	})
	if !errors.Is(err, domain.ErrCustomerNotEnrolled) {
		t.Fatalf("expected ErrCustomerNotEnrolled, got %v", err)
	}
	if repo.settleCalls != 0 {
		t.Fatalf("settle must not run on failed reward apply")
	}
}

func TestSubmitConfirmationRoundTrip(t *testing.T) {
	repo := &stubSettlementRepo{}
	products := &stubProductRepo{products: map[string]domain.Product{
		"p1": product("p1", "Catering Tray", "1200.00"),
	}}
	svc := &Service{repo: repo, products: products, loyalty: &stubLoyaltyRepo{}, cfg: testConfig()}

	in := SubmitInput{Items: []SubmitItem{{ProductID: "p1", Quantity: 1}}}
	_, confirmation, err := svc.Submit(context.Background(), testActor(), in)
	if !errors.Is(err, domain.ErrConfirmationRequired) {
		t.Fatalf("expected ErrConfirmationRequired, got %v", err)
	}
	if confirmation == nil || confirmation.Token == "" {
		t.Fatalf("expected confirmation snapshot with token")
	}
	if repo.settleCalls != 0 {
		t.Fatalf("settle must not run before confirmation")
	}

	in.ConfirmToken = confirmation.Token
	order, second, err := svc.Submit(context.Background(), testActor(), in)
	if err != nil {
		t.Fatalf("unexpected error on confirmed resubmit: %v", err)
	}
	if second != nil {
		t.Fatalf("confirmed resubmit must not ask again")
	}
	if repo.settleCalls != 1 {
		t.Fatalf("expected exactly one settlement, got %d", repo.settleCalls)
	}
	if !order.Total.Equal(confirmation.Order.Total) {
		t.Fatalf("settled total %s differs from confirmed snapshot %s", order.Total, confirmation.Order.Total)
	}
}

func TestSubmitConfirmationTokenMismatch(t *testing.T) {
	repo := &stubSettlementRepo{}
	products := &stubProductRepo{products: map[string]domain.Product{
		"p1": product("p1", "Catering Tray", "1200.00"),
	}}
	svc := &Service{repo: repo, products: products, loyalty: &stubLoyaltyRepo{}, cfg: testConfig()}

	_, confirmation, err := svc.Submit(context.Background(), testActor(), SubmitInput{
		Items:        []SubmitItem{{ProductID: "p1", Quantity: 1}},
		ConfirmToken: "stale-token",
	})
	if !errors.Is(err, domain.ErrConfirmationRequired) {
		t.Fatalf("expected ErrConfirmationRequired on stale token, got %v", err)
	}
	if confirmation == nil {
		t.Fatalf("expected fresh confirmation payload")
	}
	if repo.settleCalls != 0 {
		t.Fatalf("settle must not run with a mismatched token")
	}
}

func TestSubmitSettleFailurePropagates(t *testing.T) {
	repo := &stubSettlementRepo{settleErr: domain.ErrInsufficientStock}
	products := &stubProductRepo{products: map[string]domain.Product{
		"p1": product("p1", "Coffee", "80.00"),
	}}
	svc := &Service{repo: repo, products: products, loyalty: &stubLoyaltyRepo{}, cfg: testConfig()}

	_, _, err := svc.Submit(context.Background(), testActor(), SubmitInput{
		Items: []SubmitItem{{ProductID: "p1", Quantity: 1}},
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestCapturePaymentValidation(t *testing.T) {
	repo := &stubSettlementRepo{captureOrder: &domain.Order{ID: "o1"}}
	svc := &Service{repo: repo, cfg: testConfig()}

	_, err := svc.CapturePayment(context.Background(), testActor(), "o1", dec("-1.00"), "cash")
	if !errors.Is(err, domain.ErrPaymentTooLow) {
		t.Fatalf("expected ErrPaymentTooLow for negative tender, got %v", err)
	}

	// Zero tender settles a fully discounted zero-total order.
	if _, err := svc.CapturePayment(context.Background(), testActor(), "o1", decimal.Zero, "cash"); err != nil {
		t.Fatalf("unexpected error for zero tender: %v", err)
	}
	if !repo.lastPayment.Amount.IsZero() {
		t.Fatalf("expected zero tender passed through, got %s", repo.lastPayment.Amount)
	}

	_, err = svc.CapturePayment(context.Background(), testActor(), "o1", dec("200.00"), "  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastPayment.Method != "cash" {
		t.Fatalf("expected default cash method, got %q", repo.lastPayment.Method)
	}
}

func TestCompleteAndCancelTransitions(t *testing.T) {
	repo := &stubSettlementRepo{statusOrder: &domain.Order{ID: "o1"}}
	svc := &Service{repo: repo, cfg: testConfig()}

	if _, err := svc.Complete(context.Background(), testActor(), "o1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastFrom != domain.OrderPaid || repo.lastTo != domain.OrderCompleted {
		t.Fatalf("complete used transition %s->%s", repo.lastFrom, repo.lastTo)
	}

	if _, err := svc.Cancel(context.Background(), testActor(), "o1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastFrom != domain.OrderPending || repo.lastTo != domain.OrderCancelled {
		t.Fatalf("cancel used transition %s->%s", repo.lastFrom, repo.lastTo)
	}
}

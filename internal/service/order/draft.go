package order

import (
	"cafepos/internal/domain"
	"github.com/shopspring/decimal"
)

// AppliedReward captures the effect of the single reward attached to a draft.
type AppliedReward struct {
	Reward   domain.Reward
	Discount decimal.Decimal
}

// Draft is the in-progress order: cart lines, the optional loyalty customer
// pick, and at most one applied reward. All operations are value-in/value-out;
// the only side-effecting boundary is Service.Submit.
type Draft struct {
	Lines    []domain.LineItem
	Customer *domain.LoyaltyCustomer
	Notes    string
	Reward   *AppliedReward
}

func (d Draft) cloneLines() []domain.LineItem {
	out := make([]domain.LineItem, len(d.Lines))
	copy(out, d.Lines)
	return out
}

// AddItem appends a line for the product, or bumps the quantity of an
// existing non-reward line. Non-positive quantities are a no-op.
func (d Draft) AddItem(p domain.Product, quantity int) Draft {
	if quantity <= 0 {
		return d
	}
	lines := d.cloneLines()
	for i, l := range lines {
		if !l.IsReward && l.ProductID == p.ID {
			lines[i].Quantity += quantity
			d.Lines = lines
			return d
		}
	}
	d.Lines = append(lines, domain.LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  quantity,
	})
	return d
}

// UpdateQuantity sets the quantity of a non-reward line; zero or less removes
// the line.
func (d Draft) UpdateQuantity(productID string, quantity int) Draft {
	if quantity <= 0 {
		return d.RemoveItem(productID)
	}
	lines := d.cloneLines()
	for i, l := range lines {
		if !l.IsReward && l.ProductID == productID {
			lines[i].Quantity = quantity
		}
	}
	d.Lines = lines
	return d
}

// RemoveItem drops the non-reward line for the product.
func (d Draft) RemoveItem(productID string) Draft {
	lines := make([]domain.LineItem, 0, len(d.Lines))
	for _, l := range d.Lines {
		if !l.IsReward && l.ProductID == productID {
			continue
		}
		lines = append(lines, l)
	}
	d.Lines = lines
	return d
}

// PaidSubtotal sums unit price times quantity over non-reward lines.
func (d Draft) PaidSubtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range d.Lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

// Discount is the amount taken off the paid subtotal by the applied reward.
func (d Draft) Discount() decimal.Decimal {
	if d.Reward == nil {
		return decimal.Zero
	}
	return d.Reward.Discount
}

// Total is the payable amount: paid subtotal minus discount.
func (d Draft) Total() decimal.Decimal {
	return d.PaidSubtotal().Sub(d.Discount())
}

// WithCustomer pins the explicitly selected loyalty customer on the draft.
func (d Draft) WithCustomer(c *domain.LoyaltyCustomer) Draft {
	d.Customer = c
	return d
}

// ApplyReward validates preconditions in order (reward exclusivity, customer
// enrollment, point balance) and attaches the reward's effect. Percent rewards
// discount the paid subtotal, clamped to [0, paidSubtotal]; free-item rewards
// add a zero-price line. The customer is pinned on the returned draft.
func (d Draft) ApplyReward(customer *domain.LoyaltyCustomer, reward domain.Reward) (Draft, error) {
	if d.Reward != nil {
		return d, domain.ErrRewardAlreadyApplied
	}
	if customer == nil {
		return d, domain.ErrCustomerNotEnrolled
	}
	if customer.Points < reward.PointsRequired {
		return d, domain.ErrInsufficientPoints
	}

	d.Customer = customer
	switch reward.Kind {
	case domain.RewardFreeItem:
		d.Lines = append(d.cloneLines(), domain.LineItem{
			ProductID: "FREE-" + reward.ID,
			Name:      reward.FreeItemName(),
			UnitPrice: decimal.Zero,
			Quantity:  1,
			IsReward:  true,
			RewardID:  reward.ID,
		})
		d.Reward = &AppliedReward{Reward: reward, Discount: decimal.Zero}
	default:
		paid := d.PaidSubtotal()
		discount := paid.Mul(decimal.NewFromInt(int64(reward.Percent))).Div(decimal.NewFromInt(100)).Round(2)
		if discount.IsNegative() {
			discount = decimal.Zero
		}
		if discount.GreaterThan(paid) {
			discount = paid
		}
		d.Reward = &AppliedReward{Reward: reward, Discount: discount}
	}
	return d, nil
}

// RemoveReward detaches the applied reward, dropping any free-item line it
// added and zeroing the discount. Calling it with no reward applied is a no-op.
func (d Draft) RemoveReward() Draft {
	if d.Reward == nil {
		return d
	}
	rewardID := d.Reward.Reward.ID
	lines := make([]domain.LineItem, 0, len(d.Lines))
	for _, l := range d.Lines {
		if l.IsReward && l.RewardID == rewardID {
			continue
		}
		lines = append(lines, l)
	}
	d.Lines = lines
	d.Reward = nil
	return d
}

// Points computes the loyalty delta for the draft: earned is
// floor((paidSubtotal - discount) / divisor), deducted is the applied reward's
// cost. Both are zero when no customer is pinned.
func (d Draft) Points(divisor decimal.Decimal) (earned, deducted int) {
	if d.Customer == nil {
		return 0, 0
	}
	earned = int(d.Total().Div(divisor).Floor().IntPart())
	if earned < 0 {
		earned = 0
	}
	if d.Reward != nil {
		deducted = d.Reward.Reward.PointsRequired
	}
	return earned, deducted
}

// RequiresConfirmation trips for high-value or line-heavy orders; settlement
// must not run until the operator approves the exact snapshot.
func (d Draft) RequiresConfirmation(totalLimit decimal.Decimal, lineLimit int) bool {
	return d.Total().GreaterThan(totalLimit) || len(d.Lines) > lineLimit
}

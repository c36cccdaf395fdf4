package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput marks operator input that failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyOrder rejects settlement of a cart with no lines.
	ErrEmptyOrder = errors.New("order has no items")

	// Reward application failures, checked in this order.
	ErrRewardAlreadyApplied = errors.New("a reward is already applied")
	ErrCustomerNotEnrolled  = errors.New("customer not enrolled in loyalty program")
	ErrInsufficientPoints   = errors.New("not enough points for this reward")

	// ErrInsufficientStock aborts settlement when a stock decrement would go
	// below zero.
	ErrInsufficientStock = errors.New("not enough stock")

	// ErrConfirmationRequired means the order trips the large-order gate and
	// must be confirmed against the exact snapshot before settlement.
	ErrConfirmationRequired = errors.New("order requires confirmation")

	// ErrPaymentTooLow rejects a tendered amount below the order total.
	ErrPaymentTooLow = errors.New("payment amount is less than order total")

	// ErrInvalidStatus rejects an order status transition that is not allowed.
	ErrInvalidStatus = errors.New("invalid order status transition")

	// ErrReferralInvalid covers unknown, used, or role-mismatched referral codes.
	ErrReferralInvalid = errors.New("referral code invalid or already used")
)

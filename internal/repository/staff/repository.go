package staff

import (
	"context"

	"cafepos/internal/domain"
)

type RegisterInput struct {
	Name  string
	Email string
	Token string
	Code  string
}

type Repository interface {
	GetByToken(ctx context.Context, token string) (*domain.Staff, error)
	List(ctx context.Context) ([]domain.Staff, error)
	CreateReferralCode(ctx context.Context, code domain.ReferralCode) error
	// Register creates the staff member and consumes the referral code in one
	// transaction; a missing, used, or role-mismatched code aborts it.
	Register(ctx context.Context, in RegisterInput) (*domain.Staff, error)
}

package staff

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"cafepos/internal/domain"
	staffrepo "cafepos/internal/repository/staff"
)

// Roles that referral codes may be generated for. Owner accounts are never
// created through referral signup.
var referralRoles = map[string]bool{
	"staff":   true,
	"barista": true,
	"manager": true,
}

type Service struct {
	repo staffRepo
}

type staffRepo interface {
	GetByToken(ctx context.Context, token string) (*domain.Staff, error)
	List(ctx context.Context) ([]domain.Staff, error)
	CreateReferralCode(ctx context.Context, code domain.ReferralCode) error
	Register(ctx context.Context, in staffrepo.RegisterInput) (*domain.Staff, error)
}

func New(repo staffrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate resolves the actor behind a bearer token. Token issuance and
// verification beyond this lookup belong to the identity provider.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Actor, error) {
	member, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return &domain.Actor{ID: member.ID, DisplayName: member.Name, Email: member.Email}, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Staff, error) {
	return s.repo.List(ctx)
}

// GenerateReferralCode issues a single-use signup code for the given role.
func (s *Service) GenerateReferralCode(ctx context.Context, actor domain.Actor, role string) (*domain.ReferralCode, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if !referralRoles[role] {
		return nil, fmt.Errorf("cannot issue referral code for role %q: %w", role, domain.ErrReferralInvalid)
	}
	raw := make([]byte, 6)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	code := domain.ReferralCode{
		Code:     strings.ToUpper(role[:2]) + "-" + base64.RawURLEncoding.EncodeToString(raw),
		Role:     role,
		IssuedBy: actor.ID,
	}
	if err := s.repo.CreateReferralCode(ctx, code); err != nil {
		return nil, err
	}
	return &code, nil
}

type RegisterInput struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Register creates a staff account from a referral code, returning the new
// member including their bearer token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.Staff, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	code := strings.TrimSpace(in.Code)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email required", domain.ErrInvalidInput)
	}
	if code == "" {
		return nil, domain.ErrReferralInvalid
	}
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	return s.repo.Register(ctx, staffrepo.RegisterInput{
		Name:  name,
		Email: email,
		Token: token,
		Code:  code,
	})
}

func newToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

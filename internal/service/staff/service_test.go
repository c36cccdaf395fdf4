package staff

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cafepos/internal/domain"
	staffrepo "cafepos/internal/repository/staff"
)

type stubRepo struct {
	member      *domain.Staff
	memberErr   error
	staff       []domain.Staff
	lastCode    domain.ReferralCode
	codeErr     error
	registered  *domain.Staff
	registerErr error
	lastInput   staffrepo.RegisterInput
}

func (s *stubRepo) GetByToken(_ context.Context, _ string) (*domain.Staff, error) {
	return s.member, s.memberErr
}

func (s *stubRepo) List(_ context.Context) ([]domain.Staff, error) {
	return s.staff, nil
}

func (s *stubRepo) CreateReferralCode(_ context.Context, code domain.ReferralCode) error {
	s.lastCode = code
	return s.codeErr
}

func (s *stubRepo) Register(_ context.Context, in staffrepo.RegisterInput) (*domain.Staff, error) {
	s.lastInput = in
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	if s.registered != nil {
		return s.registered, nil
	}
	return &domain.Staff{ID: "s1", Name: in.Name, Email: in.Email, Token: in.Token}, nil
}

func TestAuthenticateMapsToActor(t *testing.T) {
	repo := &stubRepo{member: &domain.Staff{ID: "s1", Name: "Ana", Email: "ana@cafepos.local"}}
	svc := &Service{repo: repo}

	actor, err := svc.Authenticate(context.Background(), "token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if actor.ID != "s1" || actor.DisplayName != "Ana" || actor.Email != "ana@cafepos.local" {
		t.Fatalf("unexpected actor: %+v", actor)
	}
}

func TestAuthenticateUnknownToken(t *testing.T) {
	repo := &stubRepo{memberErr: domain.ErrNotFound}
	svc := &Service{repo: repo}

	if _, err := svc.Authenticate(context.Background(), "bad"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerateReferralCodeRejectsOwner(t *testing.T) {
	svc := &Service{repo: &stubRepo{}}

	_, err := svc.GenerateReferralCode(context.Background(), domain.Actor{ID: "s1"}, "owner")
	if !errors.Is(err, domain.ErrReferralInvalid) {
		t.Fatalf("expected ErrReferralInvalid for owner role, got %v", err)
	}
}

func TestGenerateReferralCodeFormat(t *testing.T) {
	repo := &stubRepo{}
	svc := &Service{repo: repo}

	code, err := svc.GenerateReferralCode(context.Background(), domain.Actor{ID: "s1"}, " Barista ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(code.Code, "BA-") {
		t.Fatalf("expected BA- prefix, got %q", code.Code)
	}
	if code.Role != "barista" || code.IssuedBy != "s1" {
		t.Fatalf("unexpected code: %+v", code)
	}
	if repo.lastCode.Code != code.Code {
		t.Fatalf("code not persisted")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := &Service{repo: &stubRepo{}}

	_, err := svc.Register(context.Background(), RegisterInput{Code: "ST-abc", Name: " ", Email: "x@y.z"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterInput{Code: "  ", Name: "Ana", Email: "x@y.z"})
	if !errors.Is(err, domain.ErrReferralInvalid) {
		t.Fatalf("expected ErrReferralInvalid for blank code, got %v", err)
	}
}

func TestRegisterIssuesToken(t *testing.T) {
	repo := &stubRepo{}
	svc := &Service{repo: repo}

	member, err := svc.Register(context.Background(), RegisterInput{
		Code:  "ST-abc123",
		Name:  "Ana",
		Email: "ANA@CafePOS.Local",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastInput.Email != "ana@cafepos.local" {
		t.Fatalf("expected lowercased email, got %q", repo.lastInput.Email)
	}
	if len(repo.lastInput.Token) < 32 {
		t.Fatalf("token looks too short: %q", repo.lastInput.Token)
	}
	if member.Token != repo.lastInput.Token {
		t.Fatalf("issued token not returned")
	}
}

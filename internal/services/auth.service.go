package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mentorsfoundation/donation-portal/internal/model"
	"github.com/mentorsfoundation/donation-portal/internal/repository"
)

var (
	ErrMissingFields = errors.New("email and password required")
	// ErrInvalidCredentials deliberately covers both unknown email and wrong
	// password so login never reveals whether an account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
)

type AccountRepository interface {
	Create(ctx context.Context, acct *model.Account) (*model.Account, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	List(ctx context.Context) ([]*model.Account, error)
}

type TokenIssuer interface {
	Issue(accountID int64, email, role string) (string, error)
}

type AuthService struct {
	accounts AccountRepository
	tokens   TokenIssuer
}

func NewAuthService(accounts AccountRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{
		accounts: accounts,
		tokens:   tokens,
	}
}

// Register creates an account and returns a fresh token with its public
// projection. The role is always "user": the endpoint accepts a role field
// for compatibility but it is never honored, admin accounts come from the
// bootstrap routine only.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, *model.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", nil, ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.accounts.Create(ctx, &model.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", nil, ErrDuplicateEmail
		}
		return "", nil, fmt.Errorf("create account: %w", err)
	}

	tok, err := s.tokens.Issue(created.ID, created.Email, created.Role)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	created.PasswordHash = ""
	return tok, created, nil
}

// Login authenticates by email and password and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", nil, ErrMissingFields
	}

	acct, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(acct.ID, acct.Email, acct.Role)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	acct.PasswordHash = ""
	return tok, acct, nil
}

// ListAccounts returns the hash-free projection of every account, newest
// first.
func (s *AuthService) ListAccounts(ctx context.Context) ([]model.AccountPublic, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.AccountPublic, len(accounts))
	for i, a := range accounts {
		out[i] = a.Public()
	}
	return out, nil
}

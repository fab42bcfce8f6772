package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mentorsfoundation/donation-portal/internal/model"
	"github.com/mentorsfoundation/donation-portal/internal/repository"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, acct *model.Account) (*model.Account, error) {
	args := m.Called(ctx, acct)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*model.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Account), args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(accountID int64, email, role string) (string, error) {
	args := m.Called(accountID, email, role)
	return args.String(0), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	repo := new(MockAccountRepository)
	tokens := new(MockTokenIssuer)
	ctx := context.Background()

	svc := NewAuthService(repo, tokens)

	repo.On("Create", ctx, mock.MatchedBy(func(a *model.Account) bool {
		// always stored as a plain user with a bcrypt hash, never the plaintext
		return a.Email == "alice@x.com" &&
			a.Role == model.RoleUser &&
			bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("pw123456")) == nil
	})).Return(&model.Account{ID: 7, Name: "Alice", Email: "alice@x.com", PasswordHash: "stored", Role: model.RoleUser}, nil)
	tokens.On("Issue", int64(7), "alice@x.com", model.RoleUser).Return("tok-7", nil)

	tok, acct, err := svc.Register(ctx, "Alice", "alice@x.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, "tok-7", tok)
	assert.Equal(t, int64(7), acct.ID)
	assert.Empty(t, acct.PasswordHash)

	repo.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	svc := NewAuthService(new(MockAccountRepository), new(MockTokenIssuer))
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "", "", "pw")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, _, err = svc.Register(ctx, "", "a@x.com", "")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := new(MockAccountRepository)
	tokens := new(MockTokenIssuer)
	ctx := context.Background()

	svc := NewAuthService(repo, tokens)

	repo.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicateEmail)

	_, _, err := svc.Register(ctx, "", "dup@x.com", "pw123456")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	repo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	repo := new(MockAccountRepository)
	tokens := new(MockTokenIssuer)
	ctx := context.Background()

	svc := NewAuthService(repo, tokens)

	hash, err := bcrypt.GenerateFromPassword([]byte("pw123456"), bcrypt.MinCost)
	require.NoError(t, err)

	repo.On("FindByEmail", ctx, "alice@x.com").
		Return(&model.Account{ID: 7, Email: "alice@x.com", PasswordHash: string(hash), Role: model.RoleUser}, nil)
	tokens.On("Issue", int64(7), "alice@x.com", model.RoleUser).Return("tok-7", nil)

	tok, acct, err := svc.Login(ctx, "alice@x.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, "tok-7", tok)
	assert.Empty(t, acct.PasswordHash)
}

func TestAuthService_Login_Indifference(t *testing.T) {
	// unknown email and wrong password collapse to the same error
	repo := new(MockAccountRepository)
	tokens := new(MockTokenIssuer)
	ctx := context.Background()

	svc := NewAuthService(repo, tokens)

	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	require.NoError(t, err)

	repo.On("FindByEmail", ctx, "nonexistent@x.com").Return(nil, repository.ErrAccountNotFound)
	repo.On("FindByEmail", ctx, "alice@x.com").
		Return(&model.Account{ID: 7, Email: "alice@x.com", PasswordHash: string(hash)}, nil)

	_, _, errUnknown := svc.Login(ctx, "nonexistent@x.com", "anything")
	_, _, errWrongPw := svc.Login(ctx, "alice@x.com", "wrong-password")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	assert.Equal(t, errUnknown, errWrongPw)
}

func TestBcryptHashing_SaltedRoundTrip(t *testing.T) {
	h1, err := bcrypt.GenerateFromPassword([]byte("pw123456"), bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := bcrypt.GenerateFromPassword([]byte("pw123456"), bcrypt.MinCost)
	require.NoError(t, err)

	// salted: equal plaintexts hash to different digests, both verify
	assert.NotEqual(t, string(h1), string(h2))
	assert.NoError(t, bcrypt.CompareHashAndPassword(h1, []byte("pw123456")))
	assert.NoError(t, bcrypt.CompareHashAndPassword(h2, []byte("pw123456")))
	assert.Error(t, bcrypt.CompareHashAndPassword(h1, []byte("other-password")))
}

func TestAuthService_ListAccounts(t *testing.T) {
	repo := new(MockAccountRepository)
	ctx := context.Background()

	svc := NewAuthService(repo, new(MockTokenIssuer))

	repo.On("List", ctx).Return([]*model.Account{
		{ID: 2, Email: "b@x.com", PasswordHash: "hash-b", Role: model.RoleAdmin},
		{ID: 1, Email: "a@x.com", PasswordHash: "hash-a", Role: model.RoleUser},
	}, nil)

	out, err := svc.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(2), out[0].ID)
	assert.Equal(t, model.RoleAdmin, out[0].Role)
	// projection never carries the hash field at all
}

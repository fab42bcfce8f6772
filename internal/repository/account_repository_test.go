package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorsfoundation/donation-portal/internal/model"
)

func TestAccountRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Account{
		Name:         "Alice",
		Email:        "alice@x.com",
		PasswordHash: "$2a$10$fakehash",
		Role:         model.RoleUser,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := repo.FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "$2a$10$fakehash", found.PasswordHash)
	assert.Equal(t, model.RoleUser, found.Role)
}

func TestAccountRepository_Create_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, &model.Account{Email: "dup@x.com", PasswordHash: "h1", Role: model.RoleUser})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &model.Account{Email: "dup@x.com", PasswordHash: "h2", Role: model.RoleUser})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// the losing insert must not have touched the winning row
	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "h1", accounts[0].PasswordHash)
}

func TestAccountRepository_FindByEmail_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepository(db)

	_, err := repo.FindByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountRepository_List_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		_, err := repo.Create(ctx, &model.Account{Email: email, PasswordHash: "h", Role: model.RoleUser})
		require.NoError(t, err)
	}

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "c@x.com", accounts[0].Email)
	assert.Equal(t, "b@x.com", accounts[1].Email)
	assert.Equal(t, "a@x.com", accounts[2].Email)
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mentorsfoundation/donation-portal/internal/model"
	"github.com/mentorsfoundation/donation-portal/pkg/store"
)

var (
	// ErrDuplicateEmail is returned when an insert collides with the unique
	// email index. Uniqueness lives in the storage engine, not in a
	// check-then-insert in application code.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrAccountNotFound is returned when no account matches.
	ErrAccountNotFound = errors.New("account not found")
)

type AccountRepository struct {
	*store.DB
}

func NewAccountRepository(db *store.DB) *AccountRepository {
	return &AccountRepository{
		db,
	}
}

func (r *AccountRepository) Create(ctx context.Context, acct *model.Account) (*model.Account, error) {
	entity := toAccountEntity(acct)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return toAccountModel(entity), nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var entity AccountEntity

	err := r.Read(ctx).WithContext(ctx).
		Where("email = ?", email).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return toAccountModel(&entity), nil
}

// List returns every account, newest first with id as the tie-break.
func (r *AccountRepository) List(ctx context.Context) ([]*model.Account, error) {
	var entities []*AccountEntity

	err := r.Read(ctx).WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}

	return toAccountModels(entities), nil
}

package repository

import (
	"time"

	"github.com/mentorsfoundation/donation-portal/internal/model"
)

type AccountEntity struct {
	ID           int64     `db:"id"            gorm:"primaryKey;autoIncrement;column:id"`
	Name         string    `db:"name"          gorm:"column:name"`
	Email        string    `db:"email"         gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string    `db:"password_hash" gorm:"column:password_hash;not null"`
	Role         string    `db:"role"          gorm:"column:role;not null;default:user"`
	CreatedAt    time.Time `db:"created_at"    gorm:"column:created_at;autoCreateTime"`
}

func (AccountEntity) TableName() string {
	return "users"
}

func toAccountEntity(m *model.Account) *AccountEntity {
	if m == nil {
		return nil
	}
	return &AccountEntity{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		CreatedAt:    m.CreatedAt,
	}
}

func toAccountModel(e *AccountEntity) *model.Account {
	if e == nil {
		return nil
	}
	return &model.Account{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		Role:         e.Role,
		CreatedAt:    e.CreatedAt,
	}
}

func toAccountModels(entities []*AccountEntity) []*model.Account {
	if entities == nil {
		return nil
	}
	models := make([]*model.Account, len(entities))
	for i, e := range entities {
		models[i] = toAccountModel(e)
	}
	return models
}

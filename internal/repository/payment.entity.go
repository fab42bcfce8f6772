package repository

import (
	"time"

	"github.com/mentorsfoundation/donation-portal/internal/model"
)

type PaymentEntity struct {
	ID            int64          `db:"id"             gorm:"primaryKey;autoIncrement;column:id"`
	UserID        *int64         `db:"user_id"        gorm:"column:user_id;index"`
	User          *AccountEntity `db:"-"              gorm:"foreignKey:UserID;references:ID"`
	DonorName     string         `db:"donor_name"     gorm:"column:donor_name"`
	DonorEmail    string         `db:"donor_email"    gorm:"column:donor_email;not null"`
	Amount        float64        `db:"amount"         gorm:"column:amount;not null"`
	Currency      string         `db:"currency"       gorm:"column:currency;not null"`
	GHSEquivalent *float64       `db:"ghs_equivalent" gorm:"column:ghs_equivalent"`
	PaymentMethod string         `db:"payment_method" gorm:"column:payment_method"`
	Reference     string         `db:"reference"      gorm:"column:reference"`
	TxID          string         `db:"tx_id"          gorm:"column:tx_id"`
	Status        string         `db:"status"         gorm:"column:status;not null;default:completed"`
	CreatedAt     time.Time      `db:"created_at"     gorm:"column:created_at;autoCreateTime;index"`
}

func (PaymentEntity) TableName() string {
	return "payments"
}

// PaymentWithDonorEntity is the scan target for the admin list join.
type PaymentWithDonorEntity struct {
	PaymentEntity
	UserName  *string `gorm:"column:user_name"`
	UserEmail *string `gorm:"column:user_email"`
}

func toPaymentEntity(m *model.Payment) *PaymentEntity {
	if m == nil {
		return nil
	}
	return &PaymentEntity{
		ID:            m.ID,
		UserID:        m.UserID,
		DonorName:     m.DonorName,
		DonorEmail:    m.DonorEmail,
		Amount:        m.Amount,
		Currency:      m.Currency,
		GHSEquivalent: m.GHSEquivalent,
		PaymentMethod: m.PaymentMethod,
		Reference:     m.Reference,
		TxID:          m.TxID,
		Status:        m.Status,
		CreatedAt:     m.CreatedAt,
	}
}

func toPaymentModel(e *PaymentEntity) *model.Payment {
	if e == nil {
		return nil
	}
	return &model.Payment{
		ID:            e.ID,
		UserID:        e.UserID,
		DonorName:     e.DonorName,
		DonorEmail:    e.DonorEmail,
		Amount:        e.Amount,
		Currency:      e.Currency,
		GHSEquivalent: e.GHSEquivalent,
		PaymentMethod: e.PaymentMethod,
		Reference:     e.Reference,
		TxID:          e.TxID,
		Status:        e.Status,
		CreatedAt:     e.CreatedAt,
	}
}

func toPaymentWithDonorModels(entities []*PaymentWithDonorEntity) []*model.PaymentWithDonor {
	if entities == nil {
		return nil
	}
	models := make([]*model.PaymentWithDonor, len(entities))
	for i, e := range entities {
		models[i] = &model.PaymentWithDonor{
			Payment:   *toPaymentModel(&e.PaymentEntity),
			UserName:  e.UserName,
			UserEmail: e.UserEmail,
		}
	}
	return models
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mentorsfoundation/donation-portal/internal/model"
	"github.com/mentorsfoundation/donation-portal/pkg/store"
)

// ErrPaymentNotFound is returned when a payment id does not exist.
var ErrPaymentNotFound = errors.New("payment not found")

type PaymentRepository struct {
	*store.DB
}

func NewPaymentRepository(db *store.DB) *PaymentRepository {
	return &PaymentRepository{
		db,
	}
}

// Create inserts the record as-is; amount/currency validation belongs to the
// endpoint, the store only guards referential integrity of user_id.
func (r *PaymentRepository) Create(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	entity := toPaymentEntity(p)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toPaymentModel(entity), nil
}

// ListWithDonor returns every payment joined with the linked account (when
// any), newest first with id as the tie-break.
func (r *PaymentRepository) ListWithDonor(ctx context.Context) ([]*model.PaymentWithDonor, error) {
	var entities []*PaymentWithDonorEntity

	err := r.Read(ctx).WithContext(ctx).
		Table("payments AS p").
		Select("p.*, u.name AS user_name, u.email AS user_email").
		Joins("LEFT JOIN users AS u ON u.id = p.user_id").
		Order("p.created_at DESC, p.id DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}

	return toPaymentWithDonorModels(entities), nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	var entity PaymentEntity

	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	return toPaymentModel(&entity), nil
}

func (r *PaymentRepository) DeleteByID(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&PaymentEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

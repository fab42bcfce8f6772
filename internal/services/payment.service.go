package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mentorsfoundation/donation-portal/internal/mailer"
	"github.com/mentorsfoundation/donation-portal/internal/model"
	"github.com/mentorsfoundation/donation-portal/internal/repository"
	"github.com/mentorsfoundation/donation-portal/pkg/prom"
)

var ErrNotFound = errors.New("payment not found")

type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment) (*model.Payment, error)
	ListWithDonor(ctx context.Context) ([]*model.PaymentWithDonor, error)
	GetByID(ctx context.Context, id int64) (*model.Payment, error)
	DeleteByID(ctx context.Context, id int64) error
}

// ConfirmationSender dispatches mail without blocking; implementations own
// their failure handling, the payment flow never sees it.
type ConfirmationSender interface {
	SendConfirmation(conf mailer.Confirmation)
}

type PaymentService struct {
	payments PaymentRepository
	mail     ConfirmationSender
}

func NewPaymentService(payments PaymentRepository, mail ConfirmationSender) *PaymentService {
	return &PaymentService{
		payments: payments,
		mail:     mail,
	}
}

// Record writes a donation claim and kicks off the confirmation mail. The
// write is the authoritative success signal; mail delivery is best effort.
func (s *PaymentService) Record(ctx context.Context, req model.PaymentCreateRequest) (*model.Payment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := &model.Payment{
		DonorName:     req.DonorName,
		DonorEmail:    req.DonorEmail,
		Amount:        req.Amount,
		Currency:      req.Currency,
		GHSEquivalent: req.GHSEquivalent,
		PaymentMethod: req.PaymentMethod,
		Reference:     req.Reference,
		TxID:          req.TxID,
		Status:        model.StatusCompleted,
	}

	created, err := s.payments.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	method := created.PaymentMethod
	if method == "" {
		method = "unknown"
	}
	prom.IncCounterVec(prom.SystemPayments, prom.MetricPaymentsRecorded, method)

	if s.mail != nil {
		s.mail.SendConfirmation(confirmationFor(created))
	}
	return created, nil
}

func (s *PaymentService) List(ctx context.Context) ([]*model.PaymentWithDonor, error) {
	return s.payments.ListWithDonor(ctx)
}

func (s *PaymentService) Delete(ctx context.Context, id int64) error {
	err := s.payments.DeleteByID(ctx, id)
	if errors.Is(err, repository.ErrPaymentNotFound) {
		return ErrNotFound
	}
	return err
}

// ResendConfirmation re-dispatches the confirmation mail for an existing
// payment.
func (s *PaymentService) ResendConfirmation(ctx context.Context, id int64) error {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return ErrNotFound
		}
		return err
	}

	if s.mail != nil {
		s.mail.SendConfirmation(confirmationFor(p))
	}
	return nil
}

func confirmationFor(p *model.Payment) mailer.Confirmation {
	var ghs float64
	if p.GHSEquivalent != nil {
		ghs = *p.GHSEquivalent
	}
	return mailer.Confirmation{
		DonorEmail:    p.DonorEmail,
		DonorName:     p.DonorName,
		Amount:        p.Amount,
		Currency:      p.Currency,
		GHSEquivalent: ghs,
		PaymentMethod: p.PaymentMethod,
		Reference:     p.Reference,
	}
}

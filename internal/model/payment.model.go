package model

import (
	"errors"
	"time"
)

// StatusCompleted is stamped on every inserted payment: a donation here is a
// self-reported claim, recorded as complete, never verified against a
// gateway.
const StatusCompleted = "completed"

var ErrMissingPaymentFields = errors.New("amount, currency, and email required")

type Payment struct {
	ID            int64     `json:"id"`
	UserID        *int64    `json:"user_id"`
	DonorName     string    `json:"donor_name"`
	DonorEmail    string    `json:"donor_email"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	GHSEquivalent *float64  `json:"ghs_equivalent"`
	PaymentMethod string    `json:"payment_method"`
	Reference     string    `json:"reference"`
	TxID          string    `json:"tx_id"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// PaymentWithDonor is the admin list row: the payment joined with the
// optional linked account.
type PaymentWithDonor struct {
	Payment
	UserName  *string `json:"user_name"`
	UserEmail *string `json:"user_email"`
}

// PaymentCreateRequest is the input for recording a donation claim.
// Submission is anonymous: no account linkage, donor email mandatory.
type PaymentCreateRequest struct {
	DonorName     string
	DonorEmail    string
	Amount        float64
	Currency      string
	GHSEquivalent *float64
	PaymentMethod string
	Reference     string
	TxID          string
}

// Validate rejects incomplete claims. Amount must be strictly positive; a
// zero or negative donation is meaningless here.
func (p PaymentCreateRequest) Validate() error {
	if p.Amount <= 0 || p.Currency == "" || p.DonorEmail == "" {
		return ErrMissingPaymentFields
	}
	return nil
}

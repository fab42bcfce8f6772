package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/mentorsfoundation/donation-portal/internal/model"
	"github.com/mentorsfoundation/donation-portal/pkg/logger"

	xhttp "github.com/mentorsfoundation/donation-portal/pkg/http"
)

type PaymentService interface {
	Record(ctx context.Context, req model.PaymentCreateRequest) (*model.Payment, error)
}

type PaymentHandler struct {
	svc PaymentService
}

func RegisterPaymentRoutes(r *xhttp.Router, h *PaymentHandler) {
	r.POST("/payments", h.CreatePayment)
}

func NewPaymentHandler(paymentService PaymentService) *PaymentHandler {
	return &PaymentHandler{
		svc: paymentService,
	}
}

// createPaymentRequest mirrors the donation form payload verbatim; the mixed
// naming is the wire contract the frontend already speaks.
type createPaymentRequest struct {
	DonorName     string   `json:"donorName"`
	DonorEmail    string   `json:"donor_email"`
	Amount        float64  `json:"amount"`
	Currency      string   `json:"currency"`
	GHSEquivalent *float64 `json:"ghsEquivalent"`
	PaymentMethod string   `json:"paymentMethod"`
	Reference     string   `json:"reference"`
	TxID          string   `json:"txId"`
}

type createPaymentResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// CreatePayment records an anonymous donation claim. No authentication:
// donors are not required to hold an account.
func (h *PaymentHandler) CreatePayment(ctx *xhttp.RequestCtx) {
	var req createPaymentRequest
	if err := readJSON(ctx, &req); err != nil {
		writeMessage(ctx, 400, "Invalid JSON")
		return
	}

	p := model.PaymentCreateRequest{
		DonorName:     req.DonorName,
		DonorEmail:    req.DonorEmail,
		Amount:        req.Amount,
		Currency:      req.Currency,
		GHSEquivalent: req.GHSEquivalent,
		PaymentMethod: req.PaymentMethod,
		Reference:     req.Reference,
		TxID:          req.TxID,
	}

	created, err := h.svc.Record(ctx, p)
	if err != nil {
		if errors.Is(err, model.ErrMissingPaymentFields) {
			writeMessage(ctx, 400, "Amount, currency, and email required")
			return
		}
		logger.Error("failed to record payment", "error", err)
		writeMessage(ctx, 500, "Server error")
		return
	}

	writeJSON(ctx, 200, createPaymentResponse{ID: created.ID, Message: "Payment recorded"})
}

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	return json.Unmarshal(ctx.PostBody(), dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

// writeMessage is the uniform failure shape: a human-readable message, never
// internal detail.
func writeMessage(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"message": msg})
}

func paramInt64(ctx *xhttp.RequestCtx, name string) (int64, error) {
	s, _ := ctx.UserValue(name).(string)
	return strconv.ParseInt(s, 10, 64)
}

package handlers

import (
	"context"
	"errors"

	"github.com/mentorsfoundation/donation-portal/internal/model"
	"github.com/mentorsfoundation/donation-portal/internal/services"
	"github.com/mentorsfoundation/donation-portal/pkg/logger"

	xhttp "github.com/mentorsfoundation/donation-portal/pkg/http"
)

type PaymentAdminService interface {
	List(ctx context.Context) ([]*model.PaymentWithDonor, error)
	Delete(ctx context.Context, id int64) error
	ResendConfirmation(ctx context.Context, id int64) error
}

type AccountAdminService interface {
	ListAccounts(ctx context.Context) ([]model.AccountPublic, error)
}

type AdminHandler struct {
	payments PaymentAdminService
	accounts AccountAdminService
}

func RegisterAdminRoutes(r *xhttp.Router, h *AdminHandler, auth *AuthMiddleware) {
	r.GET("/admin/payments", auth.RequireAdmin(h.ListPayments))
	r.GET("/admin/users", auth.RequireAdmin(h.ListUsers))
	r.DELETE("/admin/payments/{id}", auth.RequireAdmin(h.DeletePayment))
	r.POST("/admin/send-confirmation/{id}", auth.RequireAdmin(h.SendConfirmation))
}

func NewAdminHandler(paymentService PaymentAdminService, accountService AccountAdminService) *AdminHandler {
	return &AdminHandler{
		payments: paymentService,
		accounts: accountService,
	}
}

func (h *AdminHandler) ListPayments(ctx *xhttp.RequestCtx) {
	rows, err := h.payments.List(ctx)
	if err != nil {
		logger.Error("failed to list payments", "error", err)
		writeMessage(ctx, 500, "Server error")
		return
	}
	if rows == nil {
		rows = []*model.PaymentWithDonor{}
	}
	writeJSON(ctx, 200, rows)
}

func (h *AdminHandler) ListUsers(ctx *xhttp.RequestCtx) {
	accounts, err := h.accounts.ListAccounts(ctx)
	if err != nil {
		logger.Error("failed to list users", "error", err)
		writeMessage(ctx, 500, "Server error")
		return
	}
	if accounts == nil {
		accounts = []model.AccountPublic{}
	}
	writeJSON(ctx, 200, accounts)
}

func (h *AdminHandler) DeletePayment(ctx *xhttp.RequestCtx) {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		writeMessage(ctx, 404, "Payment not found")
		return
	}

	if err := h.payments.Delete(ctx, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeMessage(ctx, 404, "Payment not found")
			return
		}
		logger.Error("failed to delete payment", "payment_id", id, "error", err)
		writeMessage(ctx, 500, "Server error")
		return
	}

	writeMessage(ctx, 200, "Payment deleted successfully")
}

func (h *AdminHandler) SendConfirmation(ctx *xhttp.RequestCtx) {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		writeMessage(ctx, 404, "Payment not found")
		return
	}

	if err := h.payments.ResendConfirmation(ctx, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeMessage(ctx, 404, "Payment not found")
			return
		}
		logger.Error("failed to resend confirmation", "payment_id", id, "error", err)
		writeMessage(ctx, 500, "Server error")
		return
	}

	writeMessage(ctx, 200, "Confirmation email sent successfully")
}

package handlers

import (
	"context"
	"errors"

	"github.com/mentorsfoundation/donation-portal/internal/model"
	"github.com/mentorsfoundation/donation-portal/internal/services"
	"github.com/mentorsfoundation/donation-portal/pkg/logger"

	xhttp "github.com/mentorsfoundation/donation-portal/pkg/http"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (string, *model.Account, error)
	Login(ctx context.Context, email, password string) (string, *model.Account, error)
}

type AuthHandler struct {
	svc AuthService
}

// RegisterAuthRoutes mounts the credential endpoints. The limiter applies
// only here: these are the two unauthenticated endpoints worth brute-forcing.
func RegisterAuthRoutes(r *xhttp.Router, h *AuthHandler, limiter *RateLimiter) {
	r.POST("/auth/register", limiter.Wrap(h.Register))
	r.POST("/auth/login", limiter.Wrap(h.Login))
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{
		svc: authService,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	// Role is accepted for wire compatibility and deliberately ignored:
	// self-registration never grants admin.
	Role string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string              `json:"token"`
	User  model.AccountPublic `json:"user"`
}

func (h *AuthHandler) Register(ctx *xhttp.RequestCtx) {
	var req registerRequest
	if err := readJSON(ctx, &req); err != nil {
		writeMessage(ctx, 400, "Invalid JSON")
		return
	}

	tok, acct, err := h.svc.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			writeMessage(ctx, 400, "Email and password required")
		case errors.Is(err, services.ErrDuplicateEmail):
			writeMessage(ctx, 400, "Email already registered")
		default:
			logger.Error("failed to register account", "error", err)
			writeMessage(ctx, 500, "Server error")
		}
		return
	}

	writeJSON(ctx, 200, authResponse{Token: tok, User: acct.Public()})
}

func (h *AuthHandler) Login(ctx *xhttp.RequestCtx) {
	var req loginRequest
	if err := readJSON(ctx, &req); err != nil {
		writeMessage(ctx, 400, "Invalid JSON")
		return
	}

	tok, acct, err := h.svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			writeMessage(ctx, 400, "Email and password required")
		case errors.Is(err, services.ErrInvalidCredentials):
			// 400 on purpose: the response must not distinguish an unknown
			// email from a wrong password
			writeMessage(ctx, 400, "Invalid credentials")
		default:
			logger.Error("failed to log in account", "error", err)
			writeMessage(ctx, 500, "Server error")
		}
		return
	}

	writeJSON(ctx, 200, authResponse{Token: tok, User: acct.Public()})
}

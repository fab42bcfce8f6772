package handlers

import (
	xhttp "github.com/mentorsfoundation/donation-portal/pkg/http"
)

type HealthHandler struct{}

func RegisterHealthRoutes(r *xhttp.Router, h *HealthHandler) {
	r.GET("/health", h.Health)
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Health(ctx *xhttp.RequestCtx) {
	writeJSON(ctx, 200, map[string]string{"status": "ok"})
}

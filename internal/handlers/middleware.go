package handlers

import (
	"strings"

	"github.com/mentorsfoundation/donation-portal/internal/model"
	"github.com/mentorsfoundation/donation-portal/internal/token"

	xhttp "github.com/mentorsfoundation/donation-portal/pkg/http"
)

const claimsKey = "auth_claims"

type TokenVerifier interface {
	Verify(raw string) (*token.Claims, error)
}

// AuthMiddleware gates handlers behind a bearer token. RequireAuth verifies
// and stashes the claims; RequireAdmin additionally checks the role claim.
type AuthMiddleware struct {
	tokens TokenVerifier
}

func NewAuthMiddleware(tokens TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) RequireAuth(next xhttp.RequestHandler) xhttp.RequestHandler {
	return func(ctx *xhttp.RequestCtx) {
		header := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
		if header == "" {
			writeMessage(ctx, 401, "Missing token")
			return
		}

		// any present header that yields no verifiable credential is invalid,
		// only a wholly absent header counts as missing
		raw := bearerToken(header)
		if raw == "" {
			writeMessage(ctx, 401, "Invalid token")
			return
		}

		claims, err := m.tokens.Verify(raw)
		if err != nil {
			writeMessage(ctx, 401, "Invalid token")
			return
		}

		ctx.SetUserValue(claimsKey, claims)
		next(ctx)
	}
}

func (m *AuthMiddleware) RequireAdmin(next xhttp.RequestHandler) xhttp.RequestHandler {
	return m.RequireAuth(func(ctx *xhttp.RequestCtx) {
		claims := ClaimsFromCtx(ctx)
		if claims == nil || claims.Role != model.RoleAdmin {
			writeMessage(ctx, 403, "Admin access required")
			return
		}
		next(ctx)
	})
}

// ClaimsFromCtx returns the verified claims stored by RequireAuth, or nil on
// an unauthenticated request.
func ClaimsFromCtx(ctx *xhttp.RequestCtx) *token.Claims {
	claims, _ := ctx.UserValue(claimsKey).(*token.Claims)
	return claims
}

// bearerToken extracts the credential from "Authorization: Bearer <token>",
// or returns empty when the header carries no usable credential.
func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

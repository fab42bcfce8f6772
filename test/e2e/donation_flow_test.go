package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/mentorsfoundation/donation-portal/internal/handlers"
	"github.com/mentorsfoundation/donation-portal/internal/mailer"
	"github.com/mentorsfoundation/donation-portal/internal/repository"
	"github.com/mentorsfoundation/donation-portal/internal/services"
	"github.com/mentorsfoundation/donation-portal/internal/token"
	"github.com/mentorsfoundation/donation-portal/pkg/store"

	xhttp "github.com/mentorsfoundation/donation-portal/pkg/http"
)

const (
	adminEmail    = "admin@mentorsfoundation.org"
	adminPassword = "adminpassword"
)

// recordingSender captures dispatched confirmations instead of calling a
// provider.
type recordingSender struct {
	mu   sync.Mutex
	sent []mailer.Confirmation
}

func (r *recordingSender) SendConfirmation(conf mailer.Confirmation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, conf)
}

func (r *recordingSender) Sent() []mailer.Confirmation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mailer.Confirmation(nil), r.sent...)
}

type TestEnvironment struct {
	DB          *store.DB
	Router      *xhttp.Router
	AccountRepo *repository.AccountRepository
	PaymentRepo *repository.PaymentRepository
	Mail        *recordingSender
}

func setupE2EEnvironment(t *testing.T) *TestEnvironment {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&repository.AccountEntity{},
		&repository.PaymentEntity{},
	)
	require.NoError(t, err)

	sdb := store.New(db, db)

	accountRepo := repository.NewAccountRepository(sdb)
	paymentRepo := repository.NewPaymentRepository(sdb)

	mail := &recordingSender{}
	tokens := token.NewManager("e2e-secret", time.Hour)

	authService := services.NewAuthService(accountRepo, tokens)
	paymentService := services.NewPaymentService(paymentRepo, mail)

	router := xhttp.CreateDefaultRouter()
	authMiddleware := handlers.NewAuthMiddleware(tokens)
	handlers.RegisterAuthRoutes(router, handlers.NewAuthHandler(authService), nil)
	handlers.RegisterPaymentRoutes(router, handlers.NewPaymentHandler(paymentService))
	handlers.RegisterAdminRoutes(router, handlers.NewAdminHandler(paymentService, authService), authMiddleware)
	handlers.RegisterHealthRoutes(router, handlers.NewHealthHandler())

	return &TestEnvironment{
		DB:          sdb,
		Router:      router,
		AccountRepo: accountRepo,
		PaymentRepo: paymentRepo,
		Mail:        mail,
	}
}

func (env *TestEnvironment) do(method, path, bearer string, body any) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&fasthttp.Request{}, nil, nil)
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		b, _ := json.Marshal(body)
		ctx.Request.SetBody(b)
	}
	if bearer != "" {
		ctx.Request.Header.Set("Authorization", "Bearer "+bearer)
	}
	env.Router.Handler(ctx)
	return ctx
}

func (env *TestEnvironment) bootstrapAdmin(t *testing.T) string {
	t.Helper()
	require.NoError(t, services.EnsureAdmin(context.Background(), env.AccountRepo, adminEmail, adminPassword))

	resp := env.do("POST", "/auth/login", "", map[string]string{
		"email":    adminEmail,
		"password": adminPassword,
	})
	require.Equal(t, 200, resp.Response.StatusCode())

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Response.Body(), &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestE2E_DonationFlow(t *testing.T) {
	env := setupE2EEnvironment(t)
	adminToken := env.bootstrapAdmin(t)

	// anonymous donor records a payment
	resp := env.do("POST", "/payments", "", map[string]any{
		"donorName":     "Alice",
		"donor_email":   "alice@x.com",
		"amount":        100,
		"currency":      "USD",
		"ghsEquivalent": 1600,
		"paymentMethod": "card",
		"reference":     "MF-1",
		"txId":          "tx-abc",
	})
	require.Equal(t, 200, resp.Response.StatusCode())

	var created struct {
		ID      int64  `json:"id"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(resp.Response.Body(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Payment recorded", created.Message)

	// a confirmation was dispatched to the donor
	sent := env.Mail.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "alice@x.com", sent[0].DonorEmail)
	assert.Equal(t, 100.0, sent[0].Amount)

	// the admin sees the payment with status completed
	resp = env.do("GET", "/admin/payments", adminToken, nil)
	require.Equal(t, 200, resp.Response.StatusCode())

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(resp.Response.Body(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "completed", rows[0]["status"])
	assert.Equal(t, "alice@x.com", rows[0]["donor_email"])
}

func TestE2E_AdminDeleteFlow(t *testing.T) {
	env := setupE2EEnvironment(t)
	adminToken := env.bootstrapAdmin(t)

	resp := env.do("POST", "/payments", "", map[string]any{
		"donor_email": "bob@x.com",
		"amount":      50,
		"currency":    "GHS",
	})
	require.Equal(t, 200, resp.Response.StatusCode())

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Response.Body(), &created))

	path := fmt.Sprintf("/admin/payments/%d", created.ID)

	resp = env.do("DELETE", path, adminToken, nil)
	require.Equal(t, 200, resp.Response.StatusCode())
	assert.Contains(t, string(resp.Response.Body()), "Payment deleted successfully")

	// deleting again reports not found
	resp = env.do("DELETE", path, adminToken, nil)
	assert.Equal(t, 404, resp.Response.StatusCode())
	assert.Contains(t, string(resp.Response.Body()), "Payment not found")

	// the list is empty again, serialized as an array
	resp = env.do("GET", "/admin/payments", adminToken, nil)
	require.Equal(t, 200, resp.Response.StatusCode())
	assert.Equal(t, "[]", string(resp.Response.Body()))
}

func TestE2E_AdminGating(t *testing.T) {
	env := setupE2EEnvironment(t)
	env.bootstrapAdmin(t)

	// a self-registered user holds a valid token but no admin role
	resp := env.do("POST", "/auth/register", "", map[string]string{
		"name":     "Alice",
		"email":    "alice@x.com",
		"password": "pw123456",
		"role":     "admin",
	})
	require.Equal(t, 200, resp.Response.StatusCode())

	var out struct {
		Token string `json:"token"`
		User  struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Response.Body(), &out))
	assert.Equal(t, "user", out.User.Role)

	resp = env.do("GET", "/admin/users", out.Token, nil)
	assert.Equal(t, 403, resp.Response.StatusCode())
	assert.Contains(t, string(resp.Response.Body()), "Admin access required")

	resp = env.do("GET", "/admin/users", "", nil)
	assert.Equal(t, 401, resp.Response.StatusCode())
	assert.Contains(t, string(resp.Response.Body()), "Missing token")

	resp = env.do("GET", "/admin/users", "garbage.token.here", nil)
	assert.Equal(t, 401, resp.Response.StatusCode())
	assert.Contains(t, string(resp.Response.Body()), "Invalid token")
}

func TestE2E_AdminListUsers(t *testing.T) {
	env := setupE2EEnvironment(t)
	adminToken := env.bootstrapAdmin(t)

	resp := env.do("POST", "/auth/register", "", map[string]string{
		"email":    "alice@x.com",
		"password": "pw123456",
	})
	require.Equal(t, 200, resp.Response.StatusCode())

	resp = env.do("GET", "/admin/users", adminToken, nil)
	require.Equal(t, 200, resp.Response.StatusCode())

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(resp.Response.Body(), &rows))
	require.Len(t, rows, 2)

	// hashes stay out of the projection
	assert.NotContains(t, string(resp.Response.Body()), "password")
}

func TestE2E_DuplicateRegistration(t *testing.T) {
	env := setupE2EEnvironment(t)

	body := map[string]string{"email": "dup@x.com", "password": "pw123456"}

	resp := env.do("POST", "/auth/register", "", body)
	require.Equal(t, 200, resp.Response.StatusCode())

	resp = env.do("POST", "/auth/register", "", body)
	assert.Equal(t, 400, resp.Response.StatusCode())
	assert.Contains(t, string(resp.Response.Body()), "Email already registered")
}

func TestE2E_ResendConfirmation(t *testing.T) {
	env := setupE2EEnvironment(t)
	adminToken := env.bootstrapAdmin(t)

	resp := env.do("POST", "/payments", "", map[string]any{
		"donor_email": "carol@x.com",
		"amount":      25,
		"currency":    "GHS",
	})
	require.Equal(t, 200, resp.Response.StatusCode())

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Response.Body(), &created))

	resp = env.do("POST", fmt.Sprintf("/admin/send-confirmation/%d", created.ID), adminToken, nil)
	require.Equal(t, 200, resp.Response.StatusCode())
	assert.Contains(t, string(resp.Response.Body()), "Confirmation email sent successfully")

	// one confirmation at record time, one resent
	sent := env.Mail.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "carol@x.com", sent[1].DonorEmail)

	resp = env.do("POST", "/admin/send-confirmation/9999", adminToken, nil)
	assert.Equal(t, 404, resp.Response.StatusCode())
}

func TestE2E_BootstrapIdempotence(t *testing.T) {
	env := setupE2EEnvironment(t)
	ctx := context.Background()

	require.NoError(t, services.EnsureAdmin(ctx, env.AccountRepo, adminEmail, adminPassword))
	require.NoError(t, services.EnsureAdmin(ctx, env.AccountRepo, adminEmail, adminPassword))

	accounts, err := env.AccountRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, adminEmail, accounts[0].Email)
	assert.Equal(t, "admin", accounts[0].Role)
}

func TestE2E_InvalidDonation(t *testing.T) {
	env := setupE2EEnvironment(t)

	resp := env.do("POST", "/payments", "", map[string]any{
		"donorName": "Nameless",
		"currency":  "GHS",
	})
	assert.Equal(t, 400, resp.Response.StatusCode())
	assert.Contains(t, string(resp.Response.Body()), "Amount, currency, and email required")

	// negative amounts are rejected the same way
	resp = env.do("POST", "/payments", "", map[string]any{
		"donor_email": "a@x.com",
		"amount":      -50,
		"currency":    "GHS",
	})
	assert.Equal(t, 400, resp.Response.StatusCode())
	assert.Contains(t, string(resp.Response.Body()), "Amount, currency, and email required")

	// nothing was stored or mailed
	rows, err := env.PaymentRepo.ListWithDonor(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, env.Mail.Sent())
}

package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DeliveryStatus represents the delivery state of an email
type DeliveryStatus string

const (
	StatusSent    DeliveryStatus = "SENT"
	StatusBounced DeliveryStatus = "BOUNCED"
)

// SendEmailRequest mirrors the provider's /emails payload. To is an array on
// the wire even for a single recipient.
type SendEmailRequest struct {
	From    string   `json:"from" binding:"required"`
	To      []string `json:"to" binding:"required"`
	Subject string   `json:"subject" binding:"required"`
	HTML    string   `json:"html"`
}

// SendEmailResponse represents the response from sending an email
type SendEmailResponse struct {
	ID          string         `json:"id"`
	Status      DeliveryStatus `json:"status"`
	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`
	ErrorCode   string         `json:"error_code,omitempty"`
	ErrorMsg    string         `json:"error_message,omitempty"`
	ProviderID  string         `json:"provider_id"`
	ProcessedAt time.Time      `json:"processed_at"`
}

// StatusCheckResponse represents a delivery lookup response
type StatusCheckResponse struct {
	ID          string         `json:"id"`
	Status      DeliveryStatus `json:"status"`
	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`
	ErrorCode   string         `json:"error_code,omitempty"`
	ErrorMsg    string         `json:"error_message,omitempty"`
	ProviderID  string         `json:"provider_id"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status       string    `json:"status"`
	ProviderID   string    `json:"provider_id"`
	Timestamp    time.Time `json:"timestamp"`
	DeliveryRate float64   `json:"delivery_rate"`
}

// MockProvider simulates a transactional email provider. Useful for local
// runs of the portal without burning real API quota.
type MockProvider struct {
	deliveryRate float64
	minDelay     time.Duration
	maxDelay     time.Duration
	providerID   string
	rng          *rand.Rand

	mu        sync.Mutex
	delivered map[string]*SendEmailResponse
}

func NewMockProvider(deliveryRate float64, minDelay, maxDelay time.Duration) *MockProvider {
	return &MockProvider{
		deliveryRate: deliveryRate,
		minDelay:     minDelay,
		maxDelay:     maxDelay,
		providerID:   "MOCK_MAIL_" + uuid.New().String()[:8],
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		delivered:    make(map[string]*SendEmailResponse),
	}
}

// simulateDelivery pretends to hand the email to an MTA
func (m *MockProvider) simulateDelivery(req *SendEmailRequest) *SendEmailResponse {
	time.Sleep(m.randomDelay())

	response := &SendEmailResponse{
		ID:          uuid.New().String(),
		ProviderID:  m.providerID,
		ProcessedAt: time.Now(),
	}

	if m.shouldSucceed() {
		now := time.Now()
		response.Status = StatusSent
		response.DeliveredAt = &now

		log.Info().
			Str("id", response.ID).
			Str("to", req.To[0]).
			Str("subject", req.Subject).
			Msg("Email delivered successfully")
	} else {
		response.Status = StatusBounced
		response.ErrorCode = m.randomErrorCode()
		response.ErrorMsg = m.errorMessage(response.ErrorCode)

		log.Warn().
			Str("id", response.ID).
			Str("to", req.To[0]).
			Str("error_code", response.ErrorCode).
			Msg("Email delivery failed")
	}

	m.mu.Lock()
	m.delivered[response.ID] = response
	m.mu.Unlock()

	return response
}

func (m *MockProvider) lookup(id string) (*SendEmailResponse, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.delivered[id]
	return r, ok
}

func (m *MockProvider) randomDelay() time.Duration {
	delta := m.maxDelay - m.minDelay
	if delta <= 0 {
		return m.minDelay
	}
	return m.minDelay + time.Duration(m.rng.Int63n(int64(delta)))
}

func (m *MockProvider) shouldSucceed() bool {
	return m.rng.Float64() < m.deliveryRate
}

func (m *MockProvider) randomErrorCode() string {
	errorCodes := []string{
		"INVALID_RECIPIENT",
		"MAILBOX_FULL",
		"TIMEOUT",
		"BLOCKED",
		"SPAM_REJECTED",
	}
	return errorCodes[m.rng.Intn(len(errorCodes))]
}

func (m *MockProvider) errorMessage(code string) string {
	messages := map[string]string{
		"INVALID_RECIPIENT": "The recipient address does not exist",
		"MAILBOX_FULL":      "The recipient mailbox is over quota",
		"TIMEOUT":           "Delivery to the recipient MX timed out",
		"BLOCKED":           "The recipient domain blocked the sender",
		"SPAM_REJECTED":     "Content rejected by the recipient spam filter",
	}

	if msg, ok := messages[code]; ok {
		return msg
	}
	return "Unknown error occurred"
}

// Handler struct holds the mock provider and routes
type Handler struct {
	provider *MockProvider
}

func NewHandler(provider *MockProvider) *Handler {
	return &Handler{provider: provider}
}

// SendEmail handles single email send requests
func (h *Handler) SendEmail(c *gin.Context) {
	var req SendEmailRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if len(req.To) == 0 || !strings.Contains(req.To[0], "@") {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Invalid recipient address",
		})
		return
	}

	log.Info().
		Str("to", req.To[0]).
		Str("from", req.From).
		Str("subject", req.Subject).
		Msg("Received email send request")

	response := h.provider.simulateDelivery(&req)

	statusCode := http.StatusOK
	if response.Status == StatusBounced {
		statusCode = http.StatusAccepted // 202: accepted but bounced
	}

	c.JSON(statusCode, response)
}

// GetStatus handles delivery status check requests
func (h *Handler) GetStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "id is required",
		})
		return
	}

	r, ok := h.provider.lookup(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Unknown email id",
		})
		return
	}

	c.JSON(http.StatusOK, StatusCheckResponse{
		ID:          r.ID,
		Status:      r.Status,
		DeliveredAt: r.DeliveredAt,
		ErrorCode:   r.ErrorCode,
		ErrorMsg:    r.ErrorMsg,
		ProviderID:  r.ProviderID,
	})
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:       "healthy",
		ProviderID:   h.provider.providerID,
		Timestamp:    time.Now(),
		DeliveryRate: h.provider.deliveryRate,
	})
}

// UpdateConfig allows changing the delivery rate at runtime
func (h *Handler) UpdateConfig(c *gin.Context) {
	var config struct {
		DeliveryRate *float64 `json:"delivery_rate"`
	}

	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if config.DeliveryRate != nil {
		if *config.DeliveryRate >= 0 && *config.DeliveryRate <= 1.0 {
			h.provider.deliveryRate = *config.DeliveryRate
			log.Info().Float64("rate", *config.DeliveryRate).Msg("Updated delivery rate")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Configuration updated",
		"delivery_rate": h.provider.deliveryRate,
	})
}

// SetupRouter configures all routes
func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Msg("Request processed")
	})

	// provider-compatible surface
	router.POST("/emails", handler.SendEmail)
	router.GET("/emails/:id", handler.GetStatus)
	router.GET("/health", handler.HealthCheck)
	router.PUT("/config", handler.UpdateConfig)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := getEnv("PORT", "8081")
	deliveryRate := getEnvFloat("DELIVERY_RATE", 1)
	minDelay := getEnvDuration("MIN_DELAY", 50*time.Millisecond)
	maxDelay := getEnvDuration("MAX_DELAY", 500*time.Millisecond)

	log.Info().
		Str("port", port).
		Float64("delivery_rate", deliveryRate).
		Dur("min_delay", minDelay).
		Dur("max_delay", maxDelay).
		Msg("Starting Mock Email Provider")

	provider := NewMockProvider(deliveryRate, minDelay, maxDelay)
	handler := NewHandler(provider)
	router := SetupRouter(handler)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var f float64
		if _, err := fmt.Sscanf(value, "%f", &f); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

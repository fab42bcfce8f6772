package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mentorsfoundation/donation-portal/internal/config"
	"github.com/mentorsfoundation/donation-portal/internal/handlers"
	"github.com/mentorsfoundation/donation-portal/internal/mailer"
	"github.com/mentorsfoundation/donation-portal/internal/repository"
	"github.com/mentorsfoundation/donation-portal/internal/services"
	"github.com/mentorsfoundation/donation-portal/internal/token"
	"github.com/mentorsfoundation/donation-portal/pkg/logger"
	"github.com/mentorsfoundation/donation-portal/pkg/prom"
	"github.com/mentorsfoundation/donation-portal/pkg/redis"
	"github.com/mentorsfoundation/donation-portal/pkg/store"

	xhttp "github.com/mentorsfoundation/donation-portal/pkg/http"
)

func main() {
	if err := config.Load(argContainsEnvPath()); err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()

	// transport
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.CORSMiddleware)
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	storeConf := store.Config{
		Driver:   cfg.DBDriver,
		Path:     cfg.DBPath,
		User:     cfg.PostgresUser,
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		Password: cfg.PostgresPassword,
		Database: cfg.PostgresDatabase,
	}

	if err := store.Migrate(storeConf); err != nil {
		logger.Error("failed running migrations", "error", err)
		return
	}

	db, err := store.Open(storeConf, cfg.AppEnv == "dev")
	if err != nil {
		logger.Error("failed connecting to store", "error", err)
		return
	}
	defer db.Close()

	if cfg.MetricsAddr != "" {
		host, _ := os.Hostname()
		if err := prom.Create(host, cfg.AppEnv, cfg.PromNamespace); err != nil {
			logger.Error("failed creating metric registry", "error", err)
		} else {
			go prom.ListenAndServer(cfg.MetricsAddr, cfg.MetricsURI)
		}
	}

	// the mailer is optional: without an API key confirmations are skipped
	var dispatcher *mailer.Dispatcher
	if cfg.EmailAPIKey != "" {
		client, err := mailer.NewClient(cfg.EmailAPIURL, cfg.EmailAPIKey, cfg.EmailFrom)
		if err != nil {
			logger.Error("failed creating mail client", "error", err)
			return
		}
		dispatcher = mailer.NewDispatcher(client, cfg.MailWorkers, cfg.MailQueueSize)
		dispatcher.Start()
		defer dispatcher.Stop()
	} else {
		logger.Warn("EMAIL_API_KEY not set, confirmation emails disabled")
	}

	// the rate limiter is optional too: no redis, no throttling
	var limiter *handlers.RateLimiter
	if cfg.RedisAddr != "" {
		redisAdap, err := redis.NewAdapter(cfg.RedisKeyPrefix, &redis.Options{
			Addrs:    []string{cfg.RedisAddr},
			DB:       cfg.RedisDatabase,
			Username: cfg.RedisUsername,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			logger.Error("failed connecting to redis", "error", err)
			return
		}
		defer redisAdap.Close()
		limiter = handlers.NewRateLimiter(redisAdap, cfg.AuthRateLimit)
	}

	accountRepo := repository.NewAccountRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	tokens := token.NewManager(cfg.JWTSecret, token.DefaultTTL)

	// services
	authService := services.NewAuthService(accountRepo, tokens)
	paymentService := services.NewPaymentService(paymentRepo, dispatcher)

	// handlers
	authHandler := handlers.NewAuthHandler(authService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	adminHandler := handlers.NewAdminHandler(paymentService, authService)
	authMiddleware := handlers.NewAuthMiddleware(tokens)

	handlers.RegisterAuthRoutes(s.Router, authHandler, limiter)
	handlers.RegisterPaymentRoutes(s.Router, paymentHandler)
	handlers.RegisterAdminRoutes(s.Router, adminHandler, authMiddleware)
	handlers.RegisterHealthRoutes(s.Router, handlers.NewHealthHandler())

	// the admin account is guaranteed after storage settles
	go func() {
		time.Sleep(services.BootstrapDelay)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := services.EnsureAdmin(ctx, accountRepo, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Error("admin bootstrap failed", "error", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(cfg.HTTPListenAddr); err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	<-c
	s.Shutdown()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}

package config

import (
	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/mentorsfoundation/donation-portal/pkg/logger"
)

var config *Config

// Config holds every environment option the portal reads. Only this struct
// may be used to access configuration; no direct env lookups elsewhere.
type Config struct {
	AppEnv   string `env:"APP_ENV" default:"dev"`
	AppName  string `env:"APP_NAME" default:"donation_portal"`
	AppDebug bool   `env:"APP_DEBUG" default:"0"`

	HTTPListenAddr string `env:"HTTP_LISTEN_ADDR" default:":5000"`

	// sqlite is the default single-file store; set DB_DRIVER=postgres to use
	// the POSTGRES_* pair instead.
	DBDriver string `env:"DB_DRIVER" default:"sqlite"`
	DBPath   string `env:"DB_PATH" default:"data/donations.db"`

	PostgresHost     string `env:"POSTGRES_HOST"`
	PostgresPort     string `env:"POSTGRES_PORT" default:"5432"`
	PostgresUser     string `env:"POSTGRES_USER"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDatabase string `env:"POSTGRES_DBNAME"`

	JWTSecret string `env:"JWT_SECRET" default:"secret123"`

	AdminEmail    string `env:"ADMIN_EMAIL" default:"admin@mentorsfoundation.org"`
	AdminPassword string `env:"ADMIN_PASSWORD" default:"adminpassword"`

	// EmailAPIKey left blank disables outbound mail entirely.
	EmailAPIURL   string `env:"EMAIL_API_URL" default:"https://api.resend.com"`
	EmailAPIKey   string `env:"EMAIL_API_KEY"`
	EmailFrom     string `env:"EMAIL_FROM" default:"Mentors Foundation <noreply@mentorsfoundation.org>"`
	MailWorkers   int    `env:"MAIL_WORKERS" default:"2"`
	MailQueueSize int    `env:"MAIL_QUEUE_SIZE" default:"64"`

	// RedisAddr left blank disables the auth rate limiter.
	RedisAddr      string `env:"REDIS_ADDR"`
	RedisUsername  string `env:"REDIS_USER"`
	RedisPassword  string `env:"REDIS_PASS"`
	RedisDatabase  int    `env:"REDIS_DATABASE"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" default:"donation_portal"`
	AuthRateLimit  int    `env:"AUTH_RATE_LIMIT" default:"30"`

	MetricsAddr   string `env:"METRICS_ADDR"`
	MetricsURI    string `env:"METRICS_URI" default:"/metrics"`
	PromNamespace string `env:"PROM_NAMESPACE" default:"donation_portal"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return errors.New("failed to load configuration file " + path + " error: " + err.Error())
		}
	}

	if _, err := env.UnmarshalFromEnviron(c); err != nil {
		return errors.New("failed to map env variables to Configuration object error: " + err.Error())
	}

	config = c
	return nil
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}

package main

import (
	"os"
	"strings"

	"github.com/mentorsfoundation/donation-portal/internal/config"
	"github.com/mentorsfoundation/donation-portal/pkg/logger"
	"github.com/mentorsfoundation/donation-portal/pkg/store"
)

// Runs the embedded migrations against the configured store and exits.
// Usage: cli --env=.env
func main() {
	if err := config.Load(getEnvPath()); err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()

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
		logger.Error("migration: error running migrations", "error", err)
		return
	}
	logger.Info("migrations applied", "driver", cfg.DBDriver)
}

func getEnvPath() string {
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
	if _, err := os.Open(".env"); err != nil {
		return ""
	}
	return ".env"
}

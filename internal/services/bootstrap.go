package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mentorsfoundation/donation-portal/internal/model"
	"github.com/mentorsfoundation/donation-portal/internal/repository"
	"github.com/mentorsfoundation/donation-portal/pkg/logger"
)

// BootstrapDelay gives storage initialization a head start before the admin
// lookup runs. Sequencing, not timing: the routine is safe to run at any
// point after the store is ready.
const BootstrapDelay = 500 * time.Millisecond

// EnsureAdmin guarantees the configured admin account exists. Idempotent: an
// existing account is left untouched, and a DuplicateEmail from a concurrent
// bootstrap (two processes racing the same store) is swallowed since the
// winner already created the account.
func EnsureAdmin(ctx context.Context, accounts AccountRepository, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return errors.New("admin bootstrap missing email or password")
	}

	if _, err := accounts.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrAccountNotFound) {
		return fmt.Errorf("bootstrap lookup admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bootstrap hash password: %w", err)
	}

	_, err = accounts.Create(ctx, &model.Account{
		Name:         "Admin",
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			logger.Info("admin account already created by a concurrent bootstrap", "email", email)
			return nil
		}
		return fmt.Errorf("bootstrap create admin: %w", err)
	}

	logger.Info("created default admin user", "email", email)
	return nil
}

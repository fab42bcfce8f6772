package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mentorsfoundation/donation-portal/pkg/store"
)

func setupTestDB(t *testing.T) *store.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&AccountEntity{}, &PaymentEntity{})
	require.NoError(t, err)

	return store.New(db, db)
}

package store

import (
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

func newSQLConnection(cfg Config) (*sql.DB, string, error) {
	switch cfg.Driver {
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.Host, cfg.User, cfg.Password, cfg.Database, cfg.Port)
		db, err := sql.Open("postgres", dsn)
		return db, "postgres", err
	case DriverSQLite, "":
		db, err := sql.Open("sqlite3", cfg.Path+"?_foreign_keys=on&_busy_timeout=5000")
		return db, "sqlite3", err
	default:
		return nil, "", fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// Migrate brings the schema up to date using the embedded per-dialect goose
// migrations. It opens its own plain database/sql connection so it can run
// before any gorm handle exists.
func Migrate(cfg Config) error {
	db, dialect, err := newSQLConnection(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	goose.SetBaseFS(migrationsFS)

	dir := "migrations/sqlite"
	if dialect == "postgres" {
		dir = "migrations/postgres"
	}
	return goose.Up(db, dir)
}

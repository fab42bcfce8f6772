package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type txContextKey string

const txKey txContextKey = "trx"

// Config selects the storage engine. The default deployment is a single
// sqlite file; a postgres pair can be configured instead for setups that
// already run one.
type Config struct {
	Driver   string
	Path     string // sqlite file location
	User     string
	Host     string
	Port     string
	Password string
	Database string
}

// DB is the handle every repository receives. Read and write sides point at
// the same sqlite connection; under postgres they may be split.
type DB struct {
	read  *gorm.DB
	write *gorm.DB
}

// New wraps existing gorm handles, mainly for tests running on in-memory
// sqlite.
func New(read, write *gorm.DB) *DB {
	return &DB{read: read, write: write}
}

func openGorm(cfg Config, withDebug bool) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.Host, cfg.User, cfg.Password, cfg.Database, cfg.Port)
		db, err = gorm.Open(postgres.Open(dsn), gormCfg)
	case DriverSQLite, "":
		if dir := filepath.Dir(cfg.Path); dir != "." && cfg.Path != ":memory:" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		db, err = gorm.Open(sqlite.Open(cfg.Path+"?_foreign_keys=on&_busy_timeout=5000"), gormCfg)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if withDebug {
		db = db.Debug()
	}
	return db, nil
}

// Open connects a single handle serving both reads and writes.
func Open(cfg Config, withDebug bool) (*DB, error) {
	db, err := openGorm(cfg, withDebug)
	if err != nil {
		return nil, err
	}
	return &DB{read: db, write: db}, nil
}

// OpenReadWrite connects separate read and write handles (postgres replica
// setups).
func OpenReadWrite(readCfg, writeCfg Config, withDebug bool) (*DB, error) {
	read, err := openGorm(readCfg, withDebug)
	if err != nil {
		return nil, err
	}
	write, err := openGorm(writeCfg, withDebug)
	if err != nil {
		return nil, err
	}
	return &DB{read: read, write: write}, nil
}

// WithinTransaction runs fn inside a write transaction; nested repository
// calls pick the transaction up from the context.
func (r *DB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.write.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ctx = context.WithValue(ctx, txKey, tx)
		return fn(ctx)
	})
}

func (r *DB) Write(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx
	}
	return r.write.WithContext(ctx)
}

func (r *DB) Read(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx
	}
	return r.read.WithContext(ctx)
}

func (r *DB) Close() error {
	for _, g := range []*gorm.DB{r.write, r.read} {
		sqlDB, err := g.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Close(); err != nil {
			return err
		}
		if r.read == r.write {
			break
		}
	}
	return nil
}

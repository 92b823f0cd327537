package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/partnerpro/product-manager/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database owns the GORM handle shared by the repositories
type Database struct {
	DB *gorm.DB
}

// NewDatabase connects to PostgreSQL. A nil gormLogger silences GORM.
func NewDatabase(cfg *config.DatabaseConfig, gormLogger logger.Interface) (*Database, error) {
	return Open(postgres.Open(cfg.DSN()), cfg, gormLogger)
}

// Open connects through dialector, sizes the pool from cfg and pings once.
// Unique violations come back as gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector, cfg *config.DatabaseConfig, gormLogger logger.Interface) (*Database, error) {
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		DisableAutomaticPing:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	d := &Database{DB: db}
	pool, err := d.SQL()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		pool.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	pool.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := pool.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return d, nil
}

// SQL exposes the pool for migrations and tracing callbacks
func (d *Database) SQL() (*sql.DB, error) {
	pool, err := d.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB from gorm: %w", err)
	}
	return pool, nil
}

// PingContext backs the health endpoint
func (d *Database) PingContext(ctx context.Context) error {
	pool, err := d.SQL()
	if err != nil {
		return err
	}
	return pool.PingContext(ctx)
}

func (d *Database) Close() error {
	pool, err := d.SQL()
	if err != nil {
		return err
	}
	return pool.Close()
}

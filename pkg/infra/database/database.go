package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	connectTimeout = 30 * time.Second
	migrateTimeout = 30 * time.Second
)

// Config holds postgres connection settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (c *Config) dsn() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// DB wraps the gorm handle used by the repositories.
type DB struct {
	logger *logrus.Logger
	*gorm.DB
}

// NewDB opens the connection, tunes the pool, verifies connectivity
// and brings the schema up to date.
func NewDB(logger *logrus.Logger, cfg *Config) (*DB, error) {
	logger.WithFields(logrus.Fields{
		"host":    cfg.Host,
		"port":    cfg.Port,
		"db":      cfg.DBName,
		"sslmode": cfg.SSLMode,
	}).Info("connecting to database")

	gormDB, err := gorm.Open(postgres.Open(cfg.dsn()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := tunePool(gormDB); err != nil {
		return nil, err
	}
	if err := ping(gormDB); err != nil {
		return nil, err
	}

	db := &DB{logger: logger, DB: gormDB}
	if err := db.migrate(); err != nil {
		return nil, err
	}
	return db, nil
}

func tunePool(gormDB *gorm.DB) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("get sql handle: %w", err)
	}
	// Reads are short and bursty; the checks endpoints dominate.
	sqlDB.SetMaxOpenConns(300)
	sqlDB.SetMaxIdleConns(150)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	return nil
}

func ping(gormDB *gorm.DB) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("get sql handle: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}

func (db *DB) migrate() error {
	db.logger.WithField("timeout", migrateTimeout.String()).Info("applying database migrations")

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- NewMigrationsManager(db.DB).ApplyPending()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		db.logger.Info("database schema is up to date")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("migrations timed out: %w", ctx.Err())
	}
}

// Close closes the underlying sql connection.
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package db

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"

	"github.com/angelmondragon/stockkeeper/pkg/config"
	"github.com/angelmondragon/stockkeeper/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Client wraps the shared GORM connection.
type Client struct {
	conn    *gorm.DB
	dialect string
}

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New boots a GORM client for the configured driver.
func New(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*Client, error) {
	dialector, dialect, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, gormConfig())
	if err != nil {
		return nil, fmt.Errorf("opening db connection: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}

	applyPoolSettings(sqlDB, cfg, dialect)

	if logg != nil {
		ctx = logg.WithField(ctx, "dialect", dialect)
		logg.Info(ctx, "database connection established")
	}

	return &Client{conn: conn, dialect: dialect}, nil
}

// NewFromGorm adopts an existing connection, mostly for tests.
func NewFromGorm(conn *gorm.DB) *Client {
	dialect := DialectSQLite
	if conn != nil && conn.Dialector != nil && conn.Dialector.Name() == "postgres" {
		dialect = DialectPostgres
	}
	return &Client{conn: conn, dialect: dialect}
}

// OpenSQLite opens a sqlite file with the pragmas the app relies on.
func OpenSQLite(path string) (*gorm.DB, error) {
	conn, err := gorm.Open(sqlite.Open(sqliteDSN(path)), gormConfig())
	if err != nil {
		return nil, err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	applyPoolSettings(sqlDB, config.DBConfig{}, DialectSQLite)
	return conn, nil
}

func dialectorFor(cfg config.DBConfig) (gorm.Dialector, string, error) {
	switch {
	case cfg.IsSQLite():
		if cfg.Path == "" {
			return nil, "", fmt.Errorf("sqlite path is required")
		}
		return sqlite.Open(sqliteDSN(cfg.Path)), DialectSQLite, nil
	case cfg.DSN != "":
		return postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		}), DialectPostgres, nil
	default:
		return nil, "", fmt.Errorf("database DSN is required")
	}
}

func sqliteDSN(path string) string {
	return path + "?_foreign_keys=on&_busy_timeout=5000"
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.New(
			log.New(io.Discard, "", log.LstdFlags),
			gormlogger.Config{LogLevel: gormlogger.Silent},
		),
		SkipDefaultTransaction: true,
	}
}

func applyPoolSettings(sqlDB *sql.DB, cfg config.DBConfig, dialect string) {
	// sqlite allows a single writer; one connection keeps writes queued in-process.
	if dialect == DialectSQLite {
		sqlDB.SetMaxOpenConns(1)
		return
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

// DB returns the underlying GORM connection.
func (c *Client) DB() *gorm.DB {
	return c.conn
}

// SQL returns the database/sql handle behind the GORM connection.
func (c *Client) SQL() (*sql.DB, error) {
	return c.conn.DB()
}

// Dialect names the backing engine (sqlite or postgres).
func (c *Client) Dialect() string {
	return c.dialect
}

// Ping verifies the datasource is reachable.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the pooled connections.
func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx executes fn inside a transaction, rolling back on error/panic.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := c.conn.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"shareaudit/logging"
)

// Config holds database configuration
type Config struct {
	Path            string        `env:"DB_PATH" default:"./shareaudit.db"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" default:"1h"`
	BusyTimeoutMs   int           `env:"DB_BUSY_TIMEOUT_MS" default:"5000"`
	EnableWAL       bool          `env:"DB_ENABLE_WAL" default:"true"`
}

// DefaultConfig returns the default database configuration.
func DefaultConfig() Config {
	return Config{
		Path:            "./shareaudit.db",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
		BusyTimeoutMs:   5000,
		EnableWAL:       true,
	}
}

// Database wraps the SQL connection pool and provides managed access.
type Database struct {
	db     *sql.DB
	config Config
	logger *logging.Logger
}

// New opens the database, applies pragmas, and runs pending migrations.
func New(config Config, logger *logging.Logger) (*Database, error) {
	dsn := buildDSN(config)
	dbExists := checkDatabaseExists(config.Path)

	logger.Store("opening database",
		"path", config.Path,
		"exists", dbExists,
		"max_open_conns", config.MaxOpenConns)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	database := &Database{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := database.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	return database, nil
}

// DB exposes the underlying pool for stores.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Close closes the connection pool.
func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if err := d.runMigrations(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func buildDSN(config Config) string {
	params := url.Values{}
	params.Set("_pragma", fmt.Sprintf("busy_timeout(%d)", config.BusyTimeoutMs))
	params.Add("_pragma", "foreign_keys(1)")
	if config.EnableWAL {
		params.Add("_pragma", "journal_mode(WAL)")
	}
	return fmt.Sprintf("file:%s?%s", config.Path, params.Encode())
}

func checkDatabaseExists(path string) bool {
	if path == ":memory:" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

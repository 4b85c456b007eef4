package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"task-service/config"
	"task-service/database/migrations"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/umakantv/go-utils/db"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// gooseUpContext is a seam for testing goose.UpContext
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// sqliteParams are appended to every sqlite DSN. Transactions take the write
// lock at BEGIN and contending connections wait instead of failing with SQLITE_BUSY.
const sqliteParams = "_busy_timeout=5000&_txlock=immediate&_journal_mode=WAL"

// SQLiteDSN appends the connection parameters the pool relies on to path
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + sqliteParams
	}
	return path + "?" + sqliteParams
}

// Open returns the pooled connection for driver and dsn, configured the way
// the server runs it
func Open(driver, dsn string) *sqlx.DB {
	if driver == "sqlite3" {
		dsn = SQLiteDSN(dsn)
	}
	return db.GetDBConnection(db.DatabaseConfig{
		DRIVER: driver,
		DB:     dsn,
	})
}

// InitializeDatabase opens the process-wide connection pool and brings the schema up to date.
// The service cannot run without its store, so failures terminate the process.
func InitializeDatabase(cfg *config.Config) *sqlx.DB {
	dbConn := Open(cfg.DatabaseDriver, cfg.DatabaseURL)

	if err := Migrate(context.Background(), dbConn.DB, cfg.DatabaseDriver); err != nil {
		logger.Error("Error while running migration", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Database initialized successfully", zap.String("driver", cfg.DatabaseDriver))
	return dbConn
}

// Migrate applies the embedded migrations against db
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// CreateMigration writes a new timestamped SQL migration into dir
func CreateMigration(name, dir string) error {
	if name == "" {
		return fmt.Errorf("migration name is required")
	}
	// keep the 00001_ style numbering of the embedded files
	goose.SetSequential(true)
	return goose.Create(nil, dir, name, "sql")
}

package database

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/umakantv/go-utils/db"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// InitializeDatabase opens the SQLite database at path and applies the
// embedded migrations
func InitializeDatabase(path string) *sqlx.DB {
	config := db.DatabaseConfig{
		DRIVER: "sqlite3",
		DB:     DSN(path),
	}

	dbConn := db.GetDBConnection(config)

	if err := Migrate(dbConn); err != nil {
		logger.Error("Error while running migration", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Database initialized successfully", zap.String("path", path))
	return dbConn
}

// DSN enables foreign keys on every connection opened for path
func DSN(path string) string {
	if strings.Contains(path, "_foreign_keys=") {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

// Migrate applies all pending migrations from the embedded FS
func Migrate(dbConn *sqlx.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(dbConn.DB, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	return nil
}

// CreateMigration writes a new, empty SQL migration into dir
func CreateMigration(name, dir string) error {
	goose.SetBaseFS(nil)
	goose.SetSequential(true)
	if err := goose.Create(nil, dir, name, "sql"); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}
	return nil
}

// Open connects to path with sqlx directly and migrates it. In-memory
// databases are pinned to one connection so every query sees the same schema.
func Open(path string) (*sqlx.DB, error) {
	dbConn, err := sqlx.Open("sqlite3", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if strings.HasPrefix(path, ":memory:") {
		dbConn.SetMaxOpenConns(1)
	}
	if err := dbConn.Ping(); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := Migrate(dbConn); err != nil {
		dbConn.Close()
		return nil, err
	}
	return dbConn, nil
}

package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/themizzi/storefront-e2e/internal/config"
)

var DB *sql.DB

// Connect opens the PostgreSQL pool described by cfg and stores it in DB.
func Connect(cfg *config.PostgresConfig) error {
	db, err := Open(cfg.ConnectionString())
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open opens and pings a pool for connStr.
func Open(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

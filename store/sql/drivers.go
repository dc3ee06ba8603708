package sqlstore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

type connectionConfig struct {
	debug  bool
	driver string
	server string
}

func (c connectionConfig) GetDebug() bool {
	return c.debug
}

func (c connectionConfig) GetDriver() string {
	return c.driver
}

func (c connectionConfig) GetServer() string {
	return c.server
}

func (c connectionConfig) GetPingTimeout() time.Duration {
	return 5 * time.Second
}

func (c connectionConfig) GetOtelIdentifier() string {
	return "go-apps"
}

// OpenPostgres opens a postgres-backed persistence client for the given DSN.
func OpenPostgres(dsn string, debug bool) (*persistence.Client, error) {
	trimmed := strings.TrimSpace(dsn)
	if trimmed == "" {
		return nil, fmt.Errorf("sqlstore: postgres dsn is required")
	}
	sqlDB, err := sql.Open("postgres", trimmed)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open postgres db: %w", err)
	}
	cfg := connectionConfig{debug: debug, driver: "postgres", server: trimmed}
	client, err := persistence.New(cfg, sqlDB, pgdialect.New())
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return client, nil
}

// OpenSQLite opens a sqlite-backed persistence client for the given DSN.
// Connections are capped at one so shared in-memory databases behave.
func OpenSQLite(dsn string, debug bool) (*persistence.Client, error) {
	trimmed := strings.TrimSpace(dsn)
	if trimmed == "" {
		return nil, fmt.Errorf("sqlstore: sqlite dsn is required")
	}
	sqlDB, err := sql.Open("sqlite3", trimmed)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	cfg := connectionConfig{debug: debug, driver: "sqlite3", server: trimmed}
	client, err := persistence.New(cfg, sqlDB, sqlitedialect.New())
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return client, nil
}

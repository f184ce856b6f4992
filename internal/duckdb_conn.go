package internal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/lychee-technology/queryc"
	"go.uber.org/zap"
)

// DuckDBClient wraps a database/sql DB opened with the DuckDB driver. It
// backs both the default QueryEngine and the DuckDB accelerator engine,
// since both ultimately need to run SQL against the same kind of
// connection.
type DuckDBClient struct {
	DB  *sql.DB
	cfg queryc.DatabaseConfig
}

// NewDuckDBClient opens and configures a DuckDB connection according to
// cfg, installing any requested extensions and, when S3 access is
// enabled, wiring the httpfs extension's PRAGMA credentials.
func NewDuckDBClient(cfg queryc.DatabaseConfig) (*DuckDBClient, error) {
	dsn := cfg.DuckDBPath
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	db.SetMaxOpenConns(1) // DuckDB favors a single writer connection
	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}

	for _, ext := range cfg.Extensions {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("INSTALL %s;", ext)); err != nil {
			zap.S().Warnw("duckdb: install extension failed", "extension", ext, "err", err)
			continue
		}
		if _, err := db.ExecContext(ctx, fmt.Sprintf("LOAD %s;", ext)); err != nil {
			zap.S().Warnw("duckdb: load extension failed", "extension", ext, "err", err)
		}
	}

	if cfg.EnableS3 {
		if _, err := db.ExecContext(ctx, "INSTALL httpfs;"); err == nil {
			if _, err := db.ExecContext(ctx, "LOAD httpfs;"); err != nil {
				zap.S().Warnw("duckdb: load httpfs failed", "err", err)
			}
		} else {
			zap.S().Warnw("duckdb: install httpfs failed", "err", err)
		}

		if cfg.S3AccessKey != "" {
			if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA s3_access_key='%s';", cfg.S3AccessKey)); err != nil {
				zap.S().Warnw("duckdb: set s3_access_key failed", "err", err)
			}
		}
		if cfg.S3SecretKey != "" {
			if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA s3_secret_key='%s';", cfg.S3SecretKey)); err != nil {
				zap.S().Warnw("duckdb: set s3_secret_key failed", "err", err)
			}
		}
		if cfg.S3Endpoint != "" {
			if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA s3_endpoint='%s';", cfg.S3Endpoint)); err != nil {
				zap.S().Warnw("duckdb: set s3_endpoint failed", "err", err)
			}
		}
	}

	return &DuckDBClient{DB: db, cfg: cfg}, nil
}

// Close closes the underlying DuckDB DB.
func (c *DuckDBClient) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	return c.DB.Close()
}

// HealthCheck performs a simple query to validate the DuckDB connection.
func (c *DuckDBClient) HealthCheck(ctx context.Context) error {
	if c == nil || c.DB == nil {
		return fmt.Errorf("duckdb client not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	row := c.DB.QueryRowContext(ctx, "SELECT 1;")
	var v int
	if err := row.Scan(&v); err != nil {
		return fmt.Errorf("duckdb health query failed: %w", err)
	}
	if v != 1 {
		return fmt.Errorf("unexpected duckdb health result: %d", v)
	}
	return nil
}

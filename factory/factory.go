// Package factory wires the compiler, the query engine, the accelerator
// registry and the endpoint store into a single App, the way the
// teacher's factory package assembles an EntityManager from a Config and
// a connection pool.
package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/lychee-technology/queryc"
	"github.com/lychee-technology/queryc/internal"
	"go.uber.org/zap"
)

// App bundles the components a request handler needs to answer
// GET /{endpoint} requests.
type App struct {
	Endpoints *queryc.EndpointStore
	Compiler  *internal.Compiler
	Engine    queryc.QueryEngine
	Registry  *internal.AcceleratorRegistry
	Secrets   queryc.SecretStore
	DuckDB    *internal.DuckDBClient

	postgresDSN string
}

// NewApp opens the default DuckDB connection, registers every known
// accelerator engine against it, and assembles an App around the given
// endpoint definitions.
//
// Usage:
//
//	cfg := queryc.DefaultConfig()
//	app, err := factory.NewApp(context.Background(), cfg, endpoints, secrets)
//	if err != nil {
//	    // handle error
//	}
func NewApp(ctx context.Context, cfg *queryc.Config, endpoints []queryc.Endpoint, secrets queryc.SecretStore) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := internal.ValidateS3Config(cfg.Database); err != nil {
		return nil, fmt.Errorf("invalid s3 configuration: %w", err)
	}

	duckdbClient, err := internal.NewDuckDBClient(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	registry, err := NewRegistry(ctx, cfg, duckdbClient)
	if err != nil {
		duckdbClient.Close()
		return nil, fmt.Errorf("build accelerator registry: %w", err)
	}

	return &App{
		Endpoints:   queryc.NewEndpointStore(endpoints),
		Compiler:    internal.NewCompiler(cfg.Compat),
		Engine:      internal.NewDuckDBQueryEngine(duckdbClient),
		Registry:    registry,
		Secrets:     secrets,
		DuckDB:      duckdbClient,
		postgresDSN: cfg.Accelerator.PostgresDSN,
	}, nil
}

// HealthCheck verifies the query engine connection and, when a Postgres
// accelerator is configured, that its DSN is still reachable.
func (a *App) HealthCheck(ctx context.Context) error {
	if err := a.DuckDB.HealthCheck(ctx); err != nil {
		return fmt.Errorf("duckdb: %w", err)
	}
	if a.postgresDSN != "" {
		if err := internal.PostgresHealthCheck(ctx, a.postgresDSN, 5*time.Second); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	return nil
}

// NewRegistry registers every accelerator engine queryc ships against the
// given configuration. DuckDB, Arrow and Sqlite are always registered
// (Sqlite opens an in-memory database when no file is configured);
// Postgres registers only when the configuration supplies a DSN.
func NewRegistry(ctx context.Context, cfg *queryc.Config, duckdbClient *internal.DuckDBClient) (*internal.AcceleratorRegistry, error) {
	registry := internal.NewAcceleratorRegistry()

	registry.Register(queryc.EngineArrow, internal.NewArrowAccelerator())
	registry.Register(queryc.EngineDuckDB, internal.NewDuckDBAccelerator(duckdbClient))

	if cfg.Accelerator.PostgresDSN != "" {
		if err := internal.ValidatePostgresConfig(cfg.Accelerator.PostgresDSN); err != nil {
			return nil, fmt.Errorf("postgres accelerator: %w", err)
		}

		var pgAccelerator *internal.PostgresAccelerator
		var err error
		if cfg.Accelerator.PostgresUseIAM {
			pgAccelerator, err = internal.NewPostgresAcceleratorWithIAM(
				ctx, cfg.Accelerator.PostgresDSN, cfg.Accelerator.PostgresIAMRegion, cfg.Accelerator.PostgresIAMUser)
		} else {
			pgAccelerator, err = internal.NewPostgresAccelerator(ctx, cfg.Accelerator.PostgresDSN)
		}
		if err != nil {
			return nil, fmt.Errorf("postgres accelerator: %w", err)
		}
		registry.Register(queryc.EnginePostgres, pgAccelerator)
	} else {
		zap.S().Info("accelerator.postgresDsn not set, skipping postgres accelerator registration")
	}

	sqliteAccelerator, err := internal.NewSqliteAccelerator(cfg.Accelerator.SqliteFileDir)
	if err != nil {
		return nil, fmt.Errorf("sqlite accelerator: %w", err)
	}
	registry.Register(queryc.EngineSqlite, sqliteAccelerator)

	return registry, nil
}

// Close releases the resources App opened.
func (a *App) Close() error {
	var firstErr error
	if a.Registry != nil {
		if err := a.Registry.Close(); err != nil {
			firstErr = err
		}
	}
	if a.DuckDB != nil {
		if err := a.DuckDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

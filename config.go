package queryc

import (
	"time"
)

// Config consolidates the settings for the endpoint compiler, the query
// engine connection, the accelerator registry, and the HTTP server.
type Config struct {
	Server      ServerConfig      `json:"server"`
	Database    DatabaseConfig    `json:"database"`
	Query       QueryConfig       `json:"query"`
	Accelerator AcceleratorConfig `json:"accelerator"`
	Logging     LoggingConfig     `json:"logging"`
	Metrics     MetricsConfig     `json:"metrics"`
	Compat      CompatConfig      `json:"compat"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Port           string        `json:"port"`
	ReadTimeout    time.Duration `json:"readTimeout"`
	WriteTimeout   time.Duration `json:"writeTimeout"`
	EndpointsFile  string        `json:"endpointsFile"`
	AccelFile      string        `json:"accelFile"`
	ShutdownWindow time.Duration `json:"shutdownWindow"`
}

// DatabaseConfig contains the query engine's backing DuckDB connection
// settings. Every compiled query runs against this connection; datasets
// materialized by the DuckDB accelerator live in it, while the Postgres,
// Sqlite and Arrow accelerators keep their tables outside it.
type DatabaseConfig struct {
	DuckDBPath     string        `json:"duckdbPath"` // ":memory:" for an in-process engine
	MaxConnections int           `json:"maxConnections"`
	Timeout        time.Duration `json:"timeout"`
	EnableS3       bool          `json:"enableS3"`
	S3Endpoint     string        `json:"s3Endpoint"`
	S3AccessKey    string        `json:"s3AccessKey"`
	S3SecretKey    string        `json:"s3SecretKey"`
	Extensions     []string      `json:"extensions"`
}

// QueryConfig contains request-level query execution bounds.
type QueryConfig struct {
	DefaultTimeout  time.Duration `json:"defaultTimeout"`
	DefaultLimit    uint32        `json:"defaultLimit"`
	MaxLimit        uint32        `json:"maxLimit"`
	SlowQueryWarnAt time.Duration `json:"slowQueryWarnAt"`
}

// AcceleratorConfig contains registry-wide accelerator defaults.
type AcceleratorConfig struct {
	DefaultMode       string        `json:"defaultMode"` // "memory" | "file"
	SecretResolveTTL  time.Duration `json:"secretResolveTTL"`
	SqliteFileDir     string        `json:"sqliteFileDir"`
	PostgresDSN       string        `json:"postgresDsn"`
	CreationTimeout   time.Duration `json:"creationTimeout"`
	MaxPendingCreates int           `json:"maxPendingCreates"`

	// PostgresUseIAM, when true, authenticates the Postgres accelerator's
	// pool with a short-lived AWS DSQL IAM token instead of the static
	// password embedded in PostgresDSN.
	PostgresUseIAM    bool   `json:"postgresUseIAM"`
	PostgresIAMRegion string `json:"postgresIAMRegion"`
	PostgresIAMUser   string `json:"postgresIAMUser"`
}

// LoggingConfig contains structured logging settings. The server reads
// only EnableQueryLogging; its logger comes from zap.NewProduction()
// whatever Level and Format say.
type LoggingConfig struct {
	Level              string `json:"level"`
	Format             string `json:"format"` // "json" | "console"
	EnableQueryLogging bool   `json:"enableQueryLogging"`
	LogSlowQueries     bool   `json:"logSlowQueries"`
	SanitizeFilterLogs bool   `json:"sanitizeFilterLogs"`
}

// MetricsConfig contains telemetry emission settings consumed by
// internal.RegisterTelemetryEmitter-style wiring.
type MetricsConfig struct {
	Enabled            bool              `json:"enabled"`
	Namespace          string            `json:"namespace"`
	Labels             map[string]string `json:"labels"`
	CollectionInterval time.Duration     `json:"collectionInterval"`
}

// CompatConfig gates the documented source-compatible quirks behind
// explicit switches (spec §9 / DESIGN.md Open Questions).
type CompatConfig struct {
	// SafeQuoting, when true, doubles embedded single quotes in filter
	// values instead of reproducing the unescaped byte-exact behavior.
	SafeQuoting bool `json:"safeQuoting"`
	// PageZeroIsFirstPage, when true, treats page=0 as offset 0 instead
	// of the historical offset=limit quirk.
	PageZeroIsFirstPage bool `json:"pageZeroIsFirstPage"`
	// HavingJoinWithAnd, when true, joins HAVING predicates with AND
	// instead of the historical comma join.
	HavingJoinWithAnd bool `json:"havingJoinWithAnd"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second,
			EndpointsFile:  "endpoints.json",
			AccelFile:      "accelerators.json",
			ShutdownWindow: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DuckDBPath:     ":memory:",
			MaxConnections: 1,
			Timeout:        5 * time.Second,
		},
		Query: QueryConfig{
			DefaultTimeout:  30 * time.Second,
			DefaultLimit:    1000,
			MaxLimit:        100000,
			SlowQueryWarnAt: 2 * time.Second,
		},
		Accelerator: AcceleratorConfig{
			DefaultMode:       "memory",
			SecretResolveTTL:  5 * time.Minute,
			CreationTimeout:   30 * time.Second,
			MaxPendingCreates: 8,
		},
		Logging: LoggingConfig{
			Level:              "info",
			Format:             "json",
			EnableQueryLogging: true,
			LogSlowQueries:     true,
			SanitizeFilterLogs: false,
		},
		Metrics: MetricsConfig{
			Enabled:            true,
			Namespace:          "queryc",
			CollectionInterval: 30 * time.Second,
		},
		Compat: CompatConfig{
			SafeQuoting:         false,
			PageZeroIsFirstPage: false,
			HavingJoinWithAnd:   false,
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Query.DefaultLimit == 0 {
		return &ConfigError{Field: "query.defaultLimit", Message: "must be greater than 0"}
	}
	if c.Query.MaxLimit < c.Query.DefaultLimit {
		return &ConfigError{Field: "query.maxLimit", Message: "must be greater than or equal to defaultLimit"}
	}
	if c.Database.MaxConnections <= 0 {
		return &ConfigError{Field: "database.maxConnections", Message: "must be greater than 0"}
	}
	if c.Server.Port == "" {
		return &ConfigError{Field: "server.port", Message: "must not be empty"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ConfigError) Error() string {
	return "config validation error for field '" + e.Field + "': " + e.Message
}

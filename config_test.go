package queryc

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Database.DuckDBPath != ":memory:" {
		t.Errorf("expected duckdb path to be ':memory:', got %s", config.Database.DuckDBPath)
	}
	if config.Database.MaxConnections != 1 {
		t.Errorf("expected max connections to be 1, got %d", config.Database.MaxConnections)
	}

	if config.Query.DefaultLimit != 1000 {
		t.Errorf("expected default limit to be 1000, got %d", config.Query.DefaultLimit)
	}
	if config.Query.MaxLimit != 100000 {
		t.Errorf("expected max limit to be 100000, got %d", config.Query.MaxLimit)
	}
	if config.Query.DefaultTimeout != 30*time.Second {
		t.Errorf("expected default timeout to be 30s, got %v", config.Query.DefaultTimeout)
	}

	if config.Compat.SafeQuoting {
		t.Error("expected SafeQuoting to default to false for byte-exact compatibility")
	}
	if config.Compat.PageZeroIsFirstPage {
		t.Error("expected PageZeroIsFirstPage to default to false to preserve the page=0 quirk")
	}
	if config.Compat.HavingJoinWithAnd {
		t.Error("expected HavingJoinWithAnd to default to false to preserve the comma join")
	}
}

func TestConfigValidationDetailed(t *testing.T) {
	tests := []struct {
		name        string
		config      *Config
		expectError bool
		errorField  string
	}{
		{
			name:        "valid config",
			config:      DefaultConfig(),
			expectError: false,
		},
		{
			name: "invalid default limit",
			config: &Config{
				Server:   ServerConfig{Port: "8080"},
				Database: DatabaseConfig{MaxConnections: 1},
				Query:    QueryConfig{DefaultLimit: 0, MaxLimit: 100},
			},
			expectError: true,
			errorField:  "query.defaultLimit",
		},
		{
			name: "max limit less than default limit",
			config: &Config{
				Server:   ServerConfig{Port: "8080"},
				Database: DatabaseConfig{MaxConnections: 1},
				Query:    QueryConfig{DefaultLimit: 1000, MaxLimit: 100},
			},
			expectError: true,
			errorField:  "query.maxLimit",
		},
		{
			name: "invalid max connections",
			config: &Config{
				Server:   ServerConfig{Port: "8080"},
				Database: DatabaseConfig{MaxConnections: 0},
				Query:    QueryConfig{DefaultLimit: 1000, MaxLimit: 100000},
			},
			expectError: true,
			errorField:  "database.maxConnections",
		},
		{
			name: "empty server port",
			config: &Config{
				Server:   ServerConfig{Port: ""},
				Database: DatabaseConfig{MaxConnections: 1},
				Query:    QueryConfig{DefaultLimit: 1000, MaxLimit: 100000},
			},
			expectError: true,
			errorField:  "server.port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError {
				if err == nil {
					t.Fatal("expected validation error but got none")
				}
				configErr, ok := err.(*ConfigError)
				if !ok {
					t.Fatalf("expected *ConfigError, got %T", err)
				}
				if configErr.Field != tt.errorField {
					t.Errorf("expected error field %s, got %s", tt.errorField, configErr.Field)
				}
			} else if err != nil {
				t.Errorf("expected no validation error but got: %v", err)
			}
		})
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Field:   "test.field",
		Message: "test message",
	}

	expected := "config validation error for field 'test.field': test message"
	if err.Error() != expected {
		t.Errorf("expected error message %s, got %s", expected, err.Error())
	}
}

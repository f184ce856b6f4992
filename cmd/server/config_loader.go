package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lychee-technology/queryc"
	"github.com/lychee-technology/queryc/internal"
)

// loadConfig reads a JSON Config document from path, falling back to
// queryc.DefaultConfig() when path is empty.
func loadConfig(path string) (*queryc.Config, error) {
	cfg := queryc.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// loadEndpoints reads a JSON array of endpoint definitions.
func loadEndpoints(path string) ([]queryc.Endpoint, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read endpoints file %s: %w", path, err)
	}
	var endpoints []queryc.Endpoint
	if err := json.Unmarshal(raw, &endpoints); err != nil {
		return nil, fmt.Errorf("parse endpoints file %s: %w", path, err)
	}
	return endpoints, nil
}

// accelerationEntry binds a dataset's portable schema and acceleration
// spec together, the unit of work the accelerator config file carries per
// dataset.
type accelerationEntry struct {
	Dataset string             `json:"dataset"`
	Schema  queryc.SchemaRef   `json:"schema"`
	Spec    queryc.AccelerationSpec `json:"spec"`
}

// loadAccelerations reads a JSON array of accelerationEntry and, for each
// one, materializes the backing table through the registry before the
// server starts answering requests. dbCfg is passed through to any
// File-mode entry that seeds its dataset into object storage.
func loadAccelerations(ctx context.Context, path string, registry *internal.AcceleratorRegistry, secrets queryc.SecretStore, dbCfg queryc.DatabaseConfig) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read accelerator file %s: %w", path, err)
	}

	var entries []accelerationEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parse accelerator file %s: %w", path, err)
	}

	for _, entry := range entries {
		if _, err := internal.CreateAcceleratorTable(ctx, registry, secrets, entry.Dataset, entry.Schema, entry.Spec, dbCfg); err != nil {
			return fmt.Errorf("materialize dataset %s: %w", entry.Dataset, err)
		}
	}
	return nil
}

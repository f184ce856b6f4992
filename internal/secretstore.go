package internal

import (
	"context"
	"os"
	"regexp"

	"github.com/lychee-technology/queryc"
)

var placeholderPattern = regexp.MustCompile(`\$\{\s*(env|store):([^}\s]+)\s*\}`)

// MemorySecretStore is an in-process SecretStore backed by a static map,
// suitable for tests and for deployments that provision secrets through
// their own config loader rather than a vault.
type MemorySecretStore struct {
	values map[string]string
}

// NewMemorySecretStore builds a store pre-populated with the given keys.
func NewMemorySecretStore(values map[string]string) *MemorySecretStore {
	if values == nil {
		values = map[string]string{}
	}
	return &MemorySecretStore{values: values}
}

func (m *MemorySecretStore) Resolve(_ context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", queryc.NewInvalidConfigurationError("secret not found: " + key)
	}
	return v, nil
}

// resolveParams expands every `${ env:NAME }` and `${ store:key }`
// placeholder appearing in a params map's values, returning a new map.
// env placeholders are resolved directly against the process environment;
// store placeholders are deferred to the supplied SecretStore.
func resolveParams(ctx context.Context, store queryc.SecretStore, params map[string]string) (map[string]string, error) {
	resolved := make(map[string]string, len(params))
	for k, v := range params {
		expanded, err := expandPlaceholders(ctx, store, v)
		if err != nil {
			return nil, err
		}
		resolved[k] = expanded
	}
	return resolved, nil
}

func expandPlaceholders(ctx context.Context, store queryc.SecretStore, value string) (string, error) {
	var firstErr error
	result := placeholderPattern.ReplaceAllStringFunc(value, func(match string) string {
		groups := placeholderPattern.FindStringSubmatch(match)
		kind, key := groups[1], groups[2]

		switch kind {
		case "env":
			return os.Getenv(key)
		case "store":
			if store == nil {
				if firstErr == nil {
					firstErr = queryc.NewInvalidConfigurationError("no secret store configured for ${ store:" + key + " }")
				}
				return ""
			}
			resolved, err := store.Resolve(ctx, key)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return ""
			}
			return resolved
		default:
			return match
		}
	})
	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

package internal

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lychee-technology/queryc"
)

// MapValueTypeToDuckDBType maps a queryc.ValueType to a DuckDB SQL type string.
func MapValueTypeToDuckDBType(v queryc.ValueType) string {
	switch v {
	case queryc.ValueTypeText:
		return "VARCHAR"
	case queryc.ValueTypeUUID:
		return "VARCHAR"
	case queryc.ValueTypeSmallInt:
		return "SMALLINT"
	case queryc.ValueTypeInteger:
		return "INTEGER"
	case queryc.ValueTypeBigInt:
		return "BIGINT"
	case queryc.ValueTypeNumeric:
		return "DOUBLE"
	case queryc.ValueTypeDate, queryc.ValueTypeDateTime:
		return "TIMESTAMP"
	case queryc.ValueTypeBool:
		return "BOOLEAN"
	default:
		return "VARCHAR"
	}
}

// CastExpression returns a DuckDB CAST expression for a column or
// expression. The caller is responsible for the identifier/expression
// itself being safe to embed.
func CastExpression(columnOrExpr string, v queryc.ValueType) string {
	return fmt.Sprintf("CAST(%s AS %s)", columnOrExpr, MapValueTypeToDuckDBType(v))
}

// ToDuckDBParam converts a Go value into the form expected by the DuckDB
// driver for the given value type.
func ToDuckDBParam(value any, v queryc.ValueType) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch v {
	case queryc.ValueTypeUUID:
		switch t := value.(type) {
		case uuid.UUID:
			return t.String(), nil
		case *uuid.UUID:
			if t == nil {
				return nil, nil
			}
			return t.String(), nil
		case string:
			return t, nil
		default:
			return nil, fmt.Errorf("cannot convert %T to UUID param", value)
		}
	case queryc.ValueTypeDate, queryc.ValueTypeDateTime:
		switch t := value.(type) {
		case time.Time:
			return t.UTC(), nil
		case *time.Time:
			if t == nil {
				return nil, nil
			}
			return t.UTC(), nil
		default:
			return nil, fmt.Errorf("cannot convert %T to TIMESTAMP param", value)
		}
	case queryc.ValueTypeBool:
		switch b := value.(type) {
		case bool:
			return b, nil
		case *bool:
			if b == nil {
				return nil, nil
			}
			return *b, nil
		default:
			return nil, fmt.Errorf("cannot convert %T to BOOLEAN param", value)
		}
	case queryc.ValueTypeSmallInt, queryc.ValueTypeInteger, queryc.ValueTypeBigInt, queryc.ValueTypeNumeric:
		switch n := value.(type) {
		case float64:
			return n, nil
		case *float64:
			if n == nil {
				return nil, nil
			}
			return *n, nil
		case float32:
			return float64(n), nil
		case *float32:
			if n == nil {
				return nil, nil
			}
			return float64(*n), nil
		case int:
			return float64(n), nil
		case *int:
			if n == nil {
				return nil, nil
			}
			return float64(*n), nil
		case int16:
			return float64(n), nil
		case *int16:
			if n == nil {
				return nil, nil
			}
			return float64(*n), nil
		case int32:
			return float64(n), nil
		case *int32:
			if n == nil {
				return nil, nil
			}
			return float64(*n), nil
		case int64:
			return float64(n), nil
		case *int64:
			if n == nil {
				return nil, nil
			}
			return float64(*n), nil
		case string:
			return n, nil
		default:
			return nil, fmt.Errorf("cannot convert %T to numeric param", value)
		}
	case queryc.ValueTypeText:
		switch s := value.(type) {
		case string:
			return s, nil
		case *string:
			if s == nil {
				return nil, nil
			}
			return *s, nil
		default:
			return nil, fmt.Errorf("cannot convert %T to text param", value)
		}
	default:
		return value, nil
	}
}

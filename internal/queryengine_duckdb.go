package internal

import (
	"context"
	"fmt"

	"github.com/lychee-technology/queryc"
)

// DuckDBQueryEngine is the default QueryEngine: it runs every compiled
// statement against one DuckDB connection, so only tables that exist in
// that connection (such as those the DuckDB accelerator materializes) can
// be queried; tables created by the other accelerators are not visible to
// it.
type DuckDBQueryEngine struct {
	client *DuckDBClient
}

// NewDuckDBQueryEngine wraps an already-opened DuckDB client.
func NewDuckDBQueryEngine(client *DuckDBClient) *DuckDBQueryEngine {
	return &DuckDBQueryEngine{client: client}
}

// ResolveSchema describes a table's columns by querying DuckDB's
// information schema and mapping its native types back to the portable
// ValueType tags the compiler and builder traffic in.
func (e *DuckDBQueryEngine) ResolveSchema(ctx context.Context, dataset string) (queryc.SchemaRef, error) {
	rows, err := e.client.DB.QueryContext(ctx,
		`SELECT column_name, data_type FROM information_schema.columns WHERE table_name = ? ORDER BY ordinal_position`,
		dataset,
	)
	if err != nil {
		return queryc.SchemaRef{}, fmt.Errorf("resolve schema for %s: %w", dataset, err)
	}
	defer rows.Close()

	var columns []queryc.ColumnDef
	for rows.Next() {
		var name, dataType string
		if err := rows.Scan(&name, &dataType); err != nil {
			return queryc.SchemaRef{}, fmt.Errorf("scan schema row for %s: %w", dataset, err)
		}
		columns = append(columns, queryc.ColumnDef{Name: name, DataType: duckDBTypeToValueType(dataType)})
	}
	if err := rows.Err(); err != nil {
		return queryc.SchemaRef{}, fmt.Errorf("iterate schema rows for %s: %w", dataset, err)
	}
	if len(columns) == 0 {
		return queryc.SchemaRef{}, fmt.Errorf("dataset %s not found", dataset)
	}

	return queryc.SchemaRef{Columns: columns}, nil
}

// Execute runs a single compiled SQL statement and materializes its
// result as a RecordBatch. Column values are scanned into interface values,
// and []byte results are converted to strings so they encode as JSON text.
func (e *DuckDBQueryEngine) Execute(ctx context.Context, query string) (*queryc.RecordBatch, error) {
	rows, err := e.client.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	batch := &queryc.RecordBatch{Columns: cols}
	values := make([]any, len(cols))
	scanTargets := make([]any, len(cols))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = normalizeScanned(values[i])
		}
		batch.Rows = append(batch.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return batch, nil
}

func normalizeScanned(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	default:
		return v
	}
}

func duckDBTypeToValueType(duckType string) queryc.ValueType {
	switch duckType {
	case "VARCHAR", "TEXT":
		return queryc.ValueTypeText
	case "SMALLINT":
		return queryc.ValueTypeSmallInt
	case "INTEGER":
		return queryc.ValueTypeInteger
	case "BIGINT":
		return queryc.ValueTypeBigInt
	case "DOUBLE", "DECIMAL", "FLOAT":
		return queryc.ValueTypeNumeric
	case "TIMESTAMP", "TIMESTAMP WITH TIME ZONE":
		return queryc.ValueTypeDateTime
	case "DATE":
		return queryc.ValueTypeDate
	case "BOOLEAN":
		return queryc.ValueTypeBool
	default:
		return queryc.ValueTypeText
	}
}

var _ queryc.QueryEngine = (*DuckDBQueryEngine)(nil)

package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/lychee-technology/queryc"
)

// DuckDBAccelerator materializes a dataset as a native table in the
// shared DuckDB connection the query engine already targets, so no
// cross-engine bridging is needed at read time. Grounded on
// DuckDBClient (internal/duckdb_conn.go) and the type mapping in
// internal/duckdb_type_mapper.go.
type DuckDBAccelerator struct {
	client *DuckDBClient
}

// NewDuckDBAccelerator binds the accelerator to the process's single
// DuckDB connection.
func NewDuckDBAccelerator(client *DuckDBClient) *DuckDBAccelerator {
	return &DuckDBAccelerator{client: client}
}

func (a *DuckDBAccelerator) CreateExternalTable(ctx context.Context, descriptor queryc.ExternalTableDescriptor) (queryc.TableProvider, error) {
	stmt, err := duckDBCreateTableStatement(descriptor)
	if err != nil {
		return nil, err
	}

	if _, err := a.client.DB.ExecContext(ctx, stmt); err != nil {
		return nil, fmt.Errorf("create duckdb table %s: %w", descriptor.Name, err)
	}

	for col, kind := range descriptor.Indexes {
		indexStmt := duckDBIndexStatement(descriptor.Name, col, kind)
		if _, err := a.client.DB.ExecContext(ctx, indexStmt); err != nil {
			return nil, fmt.Errorf("create duckdb index on %s.%s: %w", descriptor.Name, col, err)
		}
	}

	return &duckDBTableProvider{name: descriptor.Name, schema: descriptor.Schema}, nil
}

// duckDBCreateTableStatement assembles either a native column-DDL CREATE
// TABLE or, for a File-mode dataset backed by Parquet in object storage,
// a CREATE TABLE AS SELECT * FROM read_parquet(...) sourced from the
// descriptor's "s3_path_template" option.
func duckDBCreateTableStatement(descriptor queryc.ExternalTableDescriptor) (string, error) {
	if descriptor.Mode == queryc.ModeFile {
		if tmpl := descriptor.Options["s3_path_template"]; tmpl != "" {
			path, err := RenderS3ParquetPath(tmpl, descriptor.Name)
			if err != nil {
				return "", fmt.Errorf("render s3 parquet path for %s: %w", descriptor.Name, err)
			}
			var b strings.Builder
			b.WriteString("CREATE TABLE ")
			if descriptor.IfNotExists {
				b.WriteString("IF NOT EXISTS ")
			}
			fmt.Fprintf(&b, "%s AS SELECT * FROM read_parquet('%s')", descriptor.Name, path)
			return b.String(), nil
		}
	}

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	if descriptor.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(descriptor.Name)
	b.WriteString(" (")

	for i, col := range descriptor.Schema.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %s", col.Name, MapValueTypeToDuckDBType(col.DataType))
	}

	for _, c := range descriptor.Constraints {
		b.WriteString(", ")
		switch c.Kind {
		case queryc.ConstraintPrimaryKey:
			fmt.Fprintf(&b, "PRIMARY KEY (%s)", strings.Join(c.Columns, ", "))
		case queryc.ConstraintUnique:
			fmt.Fprintf(&b, "UNIQUE (%s)", strings.Join(c.Columns, ", "))
		}
	}

	b.WriteString(")")
	return b.String(), nil
}

func duckDBIndexStatement(table, column string, kind queryc.IndexKind) string {
	indexName := fmt.Sprintf("idx_%s_%s", table, column)
	unique := ""
	if kind == queryc.IndexUnique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)", unique, indexName, table, column)
}

type duckDBTableProvider struct {
	name   string
	schema queryc.SchemaRef
}

func (p *duckDBTableProvider) Name() string              { return p.name }
func (p *duckDBTableProvider) Schema() queryc.SchemaRef { return p.schema }

var _ queryc.Accelerator = (*DuckDBAccelerator)(nil)

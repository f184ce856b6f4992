package internal

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/lychee-technology/queryc"
)

// SqliteAccelerator materializes datasets as tables in a pure-Go SQLite
// database, one file per process unless configured otherwise. There is
// no SQLite driver anywhere else in the reference stack, so this engine
// is the one place queryc reaches past it to modernc.org/sqlite, the
// ecosystem's standard pure-Go driver.
type SqliteAccelerator struct {
	mu      sync.Mutex
	db      *sql.DB
	fileDir string
}

// NewSqliteAccelerator opens (or creates) the SQLite database at path, or
// an in-memory database if path is empty.
func NewSqliteAccelerator(path string) (*SqliteAccelerator, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return &SqliteAccelerator{db: db, fileDir: filepath.Dir(dsn)}, nil
}

func (a *SqliteAccelerator) CreateExternalTable(ctx context.Context, descriptor queryc.ExternalTableDescriptor) (queryc.TableProvider, error) {
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
		fmt.Fprintf(&b, "%s %s", col.Name, valueTypeToSqliteType(col.DataType))
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

	a.mu.Lock()
	_, err := a.db.ExecContext(ctx, b.String())
	a.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("create sqlite table %s: %w", descriptor.Name, err)
	}

	for col, kind := range descriptor.Indexes {
		stmt := sqliteIndexStatement(descriptor.Name, col, kind)
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("create sqlite index on %s.%s: %w", descriptor.Name, col, err)
		}
	}

	return &sqliteTableProvider{name: descriptor.Name, schema: descriptor.Schema}, nil
}

// Close releases the underlying database handle.
func (a *SqliteAccelerator) Close() error {
	return a.db.Close()
}

func sqliteIndexStatement(table, column string, kind queryc.IndexKind) string {
	indexName := fmt.Sprintf("idx_%s_%s", table, column)
	unique := ""
	if kind == queryc.IndexUnique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)", unique, indexName, table, column)
}

func valueTypeToSqliteType(v queryc.ValueType) string {
	switch v {
	case queryc.ValueTypeSmallInt, queryc.ValueTypeInteger, queryc.ValueTypeBigInt:
		return "INTEGER"
	case queryc.ValueTypeNumeric:
		return "REAL"
	case queryc.ValueTypeBool:
		return "INTEGER"
	case queryc.ValueTypeDate, queryc.ValueTypeDateTime:
		return "TEXT"
	default:
		return "TEXT"
	}
}

type sqliteTableProvider struct {
	name   string
	schema queryc.SchemaRef
}

func (p *sqliteTableProvider) Name() string              { return p.name }
func (p *sqliteTableProvider) Schema() queryc.SchemaRef { return p.schema }

var _ queryc.Accelerator = (*SqliteAccelerator)(nil)

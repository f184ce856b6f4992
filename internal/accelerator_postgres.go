package internal

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	dsqlauth "github.com/aws/aws-sdk-go-v2/feature/dsql/auth"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lychee-technology/queryc"
)

// pgPool is the narrow slice of *pgxpool.Pool the accelerator exercises,
// factored out so tests can substitute pgxmock the way the teacher's
// persistent-record repository tests do.
type pgPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

// PostgresAccelerator materializes datasets as tables in an external
// Postgres instance, connecting through a pooled pgx connection.
// Grounded on internal/postgres_health.go's pgxpool usage; IAM token
// generation for AWS DSQL-backed clusters is grounded on
// aws-sdk-go-v2/feature/dsql/auth, the same package the teacher wired for
// token-based Postgres auth in its CDC flusher.
type PostgresAccelerator struct {
	pool pgPool

	mu sync.Mutex
}

// NewPostgresAccelerator opens a pooled connection to dsn.
func NewPostgresAccelerator(ctx context.Context, dsn string) (*PostgresAccelerator, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	return &PostgresAccelerator{pool: pool}, nil
}

// NewPostgresAcceleratorWithIAM opens a pooled connection to an AWS
// DSQL-backed cluster authenticated with a short-lived IAM token instead
// of dsn's static password, regenerated from the pool's connection
// config before each new physical connection so the pool keeps working
// past the token's short lifetime.
func NewPostgresAcceleratorWithIAM(ctx context.Context, dsn, region, user string) (*PostgresAccelerator, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	poolCfg.ConnConfig.User = user

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := fmt.Sprintf("%s:%d", poolCfg.ConnConfig.Host, poolCfg.ConnConfig.Port)
	poolCfg.BeforeConnect = func(ctx context.Context, cc *pgx.ConnConfig) error {
		token, err := DSQLAuthToken(ctx, awsCfg, endpoint, region)
		if err != nil {
			return fmt.Errorf("refresh dsql auth token: %w", err)
		}
		cc.Password = token
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	return &PostgresAccelerator{pool: pool}, nil
}

// DSQLAuthToken generates a short-lived IAM auth token for an AWS DSQL
// cluster, suitable for use as the password component of a Postgres DSN
// in place of a static credential. endpoint is "host:port", matching the
// teacher's CDC flusher's DSQL token request.
func DSQLAuthToken(ctx context.Context, cfg aws.Config, endpoint, region string) (string, error) {
	token, err := dsqlauth.GenerateDbConnectAuthToken(ctx, endpoint, region, cfg.Credentials)
	if err != nil {
		return "", fmt.Errorf("generate dsql auth token: %w", err)
	}
	return token, nil
}

func (a *PostgresAccelerator) CreateExternalTable(ctx context.Context, descriptor queryc.ExternalTableDescriptor) (queryc.TableProvider, error) {
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
		fmt.Fprintf(&b, "%s %s", col.Name, valueTypeToPostgresType(col.DataType))
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
	_, err := a.pool.Exec(ctx, b.String())
	a.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("create postgres table %s: %w", descriptor.Name, err)
	}

	for col, kind := range descriptor.Indexes {
		stmt := postgresIndexStatement(descriptor.Name, col, kind)
		if _, err := a.pool.Exec(ctx, stmt); err != nil {
			return nil, fmt.Errorf("create postgres index on %s.%s: %w", descriptor.Name, col, err)
		}
	}

	return &postgresTableProvider{name: descriptor.Name, schema: descriptor.Schema}, nil
}

// Close releases the underlying connection pool.
func (a *PostgresAccelerator) Close() error {
	a.pool.Close()
	return nil
}

func postgresIndexStatement(table, column string, kind queryc.IndexKind) string {
	indexName := fmt.Sprintf("idx_%s_%s", table, column)
	unique := ""
	if kind == queryc.IndexUnique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)", unique, indexName, table, column)
}

func valueTypeToPostgresType(v queryc.ValueType) string {
	switch v {
	case queryc.ValueTypeText, queryc.ValueTypeUUID:
		return "TEXT"
	case queryc.ValueTypeSmallInt:
		return "SMALLINT"
	case queryc.ValueTypeInteger:
		return "INTEGER"
	case queryc.ValueTypeBigInt:
		return "BIGINT"
	case queryc.ValueTypeNumeric:
		return "DOUBLE PRECISION"
	case queryc.ValueTypeDate:
		return "DATE"
	case queryc.ValueTypeDateTime:
		return "TIMESTAMPTZ"
	case queryc.ValueTypeBool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

type postgresTableProvider struct {
	name   string
	schema queryc.SchemaRef
}

func (p *postgresTableProvider) Name() string              { return p.name }
func (p *postgresTableProvider) Schema() queryc.SchemaRef { return p.schema }

var _ queryc.Accelerator = (*PostgresAccelerator)(nil)

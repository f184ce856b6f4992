package internal

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/queryc"
)

func TestPostgresAcceleratorCreateExternalTable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	mock.MatchExpectationsInOrder(true)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS orders`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_id ON orders \(id\)`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	accelerator := &PostgresAccelerator{pool: mock}

	descriptor := queryc.ExternalTableDescriptor{
		Name: "orders",
		Schema: queryc.SchemaRef{Columns: []queryc.ColumnDef{
			{Name: "id", DataType: queryc.ValueTypeBigInt},
			{Name: "amount", DataType: queryc.ValueTypeNumeric},
		}},
		Constraints: []queryc.Constraint{{Kind: queryc.ConstraintPrimaryKey, Columns: []string{"id"}}},
		Indexes:     map[string]queryc.IndexKind{"id": queryc.IndexUnique},
		IfNotExists: true,
	}

	provider, err := accelerator.CreateExternalTable(context.Background(), descriptor)
	require.NoError(t, err)
	require.Equal(t, "orders", provider.Name())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgresAcceleratorWithIAMRejectsMalformedDSN(t *testing.T) {
	_, err := NewPostgresAcceleratorWithIAM(context.Background(), "not a dsn", "us-east-1", "admin")
	if err == nil {
		t.Fatal("expected error for malformed dsn")
	}
}

func TestPostgresAcceleratorCreateExternalTablePropagatesExecError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`CREATE TABLE`).WillReturnError(context.DeadlineExceeded)

	accelerator := &PostgresAccelerator{pool: mock}
	descriptor := queryc.ExternalTableDescriptor{
		Name:   "orders",
		Schema: queryc.SchemaRef{Columns: []queryc.ColumnDef{{Name: "id", DataType: queryc.ValueTypeBigInt}}},
	}

	_, err = accelerator.CreateExternalTable(context.Background(), descriptor)
	require.Error(t, err)
}

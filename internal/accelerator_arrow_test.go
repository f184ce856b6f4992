package internal

import (
	"context"
	"testing"

	"github.com/lychee-technology/queryc"
)

func TestArrowAcceleratorCreateExternalTable(t *testing.T) {
	a := NewArrowAccelerator()
	descriptor := queryc.ExternalTableDescriptor{
		Name: "orders",
		Schema: queryc.SchemaRef{Columns: []queryc.ColumnDef{
			{Name: "id", DataType: queryc.ValueTypeBigInt},
			{Name: "amount", DataType: queryc.ValueTypeNumeric},
		}},
	}

	provider, err := a.CreateExternalTable(context.Background(), descriptor)
	if err != nil {
		t.Fatalf("CreateExternalTable: %v", err)
	}
	if provider.Name() != "orders" {
		t.Fatalf("expected provider name orders, got %s", provider.Name())
	}

	a.mu.Lock()
	table, registered := a.tables["orders"]
	a.mu.Unlock()
	if !registered {
		t.Fatal("expected orders to be registered in the in-memory table set")
	}
	if table.record == nil {
		t.Fatal("expected a record allocated through the accelerator's allocator")
	}
	if table.record.NumCols() != 2 {
		t.Fatalf("expected 2 columns, got %d", table.record.NumCols())
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestArrowAcceleratorRejectsFileMode(t *testing.T) {
	a := NewArrowAccelerator()
	descriptor := queryc.ExternalTableDescriptor{Name: "orders", Mode: queryc.ModeFile}

	if _, err := a.CreateExternalTable(context.Background(), descriptor); err == nil {
		t.Fatal("expected File mode to be rejected for the Arrow engine")
	}
}

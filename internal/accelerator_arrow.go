package internal

import (
	"context"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/lychee-technology/queryc"
)

// ArrowAccelerator holds accelerated datasets as in-memory Arrow tables.
// It is always registered, mirroring the original runtime where the
// Arrow accelerator has no optional build feature: it is the fallback
// in-memory engine every other accelerator can be compared against.
type ArrowAccelerator struct {
	mu     sync.Mutex
	alloc  memory.Allocator
	tables map[string]*arrowTable
}

// NewArrowAccelerator returns an accelerator backed by the default Go
// allocator.
func NewArrowAccelerator() *ArrowAccelerator {
	return &ArrowAccelerator{
		alloc:  memory.NewGoAllocator(),
		tables: make(map[string]*arrowTable),
	}
}

type arrowTable struct {
	schema   *arrow.Schema
	portable queryc.SchemaRef
	record   arrow.Record
}

func (a *ArrowAccelerator) CreateExternalTable(_ context.Context, descriptor queryc.ExternalTableDescriptor) (queryc.TableProvider, error) {
	if descriptor.Mode == queryc.ModeFile {
		return nil, queryc.NewInvalidConfigurationError("File mode not supported for Arrow engine")
	}

	fields := make([]arrow.Field, len(descriptor.Schema.Columns))
	for i, col := range descriptor.Schema.Columns {
		fields[i] = arrow.Field{Name: col.Name, Type: valueTypeToArrowType(col.DataType), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	// Build an empty record through the allocator so the table starts
	// life as a real columnar buffer, ready for a future append path
	// rather than a bare schema placeholder.
	builder := array.NewRecordBuilder(a.alloc, schema)
	record := builder.NewRecord()
	builder.Release()

	a.mu.Lock()
	a.tables[descriptor.Name] = &arrowTable{schema: schema, portable: descriptor.Schema, record: record}
	a.mu.Unlock()

	return &arrowTableProvider{name: descriptor.Name, schema: descriptor.Schema}, nil
}

type arrowTableProvider struct {
	name   string
	schema queryc.SchemaRef
}

func (p *arrowTableProvider) Name() string              { return p.name }
func (p *arrowTableProvider) Schema() queryc.SchemaRef { return p.schema }

// Close releases every in-memory record's allocator-backed buffers.
func (a *ArrowAccelerator) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, t := range a.tables {
		t.record.Release()
	}
	return nil
}

func valueTypeToArrowType(v queryc.ValueType) arrow.DataType {
	switch v {
	case queryc.ValueTypeSmallInt:
		return arrow.PrimitiveTypes.Int16
	case queryc.ValueTypeInteger:
		return arrow.PrimitiveTypes.Int32
	case queryc.ValueTypeBigInt:
		return arrow.PrimitiveTypes.Int64
	case queryc.ValueTypeNumeric:
		return arrow.PrimitiveTypes.Float64
	case queryc.ValueTypeBool:
		return arrow.FixedWidthTypes.Boolean
	case queryc.ValueTypeDate:
		return arrow.FixedWidthTypes.Date32
	case queryc.ValueTypeDateTime:
		return arrow.FixedWidthTypes.Timestamp_us
	case queryc.ValueTypeUUID, queryc.ValueTypeText:
		return arrow.BinaryTypes.String
	default:
		return arrow.BinaryTypes.String
	}
}

var _ queryc.Accelerator = (*ArrowAccelerator)(nil)

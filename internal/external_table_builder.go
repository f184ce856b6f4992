package internal

import (
	"sort"
	"strings"

	"github.com/lychee-technology/queryc"
)

// ExternalTableBuilder assembles an ExternalTableDescriptor from a series
// of chained setters, the way the original accelerator builder composes a
// CreateExternalTable command: a value-type builder with validation
// deferred to a terminal Build() call.
type ExternalTableBuilder struct {
	name        string
	schema      queryc.SchemaRef
	engine      queryc.Engine
	mode        queryc.Mode
	options     map[string]string
	indexes     map[string]queryc.IndexKind
	constraints []queryc.Constraint
	onConflict  *queryc.OnConflictSpec
}

// NewExternalTableBuilder starts a builder for the named table, defaulting
// to in-memory mode until overridden.
func NewExternalTableBuilder(name string, schema queryc.SchemaRef, engine queryc.Engine) *ExternalTableBuilder {
	return &ExternalTableBuilder{
		name:   name,
		schema: schema,
		engine: engine,
		mode:   queryc.ModeMemory,
	}
}

func (b *ExternalTableBuilder) Mode(mode queryc.Mode) *ExternalTableBuilder {
	b.mode = mode
	return b
}

func (b *ExternalTableBuilder) Options(options map[string]string) *ExternalTableBuilder {
	b.options = options
	return b
}

func (b *ExternalTableBuilder) Indexes(indexes map[string]queryc.IndexKind) *ExternalTableBuilder {
	b.indexes = indexes
	return b
}

func (b *ExternalTableBuilder) Constraints(constraints []queryc.Constraint) *ExternalTableBuilder {
	b.constraints = constraints
	return b
}

func (b *ExternalTableBuilder) OnConflict(onConflict *queryc.OnConflictSpec) *ExternalTableBuilder {
	b.onConflict = onConflict
	return b
}

func (b *ExternalTableBuilder) validate() error {
	if b.engine == queryc.EngineArrow && b.mode == queryc.ModeFile {
		return queryc.NewInvalidConfigurationError("File mode not supported for Arrow engine")
	}
	return nil
}

// Build validates the accumulated state and produces the descriptor. The
// mode is always folded into Options under the "mode" key so engines that
// read options generically (rather than the typed Mode field) still see
// it, mirroring the original builder's string-options fallback.
func (b *ExternalTableBuilder) Build() (queryc.ExternalTableDescriptor, error) {
	if err := b.validate(); err != nil {
		return queryc.ExternalTableDescriptor{}, err
	}

	options := make(map[string]string, len(b.options)+1)
	for k, v := range b.options {
		options[k] = v
	}
	options["mode"] = b.mode.String()

	if len(b.indexes) > 0 {
		options["indexes"] = encodeIndexes(b.indexes)
	}

	if b.onConflict != nil {
		options["on_conflict"] = b.onConflict.String()
	}

	return queryc.ExternalTableDescriptor{
		Name:        b.name,
		Schema:      b.schema,
		Mode:        b.mode,
		Options:     options,
		Indexes:     b.indexes,
		Constraints: b.constraints,
		OnConflict:  b.onConflict,
		IfNotExists: true,
	}, nil
}

// encodeIndexes renders a column->kind map deterministically as
// "col:kind,col:kind", sorted by column name so Build output is stable.
func encodeIndexes(indexes map[string]queryc.IndexKind) string {
	cols := make([]string, 0, len(indexes))
	for c := range indexes {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		parts = append(parts, c+":"+string(indexes[c]))
	}
	return strings.Join(parts, ",")
}

package queryc

import "strings"

// Column describes one column an endpoint exposes, with optional output
// renaming via Alias.
type Column struct {
	Name     string  `json:"name"`
	Alias    *string `json:"alias,omitempty"`
	DataType *string `json:"data_type,omitempty"`
}

// Aggregate describes a named SQL expression an endpoint exposes. Formula
// is emitted verbatim as `formula AS name`.
type Aggregate struct {
	Name     string  `json:"name"`
	Formula  string  `json:"formula"`
	DataType *string `json:"data_type,omitempty"`
}

// Filter describes an endpoint-defined filter alias whose Formula encodes
// `column__operator` (right-most "__" split).
type Filter struct {
	Alias    string `json:"alias"`
	Formula  string `json:"formula"`
	Required bool   `json:"required"`
}

// Endpoint is a declarative specification binding an externally
// addressable name to a dataset plus a restricted query vocabulary.
type Endpoint struct {
	Name           string      `json:"name"`
	Dataset        string      `json:"dataset"`
	Columns        []Column    `json:"columns"`
	Aggregates     []Aggregate `json:"aggregates"`
	Filters        []Filter    `json:"filters"`
	DefaultColumns []string    `json:"default_columns"`
	DependsOn      []string    `json:"dependsOn"`
}

// GetAggregate returns the aggregate whose external name matches, or nil.
func (e *Endpoint) GetAggregate(name string) *Aggregate {
	for i := range e.Aggregates {
		if e.Aggregates[i].Name == name {
			return &e.Aggregates[i]
		}
	}
	return nil
}

// GetAlias returns the output alias configured for a plain column name,
// if one exists.
func (e *Endpoint) GetAlias(name string) (string, bool) {
	for _, c := range e.Columns {
		if c.Name == name {
			if c.Alias != nil {
				return *c.Alias, true
			}
			return "", false
		}
	}
	return "", false
}

// GetFilter returns the filter alias definition matching the given key,
// or nil.
func (e *Endpoint) GetFilter(alias string) *Filter {
	for i := range e.Filters {
		if e.Filters[i].Alias == alias {
			return &e.Filters[i]
		}
	}
	return nil
}

// WithDependsOn returns a copy of the endpoint with DependsOn replaced;
// mirrors the boot-time dependency wiring pass of the original spicepod
// component model. It has no effect on the compiler itself.
func (e Endpoint) WithDependsOn(dependsOn []string) Endpoint {
	e.DependsOn = append([]string(nil), dependsOn...)
	return e
}

// Engine identifies a data-accelerator implementation. The set is closed
// for dispatch purposes but new tags can be registered at runtime.
type Engine string

const (
	EngineArrow    Engine = "arrow"
	EngineDuckDB   Engine = "duckdb"
	EnginePostgres Engine = "postgres"
	EngineSqlite   Engine = "sqlite"
)

// Mode selects whether an accelerated dataset is held in memory or
// persisted to a file.
type Mode string

const (
	ModeMemory Mode = "memory"
	ModeFile   Mode = "file"
)

func (m Mode) String() string { return string(m) }

// IndexKind identifies the kind of index requested for a column
// reference in an acceleration spec.
type IndexKind string

const (
	IndexEnabled IndexKind = "enabled"
	IndexUnique  IndexKind = "unique"
)

// OnConflictAction selects the behavior applied when an accelerated
// write collides with an existing row.
type OnConflictAction string

const (
	OnConflictUpsert OnConflictAction = "upsert"
	OnConflictDrop   OnConflictAction = "drop"
)

// OnConflictSpec names the policy and the columns it applies to.
type OnConflictSpec struct {
	Action  OnConflictAction `json:"action"`
	Columns []string         `json:"columns"`
}

func (o OnConflictSpec) String() string {
	return string(o.Action) + "(" + strings.Join(o.Columns, ",") + ")"
}

// ConstraintKind identifies the kind of table constraint.
type ConstraintKind string

const (
	ConstraintPrimaryKey ConstraintKind = "primary_key"
	ConstraintUnique     ConstraintKind = "unique"
)

// Constraint names a table-level constraint over a set of columns.
type Constraint struct {
	Kind    ConstraintKind `json:"kind"`
	Columns []string       `json:"columns"`
}

// AccelerationSpec is the configuration consumed by the Accelerator
// Registry to materialize a dataset into a table provider.
type AccelerationSpec struct {
	Engine      Engine            `json:"engine"`
	Mode        Mode              `json:"mode"`
	Params      map[string]string `json:"params"`
	Indexes     map[string]IndexKind `json:"indexes"`
	OnConflict  *OnConflictSpec   `json:"on_conflict,omitempty"`
	Constraints []Constraint      `json:"constraints,omitempty"`
}

// ValueType is the engine-independent type tag used when an accelerator
// must materialize a column in its own native DDL dialect.
type ValueType string

const (
	ValueTypeText     ValueType = "text"
	ValueTypeUUID     ValueType = "uuid"
	ValueTypeSmallInt ValueType = "small_int"
	ValueTypeInteger  ValueType = "integer"
	ValueTypeBigInt   ValueType = "big_int"
	ValueTypeNumeric  ValueType = "numeric"
	ValueTypeDate     ValueType = "date"
	ValueTypeDateTime ValueType = "date_time"
	ValueTypeBool     ValueType = "bool"
)

// ColumnDef is one column in a schema description. DataType is the
// portable ValueType tag; accelerators translate it into their own native
// column type when materializing a table.
type ColumnDef struct {
	Name     string    `json:"name"`
	DataType ValueType `json:"data_type"`
}

// SchemaRef is the column layout of a dataset, independent of storage
// engine. It is what the Schema Resolver and the Builder exchange.
type SchemaRef struct {
	Columns []ColumnDef `json:"columns"`
}

// HasColumn reports whether name is present, unqualified, in the schema.
func (s SchemaRef) HasColumn(name string) bool {
	for _, c := range s.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Names returns the unqualified column names in the schema.
func (s SchemaRef) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// ExternalTableDescriptor is the structured request handed to an
// accelerator to create or attach a table. It is opaque to the compiler.
type ExternalTableDescriptor struct {
	Name        string
	Schema      SchemaRef
	Mode        Mode
	Options     map[string]string
	Indexes     map[string]IndexKind
	Constraints []Constraint
	OnConflict  *OnConflictSpec
	IfNotExists bool
}

// RecordBatch is the row-oriented result of executing a compiled SQL
// statement. Its Rows are serialized as a JSON array to form the HTTP
// response body; Columns is not part of that body.
type RecordBatch struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

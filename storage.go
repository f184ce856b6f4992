package queryc

import "context"

// SchemaResolver is a thin adapter over the query engine that yields, for
// a dataset name, the set of unqualified column names the SQL Compiler is
// allowed to reference.
type SchemaResolver interface {
	ResolveSchema(ctx context.Context, dataset string) (SchemaRef, error)
}

// QueryEngine is the generic execution collaborator the compiler targets:
// it can describe a table's schema and execute a single SQL statement.
type QueryEngine interface {
	SchemaResolver
	Execute(ctx context.Context, sql string) (*RecordBatch, error)
}

// TableProvider is the handle an accelerator returns once it has created
// or attached an external table. It lives for the runtime of the process
// or until the dataset is removed.
type TableProvider interface {
	Name() string
	Schema() SchemaRef
}

// Accelerator is the narrow capability interface every engine-specific
// implementation satisfies: given a fully resolved descriptor, create (or
// attach) the backing table and return a provider usable by the query
// engine. Implementations must be safe for concurrent use.
type Accelerator interface {
	CreateExternalTable(ctx context.Context, descriptor ExternalTableDescriptor) (TableProvider, error)
}

// SecretStore resolves `${ store:key }` placeholders embedded in
// accelerator option values. `${ env:NAME }` is resolved directly from
// the process environment by the caller before reaching the store.
type SecretStore interface {
	Resolve(ctx context.Context, key string) (string, error)
}

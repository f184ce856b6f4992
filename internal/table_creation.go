package internal

import (
	"context"

	"github.com/lychee-technology/queryc"
)

// CreateAcceleratorTable resolves secrets into the acceleration params,
// derives an automatic upsert on_conflict from any primary-key
// constraint (unless the caller already specified one), seeds object
// storage from a local fixture when the spec asks for it, builds the
// descriptor and hands it to the registered accelerator for the spec's
// engine. Grounded on the original create_accelerator_table orchestration:
// lookup engine, inject secrets, build, delegate.
func CreateAcceleratorTable(
	ctx context.Context,
	registry *AcceleratorRegistry,
	secrets queryc.SecretStore,
	name string,
	schema queryc.SchemaRef,
	spec queryc.AccelerationSpec,
	dbCfg queryc.DatabaseConfig,
) (queryc.TableProvider, error) {
	accelerator, ok := registry.Get(spec.Engine)
	if !ok {
		return nil, queryc.NewUnknownEngineError(spec.Engine)
	}

	resolvedParams, err := resolveParams(ctx, secrets, spec.Params)
	if err != nil {
		return nil, queryc.NewInvalidConfigurationError("failed to resolve accelerator secrets: " + err.Error())
	}

	if spec.Mode == queryc.ModeFile {
		if localPath, destTmpl := resolvedParams["seed_local_path"], resolvedParams["s3_path_template"]; localPath != "" && destTmpl != "" {
			destURI, err := RenderS3ParquetPath(destTmpl, name)
			if err != nil {
				return nil, queryc.NewInvalidConfigurationError("failed to render seed destination: " + err.Error())
			}
			if err := SeedS3Object(ctx, dbCfg, localPath, destURI); err != nil {
				return nil, queryc.NewInvalidConfigurationError("failed to seed accelerator fixture: " + err.Error())
			}
		}
	}

	builder := NewExternalTableBuilder(name, schema, spec.Engine).
		Options(resolvedParams).
		Indexes(spec.Indexes)
	if spec.Mode != "" {
		builder = builder.Mode(spec.Mode)
	}

	onConflict := spec.OnConflict
	if onConflict == nil {
		if pk := primaryKeyColumns(spec.Constraints); len(pk) > 0 {
			onConflict = &queryc.OnConflictSpec{Action: queryc.OnConflictUpsert, Columns: pk}
		}
	}
	if onConflict != nil {
		builder = builder.OnConflict(onConflict)
	}
	if len(spec.Constraints) > 0 {
		builder = builder.Constraints(spec.Constraints)
	}

	descriptor, err := builder.Build()
	if err != nil {
		return nil, err
	}

	provider, err := accelerator.CreateExternalTable(ctx, descriptor)
	if err != nil {
		return nil, queryc.NewAccelerationCreationFailedError(err)
	}
	return provider, nil
}

// primaryKeyColumns flattens the column names of every PrimaryKey
// constraint in order of appearance.
func primaryKeyColumns(constraints []queryc.Constraint) []string {
	var cols []string
	for _, c := range constraints {
		if c.Kind == queryc.ConstraintPrimaryKey {
			cols = append(cols, c.Columns...)
		}
	}
	return cols
}

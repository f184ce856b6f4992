package internal

import (
	"bytes"
	"fmt"
	"text/template"
)

// RenderS3ParquetPath interpolates a Go template describing where an
// accelerated dataset's Parquet file lives in object storage, e.g.
// "s3://bucket/path/schema_{{.Dataset}}/data.parquet". Used by the DuckDB
// File-mode accelerator and by CreateAcceleratorTable's fixture seeding
// when an "s3_path_template" option is supplied instead of a literal path.
func RenderS3ParquetPath(tmpl string, dataset string) (string, error) {
	if tmpl == "" {
		return "", fmt.Errorf("template string is empty")
	}
	t, err := template.New("s3path").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, map[string]any{"Dataset": dataset}); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

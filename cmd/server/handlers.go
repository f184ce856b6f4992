package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lychee-technology/queryc"
	"github.com/lychee-technology/queryc/internal"
	"go.uber.org/zap"
)

// handleEndpointQuery handles GET /{endpoint_name}?columns=...&order=...&
// filter[col][op]=...&<alias>=... It is the only route the server exposes:
// every endpoint is reached through the same handler, dispatched on the
// path segment alone.
func (s *Server) handleEndpointQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		internal.WriteError(w, queryc.NewRequestMalformedError(queryc.ErrCodeNotValidStatement, "method not allowed"))
		return
	}

	name, err := parseEndpointPath(r.URL.Path)
	if err != nil {
		internal.WriteError(w, queryc.NewRequestMalformedError(queryc.ErrCodeNotValidStatement, err.Error()))
		return
	}

	endpoint, ok := s.app.Endpoints.Get(name)
	if !ok {
		internal.WriteError(w, queryc.NewEndpointMissingError(name))
		return
	}

	ctx := r.Context()
	parseStart := time.Now()
	pq, err := internal.ParseQueryParams(flattenQuery(r.URL.Query()), endpoint)
	internal.EmitLatency(ctx, "parse", time.Since(parseStart).Milliseconds())
	if err != nil {
		internal.EmitQueryOutcome(ctx, endpoint.Name, "malformed")
		internal.WriteError(w, err)
		return
	}

	schema, err := s.app.Engine.ResolveSchema(ctx, endpoint.Dataset)
	if err != nil {
		zap.S().Errorw("resolve schema failed", "endpoint", endpoint.Name, "dataset", endpoint.Dataset, "err", err)
		internal.EmitQueryOutcome(ctx, endpoint.Name, "error")
		internal.WriteError(w, queryc.NewSchemaUnavailableError(err))
		return
	}

	compileStart := time.Now()
	sqlText, err := s.app.Compiler.Compile(endpoint, pq, schema)
	internal.EmitLatency(ctx, "compile", time.Since(compileStart).Milliseconds())
	if err != nil {
		internal.EmitQueryOutcome(ctx, endpoint.Name, "malformed")
		internal.WriteError(w, err)
		return
	}

	if s.logQueries {
		zap.S().Infow("compiled query", "endpoint", endpoint.Name, "sql", sqlText)
	}

	execStart := time.Now()
	batch, err := s.app.Engine.Execute(ctx, sqlText)
	internal.EmitLatency(ctx, "execute", time.Since(execStart).Milliseconds())
	if err != nil {
		zap.S().Errorw("execute query failed", "endpoint", endpoint.Name, "dataset", endpoint.Dataset, "err", err)
		internal.EmitQueryOutcome(ctx, endpoint.Name, "error")
		internal.WriteError(w, queryc.NewSchemaUnavailableError(err))
		return
	}

	internal.EmitRowCount(ctx, endpoint.Name, int64(len(batch.Rows)))
	internal.EmitQueryOutcome(ctx, endpoint.Name, "ok")
	internal.WriteRecordBatch(w, batch)
}

// parseEndpointPath extracts the endpoint name from a request path of the
// form "/{endpoint_name}".
func parseEndpointPath(path string) (string, error) {
	name := strings.Trim(path, "/")
	if name == "" {
		return "", fmt.Errorf("invalid path: empty endpoint name")
	}
	if strings.Contains(name, "/") {
		return "", fmt.Errorf("invalid path: expected a single endpoint segment")
	}
	return name, nil
}

// flattenQuery collapses url.Values to a single value per key, matching
// the source grammar where every recognized parameter is scalar.
func flattenQuery(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) == 0 {
			continue
		}
		out[k] = v[0]
	}
	return out
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.app.HealthCheck(r.Context()); err != nil {
		internal.WriteError(w, queryc.NewSchemaUnavailableError(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lychee-technology/queryc"
	"github.com/lychee-technology/queryc/factory"
	"github.com/lychee-technology/queryc/internal"
)

type fakeQueryEngine struct {
	schema    queryc.SchemaRef
	schemaErr error
	batch     *queryc.RecordBatch
	execErr   error
	lastSQL   string
}

func (f *fakeQueryEngine) ResolveSchema(ctx context.Context, dataset string) (queryc.SchemaRef, error) {
	return f.schema, f.schemaErr
}

func (f *fakeQueryEngine) Execute(ctx context.Context, sql string) (*queryc.RecordBatch, error) {
	f.lastSQL = sql
	if f.execErr != nil {
		return nil, f.execErr
	}
	return f.batch, nil
}

func testEndpoint() queryc.Endpoint {
	return queryc.Endpoint{
		Name:           "sales",
		Dataset:        "orders",
		DefaultColumns: []string{"region"},
	}
}

func newTestServer(engine *fakeQueryEngine) *Server {
	app := &factory.App{
		Endpoints: queryc.NewEndpointStore([]queryc.Endpoint{testEndpoint()}),
		Compiler:  internal.NewCompiler(queryc.CompatConfig{}),
		Engine:    engine,
	}
	s := NewServer(app, false)
	s.RegisterRoutes()
	return s
}

func TestHandleEndpointQuerySuccess(t *testing.T) {
	engine := &fakeQueryEngine{
		schema: queryc.SchemaRef{Columns: []queryc.ColumnDef{{Name: "region", DataType: queryc.ValueTypeText}}},
		batch:  &queryc.RecordBatch{Columns: []string{"region"}, Rows: []map[string]any{{"region": "US"}}},
	}
	s := newTestServer(engine)

	req := httptest.NewRequest(http.MethodGet, "/sales", nil)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var rows []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(rows) != 1 || rows[0]["region"] != "US" {
		t.Fatalf("unexpected body: %+v", rows)
	}
}

func TestHandleEndpointQueryUnknownEndpoint(t *testing.T) {
	s := newTestServer(&fakeQueryEngine{})

	req := httptest.NewRequest(http.MethodGet, "/bogus", nil)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleEndpointQuerySchemaUnavailable(t *testing.T) {
	s := newTestServer(&fakeQueryEngine{schemaErr: context.DeadlineExceeded})

	req := httptest.NewRequest(http.MethodGet, "/sales", nil)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestHandleEndpointQueryUnknownColumn(t *testing.T) {
	engine := &fakeQueryEngine{
		schema: queryc.SchemaRef{Columns: []queryc.ColumnDef{{Name: "region", DataType: queryc.ValueTypeText}}},
	}
	s := newTestServer(engine)

	req := httptest.NewRequest(http.MethodGet, "/sales?columns=bogus", nil)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&fakeQueryEngine{})
	s.app.DuckDB = nil

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 with nil duckdb client, got %d", rec.Code)
	}
}

func TestParseEndpointPath(t *testing.T) {
	if _, err := parseEndpointPath("/"); err == nil {
		t.Fatal("expected error for empty path")
	}
	if _, err := parseEndpointPath("/a/b"); err == nil {
		t.Fatal("expected error for nested path")
	}
	name, err := parseEndpointPath("/sales")
	if err != nil || name != "sales" {
		t.Fatalf("unexpected result: %q, %v", name, err)
	}
}

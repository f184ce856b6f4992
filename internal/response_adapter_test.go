package internal

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/lychee-technology/queryc"
)

func TestWriteRecordBatch(t *testing.T) {
	rec := httptest.NewRecorder()
	batch := &queryc.RecordBatch{Columns: []string{"region"}, Rows: []map[string]any{{"region": "US"}}}
	WriteRecordBatch(rec, batch)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var rows []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(rows) != 1 || rows[0]["region"] != "US" {
		t.Fatalf("unexpected body: %+v", rows)
	}
}

func TestWriteErrorMalformed(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, queryc.NewRequestMalformedError(queryc.ErrCodeFieldNotFound, "The field bogus does not exist"))
	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body MessageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Message != "The field bogus does not exist" {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestWriteErrorNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, queryc.NewEndpointMissingError("sales"))
	if rec.Code != 404 {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestWriteErrorMaskedInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, queryc.NewSchemaUnavailableError(nil))
	if rec.Code != 500 {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body MessageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Message != "Please, contact us" {
		t.Fatalf("expected masked message, got %q", body.Message)
	}
}

func TestWriteErrorUnknownErrorIsMasked(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errUnexpected{})
	if rec.Code != 500 {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

type errUnexpected struct{}

func (errUnexpected) Error() string { return "boom" }

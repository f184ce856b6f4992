package internal

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lychee-technology/queryc"
)

// MessageResponse is the JSON shape of every non-2xx response body.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteRecordBatch writes a successful 200 response with the record
// batch's rows as a JSON array, matching the original REST handler's
// plain-array response shape.
func WriteRecordBatch(w http.ResponseWriter, batch *queryc.RecordBatch) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	rows := batch.Rows
	if rows == nil {
		rows = []map[string]any{}
	}
	_ = json.NewEncoder(w).Encode(rows)
}

// WriteError maps a compiler-produced error to its HTTP status and a
// `{"message": "..."}` body. Errors outside the QuerycError taxonomy are
// treated as internal and masked.
func WriteError(w http.ResponseWriter, err error) {
	status, message := classifyError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(MessageResponse{Message: message})
}

func classifyError(err error) (int, string) {
	var qe *queryc.QuerycError
	if !errors.As(err, &qe) {
		return http.StatusInternalServerError, "Please, contact us"
	}

	switch qe.Type {
	case queryc.ErrorTypeMalformed:
		return http.StatusBadRequest, qe.Message
	case queryc.ErrorTypeNotFound:
		return http.StatusNotFound, qe.Message
	case queryc.ErrorTypeUnavailable, queryc.ErrorTypeMisconfigured:
		return http.StatusInternalServerError, qe.Message
	case queryc.ErrorTypeInvalidConfig, queryc.ErrorTypeCreationFailed, queryc.ErrorTypeUnknownEngine:
		return http.StatusInternalServerError, qe.Message
	default:
		return http.StatusInternalServerError, "Please, contact us"
	}
}

// Package httpapi exposes the storefront over a JSON HTTP API.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/fairyhunter13/storefront-simulator/internal/obs"
)

// errorBody is the payload of every non-2xx response. RequestID repeats the
// X-Request-Id header so a client can quote it from the body alone.
type errorBody struct {
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteJSONError writes code as the error string, with optional details.
func WriteJSONError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, errorBody{
		Error:     code,
		Details:   details,
		RequestID: w.Header().Get(requestIDHeader),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.Logger.Warn("response_encode_failed", "status", status, "error", err)
	}
}

package web

import (
	"encoding/json"
	"net/http"

	"eprfee/internal/logging"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// respondError logs the technical error server-side and returns a JSON
// error envelope to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	logger := logging.FromContext(r.Context())
	if err != nil {
		logger.Error("request error",
			"path", r.URL.Path,
			"method", r.Method,
			"status", status,
			"error", err.Error(),
		)
	} else {
		logger.Error("request error",
			"path", r.URL.Path,
			"method", r.Method,
			"status", status,
			"message", message,
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON encodes v as JSON. Encoding errors are logged since headers
// are already sent.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}

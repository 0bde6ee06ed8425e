package utils

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/username/expensio/backend/src/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteJSON writes data as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		if logger.L != nil {
			logger.L.Error("Failed to encode JSON response", "error", err)
		}
	}
}

// SendJSONError is a helper function to send JSON formatted error responses.
func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if logger.L != nil { // Check if logger is initialized
		logger.L.Warn("Sending JSON error to client", "message", message, "statusCode", statusCode)
	}
	// Even if logger isn't ready, still try to send the error response
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// SendJSONErrorWithDetail sends a generic message plus the raw error
// string. The detail echo mirrors the service's documented 500 payload;
// it is a diagnostic aid, not a security control.
func SendJSONErrorWithDetail(w http.ResponseWriter, message string, err error, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if logger.L != nil {
		logger.L.Warn("Sending JSON error to client", "message", message, "detail", err, "statusCode", statusCode)
	}
	json.NewEncoder(w).Encode(map[string]string{"error": message, "detail": err.Error()})
}

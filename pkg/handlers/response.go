package handlers

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse writes the shared JSON error envelope (error code plus a
// human-readable message) every agentbase-engine endpoint returns on failure.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON success response. Import results, listings, and
// events are all returned through here so the Content-Type handling stays
// in one place.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

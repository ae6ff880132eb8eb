// Package httpapi holds the JSON response conventions shared by every API
// controller.
package httpapi

import (
	"encoding/json"
	"net/http"
)

// ErrorEnvelope is the error body returned by all API endpoints. Code is a
// stable machine-readable identifier; Meta carries request correlation data
// such as the request id.
type ErrorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	if message == "" {
		message = http.StatusText(status)
	}
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// Package render writes JSON responses and maps service errors to status
// codes for the HTTP handlers.
package render

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/cashtrack/internal/apiclient"
)

const ConnectionMessage = "connection error"

type errorResponse struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorResponse{Error: msg})
}

// Fail answers with 400 when err wraps one of validation, with the remote
// status and message for API rejections, 502 when the API is unreachable
// and 500 otherwise.
func Fail(w http.ResponseWriter, err error, validation ...error) {
	for _, target := range validation {
		if errors.Is(err, target) {
			Error(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case apiclient.KindApplication:
			Error(w, apiErr.Status, apiErr.Message)
			return
		case apiclient.KindConnection:
			Error(w, http.StatusBadGateway, ConnectionMessage)
			return
		}
	}

	slog.Error("request failed", "error", err)
	Error(w, http.StatusInternalServerError, "internal error")
}

// Decode reads a JSON body into v, answering 400 on failure.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}

	return true
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/logger"
)

const codeUnauthenticated = "UNAUTHENTICATED"

type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// statusFor maps an error code to its HTTP status.
func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeInvalidStateTransition:
		return http.StatusConflict
	case domain.CodeStorageFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError renders err as {message, code}. Storage failures are logged
// and their detail withheld from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.CodeOf(err)
	status := statusFor(code)

	message := "Failed to process request"
	var de *domain.Error
	if code != domain.CodeStorageFailure && errors.As(err, &de) {
		message = de.Message
	}
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Message: message, Code: string(code)})
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, errorResponse{Message: message, Code: codeUnauthenticated})
}

// Package api exposes the JSON HTTP surface: request decoding, response
// shaping, and the mapping from domain errors to status codes.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"taskhub/internal/domain"
)

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusForError maps a domain error to an HTTP status. Unrecognized errors
// are internal; their detail never reaches the client.
func statusForError(err error) int {
	var (
		authErr    *domain.AuthError
		denied     *domain.AccessDeniedError
		selfDel    *domain.SelfDeletionError
		notFound   *domain.NotFoundError
		validation *domain.ValidationError
		conflict   *domain.ConflictError
	)
	switch {
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &denied), errors.As(err, &selfDel):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &conflict):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as a JSON error response. Internal errors are
// logged server-side and replaced with a generic message.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		message = "internal server error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Code: status, Message: message})
}

package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/logger"
	"github.com/abeleng/shemeta/internal/metrics"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response. Retryable marks failures the
// client may simply repeat.
type ErrorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// encodeBuffers are reused across responses; large dashboards are encoded once
// before the status line is written so an encode failure can still become a 500.
var encodeBuffers = sync.Pool{
	New: func() interface{} { return bytes.NewBuffer(make([]byte, 0, ResponseBufferBytes)) },
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := encodeBuffers.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		encodeBuffers.Put(buf)
	}()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"` + ErrMsgGenericServerError + `"}` + "\n"))
		return
	}

	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs a failed service call and writes the mapped response
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgServiceError, "operation", opName, "error", err)
	} else {
		log.Info(LogMsgServiceError, "operation", opName, "status", status, "error", err)
	}
	respondJSON(w, status, ErrorResponse{Error: msg, Retryable: domain.IsRetryable(err)})
}

// respondOfferError additionally counts lifecycle rejections
func respondOfferError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	metrics.RecordOfferRejection(err)
	respondServiceError(w, r, opName, err)
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgNotFoundError       = "Resource not found"
	ErrMsgForbiddenError      = "You are not allowed to do that"
	ErrMsgDuplicateOfferError = "An active offer already exists for this farmer and requirement"
	ErrMsgOfferClosedError    = "This offer can no longer change state"
	ErrMsgConflictError       = "The offer was changed by someone else. Please retry."
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses.
// Validation and not-found errors carry their own detail, which is safe to show.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrMsgNotFoundError
	case errors.Is(err, domain.ErrDuplicateOffer):
		return http.StatusConflict, ErrMsgDuplicateOfferError
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, ErrMsgOfferClosedError
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden, ErrMsgForbiddenError
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, ErrMsgConflictError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}

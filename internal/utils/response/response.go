// Package response provides helpers for writing consistent JSON HTTP
// responses.
//
// Success responses may return any JSON shape (a record, a list, ...).
// Error responses always use the same envelope:
//
//	{ "status": 404, "currentDateTime": "19-10-2026 10:15:00", "message": "student not found with id: 3" }
//
// and every failure goes through Error, the single place where error
// kinds become status codes.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/records-api/internal/apperror"
	"github.com/aanand-mishra/records-api/internal/mapper"
)

// Envelope is the body of every error response.
type Envelope struct {
	Status          int    `json:"status"`
	CurrentDateTime string `json:"currentDateTime"`
	Message         string `json:"message"`
}

// internalMessage replaces the text of errors that are not domain
// failures, so store or driver details never reach clients.
const internalMessage = "internal server error"

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// Translator maps errors to status codes and envelopes.
type Translator struct {
	// Legacy selects the historical codes: 302 for AlreadyExists and 500
	// for request-shape failures.
	Legacy bool

	// Now is the clock used for CurrentDateTime.
	Now func() time.Time

	// Layout formats CurrentDateTime.
	Layout string
}

// NewTranslator returns a Translator stamping envelopes with the wire
// date-time pattern.
func NewTranslator(legacy bool) Translator {
	return Translator{Legacy: legacy, Now: time.Now, Layout: mapper.DateTimeLayout}
}

// StatusCode returns the HTTP status for a failure kind.
func (t Translator) StatusCode(kind apperror.Kind) int {
	switch kind {
	case apperror.NotFound:
		return http.StatusNotFound
	case apperror.AlreadyExists:
		if t.Legacy {
			return http.StatusFound
		}
		return http.StatusConflict
	case apperror.InvalidRequest, apperror.IdentifierMismatch, apperror.MalformedDate:
		if t.Legacy {
			return http.StatusInternalServerError
		}
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Envelope builds the error body for status and message.
func (t Translator) Envelope(status int, message string) Envelope {
	return Envelope{
		Status:          status,
		CurrentDateTime: t.Now().Format(t.Layout),
		Message:         message,
	}
}

// Error classifies err, logs it and writes the envelope.
func (t Translator) Error(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperror.KindOf(err)
	status := t.StatusCode(kind)

	message := internalMessage
	var ae *apperror.Error
	if errors.As(err, &ae) {
		message = ae.Message
	}

	attrs := []any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("kind", kind.String()),
		slog.String("error", err.Error()),
	}
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", attrs...)
	} else {
		slog.Info("request rejected", attrs...)
	}

	_ = WriteJSON(w, status, t.Envelope(status, message))
}

// Write writes an envelope for a failure that did not come from the
// service layer (undecodable body, bad path parameter).
func (t Translator) Write(w http.ResponseWriter, status int, message string) {
	_ = WriteJSON(w, status, t.Envelope(status, message))
}

// ValidationError converts a slice of validator.FieldError values into a
// single human-readable message.
//
// Example output:
//
//	field FirstName is required, field Age is invalid
func ValidationError(errs validator.ValidationErrors) string {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "gte":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be at least %s", e.Field(), e.Param()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return strings.Join(errMessages, ", ")
}

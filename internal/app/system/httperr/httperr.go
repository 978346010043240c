// Package httperr defines the domain error taxonomy and renders errors
// as JSON responses.
//
// Handlers return or map to one of the sentinel kinds below; Write
// translates them to the route contract's status codes. Anything
// unrecognized is treated as an internal error: the full detail is
// logged server-side and the client receives a generic message.
package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Sentinel errors for the API's failure modes.
var (
	ErrMissingToken         = errors.New("no token provided")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token expired")
	ErrNotFound             = errors.New("not found")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrPayloadTooLarge      = errors.New("payload too large")
	ErrStorageConflict      = errors.New("storage conflict")
	ErrStorageUnavailable   = errors.New("storage unavailable")
)

// ValidationError reports caller-supplied data that is missing or malformed.
type ValidationError struct {
	Fields []string // names of the offending fields, may be empty
	Msg    string
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("missing required fields: %v", e.Fields)
}

// NewValidation builds a ValidationError for the given missing fields.
func NewValidation(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// response is the JSON error body sent to clients.
type response struct {
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// Write maps err to a status code and writes the JSON error body.
// Internal errors are logged with full detail; the client only sees a
// generic message.
func Write(w http.ResponseWriter, log *zap.Logger, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, response{Message: ve.Error(), Fields: ve.Fields})
		return
	}

	switch {
	case errors.Is(err, ErrMissingToken):
		writeJSON(w, http.StatusUnauthorized, response{Message: "no token provided"})
	case errors.Is(err, ErrTokenExpired):
		writeJSON(w, http.StatusForbidden, response{Message: "token expired"})
	case errors.Is(err, ErrInvalidToken):
		writeJSON(w, http.StatusForbidden, response{Message: "invalid token"})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, response{Message: "not found"})
	case errors.Is(err, ErrUnsupportedMediaType):
		writeJSON(w, http.StatusBadRequest, response{Message: "unsupported media type: only JPEG, PNG and GIF are allowed"})
	case errors.Is(err, ErrPayloadTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, response{Message: "file too large"})
	case errors.Is(err, ErrStorageConflict):
		if log != nil {
			log.Error("upload name collision", zap.Error(err))
		}
		writeJSON(w, http.StatusConflict, response{Message: "storage conflict, retry the upload"})
	case errors.Is(err, ErrStorageUnavailable):
		if log != nil {
			log.Error("storage unavailable", zap.Error(err))
		}
		writeJSON(w, http.StatusServiceUnavailable, response{Message: "service temporarily unavailable"})
	default:
		if log != nil {
			log.Error("unhandled error", zap.Error(err))
		}
		writeJSON(w, http.StatusInternalServerError, response{Message: "something went wrong"})
	}
}

// NotFound writes a 404 with the given resource name in the message.
func NotFound(w http.ResponseWriter, resource string) {
	writeJSON(w, http.StatusNotFound, response{Message: resource + " not found"})
}

// Unauthorized writes a 401 with the given message.
func Unauthorized(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnauthorized, response{Message: msg})
}

// BadRequest writes a 400 with the given message.
func BadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, response{Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

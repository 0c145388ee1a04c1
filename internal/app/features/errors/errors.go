// internal/app/features/errors/errors.go
//
// Package errors is the terminal error-rendering stage. Every failure a
// handler detects funnels through one of these renderers so status codes
// and body shapes stay consistent across features:
//
//	401 NotAuthenticated  · 403 NotAuthorized (role or ownership)
//	404 NotFound          · 403 UnsupportedOperation (plain text)
//	400 ValidationFailure · 500 TransientStoreError
package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// body is the JSON error envelope.
type body struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func render(w http.ResponseWriter, status int, msg, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body{Status: status, Message: msg, Detail: detail})
}

// RenderUnauthorized writes a 401. challenge, when non-empty, is set as
// the WWW-Authenticate header for scheme negotiation.
func RenderUnauthorized(w http.ResponseWriter, challenge, msg string) {
	if challenge != "" {
		w.Header().Set("WWW-Authenticate", challenge)
	}
	render(w, http.StatusUnauthorized, msg, "")
}

// RenderForbidden writes a 403 for a role or ownership mismatch.
func RenderForbidden(w http.ResponseWriter, msg string) {
	render(w, http.StatusForbidden, msg, "")
}

// RenderNotFound writes a 404. The message should name the missing
// resource's id so clients can tell which lookup failed.
func RenderNotFound(w http.ResponseWriter, msg string) {
	render(w, http.StatusNotFound, msg, "")
}

// RenderBadRequest writes a 400 for input the store would reject.
func RenderBadRequest(w http.ResponseWriter, msg string) {
	render(w, http.StatusBadRequest, msg, "")
}

// RenderConflict writes a 409, used for uniqueness violations.
func RenderConflict(w http.ResponseWriter, msg string) {
	render(w, http.StatusConflict, msg, "")
}

// MethodNotSupported writes the plain-text 403 used by the endpoints that
// deliberately reject a verb on a collection or document.
func MethodNotSupported(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	fmt.Fprintf(w, "%s operation not supported on %s", r.Method, r.URL.Path)
}

// ErrorLogger renders 500s for transient store failures, logging the
// underlying error. Internal detail reaches the client only when the
// deployment is non-production.
type ErrorLogger struct {
	log           *zap.Logger
	includeDetail bool
}

// NewErrorLogger constructs an ErrorLogger. includeDetail should be true
// only outside production.
func NewErrorLogger(logger *zap.Logger, includeDetail bool) *ErrorLogger {
	return &ErrorLogger{log: logger, includeDetail: includeDetail}
}

// Internal logs err and writes a 500. msg is the client-safe summary.
func (e *ErrorLogger) Internal(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.log.Error(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))

	detail := ""
	if e.includeDetail && err != nil {
		detail = err.Error()
	}
	render(w, http.StatusInternalServerError, msg, detail)
}

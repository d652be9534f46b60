// internal/app/features/errors/errlog.go
package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger logs handler failures and renders the matching error page in
// one call, so handlers don't repeat the log-then-render dance.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger over the app logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError logs an internal failure at error level and shows the user
// a friendly page with the given message and back link.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, what string, err error, userMsg, backURL string) {
	e.log.Error(what,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))
	w.WriteHeader(http.StatusInternalServerError)
	RenderForbidden(w, r, userMsg, backURL)
}

// LogBadRequest logs a malformed request at warn level and shows the user a
// friendly page with the given message and back link.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, what string, err error, userMsg, backURL string) {
	e.log.Warn(what,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))
	w.WriteHeader(http.StatusBadRequest)
	RenderForbidden(w, r, userMsg, backURL)
}

// LogForbidden logs a denied action at warn level and shows the access
// denied page.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, what, userMsg, backURL string) {
	e.log.Warn(what,
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))
	w.WriteHeader(http.StatusForbidden)
	RenderForbidden(w, r, userMsg, backURL)
}

// HTMXLogServerError is LogServerError for HTMX requests: the status code
// plus an HX-Redirect to an error destination instead of a full page render.
func (e *ErrorLogger) HTMXLogServerError(w http.ResponseWriter, r *http.Request, what string, err error, userMsg, backURL string) {
	if r.Header.Get("HX-Request") != "true" {
		e.LogServerError(w, r, what, err, userMsg, backURL)
		return
	}
	e.log.Error(what,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))
	w.Header().Set("HX-Redirect", backURL)
	w.WriteHeader(http.StatusInternalServerError)
}

// HTMXLogBadRequest is LogBadRequest for HTMX requests.
func (e *ErrorLogger) HTMXLogBadRequest(w http.ResponseWriter, r *http.Request, what string, err error, userMsg, backURL string) {
	if r.Header.Get("HX-Request") != "true" {
		e.LogBadRequest(w, r, what, err, userMsg, backURL)
		return
	}
	e.log.Warn(what,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))
	w.Header().Set("HX-Redirect", backURL)
	w.WriteHeader(http.StatusBadRequest)
}

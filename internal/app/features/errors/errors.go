// Package errors recovers handler failures at the request boundary: every
// error becomes a structured log line plus a user-visible notice and a
// redirect to a sensible prior view. Nothing here is fatal to the process.
package errors

import (
	"net/http"

	"github.com/tdnguyen/phieutrinh/internal/app/system/auth"
	"go.uber.org/zap"
)

// ErrorLogger pairs a zap logger with the session manager used to queue
// the user-facing notice.
type ErrorLogger struct {
	log *zap.Logger
	sm  *auth.SessionManager
}

func NewErrorLogger(logger *zap.Logger, sm *auth.SessionManager) *ErrorLogger {
	return &ErrorLogger{log: logger, sm: sm}
}

// LogBadRequest handles malformed input: warn-level log, warning notice,
// redirect back.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Warn(logMsg, zap.Error(err), zap.String("path", r.URL.Path))
	e.notice(w, r, "warning", userMsg, backURL)
}

// LogNotFound handles lookups that matched nothing.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Info(logMsg, zap.Error(err), zap.String("path", r.URL.Path))
	e.notice(w, r, "warning", userMsg, backURL)
}

// LogServerError handles storage and other internal failures.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Error(logMsg, zap.Error(err), zap.String("path", r.URL.Path))
	e.notice(w, r, "danger", userMsg, backURL)
}

// LogForbidden handles authorization failures. Per the app's contract these
// are not hard errors: the caller lands on a prior view with a warning.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, logMsg, userMsg, backURL string) {
	e.log.Info(logMsg, zap.String("path", r.URL.Path))
	e.notice(w, r, "danger", userMsg, backURL)
}

func (e *ErrorLogger) notice(w http.ResponseWriter, r *http.Request, kind, userMsg, backURL string) {
	if e.sm != nil {
		e.sm.AddFlash(w, r, kind, userMsg)
	}
	if backURL == "" {
		backURL = "/"
	}
	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

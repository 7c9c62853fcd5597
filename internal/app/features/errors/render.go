// internal/app/features/errors/render.go
package errors

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/coursehub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Render writes status and an error page. htmx and JSON callers get a bare
// message instead of the full page.
func Render(w http.ResponseWriter, r *http.Request, status int, title, msg string) {
	switch {
	case wantsJSON(r):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
		return
	case r.Header.Get("HX-Request") != "":
		http.Error(w, msg, status)
		return
	}

	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, title, "/"),
		Status:  status,
		Message: msg,
	}
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", data)
}

// RenderNotFound shows a friendly 404 page. An empty msg uses the default.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "We couldn't find that page."
	}
	Render(w, r, http.StatusNotFound, "Not found", msg)
}

// ErrorLogger logs server-side failures and renders a generic 500.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// ServerError logs err with the request path and renders a 500 page
// showing userMsg.
func (e *ErrorLogger) ServerError(w http.ResponseWriter, r *http.Request, err error, userMsg string) {
	e.log.Error(userMsg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	Render(w, r, http.StatusInternalServerError, "Something went wrong", userMsg)
}

func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

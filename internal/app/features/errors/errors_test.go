package errors_test

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	errorsfeature "github.com/dalemusser/coursehub/internal/app/features/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// renderPage runs fn, tolerating the panic from an unbooted template engine.
func renderPage(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}

func TestRender_JSONForAPI(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
	rec := httptest.NewRecorder()

	errorsfeature.Render(rec, req, http.StatusBadRequest, "Bad request", "bad input")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "bad input" {
		t.Errorf("error: got %q", body["error"])
	}
}

func TestRender_HTMXGetsPlainMessage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/courses/nope/preview", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	errorsfeature.RenderNotFound(rec, req, "")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
	if got := rec.Body.String(); got != "We couldn't find that page.\n" {
		t.Errorf("body: got %q", got)
	}
}

func TestNotFound_SetsStatus(t *testing.T) {
	h := errorsfeature.NewHandler()
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()

	renderPage(func() { h.NotFound(rec, req) })

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestErrorLogger_LogsAndResponds(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	el := errorsfeature.NewErrorLogger(zap.New(core))

	req := httptest.NewRequest(http.MethodGet, "/api/thing", nil)
	rec := httptest.NewRecorder()
	el.ServerError(rec, req, stderrors.New("db down"), "Could not load courses.")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rec.Code)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["path"]; got != "/api/thing" {
		t.Errorf("logged path: got %v", got)
	}
}

package contact_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/coursehub/internal/app/features/contact"
	"github.com/dalemusser/coursehub/internal/app/system/contactrelay"
	"github.com/dalemusser/coursehub/internal/app/system/contactsvc"
	"github.com/dalemusser/coursehub/internal/app/system/ratelimit"
	"github.com/dalemusser/coursehub/internal/app/system/statusmsg"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/coursehub/internal/testutil"
	"go.uber.org/zap"
)

type stubRelay struct {
	calls int
	code  int
	err   error
}

func (s *stubRelay) Submit(context.Context, models.ContactMessage) (int, error) {
	s.calls++
	return s.code, s.err
}

func newTestHandler(t *testing.T, relay *stubRelay) *contact.Handler {
	t.Helper()
	logger := zap.NewNop()
	return contact.NewHandler(&contactsvc.Service{Relay: relay, Log: logger}, logger)
}

func renderPage(fn func()) {
	defer func() {
		// Template rendering may panic in tests without a booted engine.
		_ = recover()
	}()
	fn()
}

type apiResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

func postAPI(t *testing.T, h *contact.Handler, body string) (int, apiResult) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.HandleAPI(rec, testutil.NewJSONRequest("/api/contact", body))
	var res apiResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return rec.Code, res
}

func TestHandleAPI_Outcomes(t *testing.T) {
	valid := `{"name":"Ada","email":"ada@example.com","contact":"","message":"Hi"}`

	tests := []struct {
		name    string
		relay   *stubRelay
		body    string
		status  int
		message string
		calls   int
	}{
		{"sent", &stubRelay{code: 200}, valid, http.StatusOK, statusmsg.Sent, 1},
		{"missing", &stubRelay{code: 200}, `{"name":"Ada","email":"ada@example.com"}`, http.StatusUnprocessableEntity, statusmsg.MissingFields, 0},
		{"bad email", &stubRelay{code: 200}, `{"name":"Ada","email":"ada@","message":"Hi"}`, http.StatusUnprocessableEntity, statusmsg.InvalidEmail, 0},
		{"rejected", &stubRelay{code: 500, err: &contactrelay.RejectedError{StatusCode: 500}}, valid, http.StatusBadGateway, statusmsg.Failed, 1},
		{"network", &stubRelay{err: contactrelay.ErrTransport}, valid, http.StatusBadGateway, statusmsg.NetworkError, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, tt.relay)
			code, res := postAPI(t, h, tt.body)
			if code != tt.status {
				t.Errorf("status: got %d, want %d", code, tt.status)
			}
			if res.Message != tt.message {
				t.Errorf("message: got %q, want %q", res.Message, tt.message)
			}
			if res.OK != (tt.status == http.StatusOK) {
				t.Errorf("ok: got %v", res.OK)
			}
			if tt.relay.calls != tt.calls {
				t.Errorf("relay calls: got %d, want %d", tt.relay.calls, tt.calls)
			}
		})
	}
}

func TestHandleAPI_BadJSON(t *testing.T) {
	h := newTestHandler(t, &stubRelay{code: 200})
	code, res := postAPI(t, h, `{"name":`)
	if code != http.StatusBadRequest || res.OK {
		t.Errorf("got %d ok=%v, want 400", code, res.OK)
	}
}

func TestHandleAPI_RateLimited(t *testing.T) {
	relay := &stubRelay{code: 200}
	h := newTestHandler(t, relay)
	lim := ratelimit.New(1, time.Minute)
	defer lim.Stop()
	h.Service.Limiter = lim

	body := `{"name":"Ada","email":"ada@example.com","message":"Hi"}`
	if code, _ := postAPI(t, h, body); code != http.StatusOK {
		t.Fatalf("first submit: got %d", code)
	}
	code, res := postAPI(t, h, body)
	if code != http.StatusTooManyRequests {
		t.Errorf("second submit: got %d, want 429", code)
	}
	if res.Message != statusmsg.TooMany {
		t.Errorf("message: got %q", res.Message)
	}
	if relay.calls != 1 {
		t.Errorf("relay calls: got %d, want 1", relay.calls)
	}
}

func TestHandleSubmit_HTMXSetsTriggerOnSuccess(t *testing.T) {
	relay := &stubRelay{code: 200}
	h := newTestHandler(t, relay)

	req := testutil.HTMX(testutil.NewFormRequest("/contact", "name=Ada&email=ada%40example.com&message=Hi"), "form-status")
	rec := httptest.NewRecorder()
	renderPage(func() { h.HandleSubmit(rec, req) })

	if got := rec.Header().Get("HX-Trigger"); got != "contact-sent" {
		t.Errorf("HX-Trigger: got %q, want contact-sent", got)
	}
	if relay.calls != 1 {
		t.Errorf("relay calls: got %d, want 1", relay.calls)
	}
}

func TestHandleSubmit_InvalidSkipsRelay(t *testing.T) {
	relay := &stubRelay{code: 200}
	h := newTestHandler(t, relay)

	req := testutil.NewFormRequest("/contact", "name=&email=ada%40example.com&message=Hi")
	rec := httptest.NewRecorder()
	renderPage(func() { h.HandleSubmit(rec, req) })

	if relay.calls != 0 {
		t.Errorf("relay should not be called, got %d calls", relay.calls)
	}
	if rec.Header().Get("HX-Trigger") != "" {
		t.Error("no trigger expected on failure")
	}
}

func TestAPIRoutes_CORSPreflight(t *testing.T) {
	h := newTestHandler(t, &stubRelay{code: 200})
	router := contact.APIRoutes(h, []string{"https://luki.example"})

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://luki.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://luki.example" {
		t.Errorf("Allow-Origin: got %q", got)
	}
	if !strings.Contains(rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost) {
		t.Errorf("Allow-Methods: got %q", rec.Header().Get("Access-Control-Allow-Methods"))
	}
}

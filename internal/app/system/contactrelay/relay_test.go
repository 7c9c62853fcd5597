package contactrelay_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/coursehub/internal/app/system/contactrelay"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.uber.org/zap"
)

var msg = models.ContactMessage{
	RequestID: "req-1",
	Name:      "Ada",
	Email:     "ada@example.com",
	Contact:   "",
	Message:   "Hello",
}

func TestSubmit_Success(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := contactrelay.New(srv.URL, zap.NewNop())
	code, err := c.Submit(context.Background(), msg)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if code != http.StatusOK {
		t.Errorf("code = %d", code)
	}

	want := map[string]string{"name": "Ada", "email": "ada@example.com", "contact": "", "message": "Hello"}
	if len(got) != len(want) {
		t.Fatalf("payload = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("payload[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestSubmit_Rejected(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		c := contactrelay.New(srv.URL, nil)
		code, err := c.Submit(context.Background(), msg)
		srv.Close()

		if !errors.Is(err, contactrelay.ErrRejected) {
			t.Errorf("status %d: err = %v, want ErrRejected", status, err)
		}
		if errors.Is(err, contactrelay.ErrTransport) {
			t.Errorf("status %d: rejection must not be a transport error", status)
		}
		if code != status || contactrelay.StatusCode(err) != status {
			t.Errorf("status %d: code = %d, StatusCode(err) = %d", status, code, contactrelay.StatusCode(err))
		}
	}
}

func TestSubmit_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := contactrelay.New(url, zap.NewNop())
	_, err := c.Submit(context.Background(), msg)
	if !errors.Is(err, contactrelay.ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", err)
	}
}

func TestSubmit_TimeoutIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := contactrelay.New(srv.URL, zap.NewNop(), contactrelay.WithTimeout(50*time.Millisecond))
	_, err := c.Submit(context.Background(), msg)
	if !errors.Is(err, contactrelay.ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", err)
	}
}

func TestSubmit_NoRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := contactrelay.New(srv.URL, zap.NewNop())
	_, _ = c.Submit(context.Background(), msg)
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("endpoint called %d times, want 1", n)
	}
}

func TestSubmit_NoEndpoint(t *testing.T) {
	c := contactrelay.New("", zap.NewNop())
	_, err := c.Submit(context.Background(), msg)
	if !errors.Is(err, contactrelay.ErrNoEndpoint) {
		t.Fatalf("err = %v, want ErrNoEndpoint", err)
	}
}

package navigation_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dalemusser/coursehub/internal/app/system/navigation"
)

func TestSafeBackURL(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		form    url.Values
		referer string
		want    string
	}{
		{"fallback", "/prefs/sidebar", nil, "", "/"},
		{"query", "/prefs/sidebar?return=/courses", nil, "", "/courses"},
		{"form", "/prefs/sidebar", url.Values{"return": {"/contact"}}, "", "/contact"},
		{"referer", "/prefs/sidebar", nil, "http://example.com/courses?q=go", "/courses?q=go"},
		{"foreign referer", "/prefs/sidebar", nil, "http://evil.test/courses", "/"},
		{"absolute return", "/prefs/sidebar?return=https://evil.test/", nil, "", "/"},
		{"excluded", "/prefs/sidebar?return=/prefs/sidebar", nil, "", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r *http.Request
			if tt.form != nil {
				r = httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader(tt.form.Encode()))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			} else {
				r = httptest.NewRequest(http.MethodPost, tt.target, nil)
			}
			if tt.referer != "" {
				r.Header.Set("Referer", tt.referer)
			}
			if got := navigation.SafeBackURL(r, navigation.PageBackURL); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSafeBackURL_AllowedPrefix(t *testing.T) {
	opts := navigation.BackURLOptions{AllowedPrefix: "/courses", Fallback: "/courses"}
	r := httptest.NewRequest(http.MethodGet, "/x?return=/contact", nil)
	if got := navigation.SafeBackURL(r, opts); got != "/courses" {
		t.Errorf("got %q, want /courses", got)
	}
}

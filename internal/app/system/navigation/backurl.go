// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/courses").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedPrefixes are paths that never make sense to land on after a
	// redirect (form endpoints, the API, the websocket).
	ExcludedPrefixes []string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string
}

// SafeBackURL extracts and validates a return URL from the request.
//
// It checks the "return" query parameter, then the form value, then the
// Referer when it points at this host. Only local paths survive
// urlutil.SafeReturn, so the result is never an open redirect.
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	candidates := []string{
		query.Get(r, "return"),
		strings.TrimSpace(r.FormValue("return")),
		localReferer(r),
	}
	for _, c := range candidates {
		ret := urlutil.SafeReturn(c, "", "")
		if ret != "" && allowed(ret, opts) {
			return ret
		}
	}
	if opts.Fallback == "" {
		return "/"
	}
	return opts.Fallback
}

func allowed(ret string, opts BackURLOptions) bool {
	if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
		return false
	}
	for _, excluded := range opts.ExcludedPrefixes {
		if strings.HasPrefix(ret, excluded) {
			return false
		}
	}
	return true
}

// localReferer returns the path and query of the Referer when it names the
// request's own host, and "" otherwise.
func localReferer(r *http.Request) string {
	ref := r.Referer()
	if ref == "" {
		return ""
	}
	for _, scheme := range []string{"http://", "https://"} {
		prefix := scheme + r.Host
		if strings.HasPrefix(ref, prefix) {
			rest := strings.TrimPrefix(ref, prefix)
			if rest == "" || strings.HasPrefix(rest, "/") {
				return rest
			}
		}
	}
	return ""
}

// PageBackURL returns to any page after a preference change.
var PageBackURL = BackURLOptions{
	ExcludedPrefixes: []string{"/prefs", "/api/", "/live", "/static/"},
	Fallback:         "/",
}

// internal/app/system/limits/limits.go
package limits

// Request body size limits. Handlers wrap r.Body with http.MaxBytesReader.
const (
	// MaxContactFormSize bounds the contact form post and the JSON endpoint.
	// The four fields together are capped well below this by validation.
	MaxContactFormSize = 64 << 10 // 64 KB

	// MaxPrefsFormSize bounds the sidebar preference post.
	MaxPrefsFormSize = 4 << 10 // 4 KB

	// MaxLiveMessageSize bounds one websocket message from the page.
	MaxLiveMessageSize = 16 << 10 // 16 KB
)

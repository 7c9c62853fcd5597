// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
)

// AppConfig holds service-specific configuration for coursehub.
//
// Values come from environment variables (COURSEHUB_*), config files, or
// command-line flags, loaded in LoadConfig. WAFFLE's CoreConfig carries the
// framework settings (ports, TLS, logging, body limits); everything here is
// specific to this app.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Preference cookie and CSRF signing
	SessionKey    string // must be strong in production
	SessionName   string // cookie name for the sidebar preference
	SessionDomain string // blank means current host

	SiteName string

	// Contact relay
	ContactEndpoint   string        // remote submission URL; blank disables sending
	ContactTimeout    time.Duration // per-submission deadline
	ContactRateLimit  int           // submissions per window per client; 0 disables
	ContactRateWindow time.Duration

	// Optional Redis for a shared contact rate limit
	RedisAddr     string
	RedisPassword string

	// Catalog seed file (YAML). Blank uses the embedded default catalog.
	CatalogFile string

	// Interaction timings
	SearchDebounce  time.Duration
	ModalAutoClose  time.Duration
	StatusAutoClear time.Duration
	PopupAutoHide   time.Duration
	CounterDuration time.Duration

	// Store deadlines, passed to timeouts.Configure. Zero keeps the default.
	DBTimeouts timeouts.Config

	// Origins allowed to call /api/contact cross-site.
	CORSOrigins []string
	// Accept websocket upgrades from any origin (dev only).
	AllowAnyOrigin bool
	// Take the client IP from X-Forwarded-For / X-Real-IP. Only enable
	// behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}

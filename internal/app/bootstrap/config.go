// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/coursehub/internal/app/system/inputval"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for coursehub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, contact_endpoint, etc.
//   - Environment variables: COURSEHUB_MONGO_URI, COURSEHUB_CONTACT_ENDPOINT, etc.
//   - Command-line flags: --mongo_uri, --contact_endpoint, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "coursehub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 50, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Cookie and CSRF signing key (must be strong in production)"},
	{Name: "session_name", Default: "coursehub-prefs", Desc: "Preference cookie name"},
	{Name: "session_domain", Default: "", Desc: "Preference cookie domain (blank means current host)"},
	{Name: "site_name", Default: models.DefaultSiteName, Desc: "Site name shown in titles and the sidebar"},

	// Contact relay
	{Name: "contact_endpoint", Default: "", Desc: "Remote endpoint that receives contact submissions (blank disables sending)"},
	{Name: "contact_timeout", Default: "10s", Desc: "Deadline for one contact submission"},
	{Name: "contact_rate_limit", Default: 5, Desc: "Contact submissions allowed per client per window (0 disables)"},
	{Name: "contact_rate_window", Default: "1m", Desc: "Contact rate limit window"},

	// Redis (optional, shared rate limit)
	{Name: "redis_addr", Default: "", Desc: "Redis address for a shared contact rate limit (blank uses memory)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},

	// Catalog
	{Name: "catalog_file", Default: "", Desc: "YAML catalog used to seed an empty courses collection (blank uses the built-in catalog)"},

	// Interaction timings
	{Name: "search_debounce", Default: "250ms", Desc: "Search input debounce"},
	{Name: "modal_autoclose", Default: "1200ms", Desc: "Delay before a confirmed enrollment closes the preview"},
	{Name: "status_autoclear", Default: "5s", Desc: "Delay before the contact status line clears"},
	{Name: "popup_autohide", Default: "3s", Desc: "Delay before the dashboard enroll popup hides"},
	{Name: "counter_duration", Default: "1200ms", Desc: "Dashboard counter animation length"},

	// Store deadlines
	{Name: "db_timeout_ping", Default: "2s", Desc: "Deadline for the health check ping"},
	{Name: "db_timeout_short", Default: "5s", Desc: "Deadline for single-document reads and writes"},
	{Name: "db_timeout_medium", Default: "10s", Desc: "Deadline for lists and counts"},
	{Name: "db_timeout_long", Default: "30s", Desc: "Deadline for startup work such as seeding"},

	// Cross-origin access
	{Name: "cors_origins", Default: "", Desc: "Comma-separated origins allowed to call /api/contact"},
	{Name: "allow_any_origin", Default: false, Desc: "Accept websocket connections from any origin (dev only)"},
	{Name: "trust_proxy_headers", Default: false, Desc: "Use X-Forwarded-For/X-Real-IP for the client IP (only behind a trusted proxy)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// COURSEHUB_* environment variables and flags, with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "COURSEHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SiteName:         appValues.String("site_name"),

		ContactEndpoint:   strings.TrimSpace(appValues.String("contact_endpoint")),
		ContactTimeout:    appValues.Duration("contact_timeout", 10*time.Second),
		ContactRateLimit:  appValues.Int("contact_rate_limit"),
		ContactRateWindow: appValues.Duration("contact_rate_window", time.Minute),

		RedisAddr:     strings.TrimSpace(appValues.String("redis_addr")),
		RedisPassword: appValues.String("redis_password"),

		CatalogFile: strings.TrimSpace(appValues.String("catalog_file")),

		SearchDebounce:  appValues.Duration("search_debounce", 250*time.Millisecond),
		ModalAutoClose:  appValues.Duration("modal_autoclose", 1200*time.Millisecond),
		StatusAutoClear: appValues.Duration("status_autoclear", 5*time.Second),
		PopupAutoHide:   appValues.Duration("popup_autohide", 3*time.Second),
		CounterDuration: appValues.Duration("counter_duration", 1200*time.Millisecond),

		DBTimeouts: timeouts.Config{
			Ping:   appValues.Duration("db_timeout_ping", timeouts.DefaultPing),
			Short:  appValues.Duration("db_timeout_short", timeouts.DefaultShort),
			Medium: appValues.Duration("db_timeout_medium", timeouts.DefaultMedium),
			Long:   appValues.Duration("db_timeout_long", timeouts.DefaultLong),
		},

		CORSOrigins:       splitList(appValues.String("cors_origins")),
		AllowAnyOrigin:    appValues.Bool("allow_any_origin"),
		TrustProxyHeaders: appValues.Bool("trust_proxy_headers"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI and the contact endpoint are checked before anything
// connects so a typo fails startup with a clear message.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateApp(coreCfg.Env, appCfg)
}

func validateApp(env string, appCfg AppConfig) error {
	var problems []string

	if appCfg.ContactEndpoint != "" && !inputval.IsValidHTTPURL(appCfg.ContactEndpoint) {
		problems = append(problems, fmt.Sprintf("contact_endpoint %q is not an http(s) URL", appCfg.ContactEndpoint))
	}
	if env == "prod" && len(appCfg.SessionKey) < 32 {
		problems = append(problems, "session_key must be at least 32 characters in prod")
	}
	if env == "prod" && appCfg.AllowAnyOrigin {
		problems = append(problems, "allow_any_origin must be false in prod")
	}
	if appCfg.ContactRateLimit < 0 {
		problems = append(problems, "contact_rate_limit must not be negative")
	}

	durations := []struct {
		name string
		d    time.Duration
	}{
		{"contact_timeout", appCfg.ContactTimeout},
		{"contact_rate_window", appCfg.ContactRateWindow},
		{"search_debounce", appCfg.SearchDebounce},
		{"modal_autoclose", appCfg.ModalAutoClose},
		{"status_autoclear", appCfg.StatusAutoClear},
		{"popup_autohide", appCfg.PopupAutoHide},
		{"counter_duration", appCfg.CounterDuration},
		{"db_timeout_ping", appCfg.DBTimeouts.Ping},
		{"db_timeout_short", appCfg.DBTimeouts.Short},
		{"db_timeout_medium", appCfg.DBTimeouts.Medium},
		{"db_timeout_long", appCfg.DBTimeouts.Long},
	}
	for _, d := range durations {
		if d.d <= 0 {
			problems = append(problems, d.name+" must be positive")
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

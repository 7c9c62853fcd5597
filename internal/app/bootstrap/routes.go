// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"fmt"
	"net/http"

	contactfeature "github.com/dalemusser/coursehub/internal/app/features/contact"
	coursesfeature "github.com/dalemusser/coursehub/internal/app/features/courses"
	dashboardfeature "github.com/dalemusser/coursehub/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/coursehub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/coursehub/internal/app/features/health"
	livefeature "github.com/dalemusser/coursehub/internal/app/features/live"
	prefsfeature "github.com/dalemusser/coursehub/internal/app/features/prefs"
	"github.com/dalemusser/coursehub/internal/app/system/prefs"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for coursehub.
//
// WAFFLE calls this after configuration, DB connections, schema setup and
// Startup have completed. Pages sit in a CSRF-protected group; the JSON API,
// the websocket, health and metrics sit outside it.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	svc := deps.Services
	if svc == nil || svc.Catalog == nil {
		return nil, fmt.Errorf("build handler: Startup has not run")
	}

	secure := coreCfg.Env == "prod"
	prefStore, err := prefs.NewStore(prefs.Options{
		Key:    appCfg.SessionKey,
		Name:   appCfg.SessionName,
		Domain: appCfg.SessionDomain,
		Secure: secure,
	}, logger)
	if err != nil {
		logger.Error("preference store init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()
	r.Use(clientIPMiddleware(appCfg.TrustProxyHeaders))
	r.Use(svc.Metrics.Middleware)
	r.Use(prefStore.Load)
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, svc.Catalog, svc.Contact.Relay != nil, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/metrics", svc.Metrics.Handler())

	// Static assets with pre-compressed file support (gzip/brotli).
	// Roadmap documents are linked relative to the catalog page.
	r.Handle("/static/*", fileserver.Handler("/static", "public"))
	r.Handle("/roadmaps/*", fileserver.Handler("/roadmaps", "public/roadmaps"))

	coursesHandler := coursesfeature.NewHandler(svc.Catalog, svc.Renderer, errLog, logger)
	contactHandler := contactfeature.NewHandler(svc.Contact, logger)

	// JSON API
	r.Mount("/api/courses", coursesfeature.APIRoutes(coursesHandler))
	r.Mount("/api/contact", contactfeature.APIRoutes(contactHandler, appCfg.CORSOrigins))

	// Live interaction socket
	liveHandler := livefeature.NewHandler(&livefeature.Deps{
		Catalog:     svc.Catalog,
		Renderer:    svc.Renderer,
		Contact:     svc.Contact,
		Enrollments: svc.Enrollments,
		Metrics:     svc.Metrics,
		Timing:      svc.Timing,
		Log:         logger,
		TileKeys:    dashboardfeature.TileKeys(),
	}, appCfg.AllowAnyOrigin, logger)
	r.Mount("/live", livefeature.Routes(liveHandler))

	// Pages
	r.Group(func(pr chi.Router) {
		pr.Use(csrfMiddleware(appCfg.SessionKey, secure, logger))

		dashboardHandler := dashboardfeature.NewHandler(deps.MongoDatabase, svc.Catalog, logger)
		pr.Get("/", dashboardHandler.ServeDashboard)
		pr.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

		pr.Mount("/courses", coursesfeature.Routes(coursesHandler))
		pr.Mount("/contact", contactfeature.Routes(contactHandler))

		prefsHandler := prefsfeature.NewHandler(prefStore, errLog, logger)
		pr.Mount("/prefs", prefsfeature.Routes(prefsHandler))
	})

	// Old static page names
	for from, to := range legacyPages {
		r.Get(from, redirectTo(to))
	}

	return r, nil
}

var legacyPages = map[string]string{
	"/index.html":   "/",
	"/courses.html": "/courses",
	"/contact.html": "/contact",
}

func redirectTo(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	}
}

// csrfMiddleware protects page forms with gorilla/csrf. The token key is
// derived from the session key so one secret configures both. Outside prod
// requests are marked plaintext so the origin check accepts http://.
func csrfMiddleware(sessionKey string, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	key := sha256.Sum256([]byte("coursehub-csrf:" + sessionKey))
	protect := csrf.Protect(key[:],
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("csrf check failed",
				zap.String("path", r.URL.Path),
				zap.Error(csrf.FailureReason(r)))
			errorsfeature.Render(w, r, http.StatusForbidden, "Forbidden",
				"Your form expired. Reload the page and try again.")
		})),
	)
	return func(next http.Handler) http.Handler {
		h := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !secure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			h.ServeHTTP(w, r)
		})
	}
}

// clientIPMiddleware rewrites RemoteAddr from the forwarding headers when
// a trusted proxy sits in front; otherwise the headers are left unread so
// per-IP limits cannot be dodged by setting them.
func clientIPMiddleware(trustProxy bool) func(http.Handler) http.Handler {
	if trustProxy {
		return middleware.RealIP
	}
	return func(next http.Handler) http.Handler { return next }
}

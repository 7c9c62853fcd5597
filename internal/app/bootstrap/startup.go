// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/coursehub/internal/app/features/live"
	"github.com/dalemusser/coursehub/internal/app/resources"
	contactmessagestore "github.com/dalemusser/coursehub/internal/app/store/contactmessages"
	coursestore "github.com/dalemusser/coursehub/internal/app/store/courses"
	enrollmentstore "github.com/dalemusser/coursehub/internal/app/store/enrollments"
	"github.com/dalemusser/coursehub/internal/app/system/catalog"
	"github.com/dalemusser/coursehub/internal/app/system/contactrelay"
	"github.com/dalemusser/coursehub/internal/app/system/contactsvc"
	"github.com/dalemusser/coursehub/internal/app/system/courseview"
	"github.com/dalemusser/coursehub/internal/app/system/metrics"
	"github.com/dalemusser/coursehub/internal/app/system/ratelimit"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/coursehub/internal/app/system/viewdata"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Services are the long-lived objects built once by Startup and shared by
// every handler and live session.
type Services struct {
	Catalog     *catalog.Catalog
	Renderer    *courseview.Renderer
	Metrics     *metrics.Metrics
	Contact     *contactsvc.Service
	Enrollments *enrollmentstore.Store
	Timing      live.Timing

	// memLimiter is set when the contact limit is kept in memory.
	memLimiter *ratelimit.Limiter
}

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built: it seeds
// and loads the catalog, registers shared templates, and builds the
// contact service.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()
	viewdata.Init(appCfg.SiteName)

	cat, err := loadCatalog(ctx, deps.MongoDatabase, appCfg.CatalogFile, logger)
	if err != nil {
		return err
	}

	renderer, err := courseview.NewRenderer()
	if err != nil {
		logger.Error("course fragment templates failed to parse", zap.Error(err))
		return err
	}

	svc := deps.Services
	if svc == nil {
		return fmt.Errorf("startup: DBDeps.Services is nil")
	}
	svc.Catalog = cat
	svc.Renderer = renderer
	svc.Metrics = metrics.New()
	svc.Enrollments = enrollmentstore.New(deps.MongoDatabase)
	svc.Timing = timing(appCfg)
	svc.Contact = &contactsvc.Service{
		Recorder: contactmessagestore.New(deps.MongoDatabase),
		Metrics:  svc.Metrics,
		Timeout:  appCfg.ContactTimeout,
		Log:      logger,
	}

	if appCfg.ContactEndpoint != "" {
		svc.Contact.Relay = contactrelay.New(appCfg.ContactEndpoint, logger,
			contactrelay.WithTimeout(appCfg.ContactTimeout))
	} else {
		logger.Warn("contact_endpoint not set; contact submissions will be refused")
	}

	switch {
	case appCfg.ContactRateLimit <= 0:
		logger.Info("contact rate limit disabled")
	case deps.Redis != nil:
		svc.Contact.Limiter = deps.Redis
	default:
		svc.memLimiter = ratelimit.New(appCfg.ContactRateLimit, appCfg.ContactRateWindow)
		svc.Contact.Limiter = svc.memLimiter
	}

	logger.Info("coursehub ready",
		zap.Int("courses", cat.Len()),
		zap.Strings("categories", cat.CategoriesInUse()),
		zap.Bool("contact_relay", svc.Contact.Relay != nil),
		zap.Duration("search_debounce", svc.Timing.Debounce))
	return nil
}

// loadCatalog seeds an empty courses collection from path (or the embedded
// catalog) and then builds the Catalog from what the collection holds.
// Soft problems are logged; hard ones abort startup.
func loadCatalog(ctx context.Context, db *mongo.Database, path string, logger *zap.Logger) (*catalog.Catalog, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	seed, source, err := seedRecords(path)
	if err != nil {
		logger.Error("catalog file unreadable", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	store := coursestore.New(db)
	seeded, err := store.SeedIfEmpty(ctx, seed)
	if err != nil {
		logger.Error("seed catalog failed", zap.Error(err))
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	if seeded {
		logger.Info("seeded courses collection", zap.String("source", source), zap.Int("records", len(seed)))
	}

	recs, err := store.List(ctx)
	if err != nil {
		logger.Error("load catalog failed", zap.Error(err))
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	cat, warnings, err := catalog.New(recs)
	for _, w := range warnings {
		logger.Warn("catalog", zap.String("problem", w.String()))
	}
	if err != nil {
		logger.Error("catalog invalid", zap.Error(err))
		return nil, err
	}
	return cat, nil
}

func seedRecords(path string) ([]models.Course, string, error) {
	if path == "" {
		return catalog.Default(), "built-in", nil
	}
	recs, err := catalog.LoadFile(path)
	if err != nil {
		return nil, path, err
	}
	return recs, path, nil
}

func timing(appCfg AppConfig) live.Timing {
	t := live.DefaultTiming()
	if appCfg.SearchDebounce > 0 {
		t.Debounce = appCfg.SearchDebounce
	}
	if appCfg.ModalAutoClose > 0 {
		t.ModalAutoClose = appCfg.ModalAutoClose
	}
	if appCfg.StatusAutoClear > 0 {
		t.StatusAutoClear = appCfg.StatusAutoClear
	}
	if appCfg.PopupAutoHide > 0 {
		t.PopupAutoHide = appCfg.PopupAutoHide
	}
	if appCfg.CounterDuration > 0 {
		t.CounterDuration = appCfg.CounterDuration
	}
	return t
}

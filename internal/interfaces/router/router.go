package router

import (
	"context"
	"net/http"
	"time"

	appsvc "streamhub-backend/internal/application/applications"
	lesvc "streamhub-backend/internal/application/listingevents"
	listsvc "streamhub-backend/internal/application/listings"
	"streamhub-backend/internal/application/notifications"
	rentsvc "streamhub-backend/internal/application/rentals"
	revsvc "streamhub-backend/internal/application/reviews"
	sasvc "streamhub-backend/internal/application/serviceapplications"
	"streamhub-backend/internal/config"
	"streamhub-backend/internal/constants"
	"streamhub-backend/internal/domain"
	"streamhub-backend/internal/infrastructure/database"
	"streamhub-backend/internal/infrastructure/metrics"
	"streamhub-backend/internal/infrastructure/store"
	apphandler "streamhub-backend/internal/interfaces/handlers/applications"
	healthhandler "streamhub-backend/internal/interfaces/handlers/health"
	lehandler "streamhub-backend/internal/interfaces/handlers/listingevents"
	listhandler "streamhub-backend/internal/interfaces/handlers/listings"
	renthandler "streamhub-backend/internal/interfaces/handlers/rentals"
	revhandler "streamhub-backend/internal/interfaces/handlers/reviews"
	sahandler "streamhub-backend/internal/interfaces/handlers/serviceapplications"
	"streamhub-backend/internal/middleware"
	"streamhub-backend/internal/pkg/ratelimit"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const limiterIdleTTL = 10 * time.Minute

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) PingContext(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// CreateApp opens Postgres and Redis from cfg and builds the app.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	rdb, err := middleware.ConnectSessions(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, err
	}
	app := New(cfg, db, rdb)
	return app, db, rdb, nil
}

// New builds the Fiber app with all global middleware and routes over an open
// database. rdb may be nil, in which case every request is anonymous.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})
	m := metrics.New()

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.SessionReader(rdb, cfg.SessionCookie))
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.RateLimit(ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst, limiterIdleTTL), m))

	hh := &healthhandler.Handlers{Rdb: rdb, DB: &gormDBPinger{db: db}, HealthAdminKey: cfg.HealthAdminKey}
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Post("/health/reset", hh.Reset)
	app.Get("/metrics", middleware.RequireAuth(), middleware.AuthorizePermission(constants.ViewMetrics), adaptor.HTTPHandler(m.Handler()))

	st := store.New(db)
	var notifier notifications.Sender
	if cfg.SendinblueAPIKey != "" {
		notifier = &notifications.BrevoClient{APIKey: cfg.SendinblueAPIKey, MailFrom: cfg.MailFrom}
	}

	pages := domain.PageSizes{Default: cfg.DefaultPageSize, Max: cfg.MaxPageSize}
	lh := &listhandler.Handlers{Service: &listsvc.Service{Store: st, Metrics: m, DefaultCurrency: cfg.DefaultCurrency, Pages: pages}}
	leh := &lehandler.Handlers{Service: &lesvc.Service{Store: st, Pages: pages}}
	ah := &apphandler.Handlers{Service: &appsvc.Service{Store: st, Metrics: m, Notifier: notifier, Pages: pages}}
	rh := &renthandler.Handlers{Service: &rentsvc.Service{Store: st, Metrics: m, Notifier: notifier, DefaultCurrency: cfg.DefaultCurrency, Pages: pages}}
	revh := &revhandler.Handlers{Service: &revsvc.Service{Store: st, Metrics: m, Pages: pages}}
	sah := &sahandler.Handlers{Service: &sasvc.Service{Store: st, Metrics: m, Notifier: notifier, Pages: pages}}

	auth := middleware.RequireAuth()
	api := app.Group("/api/v1")

	// Listings: public reads, authenticated writes.
	api.Get("/listings", lh.ListListings)
	api.Get("/listings/featured", lh.ListFeatured)
	api.Get("/listings/mine", auth, lh.ListMine)
	api.Get("/listings/:id/events", auth, leh.ListForListing)
	api.Get("/listings/:id", lh.GetListing)
	api.Post("/listings", auth, lh.CreateListing)
	api.Put("/listings/:id", auth, lh.EditListing)
	api.Patch("/listings/:id/moderate", auth, middleware.AuthorizePermission(constants.ModerateListing), lh.ModerateListing)
	api.Patch("/listings/:id/status", auth, lh.SetStatus)
	api.Patch("/listings/:id/feature", auth, middleware.AuthorizePermission(constants.FeatureListing), lh.FeatureListing)

	// Demand applications
	api.Post("/demands/:id/applications", auth, ah.Apply)
	api.Get("/demands/:id/applications", auth, ah.ListForDemand)
	api.Get("/applications/mine", auth, ah.ListMine)
	api.Get("/applications/received", auth, ah.ListReceived)
	api.Get("/applications/:id", auth, ah.Get)
	api.Put("/applications/:id", auth, ah.Update)
	api.Patch("/applications/:id/decision", auth, ah.Decide)

	// Service applications
	api.Post("/services/:id/applications", auth, sah.Apply)
	api.Get("/services/:id/applications", auth, sah.ListForService)
	api.Get("/service-applications/mine", auth, sah.ListMine)
	api.Get("/service-applications/received", auth, sah.ListReceived)
	api.Get("/service-applications/:id", auth, sah.Get)
	api.Patch("/service-applications/:id/decision", auth, sah.Decide)

	// Service rentals
	api.Post("/services/:id/rentals", auth, rh.Request)
	api.Get("/services/:id/rentals", auth, rh.ListForService)
	api.Get("/services/:id/rentals.csv", auth, rh.ExportCSV)
	api.Post("/services/:id/availability", auth, rh.CheckAvailability)
	api.Get("/rentals/mine", auth, rh.ListMine)
	api.Get("/rentals/received", auth, rh.ListReceived)
	api.Get("/rentals/received/counts", auth, rh.CountReceived)
	api.Get("/rentals/:id", auth, rh.Get)
	api.Patch("/rentals/:id/decision", auth, rh.Decide)
	api.Post("/rentals/:id/start", auth, rh.Start)
	api.Post("/rentals/:id/cancel", auth, rh.Cancel)
	api.Post("/rentals/:id/complete", auth, rh.Complete)

	// Reviews
	api.Post("/rentals/:id/review", auth, revh.Submit)
	api.Get("/services/:id/reviews", revh.ListForService)
	api.Get("/reviews/mine", auth, revh.ListWritten)
	api.Get("/reviews/received", auth, revh.ListReceived)
	api.Put("/reviews/:id", auth, revh.Update)
	api.Post("/reviews/:id/reply", auth, revh.Reply)
	api.Delete("/reviews/:id", auth, revh.Delete)

	return app
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}

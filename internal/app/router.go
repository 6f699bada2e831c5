package app

import (
	"log/slog"

	"github.com/Mukungiisaac/Sakeja/internal/admin"
	"github.com/Mukungiisaac/Sakeja/internal/auth"
	"github.com/Mukungiisaac/Sakeja/internal/booking"
	"github.com/Mukungiisaac/Sakeja/internal/config"
	"github.com/Mukungiisaac/Sakeja/internal/dashboard"
	"github.com/Mukungiisaac/Sakeja/internal/events"
	"github.com/Mukungiisaac/Sakeja/internal/health"
	"github.com/Mukungiisaac/Sakeja/internal/house"
	"github.com/Mukungiisaac/Sakeja/internal/item"
	"github.com/Mukungiisaac/Sakeja/internal/metrics"
	"github.com/Mukungiisaac/Sakeja/internal/middleware"
	"github.com/Mukungiisaac/Sakeja/internal/photo"
	"github.com/Mukungiisaac/Sakeja/internal/user"
	"github.com/Mukungiisaac/Sakeja/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/bun"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	Config    *config.Config
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	DB        *bun.DB
	Sessions  auth.SessionStore
	Photos    photo.Store
	Publisher events.Publisher
}

// NewRouter wires every handler. Each route is registered exactly once.
func NewRouter(d Deps) (*gin.Engine, error) {
	cfg := d.Config
	logger := d.Logger

	tokens, err := auth.NewTokenManager(cfg.Session.Secret)
	if err != nil {
		return nil, err
	}

	maxUpload := int64(cfg.Storage.MaxUploadMB) << 20
	if maxUpload <= 0 {
		maxUpload = 8 << 20
	}

	router := gin.New()
	router.MaxMultipartMemory = maxUpload
	router.Use(gin.Recovery(), middleware.RequestLogger(logger), web.SecureCookies(cfg.Session.SecureCookie))
	web.LoadTemplates(router)
	router.NoRoute(web.NotFound)

	// Health endpoints (no session lookup)
	health.NewHandler(d.DB).RegisterRoutes(router)

	userRepo := user.NewRepository(d.DB, d.Metrics)
	houseRepo := house.NewRepository(d.DB, d.Metrics)
	itemRepo := item.NewRepository(d.DB, d.Metrics)
	bookingRepo := booking.NewRepository(d.DB, d.Metrics)

	authService := auth.NewService(userRepo, d.Sessions, tokens, cfg.Session.TTL(), d.Metrics, logger)
	houseService := house.NewService(houseRepo, d.Photos, d.Metrics, logger)
	itemService := item.NewService(itemRepo, d.Photos, d.Metrics, logger)
	bookingService := booking.NewService(bookingRepo, houseService, d.Metrics, logger)
	adminService := admin.NewService(admin.Deps{
		Users:     userRepo,
		Houses:    houseRepo,
		Items:     itemRepo,
		Sessions:  authService,
		Photos:    d.Photos,
		Publisher: d.Publisher,
		Metrics:   d.Metrics,
		Logger:    logger,
	})

	responder := web.NewResponder(logger, d.Metrics)

	router.Use(auth.Middleware(authService, logger))

	auth.NewHandler(authService, responder, logger, cfg.Session.TTL(), cfg.Session.SecureCookie).RegisterRoutes(router)

	authed := router.Group("", auth.RequireLogin(), middleware.BodyLimit(maxUpload+1<<20))
	landlord := authed.Group("", auth.RequireRole(user.RoleLandlord, responder))
	seller := authed.Group("", auth.RequireRole(user.RoleSeller, responder))
	adminGroup := authed.Group("", auth.RequireRole(user.RoleAdmin, responder))

	dashboard.NewHandler(houseService, itemService, bookingService, responder).RegisterRoutes(landlord, seller, authed)
	house.NewHandler(houseService, responder, logger).RegisterRoutes(landlord, authed)
	item.NewHandler(itemService, responder, logger).RegisterRoutes(seller)
	booking.NewHandler(bookingService, responder).RegisterRoutes(authed)
	admin.NewHandler(adminService, responder).RegisterRoutes(adminGroup)
	photo.NewHandler(d.Photos, responder).RegisterRoutes(authed)

	return router, nil
}

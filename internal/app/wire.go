package app

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/transfermarket/platform/internal/auth"
	"github.com/transfermarket/platform/internal/guard"
	"github.com/transfermarket/platform/internal/handler"
	adminhandler "github.com/transfermarket/platform/internal/handler/admin"
	"github.com/transfermarket/platform/internal/infra"
	"github.com/transfermarket/platform/internal/provider"
	"github.com/transfermarket/platform/internal/repository"
	"github.com/transfermarket/platform/internal/service"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool    *pgxpool.Pool
	JWTMgr  *auth.JWTManager
	Metrics *infra.Metrics
	Logger  *slog.Logger
	// External provider config
	AdminNotifyWebhook string
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	pool := deps.Pool
	jwtMgr := deps.JWTMgr
	metrics := deps.Metrics
	logger := deps.Logger

	// Repositories
	userRepo := repository.NewUserRepository()
	clubRepo := repository.NewClubRepository()
	playerRepo := repository.NewPlayerRepository()
	transferRepo := repository.NewTransferRepository()
	offerRepo := repository.NewOfferRepository()
	windowRepo := repository.NewWindowRepository()
	alertRepo := repository.NewFraudAlertRepository()
	notifRepo := repository.NewNotificationRepository()
	outboxRepo := repository.NewOutboxRepository()

	// External providers and guards
	notifier := provider.NewAdminNotifier(deps.AdminNotifyWebhook, logger)
	dedupe := guard.NewDedupeGuard()

	// Services
	authSvc := service.NewAuthService(pool, userRepo, clubRepo, jwtMgr, logger)
	clubSvc := service.NewClubService(pool, clubRepo, logger)
	playerSvc := service.NewPlayerService(pool, playerRepo, logger)
	windowSvc := service.NewWindowService(pool, windowRepo, outboxRepo, logger)
	fraudSvc := service.NewFraudService(pool, playerRepo, transferRepo, offerRepo, alertRepo, notifRepo, outboxRepo, dedupe, notifier, metrics, logger)
	transferSvc := service.NewTransferService(pool, transferRepo, playerRepo, offerRepo, windowSvc, fraudSvc, outboxRepo, metrics, logger)
	offerSvc := service.NewOfferService(pool, offerRepo, transferRepo, clubRepo, windowSvc, fraudSvc, outboxRepo, metrics, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	playerHandler := handler.NewPlayerHandler(playerSvc)
	transferHandler := handler.NewTransferHandler(transferSvc)
	offerHandler := handler.NewOfferHandler(offerSvc)
	windowHandler := handler.NewWindowHandler(windowSvc)

	// Admin handlers
	clubAdmin := adminhandler.NewClubAdminHandler(clubSvc)
	playerAdmin := adminhandler.NewPlayerAdminHandler(playerSvc)
	windowAdmin := adminhandler.NewWindowAdminHandler(windowSvc)
	transferAdmin := adminhandler.NewTransferAdminHandler(transferSvc)
	fraudAdmin := adminhandler.NewFraudAdminHandler(fraudSvc)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.Instrument(metrics))
	r.Use(handler.CORS)

	// Health and metrics (no auth, no JSON content-type on /metrics)
	r.Get("/health", handler.HealthHandler(pool))
	r.Method("GET", "/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(handler.JSONContentType)

		// Auth routes (no auth)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
		})

		// Public market views (no auth)
		r.Get("/players", playerHandler.List)
		r.Get("/players/{id}", playerHandler.Get)
		r.Get("/transfers", transferHandler.List)
		r.Get("/transfers/{id}", transferHandler.Get)
		r.Get("/transfers/{id}/offers", transferHandler.Offers)
		r.Get("/windows", windowHandler.List)
		r.Get("/windows/status", windowHandler.Status)

		// Club-authenticated market actions
		r.Group(func(r chi.Router) {
			r.Use(auth.AuthenticateClub(jwtMgr))

			r.Post("/transfers", transferHandler.Create)
			r.Patch("/transfers/{id}/status", transferHandler.UpdateStatus)
			r.Delete("/transfers/{id}", transferHandler.Delete)

			r.Post("/transfers/{id}/offers", offerHandler.Create)
			r.Post("/offers/{id}/accept", offerHandler.Accept)
			r.Post("/offers/{id}/reject", offerHandler.Reject)
			r.Post("/offers/{id}/counter", offerHandler.Counter)
			r.Delete("/offers/{id}", offerHandler.Withdraw)
		})

		// Admin-authenticated routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.AuthenticateAdmin(jwtMgr))

			r.Route("/clubs", func(r chi.Router) {
				r.Get("/", clubAdmin.List)
				r.Post("/{id}/review", clubAdmin.Review)
			})

			r.Route("/players", func(r chi.Router) {
				r.Post("/", playerAdmin.Create)
				r.Put("/{id}", playerAdmin.Update)
				r.Post("/{id}/retire", playerAdmin.Retire)
			})

			r.Route("/windows", func(r chi.Router) {
				r.Post("/", windowAdmin.Create)
				r.Put("/{id}", windowAdmin.Update)
				r.Post("/{id}/open", windowAdmin.Open)
				r.Post("/{id}/close", windowAdmin.Close)
			})

			r.Route("/transfers", func(r chi.Router) {
				r.Post("/", transferAdmin.Create)
				r.Patch("/{id}/status", transferAdmin.UpdateStatus)
				r.Delete("/{id}", transferAdmin.Delete)
			})

			r.Route("/fraud", func(r chi.Router) {
				r.Get("/alerts", fraudAdmin.List)
				r.Get("/alerts/{id}", fraudAdmin.Get)
				r.Post("/alerts/{id}/review", fraudAdmin.Review)
				r.Get("/statistics", fraudAdmin.Statistics)
			})

			r.Get("/notifications", fraudAdmin.Notifications)
		})
	})

	return r
}

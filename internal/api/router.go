package api

import (
	"net/http"

	"github.com/dom/media-tracker/internal/api/handlers"
	"github.com/dom/media-tracker/internal/api/middleware"
	"github.com/dom/media-tracker/internal/config"
	"github.com/dom/media-tracker/internal/domain"
	"github.com/dom/media-tracker/internal/service"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.Handle("/metrics", promhttp.Handler())

	authHandler := handlers.NewAuthHandler(services.Auth, handlers.CookieConfig{
		Secure: cfg.CookieSecure,
		TTL:    services.Auth.TokenTTL(),
	})
	requireSession := middleware.Auth(services.Auth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)

			r.With(requireSession).Get("/check", authHandler.Check)
		})

		r.Route("/track", func(r chi.Router) {
			r.Use(requireSession)

			for _, v := range domain.AllVariants {
				h := handlers.NewTrackingHandler(services.Tracking[v])
				r.Get("/"+v.ListPath(), h.List)
				r.Get("/"+string(v)+"/{id}", h.Get)
				r.Post("/add-"+string(v)+"/{id}", h.Add)
				r.Put("/update-"+string(v)+"/{id}", h.Update)
				r.Delete("/delete-"+string(v)+"/{id}", h.Delete)
			}
		})
	})

	return r
}

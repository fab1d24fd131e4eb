package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/patrocinios/internal/infra/http/middleware"
	"github.com/xavierca1/patrocinios/internal/usecase"
)

type RouterConfig struct {
	Sponsors       *SponsorHandler
	Sessions       *SessionHandler
	Health         *HealthHandler
	Registry       *usecase.SessionRegistry
	AllowedOrigins []string
	RequestLogging bool
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	if cfg.RequestLogging {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", middleware.SessionHeader},
	}))

	if cfg.Health != nil {
		r.Get("/health", cfg.Health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/tiers", Tiers)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(cfg.Registry))

		r.Delete("/session", cfg.Sessions.Close)

		r.Route("/sponsors", func(r chi.Router) {
			r.Get("/", cfg.Sponsors.List)
			r.Post("/", cfg.Sponsors.Create)
			r.Post("/reload", cfg.Sponsors.Reload)
			r.Get("/export.xlsx", cfg.Sponsors.Export)

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", cfg.Sponsors.CommitEdit)
				r.Delete("/", cfg.Sponsors.Delete)
				r.Post("/edit", cfg.Sponsors.BeginEdit)
				r.Delete("/edit", cfg.Sponsors.CancelEdit)
				r.Post("/conversations", cfg.Sponsors.AppendConversation)
				r.Post("/dossier", cfg.Sponsors.SendDossier)
			})
		})
	})

	return r
}

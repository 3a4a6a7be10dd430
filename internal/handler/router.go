package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	apperrors "github.com/tics/site-backend-go/internal/errors"
	"github.com/tics/site-backend-go/internal/httputil"
	"github.com/tics/site-backend-go/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigin     string
	IsProduction      bool
	RequestTimeout    time.Duration
	MaxBodyBytes      int64
	MaxMultipartBytes int64
}

type Handlers struct {
	Admin    *AdminHandler
	Careers  *CareersHandler
	Contact  *ContactHandler
	Services *ServicesHandler
	Health   *HealthHandler
}

// NewRouter wires every public and admin route. Routes that read or write
// the database sit behind RequireStorage; admin routes sit behind the token
// guard, which runs first so unauthenticated callers always get 401.
func NewRouter(cfg RouterConfig, h Handlers, auth *middleware.AuthMiddleware, storage middleware.ReadinessChecker) http.Handler {
	requireStorage := middleware.RequireStorage(storage)
	bodyLimit := middleware.NewBodyLimitMiddleware(cfg.MaxBodyBytes, cfg.MaxMultipartBytes)
	securityHeaders := middleware.NewSecurityHeadersMiddleware(cfg.IsProduction)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(securityHeaders.Handler)
	r.Use(bodyLimit.Handler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, apperrors.NotFound("Route"), false)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteErrorWithStatus(w, http.StatusMethodNotAllowed,
			apperrors.ValidationError("Method not allowed"))
	})

	r.Get("/", h.Health.Root)
	r.Get("/favicon.ico", h.Health.Favicon)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health.Health)

		r.Route("/admin", func(r chi.Router) {
			r.With(requireStorage).Post("/login", h.Admin.Login)

			r.Group(func(r chi.Router) {
				r.Use(auth.Handler)
				r.Get("/resume/{filename}", h.Admin.DownloadResume)

				r.Group(func(r chi.Router) {
					r.Use(requireStorage)
					r.Get("/contacts", h.Contact.List)
					r.Get("/applications", h.Careers.ListApplications)
				})
			})
		})

		r.Route("/careers", func(r chi.Router) {
			r.With(requireStorage).Get("/jobs", h.Careers.ListJobs)
			r.With(requireStorage).Post("/apply", h.Careers.Apply)
			r.With(auth.Handler, requireStorage).Get("/applications", h.Careers.ListApplications)
		})

		r.Route("/contact", func(r chi.Router) {
			r.With(requireStorage).Post("/", h.Contact.Submit)
			r.With(auth.Handler, requireStorage).Get("/admin", h.Contact.List)
		})

		r.Route("/services", func(r chi.Router) {
			r.Post("/proposal", h.Services.RequestProposal)
		})
	})

	return r
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/contentapi/internal/core/domain"
	"github.com/vncsmyrnk/contentapi/internal/core/ports"
)

type RouterConfig struct {
	AuthService ports.AuthService

	Auth   *AuthHandler
	Users  *UserHandler
	Posts  *PostHandler
	Health *HealthHandler

	// Nil limiters disable rate limiting.
	GlobalLimiter ports.RateLimiter
	AuthLimiter   ports.RateLimiter

	Logger zerolog.Logger
}

func NewHandler(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Route not found", Code: http.StatusNotFound})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed", Code: http.StatusMethodNotAllowed})
	})

	r.Get("/health", cfg.Health.Check)

	r.Route("/api", func(r chi.Router) {
		r.Use(RateLimit(cfg.GlobalLimiter))

		r.With(RateLimit(cfg.AuthLimiter)).Post("/register", cfg.Auth.Register)
		r.With(RateLimit(cfg.AuthLimiter)).Post("/login", cfg.Auth.Login)
		r.Post("/refresh", cfg.Auth.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(cfg.AuthService))

			r.Post("/logout", cfg.Auth.Logout)
			r.Get("/me", cfg.Auth.Me)

			r.Route("/users", func(r chi.Router) {
				r.Use(Authorize(domain.RoleAdmin))
				r.Get("/", cfg.Users.List)
				r.Put("/{id}", cfg.Users.Update)
				r.Delete("/{id}", cfg.Users.Delete)
			})

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", cfg.Posts.List)
				r.Get("/{id}", cfg.Posts.Get)
				r.With(Authorize(domain.RoleAdmin, domain.RoleEditor)).Post("/", cfg.Posts.Create)
				r.With(Authorize(domain.RoleAdmin, domain.RoleEditor)).Put("/{id}", cfg.Posts.Update)
				r.With(Authorize(domain.RoleAdmin)).Delete("/{id}", cfg.Posts.Delete)
			})
		})
	})

	return r
}

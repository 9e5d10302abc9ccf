package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"blognest/internal/handler"
	"blognest/internal/httputil"
	authmw "blognest/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler *handler.AuthHandler
	UserHandler *handler.UserHandler
	PostHandler *handler.PostHandler
	JWTSecret   string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Anonymous-only routes. OptionalAuth lets the handlers reject callers
	// that are already logged in.
	r.Group(func(r chi.Router) {
		r.Use(authmw.OptionalAuth(cfg.JWTSecret))

		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/reset_password", cfg.AuthHandler.RequestPasswordReset)
		r.Post("/reset_password/{token}", cfg.AuthHandler.ConfirmPasswordReset)
	})

	r.Post("/logout", cfg.AuthHandler.Logout)

	// Public read endpoints
	r.Get("/posts", cfg.PostHandler.Feed)
	r.Get("/posts/{id}", cfg.PostHandler.GetByID)
	r.Get("/users/{username}", cfg.UserHandler.GetProfile)
	r.Get("/users/{username}/posts", cfg.UserHandler.GetPosts)

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(cfg.JWTSecret))

		r.Get("/me", cfg.AuthHandler.Me)
		r.Put("/account", cfg.AuthHandler.UpdateAccount)

		r.Post("/posts", cfg.PostHandler.Create)
		r.Put("/posts/{id}", cfg.PostHandler.Update)
		r.Delete("/posts/{id}", cfg.PostHandler.Delete)
	})

	return r
}

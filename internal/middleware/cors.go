package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// CORSMiddleware builds the CORS handler for the API. Outside production the
// origin list is ignored and everything is allowed, which keeps local frontend
// development friction-free.
func CORSMiddleware(allowedOrigins []string, isDevelopment bool) func(http.Handler) http.Handler {
	if isDevelopment {
		allowedOrigins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// DefaultMiddlewareStack returns the baseline chi middleware every route
// shares: request IDs, client IP resolution, panic recovery and compression.
func DefaultMiddlewareStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Compress(5),
	}
}

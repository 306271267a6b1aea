package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// RequireAdmin gates supplier management and sync endpoints. It assumes
// AuthMiddleware already ran and populated the role in the context.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok || role != "admin" {
				logger.Warn("Admin endpoint denied",
					zap.String("path", r.URL.Path),
					zap.String("role", role),
				)
				respondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

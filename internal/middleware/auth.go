package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
)

// AuthMiddleware validates the bearer token and stores the user identity in
// the request context. Tokens must be HMAC-signed with the configured secret.
func AuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				respondWithError(w, http.StatusUnauthorized, "missing or malformed authorization header")
				return
			}

			token, err := jwt.Parse(tokenString, keyFunc)
			if err != nil || !token.Valid {
				logger.Debug("Token rejected", zap.Error(err))
				if errors.Is(err, jwt.ErrTokenExpired) {
					respondWithError(w, http.StatusUnauthorized, "token expired")
					return
				}
				respondWithError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			userID, role, ok := identityClaims(token)
			if !ok {
				logger.Error("Token missing identity claims")
				respondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, UserRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

func identityClaims(token *jwt.Token) (userID, role string, ok bool) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", false
	}
	userID, okID := claims["user_id"].(string)
	role, okRole := claims["role"].(string)
	return userID, role, okID && okRole
}

// GetUserID extracts user ID from request context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUserRole extracts user role from request context
func GetUserRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleKey).(string)
	return role, ok
}

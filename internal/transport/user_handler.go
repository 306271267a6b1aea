package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"distris-api/internal/domain"
	"distris-api/internal/middleware"
	"distris-api/internal/repository"
	"distris-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserProfile `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// UserProfile is the public view of an account; the password hash never
// leaves the service layer.
type UserProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

func profileOf(user *domain.User) UserProfile {
	return UserProfile{
		ID:        user.ID.String(),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	}
}

// UserHandler exposes registration, login and session management.
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/logout", h.Logout)
			r.Get("/profile", h.GetProfile)
		})
	})
}

// decodeValidated decodes the body into v and writes the appropriate error
// response on failure. Returns false when the request was already answered.
func (h *UserHandler) decodeValidated(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		h.logger.Debug("Request validation failed", zap.String("path", r.URL.Path), zap.Error(err))
		if fieldErrors := middleware.FormatValidationErrors(err); len(fieldErrors) > 0 {
			middleware.RespondWithValidationErrors(w, fieldErrors)
			return false
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decodeValidated(w, r, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "user with this email already exists")
			return
		}
		h.logger.Error("Registration failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	h.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, profileOf(user))
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeValidated(w, r, &req) {
		return
	}

	accessToken, refreshToken, user, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	h.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         profileOf(user),
	})
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.userService.Logout(r.Context(), req.RefreshToken); err != nil {
		h.logger.Error("Logout failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to logout")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

func (h *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !h.decodeValidated(w, r, &req) {
		return
	}

	accessToken, err := h.userService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid refresh token")
		case errors.Is(err, service.ErrTokenExpired):
			middleware.RespondWithError(w, http.StatusUnauthorized, "refresh token expired")
		default:
			h.logger.Error("Token refresh failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to refresh token")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, RefreshResponse{AccessToken: accessToken})
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userIDStr, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load profile", zap.String("user_id", userIDStr), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get user profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, profileOf(user))
}

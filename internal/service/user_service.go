package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"distris-api/internal/domain"
	"distris-api/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost = 10

	// Fallback token expirations when config supplies none.
	AccessTokenExpiration  = 15 * time.Minute
	RefreshTokenExpiration = 7 * 24 * time.Hour
)

// Roles known to the catalog. Admins manage suppliers, mappings and syncs;
// users get read access to priced products.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
)

// UserService handles accounts and JWT sessions.
type UserService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *domain.User, err error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken string, err error)
	ValidateToken(tokenString string) (*Claims, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// Claims carried inside access tokens.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

type userService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtSecret        string
	accessExpiry     time.Duration
	refreshExpiry    time.Duration
}

// NewUserService creates a new instance of UserService. Zero expiry values
// fall back to the package defaults.
func NewUserService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) UserService {
	if accessExpiry <= 0 {
		accessExpiry = AccessTokenExpiration
	}
	if refreshExpiry <= 0 {
		refreshExpiry = RefreshTokenExpiration
	}
	return &userService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtSecret:        jwtSecret,
		accessExpiry:     accessExpiry,
		refreshExpiry:    refreshExpiry,
	}
}

// Register creates an account with the default user role. The duplicate-email
// check races with Create, so the repository's unique-violation mapping is the
// authoritative guard.
func (s *userService) Register(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, repository.ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		Role:         RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, string, *domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", "", nil, ErrInvalidCredentials
		}
		return "", "", nil, fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	accessToken, err := s.signAccessToken(user)
	if err != nil {
		return "", "", nil, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err := s.issueRefreshToken(ctx, user)
	if err != nil {
		return "", "", nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return accessToken, refreshToken, user, nil
}

// Logout revokes the refresh token. Unknown tokens are treated as already
// logged out.
func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	err := s.refreshTokenRepo.Revoke(ctx, refreshToken)
	if err != nil && !errors.Is(err, repository.ErrRefreshTokenNotFound) {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (s *userService) RefreshToken(ctx context.Context, refreshTokenString string) (string, error) {
	stored, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) || errors.Is(err, repository.ErrRefreshTokenRevoked) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("find refresh token: %w", err)
	}
	if time.Now().After(stored.ExpiresAt) {
		return "", ErrTokenExpired
	}

	user, err := s.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	return s.signAccessToken(user)
}

func (s *userService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *userService) signAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
}

// issueRefreshToken mints an opaque token and persists it for later
// validation and revocation.
func (s *userService) issueRefreshToken(ctx context.Context, user *domain.User) (string, error) {
	tokenString := uuid.New().String()
	refreshToken := &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     tokenString,
		ExpiresAt: time.Now().Add(s.refreshExpiry),
		CreatedAt: time.Now(),
	}
	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", err
	}
	return tokenString, nil
}

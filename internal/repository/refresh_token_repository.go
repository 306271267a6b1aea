package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"distris-api/internal/domain"
)

var (
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenRevoked  = errors.New("refresh token has been revoked")
)

// RefreshTokenRepository stores revocable session tokens. Revoked tokens stay
// in the table so reuse attempts are distinguishable from unknown tokens.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
}

type refreshTokenRepository struct {
	db *sql.DB
}

func NewRefreshTokenRepository(db *sql.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at, revoked)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		token.ID, token.UserID, token.Token,
		token.ExpiresAt, token.CreatedAt, token.Revoked,
	)
	if err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// FindByToken returns ErrRefreshTokenRevoked for tokens that exist but were
// revoked, so callers can treat reuse as a distinct failure.
func (r *refreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, created_at, revoked
		FROM refresh_tokens
		WHERE token = $1
	`

	rt := &domain.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&rt.ID, &rt.UserID, &rt.Token,
		&rt.ExpiresAt, &rt.CreatedAt, &rt.Revoked,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	if rt.Revoked {
		return nil, ErrRefreshTokenRevoked
	}
	return rt, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, token string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	if affected == 0 {
		return ErrRefreshTokenNotFound
	}
	return nil
}

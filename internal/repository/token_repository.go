package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/jmoiron/sqlx"
)

// TokenRepository stores issued refresh tokens.
type TokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Save(ctx context.Context, t *models.RefreshToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		t.Token, t.UserID, t.ExpiresAt)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return models.ErrUserNotFound
		}
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

func (r *TokenRepository) Delete(ctx context.Context, token string) (int64, error) {
	return r.exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token)
}

func (r *TokenRepository) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	return r.exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
}

func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1`, now)
}

// Consume deletes and returns the token in one statement, so a token can be
// exchanged at most once.
func (r *TokenRepository) Consume(ctx context.Context, token string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	err := r.db.GetContext(ctx, &t,
		`DELETE FROM refresh_tokens WHERE token = $1 RETURNING token, user_id, expires_at`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume refresh token: %w", err)
	}
	return &t, nil
}

func (r *TokenRepository) exec(ctx context.Context, query string, arg any) (int64, error) {
	result, err := r.db.ExecContext(ctx, query, arg)
	if err != nil {
		return 0, fmt.Errorf("failed to delete refresh tokens: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return rows, nil
}

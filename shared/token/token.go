package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Store persists issued refresh tokens.
type Store interface {
	Save(ctx context.Context, t *models.RefreshToken) error
	Delete(ctx context.Context, token string) (int64, error)
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
	// Consume removes the token and returns it, or ErrInvalidToken when it
	// is not stored.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Claims is the JWT payload shared by access and refresh tokens.
type Claims struct {
	UserID string   `json:"userId"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// HasAnyRole reports whether the claims carry at least one of roles.
func (c *Claims) HasAnyRole(roles ...string) bool {
	for _, have := range c.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Service issues, verifies and revokes access/refresh token pairs.
type Service struct {
	store Store
	cfg   Config
	now   func() time.Time
}

func NewService(store Store, cfg Config) *Service {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = 24 * time.Hour
	}
	return &Service{store: store, cfg: cfg, now: time.Now}
}

func (s *Service) AccessTTL() time.Duration  { return s.cfg.AccessTTL }
func (s *Service) RefreshTTL() time.Duration { return s.cfg.RefreshTTL }

// Issue signs a new pair and persists the refresh half.
func (s *Service) Issue(ctx context.Context, userID string, roles []string) (*Pair, error) {
	now := s.now()

	access, err := s.sign(s.cfg.AccessSecret, userID, roles, now, s.cfg.AccessTTL, "")
	if err != nil {
		return nil, err
	}
	refreshExp := now.Add(s.cfg.RefreshTTL)
	refresh, err := s.sign(s.cfg.RefreshSecret, userID, roles, now, s.cfg.RefreshTTL, uuid.NewString())
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, &models.RefreshToken{
		Token:     refresh,
		UserID:    userID,
		ExpiresAt: refreshExp.UTC(),
	}); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return &Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) VerifyAccess(tokenString string) (*Claims, error) {
	return s.verify(s.cfg.AccessSecret, tokenString)
}

func (s *Service) VerifyRefresh(tokenString string) (*Claims, error) {
	return s.verify(s.cfg.RefreshSecret, tokenString)
}

// Rotate consumes a refresh token and returns its owner. A token that
// verifies but is no longer stored has been used before, so every session
// of that user is revoked.
func (s *Service) Rotate(ctx context.Context, refresh string) (string, error) {
	claims, err := s.VerifyRefresh(refresh)
	if err != nil {
		return "", err
	}
	stored, err := s.store.Consume(ctx, refresh)
	if errors.Is(err, models.ErrInvalidToken) {
		if _, revokeErr := s.store.DeleteAllForUser(ctx, claims.UserID); revokeErr != nil {
			return "", fmt.Errorf("failed to revoke sessions after reuse: %w", revokeErr)
		}
		return "", models.ErrInvalidToken
	}
	if err != nil {
		return "", err
	}
	if stored.UserID != claims.UserID {
		return "", models.ErrInvalidToken
	}
	return stored.UserID, nil
}

func (s *Service) Revoke(ctx context.Context, refresh string) (int64, error) {
	return s.store.Delete(ctx, refresh)
}

func (s *Service) RevokeAll(ctx context.Context, userID string) error {
	_, err := s.store.DeleteAllForUser(ctx, userID)
	return err
}

// PurgeExpired removes refresh tokens past their expiry.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.store.DeleteExpired(ctx, s.now().UTC())
}

func (s *Service) sign(secret []byte, userID string, roles []string, now time.Time, ttl time.Duration, jti string) (string, error) {
	claims := Claims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}

func (s *Service) verify(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !tok.Valid || claims.UserID == "" {
		return nil, models.ErrInvalidToken
	}
	return claims, nil
}

package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Denn4ik2010/online-shop/shared/cqrs"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/Denn4ik2010/online-shop/shared/token"
	"github.com/Denn4ik2010/online-shop/shared/utils"
	"go.uber.org/zap"
)

type AuthUserStore interface {
	Create(ctx context.Context, user *models.User, roleValue string) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type TokenManager interface {
	Issue(ctx context.Context, userID string, roles []string) (*token.Pair, error)
	Rotate(ctx context.Context, refresh string) (string, error)
	Revoke(ctx context.Context, refresh string) (int64, error)
	RevokeAll(ctx context.Context, userID string) error
}

// AuthCommandService registers users and manages their sessions. Login is
// a command here because it persists a refresh token.
type AuthCommandService struct {
	users  AuthUserStore
	tokens TokenManager
	log    *zap.SugaredLogger
}

func NewAuthCommandService(users AuthUserStore, tokens TokenManager, log *zap.Logger) *AuthCommandService {
	return &AuthCommandService{users: users, tokens: tokens, log: log.Sugar()}
}

func (s *AuthCommandService) Register(ctx context.Context, cmd cqrs.RegisterCommand) (*models.ProfileView, error) {
	passwordHash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	now := time.Now().UTC()
	user := &models.User{
		ID:           utils.GenerateID(utils.UserPrefix),
		Email:        strings.ToLower(strings.TrimSpace(cmd.Email)),
		Nickname:     strings.TrimSpace(cmd.Nickname),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user, models.RoleUser); err != nil {
		return nil, err
	}
	s.log.Infow("user registered", "userId", user.ID)
	return user.Profile(), nil
}

func (s *AuthCommandService) Login(ctx context.Context, cmd cqrs.LoginCommand) (*token.Pair, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(cmd.Email)))
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(cmd.Password, user.PasswordHash) {
		return nil, models.ErrInvalidCredentials
	}
	return s.tokens.Issue(ctx, user.ID, user.Roles)
}

// Refresh exchanges a refresh token for a new pair carrying the user's
// current roles.
func (s *AuthCommandService) Refresh(ctx context.Context, cmd cqrs.RefreshTokenCommand) (*token.Pair, error) {
	if cmd.Token == "" {
		return nil, models.ErrInvalidToken
	}
	userID, err := s.tokens.Rotate(ctx, cmd.Token)
	if err != nil {
		if errors.Is(err, models.ErrInvalidToken) {
			s.log.Warnw("refresh token rejected")
		}
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, models.ErrUserNotFound) {
		return nil, models.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return s.tokens.Issue(ctx, user.ID, user.Roles)
}

// Logout revokes one refresh token and reports how many rows went away.
func (s *AuthCommandService) Logout(ctx context.Context, cmd cqrs.LogoutCommand) (int64, error) {
	if cmd.Token == "" {
		return 0, nil
	}
	return s.tokens.Revoke(ctx, cmd.Token)
}

func (s *AuthCommandService) LogoutAll(ctx context.Context, userID string) error {
	return s.tokens.RevokeAll(ctx, userID)
}

package command

import (
	"context"
	"strings"

	"github.com/Denn4ik2010/online-shop/shared/cqrs"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/Denn4ik2010/online-shop/shared/utils"
)

type RoleStore interface {
	Create(ctx context.Context, role *models.Role) error
	DeleteByValue(ctx context.Context, value string) error
}

type RoleCommandService struct {
	roles RoleStore
}

func NewRoleCommandService(roles RoleStore) *RoleCommandService {
	return &RoleCommandService{roles: roles}
}

func (s *RoleCommandService) CreateRole(ctx context.Context, cmd cqrs.CreateRoleCommand) (*models.Role, error) {
	role := &models.Role{
		ID:          utils.GenerateID(utils.RolePrefix),
		Value:       strings.ToUpper(cmd.Value),
		Description: cmd.Description,
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// DeleteRole refuses to drop USER and ADMIN, which registration and the
// admin guard depend on.
func (s *RoleCommandService) DeleteRole(ctx context.Context, cmd cqrs.DeleteRoleCommand) error {
	value := strings.ToUpper(cmd.Value)
	if value == models.RoleUser || value == models.RoleAdmin {
		return models.ErrForbidden
	}
	return s.roles.DeleteByValue(ctx, value)
}

package query

import (
	"context"
	"strings"

	"github.com/Denn4ik2010/online-shop/shared/cqrs"
	"github.com/Denn4ik2010/online-shop/shared/models"
)

type RoleReader interface {
	GetByID(ctx context.Context, id string) (*models.Role, error)
	GetByValue(ctx context.Context, value string) (*models.Role, error)
}

type RoleQueryService struct {
	roles RoleReader
}

func NewRoleQueryService(roles RoleReader) *RoleQueryService {
	return &RoleQueryService{roles: roles}
}

func (s *RoleQueryService) GetRole(ctx context.Context, q cqrs.GetRoleQuery) (*models.Role, error) {
	return s.roles.GetByID(ctx, q.RoleID)
}

func (s *RoleQueryService) GetRoleByValue(ctx context.Context, q cqrs.GetRoleByValueQuery) (*models.Role, error) {
	return s.roles.GetByValue(ctx, strings.ToUpper(q.Value))
}

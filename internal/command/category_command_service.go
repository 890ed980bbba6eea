package command

import (
	"context"
	"strings"
	"time"

	"github.com/Denn4ik2010/online-shop/shared/cqrs"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/Denn4ik2010/online-shop/shared/utils"
)

type CategoryStore interface {
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id string) error
}

type CategoryCommandService struct {
	categories CategoryStore
}

func NewCategoryCommandService(categories CategoryStore) *CategoryCommandService {
	return &CategoryCommandService{categories: categories}
}

func (s *CategoryCommandService) CreateCategory(ctx context.Context, cmd cqrs.CreateCategoryCommand) (*models.Category, error) {
	now := time.Now().UTC()
	c := &models.Category{
		ID:          utils.GenerateID(utils.CategoryPrefix),
		Name:        strings.TrimSpace(cmd.Name),
		Description: strings.TrimSpace(cmd.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryCommandService) UpdateCategory(ctx context.Context, cmd cqrs.UpdateCategoryCommand) (*models.Category, error) {
	c, err := s.categories.GetByID(ctx, cmd.CategoryID)
	if err != nil {
		return nil, err
	}
	if cmd.Name != nil {
		c.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.Description != nil {
		c.Description = strings.TrimSpace(*cmd.Description)
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryCommandService) DeleteCategory(ctx context.Context, cmd cqrs.DeleteCategoryCommand) error {
	return s.categories.Delete(ctx, cmd.CategoryID)
}

package query

import (
	"context"
	"strings"

	"github.com/Denn4ik2010/online-shop/internal/repository"
	"github.com/Denn4ik2010/online-shop/shared/cqrs"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/Denn4ik2010/online-shop/shared/pagination"
)

type CategoryReader interface {
	GetByID(ctx context.Context, id string) (*models.Category, error)
	List(ctx context.Context, name, orderBy string, limit, offset int) ([]models.Category, error)
	Count(ctx context.Context, name string) (int, error)
}

type CategoryQueryService struct {
	categories CategoryReader
}

func NewCategoryQueryService(categories CategoryReader) *CategoryQueryService {
	return &CategoryQueryService{categories: categories}
}

func (s *CategoryQueryService) GetCategory(ctx context.Context, q cqrs.GetCategoryQuery) (*models.Category, error) {
	return s.categories.GetByID(ctx, q.CategoryID)
}

// ListCategories pages categories; a non-empty Name searches by fragment.
func (s *CategoryQueryService) ListCategories(ctx context.Context, q cqrs.ListCategoriesQuery) (*pagination.Page[models.Category], error) {
	orderBy, err := q.Sort.OrderBy(repository.CategorySortColumns)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(q.Name)
	return fetchPage(ctx, q.Page,
		func(ctx context.Context, limit, offset int) ([]models.Category, error) {
			return s.categories.List(ctx, name, orderBy, limit, offset)
		},
		func(ctx context.Context) (int, error) {
			return s.categories.Count(ctx, name)
		},
	)
}

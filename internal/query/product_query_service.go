package query

import (
	"context"
	"strings"

	"github.com/Denn4ik2010/online-shop/internal/repository"
	"github.com/Denn4ik2010/online-shop/shared/cqrs"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/Denn4ik2010/online-shop/shared/pagination"
)

type ProductReader interface {
	GetByID(ctx context.Context, id string) (*models.ProductView, error)
	List(ctx context.Context, f repository.ProductFilter, orderBy string, limit, offset int) ([]models.ProductView, error)
	Count(ctx context.Context, f repository.ProductFilter) (int, error)
}

type UserExistence interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type CategoryGetter interface {
	GetByID(ctx context.Context, id string) (*models.Category, error)
}

// ProductQueryService reads single products through the Redis view cache and
// pages listings from PostgreSQL.
type ProductQueryService struct {
	products   ProductReader
	users      UserExistence
	categories CategoryGetter
}

func NewProductQueryService(products ProductReader, users UserExistence, categories CategoryGetter) *ProductQueryService {
	return &ProductQueryService{products: products, users: users, categories: categories}
}

func (s *ProductQueryService) GetProduct(ctx context.Context, q cqrs.GetProductQuery) (*models.ProductView, error) {
	return s.products.GetByID(ctx, q.ProductID)
}

// ListProducts serves both the plain listing and search.
func (s *ProductQueryService) ListProducts(ctx context.Context, q cqrs.ListProductsQuery) (*pagination.Page[models.ProductView], error) {
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return nil, models.ErrInvalidRange
	}
	orderBy, err := q.Sort.OrderBy(repository.ProductSortColumns)
	if err != nil {
		return nil, err
	}
	filter := repository.ProductFilter{
		Title:       strings.TrimSpace(q.Title),
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		CategoryIDs: q.CategoryIDs,
		SellerID:    q.SellerID,
	}
	return fetchPage(ctx, q.Page,
		func(ctx context.Context, limit, offset int) ([]models.ProductView, error) {
			return s.products.List(ctx, filter, orderBy, limit, offset)
		},
		func(ctx context.Context) (int, error) {
			return s.products.Count(ctx, filter)
		},
	)
}

// ListUserProducts pages what q.SellerID sells; unknown users are a 404.
func (s *ProductQueryService) ListUserProducts(ctx context.Context, q cqrs.ListProductsQuery) (*pagination.Page[models.ProductView], error) {
	exists, err := s.users.Exists(ctx, q.SellerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.ErrUserNotFound
	}
	return s.ListProducts(ctx, cqrs.ListProductsQuery{SellerID: q.SellerID, Page: q.Page, Sort: q.Sort})
}

func (s *ProductQueryService) ListCategoryProducts(ctx context.Context, categoryID string, q cqrs.ListProductsQuery) (*pagination.Page[models.ProductView], error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.ListProducts(ctx, cqrs.ListProductsQuery{CategoryIDs: []string{categoryID}, Page: q.Page, Sort: q.Sort})
}

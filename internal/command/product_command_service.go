package command

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"github.com/Denn4ik2010/online-shop/shared/cqrs"
	"github.com/Denn4ik2010/online-shop/shared/events"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/Denn4ik2010/online-shop/shared/utils"
	"go.uber.org/zap"
)

type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, p *models.Product, replaceCategories bool) error
	Delete(ctx context.Context, id string) error
}

type ProductViewCache interface {
	CacheProductView(ctx context.Context, view *models.ProductView)
	InvalidateProductViews(ctx context.Context, ids ...string)
}

type CategoryChecker interface {
	CountExisting(ctx context.Context, ids []string) (int, error)
}

// ImageStore is satisfied by storage.ImageStore.
type ImageStore interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(urls ...string)
}

// ProductCommandService writes products to PostgreSQL, keeps the Redis view
// current and announces every change on the product stream.
type ProductCommandService struct {
	products   ProductStore
	cache      ProductViewCache
	categories CategoryChecker
	images     ImageStore
	publisher  EventPublisher
	log        *zap.SugaredLogger
}

func NewProductCommandService(
	products ProductStore,
	cache ProductViewCache,
	categories CategoryChecker,
	images ImageStore,
	publisher EventPublisher,
	log *zap.Logger,
) *ProductCommandService {
	return &ProductCommandService{
		products:   products,
		cache:      cache,
		categories: categories,
		images:     images,
		publisher:  publisher,
		log:        log.Sugar(),
	}
}

func (s *ProductCommandService) CreateProduct(ctx context.Context, cmd cqrs.CreateProductCommand) (*models.ProductView, error) {
	categoryIDs := dedupe(cmd.CategoryIDs)
	if err := s.checkCategories(ctx, categoryIDs); err != nil {
		return nil, err
	}
	urls, err := s.saveImages(cmd.Images)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &models.Product{
		ID:          utils.GenerateID(utils.ProductPrefix),
		Title:       strings.TrimSpace(cmd.Title),
		Description: strings.TrimSpace(cmd.Description),
		Price:       roundPrice(cmd.Price),
		Images:      urls,
		SellerID:    cmd.SellerID,
		CategoryIDs: categoryIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, p); err != nil {
		s.images.Remove(urls...)
		return nil, err
	}

	view := p.View()
	s.cache.CacheProductView(ctx, view)
	publish(ctx, s.publisher, s.log, events.ProductEventsStream, events.ProductCreated, productEvent(p))
	return view, nil
}

// UpdateProduct applies the set fields. Only the seller may edit.
func (s *ProductCommandService) UpdateProduct(ctx context.Context, cmd cqrs.UpdateProductCommand) (*models.ProductView, error) {
	p, err := s.ownedProduct(ctx, cmd.ProductID, cmd.RequestingUserID)
	if err != nil {
		return nil, err
	}

	if cmd.Title != nil {
		p.Title = strings.TrimSpace(*cmd.Title)
	}
	if cmd.Description != nil {
		p.Description = strings.TrimSpace(*cmd.Description)
	}
	if cmd.Price != nil {
		p.Price = roundPrice(*cmd.Price)
	}
	replaceCategories := cmd.CategoryIDs != nil
	if replaceCategories {
		p.CategoryIDs = dedupe(cmd.CategoryIDs)
		if err := s.checkCategories(ctx, p.CategoryIDs); err != nil {
			return nil, err
		}
	}
	urls, err := s.saveImages(cmd.Images)
	if err != nil {
		return nil, err
	}
	p.Images = append(p.Images, urls...)
	p.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(ctx, p, replaceCategories); err != nil {
		s.images.Remove(urls...)
		return nil, err
	}

	view := p.View()
	s.cache.CacheProductView(ctx, view)
	publish(ctx, s.publisher, s.log, events.ProductEventsStream, events.ProductUpdated, productEvent(p))
	return view, nil
}

func (s *ProductCommandService) DeleteProduct(ctx context.Context, cmd cqrs.DeleteProductCommand) error {
	p, err := s.ownedProduct(ctx, cmd.ProductID, cmd.RequestingUserID)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, p.ID); err != nil {
		return err
	}
	s.cache.InvalidateProductViews(ctx, p.ID)
	s.images.Remove(p.Images...)
	publish(ctx, s.publisher, s.log, events.ProductEventsStream, events.ProductDeleted, events.ProductEvent{
		ProductID: p.ID,
		SellerID:  p.SellerID,
	})
	return nil
}

func (s *ProductCommandService) ownedProduct(ctx context.Context, productID, userID string) (*models.Product, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.SellerID != userID {
		return nil, models.ErrForbidden
	}
	return p, nil
}

func (s *ProductCommandService) checkCategories(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := s.categories.CountExisting(ctx, ids)
	if err != nil {
		return err
	}
	if n != len(ids) {
		return models.ErrUnknownCategory
	}
	return nil
}

// saveImages stores every upload or none of them.
func (s *ProductCommandService) saveImages(files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := s.images.Save(fh)
		if err != nil {
			s.images.Remove(urls...)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func productEvent(p *models.Product) events.ProductEvent {
	return events.ProductEvent{
		ProductID: p.ID,
		SellerID:  p.SellerID,
		Title:     p.Title,
		Price:     p.Price,
	}
}

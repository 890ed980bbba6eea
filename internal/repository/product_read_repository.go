package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Denn4ik2010/online-shop/shared/models"
	sharedredis "github.com/Denn4ik2010/online-shop/shared/redis"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	productViewKeyPrefix = "product:view:"
	productViewTTL       = 30 * time.Minute
)

// ProductFilter narrows product listings. Zero values do not filter.
type ProductFilter struct {
	Title       string
	MinPrice    *float64
	MaxPrice    *float64
	CategoryIDs []string
	SellerID    string
}

func (f ProductFilter) where() *where {
	w := &where{}
	if f.Title != "" {
		w.add("p.title ILIKE ?", escapeLike(f.Title))
	}
	if f.MinPrice != nil {
		w.add("p.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		w.add("p.price <= ?", *f.MaxPrice)
	}
	if len(f.CategoryIDs) > 0 {
		w.add("EXISTS (SELECT 1 FROM product_categories pc WHERE pc.product_id = p.id AND pc.category_id = ANY(?))", pq.Array(f.CategoryIDs))
	}
	if f.SellerID != "" {
		w.add("p.seller_id = ?", f.SellerID)
	}
	return w
}

// ProductReadRepository serves product reads. Single products come from
// Redis first, falling back to PostgreSQL; listings always hit PostgreSQL.
type ProductReadRepository struct {
	db    *sqlx.DB
	cache *sharedredis.ViewCache[models.ProductView]
}

func NewProductReadRepository(db *sqlx.DB, redisClient *goredis.Client, log *zap.Logger) *ProductReadRepository {
	return &ProductReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[models.ProductView](redisClient, productViewKeyPrefix, productViewTTL, log),
	}
}

func (r *ProductReadRepository) GetByID(ctx context.Context, id string) (*models.ProductView, error) {
	if view, ok := r.cache.Get(ctx, id); ok {
		return view, nil
	}

	var view models.ProductView
	err := r.db.GetContext(ctx, &view, productSelect+` WHERE p.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	r.cache.Set(ctx, id, &view)
	return &view, nil
}

func (r *ProductReadRepository) List(ctx context.Context, f ProductFilter, orderBy string, limit, offset int) ([]models.ProductView, error) {
	w := f.where()
	pageSQL, args := w.page(limit, offset)
	views := []models.ProductView{}
	if err := r.db.SelectContext(ctx, &views, productSelect+w.sql()+` ORDER BY `+orderBy+pageSQL, args...); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return views, nil
}

func (r *ProductReadRepository) Count(ctx context.Context, f ProductFilter) (int, error) {
	w := f.where()
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM products p`+w.sql(), w.args...); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// CacheProductView refreshes the Redis read model after a mutation.
func (r *ProductReadRepository) CacheProductView(ctx context.Context, view *models.ProductView) {
	r.cache.Set(ctx, view.ID, view)
}

func (r *ProductReadRepository) InvalidateProductViews(ctx context.Context, ids ...string) {
	r.cache.Delete(ctx, ids...)
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const productSelect = `
	SELECT p.id, p.title, p.description, p.price, p.images, p.seller_id,
		ARRAY(SELECT pc.category_id FROM product_categories pc WHERE pc.product_id = p.id ORDER BY pc.category_id) AS category_ids,
		p.created_at, p.updated_at
	FROM products p`

// ProductWriteRepository handles all state-mutating operations for products.
// It operates exclusively against PostgreSQL.
type ProductWriteRepository struct {
	db *sqlx.DB
}

func NewProductWriteRepository(db *sqlx.DB) *ProductWriteRepository {
	return &ProductWriteRepository{db: db}
}

// Create inserts the product and links its categories.
func (r *ProductWriteRepository) Create(ctx context.Context, p *models.Product) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (id, title, description, price, images, seller_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Title, p.Description, p.Price, pq.Array([]string(p.Images)), p.SellerID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return productError("create product", err)
	}
	if err := linkCategories(ctx, tx, p.ID, p.CategoryIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product: %w", err)
	}
	return nil
}

func (r *ProductWriteRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := r.db.GetContext(ctx, &p, productSelect+` WHERE p.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

// Update writes every column and, when replaceCategories is set, replaces
// the category links with p.CategoryIDs.
func (r *ProductWriteRepository) Update(ctx context.Context, p *models.Product, replaceCategories bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE products
		SET title = $2, description = $3, price = $4, images = $5, updated_at = $6
		WHERE id = $1`,
		p.ID, p.Title, p.Description, p.Price, pq.Array([]string(p.Images)), p.UpdatedAt,
	)
	if err != nil {
		return productError("update product", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return models.ErrProductNotFound
	}

	if replaceCategories {
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_categories WHERE product_id = $1`, p.ID); err != nil {
			return fmt.Errorf("failed to unlink categories: %w", err)
		}
		if err := linkCategories(ctx, tx, p.ID, p.CategoryIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product: %w", err)
	}
	return nil
}

func (r *ProductWriteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrProductNotFound
	}
	return nil
}

// Listing is the part of a product that outlives a cascade delete: its id
// in the view cache and its image files on disk.
type Listing struct {
	ID     string         `db:"id"`
	Images pq.StringArray `db:"images"`
}

// ListingsBySeller returns every product a user sells.
func (r *ProductWriteRepository) ListingsBySeller(ctx context.Context, sellerID string) ([]Listing, error) {
	listings := []Listing{}
	if err := r.db.SelectContext(ctx, &listings, `SELECT id, images FROM products WHERE seller_id = $1`, sellerID); err != nil {
		return nil, fmt.Errorf("failed to list seller products: %w", err)
	}
	return listings, nil
}

func linkCategories(ctx context.Context, tx *sqlx.Tx, productID string, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO product_categories (product_id, category_id)
		SELECT $1, unnest($2::text[])
		ON CONFLICT DO NOTHING`, productID, pq.Array(categoryIDs))
	if err != nil {
		return productError("link categories", err)
	}
	return nil
}

func productError(op string, err error) error {
	switch pgCode(err) {
	case pgUniqueViolation:
		return models.ErrProductExists
	case pgForeignKeyViolation:
		return models.ErrUnknownCategory
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

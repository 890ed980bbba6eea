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

type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO categories (id, name, description, created_at, updated_at)
		VALUES (:id, :name, :description, :created_at, :updated_at)`, c)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return models.ErrCategoryExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	err := r.db.GetContext(ctx, &c,
		`SELECT id, name, description, created_at, updated_at FROM categories WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *models.Category) error {
	result, err := r.db.NamedExecContext(ctx, `
		UPDATE categories SET name = :name, description = :description, updated_at = :updated_at
		WHERE id = :id`, c)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return models.ErrCategoryExists
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return models.ErrCategoryNotFound
	}
	return nil
}

// Delete fails with ErrCategoryInUse while any product references it.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return models.ErrCategoryInUse
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrCategoryNotFound
	}
	return nil
}

// List pages categories, optionally filtered by a case-insensitive name
// fragment.
func (r *CategoryRepository) List(ctx context.Context, name, orderBy string, limit, offset int) ([]models.Category, error) {
	w := categoryWhere(name)
	pageSQL, args := w.page(limit, offset)
	categories := []models.Category{}
	err := r.db.SelectContext(ctx, &categories,
		`SELECT id, name, description, created_at, updated_at FROM categories`+w.sql()+` ORDER BY `+orderBy+pageSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Count(ctx context.Context, name string) (int, error) {
	w := categoryWhere(name)
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM categories`+w.sql(), w.args...); err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return total, nil
}

// CountExisting returns how many of ids exist.
func (r *CategoryRepository) CountExisting(ctx context.Context, ids []string) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM categories WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return 0, fmt.Errorf("failed to check categories: %w", err)
	}
	return n, nil
}

func categoryWhere(name string) *where {
	w := &where{}
	if name != "" {
		w.add("name ILIKE ?", escapeLike(name))
	}
	return w
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/jmoiron/sqlx"
)

// UserFilter narrows user search. Zero values do not filter.
type UserFilter struct {
	Nickname string
	MinDate  *time.Time
	MaxDate  *time.Time
}

func (f UserFilter) where() *where {
	w := &where{}
	if f.Nickname != "" {
		w.add("nickname ILIKE ?", escapeLike(f.Nickname))
	}
	if f.MinDate != nil {
		w.add("created_at >= ?", *f.MinDate)
	}
	if f.MaxDate != nil {
		w.add("created_at <= ?", *f.MaxDate)
	}
	return w
}

// UserRepository owns users and their role assignments.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user and grants it roleValue in one transaction.
func (r *UserRepository) Create(ctx context.Context, user *models.User, roleValue string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, email, nickname, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.Nickname, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return models.ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE value = $2`,
		user.ID, roleValue,
	)
	if err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrRoleNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user: %w", err)
	}
	user.Roles = []string{roleValue}
	return nil
}

// GetByEmail returns the full write model, password hash included.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT id, email, nickname, password_hash, created_at, updated_at FROM users WHERE email = $1`, email)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `SELECT id, email, nickname, password_hash, created_at, updated_at FROM users WHERE id = $1`, id)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.Roles, err = r.Roles(ctx, user.ID); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Roles(ctx context.Context, userID string) ([]string, error) {
	roles := []string{}
	err := r.db.SelectContext(ctx, &roles, `
		SELECT r.value FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.value`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}
	return roles, nil
}

// AddRole grants roleValue; granting a held role is a no-op.
func (r *UserRepository) AddRole(ctx context.Context, userID, roleValue string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE value = $2
		ON CONFLICT DO NOTHING`, userID, roleValue)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return models.ErrUserNotFound
		}
		return fmt.Errorf("failed to add role: %w", err)
	}
	return nil
}

// Delete removes the user; products, chats and sessions cascade.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// List returns profiles (with roles) for the admin listing.
func (r *UserRepository) List(ctx context.Context, orderBy string, limit, offset int) ([]models.ProfileView, error) {
	profiles := []models.ProfileView{}
	err := r.db.SelectContext(ctx, &profiles, `
		SELECT id, email, nickname, created_at, updated_at
		FROM users
		ORDER BY `+orderBy+`
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range profiles {
		if profiles[i].Roles, err = r.Roles(ctx, profiles[i].ID); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	return r.CountSearch(ctx, UserFilter{})
}

func (r *UserRepository) Search(ctx context.Context, f UserFilter, orderBy string, limit, offset int) ([]models.UserView, error) {
	w := f.where()
	pageSQL, args := w.page(limit, offset)
	views := []models.UserView{}
	err := r.db.SelectContext(ctx, &views,
		`SELECT id, nickname, created_at FROM users`+w.sql()+` ORDER BY `+orderBy+pageSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return views, nil
}

func (r *UserRepository) CountSearch(ctx context.Context, f UserFilter) (int, error) {
	w := f.where()
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`+w.sql(), w.args...); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, nil
}

func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id); err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}

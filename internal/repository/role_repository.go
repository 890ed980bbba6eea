package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/jmoiron/sqlx"
)

type RoleRepository struct {
	db *sqlx.DB
}

func NewRoleRepository(db *sqlx.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(ctx context.Context, role *models.Role) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO roles (id, value, description) VALUES (:id, :value, :description)`, role)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return models.ErrRoleExists
		}
		return fmt.Errorf("failed to create role: %w", err)
	}
	return nil
}

func (r *RoleRepository) GetByID(ctx context.Context, id string) (*models.Role, error) {
	return r.getOne(ctx, `SELECT id, value, description FROM roles WHERE id = $1`, id)
}

func (r *RoleRepository) GetByValue(ctx context.Context, value string) (*models.Role, error) {
	return r.getOne(ctx, `SELECT id, value, description FROM roles WHERE value = $1`, value)
}

func (r *RoleRepository) getOne(ctx context.Context, query string, arg any) (*models.Role, error) {
	var role models.Role
	err := r.db.GetContext(ctx, &role, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrRoleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return &role, nil
}

func (r *RoleRepository) DeleteByValue(ctx context.Context, value string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM roles WHERE value = $1`, value)
	if err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrRoleNotFound
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/jmoiron/sqlx"
)

const messageSelect = `
	SELECT m.id, m.chat_id, m.author_id, u.nickname AS author_nickname, m.text, m.created_at, m.updated_at
	FROM messages m
	JOIN users u ON u.id = m.author_id`

type MessageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts the message and returns it with the author's nickname.
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) (*models.MessageView, error) {
	var view models.MessageView
	err := r.db.GetContext(ctx, &view, `
		WITH m AS (
			INSERT INTO messages (id, chat_id, author_id, text, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, chat_id, author_id, text, created_at, updated_at
		)
		SELECT m.id, m.chat_id, m.author_id, u.nickname AS author_nickname, m.text, m.created_at, m.updated_at
		FROM m JOIN users u ON u.id = m.author_id`,
		m.ID, m.ChatID, m.AuthorID, m.Text, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return nil, models.ErrChatNotFound
		}
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return &view, nil
}

func (r *MessageRepository) GetByID(ctx context.Context, chatID, id string) (*models.MessageView, error) {
	var view models.MessageView
	err := r.db.GetContext(ctx, &view, messageSelect+` WHERE m.id = $1 AND m.chat_id = $2`, id, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return &view, nil
}

func (r *MessageRepository) UpdateText(ctx context.Context, m *models.MessageView) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE messages SET text = $2, updated_at = $3 WHERE id = $1`, m.ID, m.Text, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return models.ErrMessageNotFound
	}
	return nil
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrMessageNotFound
	}
	return nil
}

// ListByChat pages a chat's messages oldest first.
func (r *MessageRepository) ListByChat(ctx context.Context, chatID string, limit, offset int) ([]models.MessageView, error) {
	views := []models.MessageView{}
	err := r.db.SelectContext(ctx, &views,
		messageSelect+` WHERE m.chat_id = $1 ORDER BY m.created_at ASC, m.id ASC LIMIT $2 OFFSET $3`,
		chatID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return views, nil
}

func (r *MessageRepository) CountByChat(ctx context.Context, chatID string) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM messages WHERE chat_id = $1`, chatID); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return total, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/jmoiron/sqlx"
)

type ChatRepository struct {
	db *sqlx.DB
}

func NewChatRepository(db *sqlx.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Create(ctx context.Context, chat *models.Chat) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chats (id, seller_id, buyer_id, created_at) VALUES ($1, $2, $3, $4)`,
		chat.ID, chat.SellerID, chat.BuyerID, chat.CreatedAt)
	if err != nil {
		switch pgCode(err) {
		case pgUniqueViolation:
			return models.ErrChatExists
		case pgForeignKeyViolation:
			return models.ErrUserNotFound
		}
		return fmt.Errorf("failed to create chat: %w", err)
	}
	return nil
}

func (r *ChatRepository) GetByID(ctx context.Context, id string) (*models.Chat, error) {
	return r.getOne(ctx, `SELECT id, seller_id, buyer_id, created_at FROM chats WHERE id = $1`, id)
}

// FindBetween returns the chat of two users regardless of who sells.
func (r *ChatRepository) FindBetween(ctx context.Context, a, b string) (*models.Chat, error) {
	return r.getOne(ctx, `
		SELECT id, seller_id, buyer_id, created_at FROM chats
		WHERE (seller_id = $1 AND buyer_id = $2) OR (seller_id = $2 AND buyer_id = $1)
		LIMIT 1`, a, b)
}

func (r *ChatRepository) getOne(ctx context.Context, query string, args ...any) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.GetContext(ctx, &chat, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrChatNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return &chat, nil
}

// ListForUser pages the user's chats, newest first, naming the other
// participant.
func (r *ChatRepository) ListForUser(ctx context.Context, userID string, limit, offset int) ([]models.ChatListItem, error) {
	items := []models.ChatListItem{}
	err := r.db.SelectContext(ctx, &items, `
		SELECT c.id, u.nickname AS with_whom, c.created_at
		FROM chats c
		JOIN users u ON u.id = CASE WHEN c.seller_id = $1 THEN c.buyer_id ELSE c.seller_id END
		WHERE c.seller_id = $1 OR c.buyer_id = $1
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	return items, nil
}

func (r *ChatRepository) CountForUser(ctx context.Context, userID string) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM chats WHERE seller_id = $1 OR buyer_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count chats: %w", err)
	}
	return total, nil
}

func (r *ChatRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM chats WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrChatNotFound
	}
	return nil
}

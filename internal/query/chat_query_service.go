package query

import (
	"context"

	"github.com/Denn4ik2010/online-shop/shared/cqrs"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/Denn4ik2010/online-shop/shared/pagination"
)

type ChatReader interface {
	GetByID(ctx context.Context, id string) (*models.Chat, error)
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]models.ChatListItem, error)
	CountForUser(ctx context.Context, userID string) (int, error)
}

type MessageReader interface {
	ListByChat(ctx context.Context, chatID string, limit, offset int) ([]models.MessageView, error)
	CountByChat(ctx context.Context, chatID string) (int, error)
}

type ChatQueryService struct {
	chats    ChatReader
	messages MessageReader
}

func NewChatQueryService(chats ChatReader, messages MessageReader) *ChatQueryService {
	return &ChatQueryService{chats: chats, messages: messages}
}

func (s *ChatQueryService) ListChats(ctx context.Context, q cqrs.ListChatsQuery) (*pagination.Page[models.ChatListItem], error) {
	return fetchPage(ctx, q.Page,
		func(ctx context.Context, limit, offset int) ([]models.ChatListItem, error) {
			return s.chats.ListForUser(ctx, q.UserID, limit, offset)
		},
		func(ctx context.Context) (int, error) {
			return s.chats.CountForUser(ctx, q.UserID)
		},
	)
}

// GetChat returns the chat with one page of its messages. The page metadata
// describes the messages.
func (s *ChatQueryService) GetChat(ctx context.Context, q cqrs.GetChatQuery) (*models.ChatView, *pagination.Page[models.MessageView], error) {
	chat, err := memberChat(ctx, s.chats, q.ChatID, q.RequestingUserID)
	if err != nil {
		return nil, nil, err
	}
	page, err := s.messagePage(ctx, chat.ID, q.Page)
	if err != nil {
		return nil, nil, err
	}
	return &models.ChatView{
		ID:        chat.ID,
		SellerID:  chat.SellerID,
		BuyerID:   chat.BuyerID,
		CreatedAt: chat.CreatedAt,
		Messages:  page.Items,
	}, page, nil
}

func (s *ChatQueryService) ListMessages(ctx context.Context, q cqrs.ListMessagesQuery) (*pagination.Page[models.MessageView], error) {
	chat, err := memberChat(ctx, s.chats, q.ChatID, q.RequestingUserID)
	if err != nil {
		return nil, err
	}
	return s.messagePage(ctx, chat.ID, q.Page)
}

func (s *ChatQueryService) messagePage(ctx context.Context, chatID string, params pagination.Params) (*pagination.Page[models.MessageView], error) {
	return fetchPage(ctx, params,
		func(ctx context.Context, limit, offset int) ([]models.MessageView, error) {
			return s.messages.ListByChat(ctx, chatID, limit, offset)
		},
		func(ctx context.Context) (int, error) {
			return s.messages.CountByChat(ctx, chatID)
		},
	)
}

package command

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Denn4ik2010/online-shop/shared/cqrs"
	"github.com/Denn4ik2010/online-shop/shared/events"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/Denn4ik2010/online-shop/shared/utils"
	"go.uber.org/zap"
)

type ChatStore interface {
	Create(ctx context.Context, chat *models.Chat) error
	GetByID(ctx context.Context, id string) (*models.Chat, error)
	FindBetween(ctx context.Context, a, b string) (*models.Chat, error)
	Delete(ctx context.Context, id string) error
}

type MessageStore interface {
	Create(ctx context.Context, m *models.Message) (*models.MessageView, error)
	GetByID(ctx context.Context, chatID, id string) (*models.MessageView, error)
	UpdateText(ctx context.Context, m *models.MessageView) error
	Delete(ctx context.Context, id string) error
}

type UserExistence interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ChatCommandService opens and deletes chats and writes messages. Every
// change is published on the chat stream for realtime delivery.
type ChatCommandService struct {
	chats     ChatStore
	messages  MessageStore
	users     UserExistence
	publisher EventPublisher
	log       *zap.SugaredLogger
}

func NewChatCommandService(
	chats ChatStore,
	messages MessageStore,
	users UserExistence,
	publisher EventPublisher,
	log *zap.Logger,
) *ChatCommandService {
	return &ChatCommandService{
		chats:     chats,
		messages:  messages,
		users:     users,
		publisher: publisher,
		log:       log.Sugar(),
	}
}

// OpenChat returns the existing chat between buyer and seller, or creates
// one. created reports which.
func (s *ChatCommandService) OpenChat(ctx context.Context, cmd cqrs.OpenChatCommand) (chat *models.Chat, created bool, err error) {
	if cmd.SellerID == cmd.BuyerID {
		return nil, false, models.ErrChatWithSelf
	}
	exists, err := s.users.Exists(ctx, cmd.SellerID)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, models.ErrUserNotFound
	}

	chat, err = s.chats.FindBetween(ctx, cmd.SellerID, cmd.BuyerID)
	if err == nil {
		return chat, false, nil
	}
	if !errors.Is(err, models.ErrChatNotFound) {
		return nil, false, err
	}

	chat = &models.Chat{
		ID:        utils.GenerateID(utils.ChatPrefix),
		SellerID:  cmd.SellerID,
		BuyerID:   cmd.BuyerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.chats.Create(ctx, chat); err != nil {
		if errors.Is(err, models.ErrChatExists) {
			// lost a race with the other participant
			existing, findErr := s.chats.FindBetween(ctx, cmd.SellerID, cmd.BuyerID)
			return existing, false, findErr
		}
		return nil, false, err
	}
	publish(ctx, s.publisher, s.log, events.ChatEventsStream, events.ChatCreated, events.ChatEvent{
		ChatID:       chat.ID,
		Participants: chat.Participants(),
	})
	return chat, true, nil
}

func (s *ChatCommandService) DeleteChat(ctx context.Context, cmd cqrs.DeleteChatCommand) error {
	chat, err := memberChat(ctx, s.chats, cmd.ChatID, cmd.RequestingUserID)
	if err != nil {
		return err
	}
	if err := s.chats.Delete(ctx, chat.ID); err != nil {
		return err
	}
	publish(ctx, s.publisher, s.log, events.ChatEventsStream, events.ChatDeleted, events.ChatEvent{
		ChatID:       chat.ID,
		Participants: chat.Participants(),
	})
	return nil
}

func (s *ChatCommandService) SendMessage(ctx context.Context, cmd cqrs.SendMessageCommand) (*models.MessageView, error) {
	chat, err := memberChat(ctx, s.chats, cmd.ChatID, cmd.AuthorID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	view, err := s.messages.Create(ctx, &models.Message{
		ID:        utils.GenerateID(utils.MessagePrefix),
		ChatID:    chat.ID,
		AuthorID:  cmd.AuthorID,
		Text:      strings.TrimSpace(cmd.Text),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.log, events.ChatEventsStream, events.MessageCreated, messageEvent(view, chat))
	return view, nil
}

// EditMessage lets the author replace the text of their own message.
func (s *ChatCommandService) EditMessage(ctx context.Context, cmd cqrs.EditMessageCommand) (*models.MessageView, error) {
	chat, msg, err := s.ownMessage(ctx, cmd.ChatID, cmd.MessageID, cmd.RequestingUserID)
	if err != nil {
		return nil, err
	}
	msg.Text = strings.TrimSpace(cmd.Text)
	msg.UpdatedAt = time.Now().UTC()
	if err := s.messages.UpdateText(ctx, msg); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.log, events.ChatEventsStream, events.MessageUpdated, messageEvent(msg, chat))
	return msg, nil
}

func (s *ChatCommandService) DeleteMessage(ctx context.Context, cmd cqrs.DeleteMessageCommand) error {
	chat, msg, err := s.ownMessage(ctx, cmd.ChatID, cmd.MessageID, cmd.RequestingUserID)
	if err != nil {
		return err
	}
	if err := s.messages.Delete(ctx, msg.ID); err != nil {
		return err
	}
	publish(ctx, s.publisher, s.log, events.ChatEventsStream, events.MessageDeleted, events.MessageEvent{
		MessageID:    msg.ID,
		ChatID:       chat.ID,
		AuthorID:     msg.AuthorID,
		Participants: chat.Participants(),
	})
	return nil
}

func (s *ChatCommandService) ownMessage(ctx context.Context, chatID, messageID, userID string) (*models.Chat, *models.MessageView, error) {
	chat, err := memberChat(ctx, s.chats, chatID, userID)
	if err != nil {
		return nil, nil, err
	}
	msg, err := s.messages.GetByID(ctx, chat.ID, messageID)
	if err != nil {
		return nil, nil, err
	}
	if msg.AuthorID != userID {
		return nil, nil, models.ErrForbidden
	}
	return chat, msg, nil
}

func messageEvent(m *models.MessageView, chat *models.Chat) events.MessageEvent {
	return events.MessageEvent{
		MessageID:      m.ID,
		ChatID:         m.ChatID,
		AuthorID:       m.AuthorID,
		AuthorNickname: m.AuthorNickname,
		Text:           m.Text,
		Participants:   chat.Participants(),
		CreatedAt:      m.CreatedAt,
	}
}

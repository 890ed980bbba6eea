package command

import (
	"context"

	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EventPublisher is satisfied by events.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// publish logs rather than returns failures; the write already succeeded.
func publish(ctx context.Context, p EventPublisher, log *zap.SugaredLogger, stream, eventType string, data any) {
	if err := p.Publish(ctx, stream, eventType, data); err != nil {
		log.Warnw("failed to publish event", "type", eventType, "error", err)
	}
}

type chatGetter interface {
	GetByID(ctx context.Context, id string) (*models.Chat, error)
}

// memberChat loads the chat and checks that userID takes part in it.
func memberChat(ctx context.Context, chats chatGetter, chatID, userID string) (*models.Chat, error) {
	chat, err := chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasMember(userID) {
		return nil, models.ErrForbidden
	}
	return chat, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// roundPrice rounds half away from zero to whole cents, the way the
// NUMERIC(12, 2) column does, so cached views match stored rows.
func roundPrice(price float64) float64 {
	return decimal.NewFromFloat(price).Round(2).InexactFloat64()
}

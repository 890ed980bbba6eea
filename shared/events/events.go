package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types
const (
	ProductCreated = "product.created"
	ProductUpdated = "product.updated"
	ProductDeleted = "product.deleted"

	ChatCreated = "chat.created"
	ChatDeleted = "chat.deleted"

	MessageCreated = "message.created"
	MessageUpdated = "message.updated"
	MessageDeleted = "message.deleted"

	UserDeleted = "user.deleted"
)

// Stream names
const (
	ProductEventsStream = "product.events"
	ChatEventsStream    = "chat.events"
	UserEventsStream    = "user.events"
)

type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Decode re-marshals the loosely typed Data into out. A payload that does
// not fit out is reported as ErrMalformed.
func (e Event) Decode(out any) error {
	raw, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("%w: %s payload: %v", ErrMalformed, e.Type, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s payload: %v", ErrMalformed, e.Type, err)
	}
	return nil
}

type ProductEvent struct {
	ProductID string  `json:"productId"`
	SellerID  string  `json:"sellerId"`
	Title     string  `json:"title,omitempty"`
	Price     float64 `json:"price,omitempty"`
}

// ChatEvent carries both participants so consumers can route it without a
// database lookup.
type ChatEvent struct {
	ChatID       string   `json:"chatId"`
	Participants []string `json:"participants"`
}

type MessageEvent struct {
	MessageID      string    `json:"messageId"`
	ChatID         string    `json:"chatId"`
	AuthorID       string    `json:"authorId"`
	AuthorNickname string    `json:"authorNickname,omitempty"`
	Text           string    `json:"text,omitempty"`
	Participants   []string  `json:"participants"`
	CreatedAt      time.Time `json:"createdAt"`
}

type UserDeletedEvent struct {
	UserID string `json:"userId"`
}

package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Nickname     string    `db:"nickname" json:"nickname"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Roles        []string  `db:"-" json:"roles"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// HasRole reports whether the user holds the role value.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type Role struct {
	ID          string `db:"id" json:"id"`
	Value       string `db:"value" json:"value"`
	Description string `db:"description" json:"description"`
}

type RefreshToken struct {
	Token     string    `db:"token"`
	UserID    string    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
}

type Category struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

type Product struct {
	ID          string         `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	Price       float64        `db:"price" json:"price"`
	Images      pq.StringArray `db:"images" json:"images"`
	SellerID    string         `db:"seller_id" json:"sellerId"`
	CategoryIDs pq.StringArray `db:"category_ids" json:"categoryIds"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// Chat links exactly one seller with one buyer.
type Chat struct {
	ID        string    `db:"id" json:"id"`
	SellerID  string    `db:"seller_id" json:"sellerId"`
	BuyerID   string    `db:"buyer_id" json:"buyerId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// HasMember reports whether userID is one of the two participants.
func (c *Chat) HasMember(userID string) bool {
	return c.SellerID == userID || c.BuyerID == userID
}

// Participants returns the seller and the buyer ids.
func (c *Chat) Participants() []string {
	return []string{c.SellerID, c.BuyerID}
}

type Message struct {
	ID        string    `db:"id" json:"id"`
	ChatID    string    `db:"chat_id" json:"chatId"`
	AuthorID  string    `db:"author_id" json:"authorId"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

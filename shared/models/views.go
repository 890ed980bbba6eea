package models

import (
	"time"

	"github.com/lib/pq"
)

// UserView is the public projection of a user. It carries no email and no
// password hash.
type UserView struct {
	ID        string    `db:"id" json:"id"`
	Nickname  string    `db:"nickname" json:"nickname"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ProfileView is what a user sees about themselves and what admins list.
type ProfileView struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Nickname  string    `db:"nickname" json:"nickname"`
	Roles     []string  `db:"-" json:"roles"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ProductView is the read model cached in Redis.
type ProductView struct {
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

// ChatListItem is one row of a user's chat list.
type ChatListItem struct {
	ID        string    `db:"id" json:"id"`
	WithWhom  string    `db:"with_whom" json:"withWhom"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ChatView is a chat with one page of its messages.
type ChatView struct {
	ID        string        `json:"id"`
	SellerID  string        `json:"sellerId"`
	BuyerID   string        `json:"buyerId"`
	CreatedAt time.Time     `json:"createdAt"`
	Messages  []MessageView `json:"messages"`
}

type MessageView struct {
	ID             string    `db:"id" json:"id"`
	ChatID         string    `db:"chat_id" json:"chatId"`
	AuthorID       string    `db:"author_id" json:"authorId"`
	AuthorNickname string    `db:"author_nickname" json:"authorNickname"`
	Text           string    `db:"text" json:"text"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

func (u *User) Profile() *ProfileView {
	return &ProfileView{
		ID:        u.ID,
		Email:     u.Email,
		Nickname:  u.Nickname,
		Roles:     u.Roles,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (u *User) View() *UserView {
	return &UserView{ID: u.ID, Nickname: u.Nickname, CreatedAt: u.CreatedAt}
}

func (p *Product) View() *ProductView {
	return &ProductView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Images:      p.Images,
		SellerID:    p.SellerID,
		CategoryIDs: p.CategoryIDs,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

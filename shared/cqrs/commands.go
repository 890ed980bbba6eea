package cqrs

import "mime/multipart"

// ---------- Auth commands ----------

type RegisterCommand struct {
	Email    string
	Nickname string
	Password string
}

type LoginCommand struct {
	Email    string
	Password string
}

type RefreshTokenCommand struct {
	Token string
}

type LogoutCommand struct {
	Token string
}

// ---------- User commands ----------

type DeleteUserCommand struct {
	UserID string
}

type AssignAdminCommand struct {
	UserID string
}

// ---------- Role commands ----------

type CreateRoleCommand struct {
	Value       string
	Description string
}

type DeleteRoleCommand struct {
	Value string
}

// ---------- Category commands ----------

type CreateCategoryCommand struct {
	Name        string
	Description string
}

// UpdateCategoryCommand changes only the non-nil fields.
type UpdateCategoryCommand struct {
	CategoryID  string
	Name        *string
	Description *string
}

type DeleteCategoryCommand struct {
	CategoryID string
}

// ---------- Product commands ----------

type CreateProductCommand struct {
	SellerID    string
	Title       string
	Description string
	Price       float64
	CategoryIDs []string
	Images      []*multipart.FileHeader
}

// UpdateProductCommand changes only the non-nil fields. Images are
// appended to the existing ones.
type UpdateProductCommand struct {
	ProductID        string
	RequestingUserID string
	Title            *string
	Description      *string
	Price            *float64
	CategoryIDs      []string
	Images           []*multipart.FileHeader
}

type DeleteProductCommand struct {
	ProductID        string
	RequestingUserID string
}

// ---------- Chat commands ----------

type OpenChatCommand struct {
	SellerID string
	BuyerID  string
}

type DeleteChatCommand struct {
	ChatID           string
	RequestingUserID string
}

type SendMessageCommand struct {
	ChatID   string
	AuthorID string
	Text     string
}

type EditMessageCommand struct {
	ChatID           string
	MessageID        string
	RequestingUserID string
	Text             string
}

type DeleteMessageCommand struct {
	ChatID           string
	MessageID        string
	RequestingUserID string
}

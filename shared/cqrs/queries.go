package cqrs

import (
	"time"

	"github.com/Denn4ik2010/online-shop/shared/pagination"
)

// ---------- User queries ----------

type GetUserQuery struct {
	UserID string
}

type ListUsersQuery struct {
	Page pagination.Params
	Sort pagination.Sort
}

// SearchUsersQuery matches nickname case-insensitively and bounds the
// registration date.
type SearchUsersQuery struct {
	Nickname string
	MinDate  *time.Time
	MaxDate  *time.Time
	Page     pagination.Params
	Sort     pagination.Sort
}

// ---------- Role queries ----------

type GetRoleQuery struct {
	RoleID string
}

type GetRoleByValueQuery struct {
	Value string
}

// ---------- Category queries ----------

type GetCategoryQuery struct {
	CategoryID string
}

type ListCategoriesQuery struct {
	Name string
	Page pagination.Params
	Sort pagination.Sort
}

// ---------- Product queries ----------

type GetProductQuery struct {
	ProductID string
}

// ListProductsQuery covers plain listing, search, a seller's products and a
// category's products. Empty fields do not filter.
type ListProductsQuery struct {
	Title       string
	MinPrice    *float64
	MaxPrice    *float64
	CategoryIDs []string
	SellerID    string
	Page        pagination.Params
	Sort        pagination.Sort
}

// ---------- Chat queries ----------

type ListChatsQuery struct {
	UserID string
	Page   pagination.Params
}

type GetChatQuery struct {
	ChatID           string
	RequestingUserID string
	Page             pagination.Params
}

type ListMessagesQuery struct {
	ChatID           string
	RequestingUserID string
	Page             pagination.Params
}

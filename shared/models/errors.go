package models

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("email or password are incorrect")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAlreadyAdmin       = errors.New("user is already an admin")

	ErrRoleNotFound = errors.New("role not found")
	ErrRoleExists   = errors.New("role already exists")

	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryInUse    = errors.New("category still has products")

	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product with this title already exists")
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidImage    = errors.New("invalid image")

	ErrChatNotFound    = errors.New("chat not found")
	ErrChatExists      = errors.New("chat already exists")
	ErrChatWithSelf    = errors.New("cannot open a chat with yourself")
	ErrMessageNotFound = errors.New("message not found")

	ErrForbidden    = errors.New("forbidden")
	ErrInvalidSort  = errors.New("invalid sort field")
	ErrInvalidRange = errors.New("invalid range")
)

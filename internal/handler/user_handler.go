package handler

import (
	"context"
	"net/http"

	"github.com/Denn4ik2010/online-shop/shared/cqrs"
	"github.com/Denn4ik2010/online-shop/shared/middleware"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/Denn4ik2010/online-shop/shared/pagination"
	"github.com/gin-gonic/gin"
)

// UserCommander defines the write-side operations used by UserHandler.
type UserCommander interface {
	DeleteUser(context.Context, cqrs.DeleteUserCommand) error
	AssignAdmin(context.Context, cqrs.AssignAdminCommand) (*models.ProfileView, error)
}

// UserQuerier defines the read-side operations used by UserHandler.
type UserQuerier interface {
	GetProfile(ctx context.Context, userID string) (*models.ProfileView, error)
	GetUser(context.Context, cqrs.GetUserQuery) (*models.UserView, error)
	ListUsers(context.Context, cqrs.ListUsersQuery) (*pagination.Page[models.ProfileView], error)
	SearchUsers(context.Context, cqrs.SearchUsersQuery) (*pagination.Page[models.UserView], error)
}

// UserHandler routes requests to the command or query service as appropriate.
type UserHandler struct {
	commands UserCommander
	queries  UserQuerier
	cookies  CookieConfig
}

type SearchUsersRequest struct {
	PageRequest
	Nickname string `form:"nickname" validate:"omitempty,max=30"`
	MinDate  string `form:"minDate"`
	MaxDate  string `form:"maxDate"`
}

func (r *SearchUsersRequest) normalize() { trimSpace(&r.Nickname, &r.MinDate, &r.MaxDate) }

func NewUserHandler(commands UserCommander, queries UserQuerier, cookies CookieConfig) *UserHandler {
	return &UserHandler{commands: commands, queries: queries, cookies: cookies}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var req PageRequest
	if !bindQuery(c, &req) {
		return
	}

	page, err := h.queries.ListUsers(c.Request.Context(), cqrs.ListUsersQuery{Page: req.Params, Sort: req.Sort})
	if err != nil {
		respondError(c, err, "Failed to list users")
		return
	}

	respondPage(c, "users", page)
}

func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.queries.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) SearchUsers(c *gin.Context) {
	var req SearchUsersRequest
	if !bindQuery(c, &req) {
		return
	}
	minDate, err := parseDate(req.MinDate)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "minDate must be RFC3339 or YYYY-MM-DD")
		return
	}
	maxDate, err := parseDate(req.MaxDate)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "maxDate must be RFC3339 or YYYY-MM-DD")
		return
	}

	page, err := h.queries.SearchUsers(c.Request.Context(), cqrs.SearchUsersQuery{
		Nickname: req.Nickname,
		MinDate:  minDate,
		MaxDate:  maxDate,
		Page:     req.Params,
		Sort:     req.Sort,
	})
	if err != nil {
		respondError(c, err, "Failed to search users")
		return
	}

	respondPage(c, "users", page)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	view, err := h.queries.GetUser(c.Request.Context(), cqrs.GetUserQuery{UserID: c.Param("userId")})
	if err != nil {
		respondError(c, err, "Failed to load user")
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) AssignAdmin(c *gin.Context) {
	profile, err := h.commands.AssignAdmin(c.Request.Context(), cqrs.AssignAdminCommand{UserID: c.Param("userId")})
	if err != nil {
		respondError(c, err, "Failed to assign admin role")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// DeleteMe removes the caller's own account and ends the session.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.commands.DeleteUser(c.Request.Context(), cqrs.DeleteUserCommand{UserID: userID}); err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}

	h.cookies.clear(c)
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	err := h.commands.DeleteUser(c.Request.Context(), cqrs.DeleteUserCommand{UserID: c.Param("userId")})
	if err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}

	c.Status(http.StatusNoContent)
}

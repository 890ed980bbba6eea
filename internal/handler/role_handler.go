package handler

import (
	"context"
	"net/http"

	"github.com/Denn4ik2010/online-shop/shared/cqrs"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/gin-gonic/gin"
)

type RoleCommander interface {
	CreateRole(context.Context, cqrs.CreateRoleCommand) (*models.Role, error)
	DeleteRole(context.Context, cqrs.DeleteRoleCommand) error
}

type RoleQuerier interface {
	GetRole(context.Context, cqrs.GetRoleQuery) (*models.Role, error)
	GetRoleByValue(context.Context, cqrs.GetRoleByValueQuery) (*models.Role, error)
}

// RoleHandler manages the role catalog. Every route is ADMIN only.
type RoleHandler struct {
	commands RoleCommander
	queries  RoleQuerier
}

type CreateRoleRequest struct {
	Value       string `json:"value" validate:"required,alpha,uppercase,min=2,max=30"`
	Description string `json:"description" validate:"max=200"`
}

func (r *CreateRoleRequest) normalize() { trimSpace(&r.Value, &r.Description) }

func NewRoleHandler(commands RoleCommander, queries RoleQuerier) *RoleHandler {
	return &RoleHandler{commands: commands, queries: queries}
}

func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req CreateRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	role, err := h.commands.CreateRole(c.Request.Context(), cqrs.CreateRoleCommand{
		Value:       req.Value,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err, "Failed to create role")
		return
	}

	c.JSON(http.StatusCreated, role)
}

func (h *RoleHandler) GetRole(c *gin.Context) {
	role, err := h.queries.GetRole(c.Request.Context(), cqrs.GetRoleQuery{RoleID: c.Param("roleId")})
	if err != nil {
		respondError(c, err, "Failed to load role")
		return
	}

	c.JSON(http.StatusOK, role)
}

func (h *RoleHandler) GetRoleByValue(c *gin.Context) {
	role, err := h.queries.GetRoleByValue(c.Request.Context(), cqrs.GetRoleByValueQuery{Value: c.Param("value")})
	if err != nil {
		respondError(c, err, "Failed to load role")
		return
	}

	c.JSON(http.StatusOK, role)
}

func (h *RoleHandler) DeleteRole(c *gin.Context) {
	if err := h.commands.DeleteRole(c.Request.Context(), cqrs.DeleteRoleCommand{Value: c.Param("value")}); err != nil {
		respondError(c, err, "Failed to delete role")
		return
	}

	c.Status(http.StatusNoContent)
}

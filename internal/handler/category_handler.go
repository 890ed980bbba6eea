package handler

import (
	"context"
	"net/http"

	"github.com/Denn4ik2010/online-shop/shared/cqrs"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/Denn4ik2010/online-shop/shared/pagination"
	"github.com/gin-gonic/gin"
)

type CategoryCommander interface {
	CreateCategory(context.Context, cqrs.CreateCategoryCommand) (*models.Category, error)
	UpdateCategory(context.Context, cqrs.UpdateCategoryCommand) (*models.Category, error)
	DeleteCategory(context.Context, cqrs.DeleteCategoryCommand) error
}

type CategoryQuerier interface {
	GetCategory(context.Context, cqrs.GetCategoryQuery) (*models.Category, error)
	ListCategories(context.Context, cqrs.ListCategoriesQuery) (*pagination.Page[models.Category], error)
}

type CategoryHandler struct {
	commands CategoryCommander
	queries  CategoryQuerier
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=50"`
	Description string `json:"description" validate:"max=500"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=3,max=50"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type SearchCategoriesRequest struct {
	PageRequest
	Name string `form:"name" validate:"required,min=3,max=50"`
}

func (r *CreateCategoryRequest) normalize() { trimSpace(&r.Name, &r.Description) }

func (r *UpdateCategoryRequest) normalize() { trimSpace(r.Name, r.Description) }

func (r *SearchCategoriesRequest) normalize() { trimSpace(&r.Name) }

func NewCategoryHandler(commands CategoryCommander, queries CategoryQuerier) *CategoryHandler {
	return &CategoryHandler{commands: commands, queries: queries}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	var req PageRequest
	if !bindQuery(c, &req) {
		return
	}

	page, err := h.queries.ListCategories(c.Request.Context(), cqrs.ListCategoriesQuery{Page: req.Params, Sort: req.Sort})
	if err != nil {
		respondError(c, err, "Failed to list categories")
		return
	}

	respondPage(c, "categories", page)
}

func (h *CategoryHandler) SearchCategories(c *gin.Context) {
	var req SearchCategoriesRequest
	if !bindQuery(c, &req) {
		return
	}

	page, err := h.queries.ListCategories(c.Request.Context(), cqrs.ListCategoriesQuery{
		Name: req.Name,
		Page: req.Params,
		Sort: req.Sort,
	})
	if err != nil {
		respondError(c, err, "Failed to search categories")
		return
	}

	respondPage(c, "categories", page)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.queries.GetCategory(c.Request.Context(), cqrs.GetCategoryQuery{CategoryID: c.Param("categoryId")})
	if err != nil {
		respondError(c, err, "Failed to load category")
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.commands.CreateCategory(c.Request.Context(), cqrs.CreateCategoryCommand{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err, "Failed to create category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.commands.UpdateCategory(c.Request.Context(), cqrs.UpdateCategoryCommand{
		CategoryID:  c.Param("categoryId"),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err, "Failed to update category")
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.commands.DeleteCategory(c.Request.Context(), cqrs.DeleteCategoryCommand{CategoryID: c.Param("categoryId")}); err != nil {
		respondError(c, err, "Failed to delete category")
		return
	}

	c.Status(http.StatusNoContent)
}

package handler

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/Denn4ik2010/online-shop/shared/cqrs"
	"github.com/Denn4ik2010/online-shop/shared/middleware"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/Denn4ik2010/online-shop/shared/pagination"
	"github.com/Denn4ik2010/online-shop/shared/utils"
	"github.com/gin-gonic/gin"
)

const maxImagesPerRequest = 10

type ProductCommander interface {
	CreateProduct(context.Context, cqrs.CreateProductCommand) (*models.ProductView, error)
	UpdateProduct(context.Context, cqrs.UpdateProductCommand) (*models.ProductView, error)
	DeleteProduct(context.Context, cqrs.DeleteProductCommand) error
}

type ProductQuerier interface {
	GetProduct(context.Context, cqrs.GetProductQuery) (*models.ProductView, error)
	ListProducts(context.Context, cqrs.ListProductsQuery) (*pagination.Page[models.ProductView], error)
	ListUserProducts(context.Context, cqrs.ListProductsQuery) (*pagination.Page[models.ProductView], error)
	ListCategoryProducts(ctx context.Context, categoryID string, q cqrs.ListProductsQuery) (*pagination.Page[models.ProductView], error)
}

// ProductHandler accepts product bodies as JSON or as multipart forms with
// an images file field.
type ProductHandler struct {
	commands       ProductCommander
	queries        ProductQuerier
	maxUploadBytes int64
}

// Price bounds follow the NUMERIC(12, 2) column.
type CreateProductRequest struct {
	Title       string   `json:"title" form:"title" validate:"required,max=100"`
	Description string   `json:"description" form:"description" validate:"required,max=500"`
	Price       *float64 `json:"price" form:"price" validate:"required,gte=0,lte=9999999999.99"`
	CategoryIDs []string `json:"categoryIds" form:"categoryIds" validate:"required,min=1,dive,required"`
}

type UpdateProductRequest struct {
	Title       *string  `json:"title" form:"title" validate:"omitempty,min=1,max=100"`
	Description *string  `json:"description" form:"description" validate:"omitempty,min=1,max=500"`
	Price       *float64 `json:"price" form:"price" validate:"omitempty,gte=0,lte=9999999999.99"`
	CategoryIDs []string `json:"categoryIds" form:"categoryIds" validate:"omitempty,dive,required"`
}

type SearchProductsRequest struct {
	PageRequest
	Title    string   `form:"title" validate:"omitempty,max=100"`
	MinPrice *float64 `form:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice *float64 `form:"maxPrice" validate:"omitempty,gte=0"`
}

func (r *CreateProductRequest) normalize() { trimSpace(&r.Title, &r.Description) }

func (r *UpdateProductRequest) normalize() { trimSpace(r.Title, r.Description) }

func (r *SearchProductsRequest) normalize() { trimSpace(&r.Title) }

func NewProductHandler(commands ProductCommander, queries ProductQuerier, maxUploadBytes int64) *ProductHandler {
	return &ProductHandler{commands: commands, queries: queries, maxUploadBytes: maxUploadBytes}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	var req PageRequest
	if !bindQuery(c, &req) {
		return
	}

	page, err := h.queries.ListProducts(c.Request.Context(), cqrs.ListProductsQuery{Page: req.Params, Sort: req.Sort})
	if err != nil {
		respondError(c, err, "Failed to list products")
		return
	}

	respondPage(c, "products", page)
}

func (h *ProductHandler) SearchProducts(c *gin.Context) {
	var req SearchProductsRequest
	if !bindQuery(c, &req) {
		return
	}

	page, err := h.queries.ListProducts(c.Request.Context(), cqrs.ListProductsQuery{
		Title:       req.Title,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		CategoryIDs: csvQuery(c, "categoryIds"),
		Page:        req.Params,
		Sort:        req.Sort,
	})
	if err != nil {
		respondError(c, err, "Failed to search products")
		return
	}

	respondPage(c, "products", page)
}

func (h *ProductHandler) ListUserProducts(c *gin.Context) {
	var req PageRequest
	if !bindQuery(c, &req) {
		return
	}

	page, err := h.queries.ListUserProducts(c.Request.Context(), cqrs.ListProductsQuery{
		SellerID: c.Param("userId"),
		Page:     req.Params,
		Sort:     req.Sort,
	})
	if err != nil {
		respondError(c, err, "Failed to list products")
		return
	}

	respondPage(c, "products", page)
}

func (h *ProductHandler) ListCategoryProducts(c *gin.Context) {
	var req PageRequest
	if !bindQuery(c, &req) {
		return
	}

	page, err := h.queries.ListCategoryProducts(c.Request.Context(), c.Param("categoryId"), cqrs.ListProductsQuery{
		Page: req.Params,
		Sort: req.Sort,
	})
	if err != nil {
		respondError(c, err, "Failed to list products")
		return
	}

	respondPage(c, "products", page)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	view, err := h.queries.GetProduct(c.Request.Context(), cqrs.GetProductQuery{ProductID: c.Param("productId")})
	if err != nil {
		respondError(c, err, "Failed to load product")
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateProductRequest
	images, ok := h.bindProduct(c, &req)
	if !ok {
		return
	}
	req.CategoryIDs = splitIDs(req.CategoryIDs)
	if !validated(c, &req) {
		return
	}

	view, err := h.commands.CreateProduct(c.Request.Context(), cqrs.CreateProductCommand{
		SellerID:    userID,
		Title:       req.Title,
		Description: req.Description,
		Price:       *req.Price,
		CategoryIDs: req.CategoryIDs,
		Images:      images,
	})
	if err != nil {
		respondError(c, err, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
	images, ok := h.bindProduct(c, &req)
	if !ok {
		return
	}
	req.CategoryIDs = splitIDs(req.CategoryIDs)
	if req.CategoryIDs != nil && len(req.CategoryIDs) == 0 {
		middleware.RespondWithError(c, http.StatusBadRequest, "A product needs at least one category")
		return
	}
	if !validated(c, &req) {
		return
	}

	view, err := h.commands.UpdateProduct(c.Request.Context(), cqrs.UpdateProductCommand{
		ProductID:        c.Param("productId"),
		RequestingUserID: userID,
		Title:            req.Title,
		Description:      req.Description,
		Price:            req.Price,
		CategoryIDs:      req.CategoryIDs,
		Images:           images,
	})
	if err != nil {
		respondError(c, err, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	err := h.commands.DeleteProduct(c.Request.Context(), cqrs.DeleteProductCommand{
		ProductID:        c.Param("productId"),
		RequestingUserID: userID,
	})
	if err != nil {
		respondError(c, err, "Failed to delete product")
		return
	}

	c.Status(http.StatusNoContent)
}

// bindProduct binds a JSON or multipart body into req and returns the
// uploaded images, if any.
func (h *ProductHandler) bindProduct(c *gin.Context, req any) ([]*multipart.FileHeader, bool) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		if err := c.ShouldBindJSON(req); err != nil {
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
			return nil, false
		}
		return nil, true
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes*maxImagesPerRequest+1<<20)
	if err := c.ShouldBind(req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid form data")
		return nil, false
	}
	form, err := c.MultipartForm()
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid form data")
		return nil, false
	}
	images := form.File["images"]
	if len(images) > maxImagesPerRequest {
		middleware.RespondWithError(c, http.StatusBadRequest, "At most 10 images per request")
		return nil, false
	}
	for _, fh := range images {
		if fh.Size > h.maxUploadBytes {
			middleware.RespondWithError(c, http.StatusBadRequest, "Images must be jpeg, png or webp and at most 5MB")
			return nil, false
		}
	}
	return images, true
}

// splitIDs accepts both repeated fields and a single comma separated value.
func splitIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, utils.SplitCSV(id)...)
	}
	return out
}

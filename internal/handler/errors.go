package handler

import (
	"errors"
	"net/http"

	"github.com/Denn4ik2010/online-shop/shared/middleware"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/gin-gonic/gin"
)

type errorStatus struct {
	err     error
	status  int
	message string
}

var errorStatuses = []errorStatus{
	{models.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{models.ErrUserExists, http.StatusBadRequest, "User already exists"},
	{models.ErrInvalidCredentials, http.StatusBadRequest, "Email or password are incorrect"},
	{models.ErrInvalidToken, http.StatusUnauthorized, "Invalid or expired token"},
	{models.ErrAlreadyAdmin, http.StatusBadRequest, "User is already an admin"},
	{models.ErrRoleNotFound, http.StatusNotFound, "Role not found"},
	{models.ErrRoleExists, http.StatusBadRequest, "Role already exists"},
	{models.ErrCategoryNotFound, http.StatusNotFound, "Category not found"},
	{models.ErrCategoryExists, http.StatusBadRequest, "Category already exists"},
	{models.ErrCategoryInUse, http.StatusConflict, "Category still has products"},
	{models.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{models.ErrProductExists, http.StatusBadRequest, "You already sell a product with this title"},
	{models.ErrUnknownCategory, http.StatusBadRequest, "Unknown category"},
	{models.ErrInvalidImage, http.StatusBadRequest, "Images must be jpeg, png or webp and at most 5MB"},
	{models.ErrChatNotFound, http.StatusNotFound, "Chat not found"},
	{models.ErrChatWithSelf, http.StatusBadRequest, "You cannot open a chat with yourself"},
	{models.ErrMessageNotFound, http.StatusNotFound, "Message not found"},
	{models.ErrForbidden, http.StatusForbidden, "You are not allowed to do this"},
	{models.ErrInvalidSort, http.StatusBadRequest, "Unsupported sortBy value"},
	{models.ErrInvalidRange, http.StatusBadRequest, "Minimum must not be greater than maximum"},
}

// respondError maps a domain error to its status. Anything unknown is a 500
// with fallback as the message.
func respondError(c *gin.Context, err error, fallback string) {
	for _, m := range errorStatuses {
		if errors.Is(err, m.err) {
			middleware.RespondWithError(c, m.status, m.message)
			return
		}
	}
	_ = c.Error(err)
	middleware.RespondWithError(c, http.StatusInternalServerError, fallback)
}

// bindJSON binds and validates a JSON body, responding 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return validated(c, req)
}

// bindQuery binds and validates query string parameters.
func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid query parameters")
		return false
	}
	return validated(c, req)
}

func validated(c *gin.Context, req any) bool {
	if n, ok := req.(normalizer); ok {
		n.normalize()
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return false
	}
	return true
}

func currentUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "User not authenticated")
	}
	return userID, ok
}

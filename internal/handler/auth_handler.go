package handler

import (
	"context"
	"net/http"

	"github.com/Denn4ik2010/online-shop/shared/cqrs"
	"github.com/Denn4ik2010/online-shop/shared/middleware"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/Denn4ik2010/online-shop/shared/token"
	"github.com/gin-gonic/gin"
)

// AuthCommander defines the operations used by AuthHandler.
type AuthCommander interface {
	Register(context.Context, cqrs.RegisterCommand) (*models.ProfileView, error)
	Login(context.Context, cqrs.LoginCommand) (*token.Pair, error)
	Refresh(context.Context, cqrs.RefreshTokenCommand) (*token.Pair, error)
	Logout(context.Context, cqrs.LogoutCommand) (int64, error)
	LogoutAll(ctx context.Context, userID string) error
}

// AuthHandler handles registration, login and the refresh token lifecycle.
type AuthHandler struct {
	commands AuthCommander
	cookies  CookieConfig
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Nickname string `json:"nickname" validate:"required,min=3,max=30"`
	Password string `json:"password" validate:"required,min=5,max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5,max=50"`
}

func (r *RegisterRequest) normalize() { trimSpace(&r.Email, &r.Nickname) }

func (r *LoginRequest) normalize() { trimSpace(&r.Email) }

type RefreshTokenRequest struct {
	Token string `json:"token"`
}

func NewAuthHandler(commands AuthCommander, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{commands: commands, cookies: cookies}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.commands.Register(c.Request.Context(), cqrs.RegisterCommand{
		Email:    req.Email,
		Nickname: req.Nickname,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}

	c.JSON(http.StatusCreated, profile)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.commands.Login(c.Request.Context(), cqrs.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err, "Failed to log in")
		return
	}

	h.cookies.set(c, pair)
	c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken := h.refreshToken(c)
	if refreshToken == "" {
		middleware.RespondWithError(c, http.StatusBadRequest, "Refresh token is required")
		return
	}

	pair, err := h.commands.Refresh(c.Request.Context(), cqrs.RefreshTokenCommand{Token: refreshToken})
	if err != nil {
		h.cookies.clear(c)
		respondError(c, err, "Failed to refresh token")
		return
	}

	h.cookies.set(c, pair)
	c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	deleted, err := h.commands.Logout(c.Request.Context(), cqrs.LogoutCommand{Token: h.refreshToken(c)})
	if err != nil {
		respondError(c, err, "Failed to log out")
		return
	}

	h.cookies.clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out", "deleted": deleted})
}

func (h *AuthHandler) LogoutAll(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.commands.LogoutAll(c.Request.Context(), userID); err != nil {
		respondError(c, err, "Failed to log out")
		return
	}

	h.cookies.clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out from all sessions"})
}

// refreshToken prefers the cookie and falls back to a {"token"} body.
func (h *AuthHandler) refreshToken(c *gin.Context) string {
	if cookie, err := c.Cookie(middleware.RefreshTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	var req RefreshTokenRequest
	if c.Request.ContentLength != 0 {
		_ = c.ShouldBindJSON(&req)
	}
	return req.Token
}

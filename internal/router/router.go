package router

import (
	"context"
	"net/http"
	"time"

	"github.com/Denn4ik2010/online-shop/internal/handler"
	"github.com/Denn4ik2010/online-shop/internal/realtime"
	"github.com/Denn4ik2010/online-shop/shared/metrics"
	"github.com/Denn4ik2010/online-shop/shared/middleware"
	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Roles      *handler.RoleHandler
	Categories *handler.CategoryHandler
	Products   *handler.ProductHandler
	Chats      *handler.ChatHandler
	Hub        *realtime.Hub
}

type Config struct {
	Verifier  middleware.TokenVerifier
	Limiter   *middleware.RateLimiter
	Log       *zap.Logger
	UploadDir string
	// Health pings the backing stores; nil means always healthy.
	Health func(ctx context.Context) error
}

func New(cfg Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(cfg.Log), middleware.LoggingMiddleware(cfg.Log), metrics.Middleware(), middleware.SecurityHeaders())

	r.GET("/health", health(cfg.Health))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.Static("/static", cfg.UploadDir)

	var limit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.Limiter != nil {
		limit = cfg.Limiter.Handler()
	}

	// The limiter runs after auth on private routes so callers are keyed by
	// user id rather than by IP.
	public := r.Group("/v1", limit)
	private := r.Group("/v1", middleware.AuthMiddleware(cfg.Verifier), limit)
	admin := private.Group("", middleware.RequireRoles(models.RoleAdmin))

	// auth
	{
		public.POST("/auth/registration", h.Auth.Register)
		public.POST("/auth/login", h.Auth.Login)
		public.POST("/auth/refresh", h.Auth.Refresh)
		public.POST("/auth/logout", h.Auth.Logout)
		private.POST("/auth/logout-all", h.Auth.LogoutAll)
	}

	// users
	{
		admin.GET("/users", h.Users.ListUsers)
		private.GET("/users/me", h.Users.GetMe)
		public.GET("/users/search", h.Users.SearchUsers)
		private.GET("/users/:userId", h.Users.GetUser)
		public.GET("/users/:userId/products", h.Products.ListUserProducts)
		admin.PATCH("/users/assign-admin/:userId", h.Users.AssignAdmin)
		private.DELETE("/users/me", h.Users.DeleteMe)
		admin.DELETE("/users/:userId", h.Users.DeleteUser)
	}

	// roles
	{
		admin.POST("/roles", h.Roles.CreateRole)
		admin.GET("/roles/:roleId", h.Roles.GetRole)
		admin.GET("/roles/value/:value", h.Roles.GetRoleByValue)
		admin.DELETE("/roles/:value", h.Roles.DeleteRole)
	}

	// categories
	{
		public.GET("/categories", h.Categories.ListCategories)
		public.GET("/categories/search", h.Categories.SearchCategories)
		public.GET("/categories/:categoryId", h.Categories.GetCategory)
		public.GET("/categories/:categoryId/products", h.Products.ListCategoryProducts)
		admin.POST("/categories", h.Categories.CreateCategory)
		admin.PATCH("/categories/:categoryId", h.Categories.UpdateCategory)
		admin.DELETE("/categories/:categoryId", h.Categories.DeleteCategory)
	}

	// products
	{
		public.GET("/products", h.Products.ListProducts)
		public.GET("/products/search", h.Products.SearchProducts)
		public.GET("/products/:productId", h.Products.GetProduct)
		private.POST("/products", h.Products.CreateProduct)
		private.PATCH("/products/:productId", h.Products.UpdateProduct)
		private.DELETE("/products/:productId", h.Products.DeleteProduct)
	}

	// chats
	{
		private.GET("/chats/ws", h.Hub.ServeWS)
		private.POST("/chats", h.Chats.OpenChat)
		private.GET("/chats", h.Chats.ListChats)
		private.GET("/chats/:chatId", h.Chats.GetChat)
		private.DELETE("/chats/:chatId", h.Chats.DeleteChat)
		private.POST("/chats/:chatId/messages", h.Chats.SendMessage)
		private.GET("/chats/:chatId/messages", h.Chats.ListMessages)
		private.PATCH("/chats/:chatId/messages/:messageId", h.Chats.EditMessage)
		private.DELETE("/chats/:chatId/messages/:messageId", h.Chats.DeleteMessage)
	}

	return r
}

func health(check func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

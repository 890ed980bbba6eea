package middleware

import (
	"net/http"
	"strings"

	"github.com/Denn4ik2010/online-shop/shared/token"
	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	userIDKey = "userId"
	rolesKey  = "roles"
)

type TokenVerifier interface {
	VerifyAccess(tokenString string) (*token.Claims, error)
}

// AuthMiddleware accepts the access token from the accessToken cookie or a
// Bearer Authorization header.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := accessToken(c)
		if !ok {
			RespondWithError(c, http.StatusUnauthorized, "Authorization required")
			c.Abort()
			return
		}

		claims, err := verifier.VerifyAccess(tokenString)
		if err != nil {
			RespondWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(rolesKey, claims.Roles)
		c.Next()
	}
}

// RequireRoles must run after AuthMiddleware. It lets the request through
// when the token carries at least one of roles.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := token.Claims{Roles: GetRoles(c)}
		if !claims.HasAnyRole(roles...) {
			RespondWithError(c, http.StatusForbidden, "Access denied")
			c.Abort()
			return
		}
		c.Next()
	}
}

func accessToken(c *gin.Context) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}

func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}

func GetRoles(c *gin.Context) []string {
	roles, exists := c.Get(rolesKey)
	if !exists {
		return nil
	}
	r, _ := roles.([]string)
	return r
}

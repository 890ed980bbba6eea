package handler

import (
	"net/http"
	"time"

	"github.com/Denn4ik2010/online-shop/shared/middleware"
	"github.com/Denn4ik2010/online-shop/shared/token"
	"github.com/gin-gonic/gin"
)

// CookieConfig controls the token cookies.
type CookieConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Secure     bool
}

func (cfg CookieConfig) set(c *gin.Context, pair *token.Pair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, pair.AccessToken, int(cfg.AccessTTL.Seconds()), "/", "", cfg.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, pair.RefreshToken, int(cfg.RefreshTTL.Seconds()), "/", "", cfg.Secure, true)
}

func (cfg CookieConfig) clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", cfg.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", cfg.Secure, true)
}

package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
	"github.com/gin-gonic/gin"
)

// CookieConfig controls the attributes of the session cookies. Secure is
// switched off only for plain-HTTP local development.
type CookieConfig struct {
	Secure bool
}

func (cc CookieConfig) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (cc CookieConfig) setSession(c *gin.Context, pair *models.TokenPair) {
	http.SetCookie(c.Writer, cc.cookie(common.AccessTokenCookieName, pair.AccessToken, 0))
	http.SetCookie(c.Writer, cc.cookie(common.RefreshTokenCookieName, pair.RefreshToken, 0))
}

func (cc CookieConfig) clearSession(c *gin.Context) {
	http.SetCookie(c.Writer, cc.cookie(common.AccessTokenCookieName, "", -1))
	http.SetCookie(c.Writer, cc.cookie(common.RefreshTokenCookieName, "", -1))
}

package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
	"github.com/gin-gonic/gin"
)

const userKey = "user"

// requireAccessToken admits requests carrying a valid access token, from the
// accessToken cookie or an "Authorization: Bearer" header, and stores the
// caller's *models.PublicUser under userKey.
func (h *Handler) requireAccessToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := h.sessions.Authenticate(accessTokenFrom(c))
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid Access Token")
			return
		}

		user, err := h.users.Current(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, common.ErrUserNotFound) {
				abortWithError(c, http.StatusUnauthorized, "Invalid Access Token")
				return
			}
			h.logger.Error(c.Request.Context(), "access guard lookup failed", "error", err.Error())
			abortWithError(c, http.StatusInternalServerError, "Something went wrong")
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

func accessTokenFrom(c *gin.Context) string {
	if token, err := c.Cookie(common.AccessTokenCookieName); err == nil && token != "" {
		return token
	}
	header := c.GetHeader(common.AuthorizationHeaderName)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func currentUser(c *gin.Context) *models.PublicUser {
	v, _ := c.Get(userKey)
	u, _ := v.(*models.PublicUser)
	return u
}

func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}

// cors allows one browser origin to call the API with credentials. An empty
// origin disables the headers.
func cors(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if origin == "" {
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Add("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

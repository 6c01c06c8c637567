// Package httpapi is the public HTTP surface: user registration, login,
// logout, token refresh and the current-user lookup, served with gin.
package httpapi

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/media"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether the credential store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	users    *services.UserService
	sessions *services.SessionService
	store    Pinger
	cookies  CookieConfig
	logger   logging.Logger
}

func NewHandler(us *services.UserService, ss *services.SessionService, store Pinger, cookies CookieConfig, logger logging.Logger) *Handler {
	return &Handler{
		users:    us,
		sessions: ss,
		store:    store,
		cookies:  cookies,
		logger:   logger.With("module", "http"),
	}
}

// NewRouter builds the gin engine with all routes mounted.
func NewRouter(h *Handler, corsOrigin string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger), cors(corsOrigin))

	r.GET("/healthz", h.healthz)

	api := r.Group("/api/v1/users")
	api.POST("/register", h.register)
	api.POST("/login", h.login)
	api.POST("/refresh-token", h.refreshToken)

	secured := api.Group("", h.requireAccessToken())
	secured.POST("/logout", h.logout)
	secured.GET("/current-user", h.currentUser)

	return r
}

type loginRequest struct {
	UserName string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

type sessionData struct {
	User         any    `json:"user,omitempty"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) register(c *gin.Context) {
	ctx := c.Request.Context()

	avatar, closeAvatar, err := formFile(c, "avatar")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid avatar upload")
		return
	}
	defer closeAvatar()

	cover, closeCover, err := formFile(c, "coverImage")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid cover image upload")
		return
	}
	defer closeCover()

	user, err := h.users.Register(ctx, services.RegisterInput{
		FullName:   c.PostForm("fullName"),
		Email:      c.PostForm("email"),
		UserName:   c.PostForm("username"),
		Password:   c.PostForm("password"),
		Avatar:     avatar,
		CoverImage: cover,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusCreated, user, "User registered Successfully")
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Malformed request body")
		return
	}

	res, err := h.users.Login(c.Request.Context(), services.LoginInput{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.cookies.setSession(c, res.Tokens)
	respond(c, http.StatusOK, sessionData{
		User:         res.User,
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
	}, "User logged In Successfully")
}

func (h *Handler) logout(c *gin.Context) {
	user := currentUser(c)

	if err := h.sessions.Terminate(c.Request.Context(), user.ID); err != nil {
		h.fail(c, err)
		return
	}

	h.cookies.clearSession(c)
	respond(c, http.StatusOK, gin.H{}, "User logged Out")
}

// refreshToken reads the refresh token from its cookie, falling back to the
// request body.
func (h *Handler) refreshToken(c *gin.Context) {
	token, _ := c.Cookie(common.RefreshTokenCookieName)
	if token == "" {
		var req refreshRequest
		_ = c.ShouldBind(&req)
		token = req.RefreshToken
	}

	pair, err := h.sessions.Refresh(c.Request.Context(), token)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	h.cookies.setSession(c, pair)
	respond(c, http.StatusOK, sessionData{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Access token refreshed")
}

func (h *Handler) currentUser(c *gin.Context) {
	respond(c, http.StatusOK, currentUser(c), "User fetched successfully")
}

func (h *Handler) healthz(c *gin.Context) {
	if h.store != nil {
		if err := h.store.Ping(c.Request.Context()); err != nil {
			h.logger.Error(c.Request.Context(), "store ping failed", "error", err.Error())
			abortWithError(c, http.StatusServiceUnavailable, "Store unavailable")
			return
		}
	}
	respond(c, http.StatusOK, gin.H{"status": "ok"}, "OK")
}

// fail logs the internal cause and writes the mapped error envelope.
func (h *Handler) fail(c *gin.Context, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", common.CauseOf(err).Error())
	} else {
		h.logger.Debug(c.Request.Context(), "request rejected", "path", c.Request.URL.Path, "error", err.Error())
	}
	abortWithError(c, status, message)
}

// formFile opens an optional multipart file. A missing field yields a nil
// file and no error.
func formFile(c *gin.Context, field string) (*media.File, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}

	return &media.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, closer(f), nil
}

func closer(f multipart.File) func() {
	return func() { _ = f.Close() }
}

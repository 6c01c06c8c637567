package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/ratelimit"
	"github.com/gin-gonic/gin"
)

// apiResponse is the success envelope of every endpoint.
type apiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

type apiError struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, apiResponse{StatusCode: status, Data: data, Message: message, Success: status < http.StatusBadRequest})
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, apiError{StatusCode: status, Message: message, Success: false, Errors: []string{}})
}

// statusFor maps a service error to an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid user credentials"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "Unauthorized request"
	case errors.Is(err, common.ErrUserNotFound):
		return http.StatusNotFound, "User does not exist"
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, ratelimit.ErrRateLimited):
		return http.StatusTooManyRequests, ratelimit.ErrRateLimited.Error()
	case errors.Is(err, common.ErrSessionIssuanceFailed):
		return http.StatusInternalServerError, common.ErrSessionIssuanceFailed.Error()
	default:
		return http.StatusInternalServerError, "Something went wrong"
	}
}

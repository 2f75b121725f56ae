package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Count   *int         `json:"count,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// Success responses
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, &Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessList(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, &Response{
		Success: true,
		Data:    data,
		Count:   &count,
	})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, &Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NotFound answers unmatched routes, which never reach a handler.
func NotFound(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusNotFound, &Response{Message: message})
}

// StatusFor maps an error kind onto its HTTP status.
func StatusFor(kind ErrorKind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Fail renders err. Only AppError messages reach the client; anything else
// becomes the generic internal message.
func Fail(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewInternalError(err)
	}
	message := appErr.Message
	if appErr.Kind == KindInternal {
		message = "Internal server error"
	}
	c.AbortWithStatusJSON(StatusFor(appErr.Kind), &Response{
		Message: message,
		Errors:  appErr.Fields,
	})
}

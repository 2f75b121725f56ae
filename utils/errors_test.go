package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("loading note: %w", NewNotFoundError("Note not found"))

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindConflict, KindOf(NewConflictError("taken")))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternalError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Internal server error", err.Message)
}

func TestStatusFor(t *testing.T) {
	tests := map[ErrorKind]int{
		KindValidation:      http.StatusBadRequest,
		KindUnauthenticated: http.StatusUnauthorized,
		KindNotFound:        http.StatusNotFound,
		KindConflict:        http.StatusConflict,
		KindRateLimited:     http.StatusTooManyRequests,
		KindInternal:        http.StatusInternalServerError,
	}
	for kind, status := range tests {
		assert.Equal(t, status, StatusFor(kind), string(kind))
	}
}

func render(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handler(c)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestFailHidesInternalCause(t *testing.T) {
	w, resp := render(t, func(c *gin.Context) {
		Fail(c, NewInternalError(errors.New("mongo: secret dsn leaked")))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Internal server error", resp.Message)
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestFailPlainErrorIsInternal(t *testing.T) {
	w, resp := render(t, func(c *gin.Context) {
		Fail(c, errors.New("unexpected"))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", resp.Message)
}

func TestFailValidationCarriesFields(t *testing.T) {
	w, resp := render(t, func(c *gin.Context) {
		Fail(c, NewValidationError([]FieldError{
			{Field: "title", Message: "title is required"},
			{Field: "content", Message: "content is required"},
		}))
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, "title", resp.Errors[0].Field)
	assert.Equal(t, "content", resp.Errors[1].Field)
}

func TestSuccessListIncludesCount(t *testing.T) {
	w, resp := render(t, func(c *gin.Context) {
		SuccessList(c, []string{}, 0)
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Count)
	assert.Equal(t, 0, *resp.Count)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

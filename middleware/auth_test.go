package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"keepnotes/model"
	"keepnotes/services"
	"keepnotes/usecase"
	"keepnotes/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuth accepts "good" and fails every other token with err.
type fakeAuth struct {
	err   error
	calls int
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*model.User, error) {
	f.calls++
	if token == "good" {
		return &model.User{ID: "u1", Name: "Alice"}, nil
	}
	return nil, f.err
}

func protectedRouter(auth Authenticator, logger *zap.Logger, reached *bool) *gin.Engine {
	r := gin.New()
	r.GET("/private", AuthMiddleware(auth, logger), func(c *gin.Context) {
		*reached = true
		user, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, user.ID+":"+c.GetString(ContextUserIDKey))
	})
	return r
}

func TestAuthMiddlewareAttachesUser(t *testing.T) {
	var reached bool
	r := protectedRouter(&fakeAuth{}, zap.NewNop(), &reached)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(w, req)

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1:u1", w.Body.String())
}

func TestAuthMiddlewareRejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
		err    error
		reason string
	}{
		{"missing", "", utils.NewUnauthenticatedError("Not authorized", services.ErrMissingToken), "missing_token"},
		{"expired", "Bearer old", utils.NewUnauthenticatedError("Not authorized", fmt.Errorf("%w: exp", services.ErrTokenExpired)), "expired_token"},
		{"forged", "Bearer forged", utils.NewUnauthenticatedError("Not authorized", fmt.Errorf("%w: sig", services.ErrInvalidToken)), "invalid_token"},
		{"stale", "Bearer stale", utils.NewUnauthenticatedError("Not authorized", usecase.ErrStaleToken), "stale_token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			var reached bool
			r := protectedRouter(&fakeAuth{err: tt.err}, zap.New(core), &reached)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			assert.False(t, reached, "handler must not run")
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var body utils.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, "Not authorized", body.Message)

			entries := logs.FilterMessage("request rejected").All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.reason, entries[0].ContextMap()["reason"])
		})
	}
}

func TestAuthMiddlewareStoreFailureIs500(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	var reached bool
	r := protectedRouter(&fakeAuth{err: utils.NewInternalError(errors.New("db down"))}, zap.New(core), &reached)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	r.ServeHTTP(w, req)

	assert.False(t, reached)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":      "abc",
		"bearer abc":      "abc",
		"  Bearer  abc  ": "abc",
		"Basic abc":       "",
		"Bearer":          "",
		"":                "",
	}
	for header, want := range tests {
		assert.Equal(t, want, BearerToken(header), "header %q", header)
	}
}

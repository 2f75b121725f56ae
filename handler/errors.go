package handler

import (
	"errors"
	"io"

	"keepnotes/middleware"
	"keepnotes/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError is the one place domain errors become HTTP responses.
// Internal causes are logged here and replaced by a generic message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	if utils.KindOf(err) == utils.KindInternal {
		utils.TrackError("http", "internal")
		logger.Error("request failed",
			zap.String("request_id", c.GetString(middleware.ContextRequestIDKey)),
			zap.String("route", c.FullPath()),
			zap.Error(err))
	}
	utils.Fail(c, err)
}

// bindJSON decodes the body into dst. An empty body leaves dst untouched so
// field validation can report what is missing.
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return utils.NewValidationError([]utils.FieldError{{Field: "body", Message: "Invalid request body"}})
	}
	return nil
}

// currentUser fetches the identity attached by the auth middleware.
func currentUser(c *gin.Context, logger *zap.Logger) (string, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		// Route registered without AuthMiddleware.
		respondError(c, logger, utils.NewInternalError(errors.New("no authenticated user on context")))
		return "", false
	}
	return user.ID, true
}

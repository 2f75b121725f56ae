package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"keepnotes/dto"
	"keepnotes/middleware"
	"keepnotes/usecase"
	"keepnotes/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const avatarField = "avatar"

type AuthHandler struct {
	UserService *usecase.UserService
	Logger      *zap.Logger
}

func NewAuthHandler(userService *usecase.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{UserService: userService, Logger: logger}
}

// Register accepts JSON, or multipart/form-data with an optional avatar part.
func (h *AuthHandler) Register(c *gin.Context) {
	var (
		req    dto.RegisterRequest
		avatar *multipart.FileHeader
	)

	if isMultipart(c) {
		if err := c.ShouldBind(&req); err != nil {
			respondError(c, h.Logger, invalidBody())
			return
		}
		file, err := c.FormFile(avatarField)
		switch {
		case err == nil:
			avatar = file
		case errors.Is(err, http.ErrMissingFile):
		default:
			respondError(c, h.Logger, invalidBody())
			return
		}
	} else if err := bindJSON(c, &req); err != nil {
		respondError(c, h.Logger, err)
		return
	}

	session, err := h.UserService.Register(c.Request.Context(), req, avatar)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	h.Logger.Info("user registered", zap.String("user_id", session.User.ID))
	utils.Created(c, "User registered successfully", dto.AuthResponse{
		User:  dto.ToUserResponse(session.User),
		Token: session.Token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Malformed credentials are still just invalid credentials.
		req = dto.LoginRequest{}
	}

	session, err := h.UserService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	utils.Success(c, "Login successful", dto.AuthResponse{
		User:  dto.ToUserResponse(session.User),
		Token: session.Token,
	})
}

// Me returns the identity resolved by the auth middleware.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, h.Logger, utils.NewInternalError(errors.New("no authenticated user on context")))
		return
	}
	utils.Success(c, "", dto.CurrentUserResponse{User: dto.ToUserResponse(user)})
}

func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	userID, ok := currentUser(c, h.Logger)
	if !ok {
		return
	}

	file, err := c.FormFile(avatarField)
	if err != nil {
		file = nil
	}

	user, err := h.UserService.UpdateAvatar(c.Request.Context(), userID, file)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	utils.Success(c, "Avatar uploaded successfully", dto.CurrentUserResponse{User: dto.ToUserResponse(user)})
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

func invalidBody() error {
	return utils.NewValidationError([]utils.FieldError{{Field: "body", Message: "Invalid request body"}})
}

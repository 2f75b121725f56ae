package usecase

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"keepnotes/dto"
	"keepnotes/model"
	"keepnotes/repository"
	"keepnotes/services"
	"keepnotes/utils"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgNotAuthorized      = "Not authorized"
	msgEmailTaken         = "User already exists with this email"
)

var (
	// ErrStaleToken means the token verified but its user no longer exists.
	ErrStaleToken         = errors.New("token user no longer exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	VerifyPassword(storedHash, password string) (bool, error)
}

type TokenIssuer interface {
	GenerateToken(userID string) (string, time.Time, error)
	ParseToken(token string) (*services.Claims, error)
}

// AvatarStorage keeps uploaded files outside the user store.
type AvatarStorage interface {
	SaveAvatar(file *multipart.FileHeader) (string, error)
	RemoveAvatar(path string) error
}

type UserService struct {
	UsersRepo repository.UserStore
	Hasher    PasswordHasher
	Tokens    TokenIssuer
	Avatars   AvatarStorage
	Now       func() time.Time
}

func NewUserService(users repository.UserStore, hasher PasswordHasher, tokens TokenIssuer, avatars AvatarStorage) *UserService {
	return &UserService{
		UsersRepo: users,
		Hasher:    hasher,
		Tokens:    tokens,
		Avatars:   avatars,
		Now:       time.Now,
	}
}

// Session is what register and login hand back: the identity and its token.
type Session struct {
	User  *model.User
	Token string
}

// Register validates every field, rejects a taken email, hashes the password
// and stores the user. The avatar, when given, is saved only after the input
// is known to be acceptable.
func (s *UserService) Register(ctx context.Context, req dto.RegisterRequest, avatar *multipart.FileHeader) (*Session, error) {
	req.Normalize()
	if errs := utils.ValidateStruct(req); errs != nil {
		utils.TrackAuthAttempt("failure", "register")
		return nil, utils.NewValidationError(errs)
	}

	if _, err := s.UsersRepo.FindUserByEmail(ctx, req.Email); err == nil {
		utils.TrackAuthAttempt("failure", "register")
		return nil, utils.NewConflictError(msgEmailTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewInternalError(err)
	}

	hash, err := s.Hasher.HashPassword(req.Password)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	now := s.now()
	user := &model.User{
		ID:        utils.NewID(),
		Name:      req.Name,
		Email:     req.Email,
		Password:  hash,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if avatar != nil {
		path, err := s.saveAvatar(avatar)
		if err != nil {
			return nil, err
		}
		user.Avatar = &path
	}

	if err := s.UsersRepo.CreateUser(ctx, user); err != nil {
		if user.Avatar != nil {
			_ = s.Avatars.RemoveAvatar(*user.Avatar)
		}
		// Lost a race with a concurrent registration for the same email.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, utils.NewConflictError(msgEmailTaken)
		}
		return nil, utils.NewInternalError(err)
	}

	token, _, err := s.Tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	utils.TrackRegistration()
	utils.TrackAuthAttempt("success", "register")
	return &Session{User: user, Token: token}, nil
}

// Login never says whether the email exists: every failure is the same
// "Invalid credentials".
func (s *UserService) Login(ctx context.Context, req dto.LoginRequest) (*Session, error) {
	req.Normalize()
	if req.Email == "" || req.Password == "" {
		utils.TrackAuthAttempt("failure", "login")
		return nil, utils.NewUnauthenticatedError(msgInvalidCredentials, ErrInvalidCredentials)
	}

	user, err := s.UsersRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.TrackAuthAttempt("failure", "login")
			return nil, utils.NewUnauthenticatedError(msgInvalidCredentials, ErrInvalidCredentials)
		}
		return nil, utils.NewInternalError(err)
	}

	ok, err := s.Hasher.VerifyPassword(user.Password, req.Password)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if !ok {
		utils.TrackAuthAttempt("failure", "login")
		return nil, utils.NewUnauthenticatedError(msgInvalidCredentials, ErrInvalidCredentials)
	}

	token, _, err := s.Tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	utils.TrackAuthAttempt("success", "login")
	return &Session{User: user, Token: token}, nil
}

// Authenticate resolves a bearer token to its user. Token problems and
// deleted users are Unauthenticated; store failures are Internal.
func (s *UserService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.Tokens.ParseToken(token)
	if err != nil {
		utils.TrackAuthAttempt("failure", "token")
		return nil, utils.NewUnauthenticatedError(msgNotAuthorized, err)
	}

	user, err := s.UsersRepo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.TrackAuthAttempt("failure", "token")
			return nil, utils.NewUnauthenticatedError(msgNotAuthorized, ErrStaleToken)
		}
		return nil, utils.NewInternalError(err)
	}
	return user, nil
}

// UpdateAvatar stores a new avatar file and records its path on the user.
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, avatar *multipart.FileHeader) (*model.User, error) {
	if avatar == nil {
		return nil, utils.NewValidationError([]utils.FieldError{{Field: "avatar", Message: "avatar is required"}})
	}

	path, err := s.saveAvatar(avatar)
	if err != nil {
		return nil, err
	}

	user, err := s.UsersRepo.UpdateUserAvatar(ctx, userID, path)
	if err != nil {
		_ = s.Avatars.RemoveAvatar(path)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewUnauthenticatedError(msgNotAuthorized, ErrStaleToken)
		}
		return nil, utils.NewInternalError(err)
	}
	return user, nil
}

func (s *UserService) saveAvatar(avatar *multipart.FileHeader) (string, error) {
	path, err := s.Avatars.SaveAvatar(avatar)
	if err == nil {
		return path, nil
	}
	if errors.Is(err, services.ErrAvatarTooLarge) || errors.Is(err, services.ErrAvatarType) {
		return "", utils.NewValidationError([]utils.FieldError{{Field: "avatar", Message: err.Error()}})
	}
	return "", utils.NewInternalError(err)
}

func (s *UserService) now() time.Time {
	return s.Now().UTC().Truncate(time.Millisecond)
}

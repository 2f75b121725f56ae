package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"keepnotes/utils"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrAvatarTooLarge = errors.New("avatar file is too large")
	ErrAvatarType     = errors.New("avatar must be a JPEG, PNG, GIF or WebP image")
)

var allowedAvatarTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// AvatarStore writes uploaded avatars under Dir/avatars and hands back the
// public path they are served from.
type AvatarStore struct {
	Dir          string
	PublicPrefix string
	MaxBytes     int64
}

func NewAvatarStore(dir string, maxBytes int64) *AvatarStore {
	return &AvatarStore{Dir: dir, PublicPrefix: "/uploads", MaxBytes: maxBytes}
}

// SaveAvatar sniffs the content type rather than trusting the client header.
func (s *AvatarStore) SaveAvatar(file *multipart.FileHeader) (string, error) {
	if file.Size > s.MaxBytes {
		return "", ErrAvatarTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open avatar upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, s.MaxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read avatar upload: %w", err)
	}
	if int64(len(data)) > s.MaxBytes {
		return "", ErrAvatarTooLarge
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedAvatarTypes...) {
		return "", ErrAvatarType
	}

	dir := filepath.Join(s.Dir, "avatars")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create avatar dir: %w", err)
	}
	name := utils.NewID() + mtype.Extension()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write avatar: %w", err)
	}
	return path.Join(s.PublicPrefix, "avatars", name), nil
}

// RemoveAvatar deletes a file previously returned by SaveAvatar.
func (s *AvatarStore) RemoveAvatar(publicPath string) error {
	rel := strings.TrimPrefix(publicPath, s.PublicPrefix+"/")
	if rel == publicPath || strings.Contains(rel, "..") {
		return fmt.Errorf("not an avatar path: %q", publicPath)
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(rel)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

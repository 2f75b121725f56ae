package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"
)

// User reflects API user payloads.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Avatar is an image to upload; Name only supplies the file extension hint.
type Avatar struct {
	Name string
	Data io.Reader
}

type authPayload struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type userPayload struct {
	User User `json:"user"`
}

// Register creates an account and logs in with it. avatar may be nil.
func (c *Client) Register(ctx context.Context, in RegisterInput, avatar *Avatar) (*Session, error) {
	r := request{method: http.MethodPost, path: "/api/auth/register", jsonBody: in}
	if avatar != nil {
		form, err := newMultipartBody(map[string]string{
			"name":     in.Name,
			"email":    in.Email,
			"password": in.Password,
		}, avatar)
		if err != nil {
			return nil, err
		}
		r.jsonBody, r.form = nil, form
	}
	return c.authenticate(ctx, r)
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.authenticate(ctx, request{
		method:   http.MethodPost,
		path:     "/api/auth/login",
		jsonBody: map[string]string{"email": email, "password": password},
	})
}

func (c *Client) authenticate(ctx context.Context, r request) (*Session, error) {
	var payload authPayload
	if _, err := c.do(ctx, r, &payload); err != nil {
		return nil, err
	}
	s := &Session{Token: payload.Token, User: payload.User}
	if err := c.setSession(s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

// Me fetches the current user, refreshing the cached copy in the session.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var payload userPayload
	if _, err := c.do(ctx, request{method: http.MethodGet, path: "/api/auth/me", auth: true}, &payload); err != nil {
		return nil, err
	}
	c.refreshUser(payload.User)
	return &payload.User, nil
}

func (c *Client) UploadAvatar(ctx context.Context, avatar Avatar) (*User, error) {
	form, err := newMultipartBody(nil, &avatar)
	if err != nil {
		return nil, err
	}
	var payload userPayload
	if _, err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/avatar", form: form, auth: true}, &payload); err != nil {
		return nil, err
	}
	c.refreshUser(payload.User)
	return &payload.User, nil
}

func (c *Client) refreshUser(u User) {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return
	}
	s := *c.session
	s.User = u
	c.session = &s
	c.mu.Unlock()
	// Best effort; the token is what matters.
	_ = c.store.Save(&s)
}

type multipartBody struct {
	buf         *bytes.Buffer
	contentType string
}

func newMultipartBody(fields map[string]string, avatar *Avatar) (*multipartBody, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("encode form: %w", err)
		}
	}
	if avatar != nil {
		name := filepath.Base(avatar.Name)
		if name == "." || name == "/" {
			name = "avatar"
		}
		part, err := w.CreateFormFile("avatar", name)
		if err != nil {
			return nil, fmt.Errorf("encode form: %w", err)
		}
		if _, err := io.Copy(part, avatar.Data); err != nil {
			return nil, fmt.Errorf("read avatar: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}
	return &multipartBody{buf: buf, contentType: w.FormDataContentType()}, nil
}

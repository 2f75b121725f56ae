package client

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

type Note struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags"`
	Color      string    `json:"color"`
	IsPinned   bool      `json:"isPinned"`
	IsFavorite bool      `json:"isFavorite"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NoteInput is a create or update body. Nil fields are omitted; on update
// they keep their stored value.
type NoteInput struct {
	Title      *string   `json:"title,omitempty"`
	Content    *string   `json:"content,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
	Color      *string   `json:"color,omitempty"`
	IsPinned   *bool     `json:"isPinned,omitempty"`
	IsFavorite *bool     `json:"isFavorite,omitempty"`
}

// Sort orders understood by ListNotes.
const (
	SortNewest       = "newest"
	SortOldest       = "oldest"
	SortAlphabetical = "alphabetical"
	SortUpdated      = "updated"
)

type ListOptions struct {
	Sort         string
	Search       string
	Tag          string
	FavoriteOnly bool
	PinnedOnly   bool
}

func (o ListOptions) values() url.Values {
	q := url.Values{}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.Tag != "" {
		q.Set("tag", o.Tag)
	}
	if o.FavoriteOnly {
		q.Set("isFavorite", "true")
	}
	if o.PinnedOnly {
		q.Set("isPinned", "true")
	}
	return q
}

func (c *Client) ListNotes(ctx context.Context, opts ListOptions) ([]Note, error) {
	notes := []Note{}
	if _, err := c.do(ctx, request{method: http.MethodGet, path: "/api/notes", query: opts.values(), auth: true}, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) GetNote(ctx context.Context, id string) (*Note, error) {
	return c.noteCall(ctx, http.MethodGet, notePath(id), nil)
}

func (c *Client) CreateNote(ctx context.Context, in NoteInput) (*Note, error) {
	return c.noteCall(ctx, http.MethodPost, "/api/notes", in)
}

func (c *Client) UpdateNote(ctx context.Context, id string, in NoteInput) (*Note, error) {
	return c.noteCall(ctx, http.MethodPut, notePath(id), in)
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: notePath(id), auth: true}, nil)
	return err
}

func (c *Client) TogglePin(ctx context.Context, id string) (*Note, error) {
	return c.noteCall(ctx, http.MethodPatch, notePath(id)+"/pin", nil)
}

func (c *Client) ToggleFavorite(ctx context.Context, id string) (*Note, error) {
	return c.noteCall(ctx, http.MethodPatch, notePath(id)+"/favorite", nil)
}

func (c *Client) noteCall(ctx context.Context, method, path string, body any) (*Note, error) {
	r := request{method: method, path: path, auth: true}
	if body != nil {
		r.jsonBody = body
	}
	var note Note
	if _, err := c.do(ctx, r, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func notePath(id string) string {
	return "/api/notes/" + url.PathEscape(id)
}

package dto

import (
	"strings"
	"time"

	"keepnotes/model"
)

// NoteRequest is the body of create and update. Nil fields mean "not sent":
// create applies defaults, update keeps the stored value.
type NoteRequest struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	Tags       *[]string `json:"tags"`
	Color      *string   `json:"color"`
	IsPinned   *bool     `json:"isPinned"`
	IsFavorite *bool     `json:"isFavorite"`
}

// Normalize trims the title, and trims, lower-cases and de-duplicates tags.
func (r *NoteRequest) Normalize() {
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		r.Title = &title
	}
	if r.Tags != nil {
		tags := NormalizeTags(*r.Tags)
		r.Tags = &tags
	}
}

func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// ListNotesQuery binds the query string of the list endpoint. Sort is nil
// when the parameter is absent.
type ListNotesQuery struct {
	Sort       *string `form:"sort"`
	Search     string  `form:"search"`
	Tag        string  `form:"tag"`
	IsFavorite string  `form:"isFavorite"`
	IsPinned   string  `form:"isPinned"`
}

type NoteResponse struct {
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

// Convert a single note to NoteResponse
func ToNoteResponse(note *model.Note) NoteResponse {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}
	return NoteResponse{
		ID:         note.ID,
		UserID:     note.UserID,
		Title:      note.Title,
		Content:    note.Content,
		Tags:       tags,
		Color:      note.Color,
		IsPinned:   note.IsPinned,
		IsFavorite: note.IsFavorite,
		CreatedAt:  note.CreatedAt,
		UpdatedAt:  note.UpdatedAt,
	}
}

// Convert slice of notes to slice of NoteResponse
func ToNoteResponses(notes []*model.Note) []NoteResponse {
	responses := make([]NoteResponse, len(notes))
	for i, note := range notes {
		responses[i] = ToNoteResponse(note)
	}
	return responses
}

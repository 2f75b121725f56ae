package model

import (
	"time"
)

const DefaultNoteColor = "#ffffff"

const (
	MaxTitleLength   = 200
	MaxContentLength = 50000
	MaxTagLength     = 30
)

type Note struct {
	ID         string    `bson:"_id" json:"id"`
	UserID     string    `bson:"user_id" json:"userId"`
	Title      string    `bson:"title" json:"title"`
	Content    string    `bson:"content" json:"content"`
	Tags       []string  `bson:"tags" json:"tags"`
	Color      string    `bson:"color" json:"color"`
	IsPinned   bool      `bson:"is_pinned" json:"isPinned"`
	IsFavorite bool      `bson:"is_favorite" json:"isFavorite"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updatedAt"`
}

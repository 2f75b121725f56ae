// Package repository persists users and notes. Every note operation takes the
// owner's ID and includes it in the store filter, so a note belonging to
// someone else behaves exactly like a note that does not exist.
package repository

import (
	"context"
	"errors"

	"keepnotes/model"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrMissingOwner   = errors.New("note owner is required")
)

const (
	UsersCollection = "users"
	NotesCollection = "notes"
)

// NoteFlag names a boolean note field that can be toggled.
type NoteFlag string

const (
	FlagPinned   NoteFlag = "is_pinned"
	FlagFavorite NoteFlag = "is_favorite"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	FindUserByID(ctx context.Context, userID string) (*model.User, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUserAvatar(ctx context.Context, userID, avatar string) (*model.User, error)
}

type NoteStore interface {
	CreateNote(ctx context.Context, note *model.Note) error
	FindNotes(ctx context.Context, query model.NoteQuery) ([]*model.Note, error)
	FindNote(ctx context.Context, noteID, ownerID string) (*model.Note, error)
	// UpdateNote replaces the mutable fields of the note matching note.ID and
	// note.UserID and returns the stored result.
	UpdateNote(ctx context.Context, note *model.Note) (*model.Note, error)
	DeleteNote(ctx context.Context, noteID, ownerID string) error
	// ToggleNoteFlag flips one boolean in a single atomic store operation.
	ToggleNoteFlag(ctx context.Context, noteID, ownerID string, flag NoteFlag) (*model.Note, error)
}

package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"keepnotes/model"
)

// MemoryUserRepo is a process-local UserStore for development and tests.
type MemoryUserRepo struct {
	mu      sync.RWMutex
	byID    map[string]*model.User
	byEmail map[string]string
	Now     func() time.Time
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]string),
		Now:     time.Now,
	}
}

func (r *MemoryUserRepo) CreateUser(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return ErrDuplicateEmail
	}
	stored := cloneUser(user)
	r.byID[user.ID] = stored
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryUserRepo) FindUserByID(_ context.Context, userID string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(user), nil
}

func (r *MemoryUserRepo) FindUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *MemoryUserRepo) UpdateUserAvatar(_ context.Context, userID, avatar string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[userID]
	if !ok {
		return nil, ErrNotFound
	}
	user.Avatar = &avatar
	user.UpdatedAt = r.Now().UTC()
	return cloneUser(user), nil
}

// DeleteUser exists so tests can simulate an account removed after a token
// was issued.
func (r *MemoryUserRepo) DeleteUser(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.byID[userID]; ok {
		delete(r.byEmail, user.Email)
		delete(r.byID, userID)
	}
}

func cloneUser(u *model.User) *model.User {
	c := *u
	if u.Avatar != nil {
		avatar := *u.Avatar
		c.Avatar = &avatar
	}
	return &c
}

// MemoryNotesRepo is a process-local NoteStore with the same scoping, filter
// and ordering rules as NotesRepo.
type MemoryNotesRepo struct {
	mu    sync.RWMutex
	notes map[string]*model.Note
	order []string // insertion order, used to keep equal sort keys stable
	Now   func() time.Time
}

func NewMemoryNotesRepo() *MemoryNotesRepo {
	return &MemoryNotesRepo{
		notes: make(map[string]*model.Note),
		Now:   time.Now,
	}
}

func (r *MemoryNotesRepo) CreateNote(_ context.Context, note *model.Note) error {
	if note.UserID == "" {
		return ErrMissingOwner
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.notes[note.ID] = cloneNote(note)
	r.order = append(r.order, note.ID)
	return nil
}

func (r *MemoryNotesRepo) FindNotes(_ context.Context, query model.NoteQuery) ([]*model.Note, error) {
	if query.OwnerID == "" {
		return nil, ErrMissingOwner
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := make([]*model.Note, 0)
	for _, id := range r.order {
		note, ok := r.notes[id]
		if !ok || !matchesQuery(note, query) {
			continue
		}
		notes = append(notes, cloneNote(note))
	}
	sortNotes(notes, query.Sort)
	return notes, nil
}

func (r *MemoryNotesRepo) FindNote(_ context.Context, noteID, ownerID string) (*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, err := r.owned(noteID, ownerID)
	if err != nil {
		return nil, err
	}
	return cloneNote(note), nil
}

func (r *MemoryNotesRepo) UpdateNote(_ context.Context, note *model.Note) (*model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.owned(note.ID, note.UserID)
	if err != nil {
		return nil, err
	}
	stored.Title = note.Title
	stored.Content = note.Content
	stored.Tags = append([]string(nil), note.Tags...)
	stored.Color = note.Color
	stored.IsPinned = note.IsPinned
	stored.IsFavorite = note.IsFavorite
	stored.UpdatedAt = note.UpdatedAt
	return cloneNote(stored), nil
}

func (r *MemoryNotesRepo) DeleteNote(_ context.Context, noteID, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.owned(noteID, ownerID); err != nil {
		return err
	}
	delete(r.notes, noteID)
	for i, id := range r.order {
		if id == noteID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryNotesRepo) ToggleNoteFlag(_ context.Context, noteID, ownerID string, flag NoteFlag) (*model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	note, err := r.owned(noteID, ownerID)
	if err != nil {
		return nil, err
	}
	switch flag {
	case FlagPinned:
		note.IsPinned = !note.IsPinned
	case FlagFavorite:
		note.IsFavorite = !note.IsFavorite
	default:
		return nil, ErrNotFound
	}
	note.UpdatedAt = r.Now().UTC().Truncate(time.Millisecond)
	return cloneNote(note), nil
}

// owned must be called with r.mu held.
func (r *MemoryNotesRepo) owned(noteID, ownerID string) (*model.Note, error) {
	note, ok := r.notes[noteID]
	if !ok || ownerID == "" || note.UserID != ownerID {
		return nil, ErrNotFound
	}
	return note, nil
}

func matchesQuery(note *model.Note, q model.NoteQuery) bool {
	if note.UserID != q.OwnerID {
		return false
	}
	if q.FavoriteOnly && !note.IsFavorite {
		return false
	}
	if q.PinnedOnly && !note.IsPinned {
		return false
	}
	if tag := strings.ToLower(strings.TrimSpace(q.Tag)); tag != "" && !containsTag(note.Tags, tag) {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(note.Title), needle) &&
			!strings.Contains(strings.ToLower(note.Content), needle) {
			return false
		}
	}
	return true
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// sortNotes mirrors BuildNoteSort. Titles compare bytewise, like Mongo's
// default collation.
func sortNotes(notes []*model.Note, mode model.SortMode) {
	mode = mode.Resolve()

	primary := func(a, b *model.Note) int {
		switch mode {
		case model.SortOldest:
			return a.CreatedAt.Compare(b.CreatedAt)
		case model.SortAlphabetical:
			return strings.Compare(a.Title, b.Title)
		case model.SortUpdated:
			return b.UpdatedAt.Compare(a.UpdatedAt)
		default:
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	}

	sort.SliceStable(notes, func(i, j int) bool {
		a, b := notes[i], notes[j]
		if mode.PinnedFirst() && a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		return primary(a, b) < 0
	})
}

func cloneNote(n *model.Note) *model.Note {
	c := *n
	c.Tags = append([]string(nil), n.Tags...)
	return &c
}

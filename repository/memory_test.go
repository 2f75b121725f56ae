package repository

import (
	"context"
	"testing"
	"time"

	"keepnotes/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func seedNotes(t *testing.T, repo NoteStore) {
	t.Helper()
	notes := []*model.Note{
		{ID: "n1", UserID: "alice", Title: "Banana bread", Content: "flour", Tags: []string{"baking"}, CreatedAt: base, UpdatedAt: base.Add(5 * time.Hour)},
		{ID: "n2", UserID: "alice", Title: "apple pie", Content: "Crust notes", Tags: []string{"baking", "work"}, IsPinned: true, CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour)},
		{ID: "n3", UserID: "alice", Title: "Standup", Content: "sync at 9", Tags: []string{"work"}, IsFavorite: true, CreatedAt: base.Add(2 * time.Hour), UpdatedAt: base.Add(2 * time.Hour)},
		{ID: "n4", UserID: "bob", Title: "Bob's secret", Content: "apple", CreatedAt: base.Add(3 * time.Hour), UpdatedAt: base.Add(3 * time.Hour)},
	}
	for _, n := range notes {
		require.NoError(t, repo.CreateNote(context.Background(), n))
	}
}

func ids(notes []*model.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func TestMemoryFindNotesSortModes(t *testing.T) {
	repo := NewMemoryNotesRepo()
	seedNotes(t, repo)

	tests := []struct {
		mode model.SortMode
		want []string
	}{
		{model.SortNewest, []string{"n2", "n3", "n1"}},
		{model.SortOldest, []string{"n2", "n1", "n3"}},
		// Bytewise: upper case before lower case.
		{model.SortAlphabetical, []string{"n1", "n3", "n2"}},
		{model.SortUpdated, []string{"n1", "n3", "n2"}},
		{model.SortCreated, []string{"n3", "n2", "n1"}},
		{"bogus", []string{"n3", "n2", "n1"}},
		{"", []string{"n2", "n3", "n1"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			notes, err := repo.FindNotes(context.Background(), model.NoteQuery{OwnerID: "alice", Sort: tt.mode})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(notes))
		})
	}
}

func TestMemoryFindNotesFilters(t *testing.T) {
	repo := NewMemoryNotesRepo()
	seedNotes(t, repo)

	tests := []struct {
		name  string
		query model.NoteQuery
		want  []string
	}{
		{"search title case-insensitive", model.NoteQuery{Search: "APPLE"}, []string{"n2"}},
		{"search content", model.NoteQuery{Search: "sync"}, []string{"n3"}},
		{"tag", model.NoteQuery{Tag: "Work"}, []string{"n2", "n3"}},
		{"favorite only", model.NoteQuery{FavoriteOnly: true}, []string{"n3"}},
		{"pinned only", model.NoteQuery{PinnedOnly: true}, []string{"n2"}},
		{"tag and search", model.NoteQuery{Tag: "baking", Search: "flour"}, []string{"n1"}},
		{"no match", model.NoteQuery{Search: "zzz"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.query.OwnerID = "alice"
			notes, err := repo.FindNotes(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(notes))
		})
	}
}

func TestMemoryFindNotesRequiresOwner(t *testing.T) {
	repo := NewMemoryNotesRepo()
	seedNotes(t, repo)

	_, err := repo.FindNotes(context.Background(), model.NoteQuery{})
	assert.ErrorIs(t, err, ErrMissingOwner)
}

func TestMemoryOwnershipLooksLikeAbsence(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryNotesRepo()
	seedNotes(t, repo)

	_, errForeign := repo.FindNote(ctx, "n4", "alice")
	_, errMissing := repo.FindNote(ctx, "nope", "alice")
	assert.ErrorIs(t, errForeign, ErrNotFound)
	assert.ErrorIs(t, errMissing, ErrNotFound)

	assert.ErrorIs(t, repo.DeleteNote(ctx, "n4", "alice"), ErrNotFound)
	_, err := repo.ToggleNoteFlag(ctx, "n4", "alice", FlagPinned)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.UpdateNote(ctx, &model.Note{ID: "n4", UserID: "alice", Title: "mine now"})
	assert.ErrorIs(t, err, ErrNotFound)

	still, err := repo.FindNote(ctx, "n4", "bob")
	require.NoError(t, err)
	assert.Equal(t, "Bob's secret", still.Title)
	assert.False(t, still.IsPinned)
}

func TestMemoryToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryNotesRepo()
	repo.Now = func() time.Time { return base.Add(24 * time.Hour) }
	seedNotes(t, repo)

	once, err := repo.ToggleNoteFlag(ctx, "n1", "alice", FlagFavorite)
	require.NoError(t, err)
	assert.True(t, once.IsFavorite)
	assert.Equal(t, base.Add(24*time.Hour), once.UpdatedAt)

	twice, err := repo.ToggleNoteFlag(ctx, "n1", "alice", FlagFavorite)
	require.NoError(t, err)
	assert.False(t, twice.IsFavorite)
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryNotesRepo()
	seedNotes(t, repo)

	note, err := repo.FindNote(ctx, "n1", "alice")
	require.NoError(t, err)
	note.Title = "mutated"
	note.Tags[0] = "mutated"

	again, err := repo.FindNote(ctx, "n1", "alice")
	require.NoError(t, err)
	assert.Equal(t, "Banana bread", again.Title)
	assert.Equal(t, []string{"baking"}, again.Tags)
}

func TestMemoryDeleteRemovesFromListing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryNotesRepo()
	seedNotes(t, repo)

	require.NoError(t, repo.DeleteNote(ctx, "n2", "alice"))
	notes, err := repo.FindNotes(ctx, model.NoteQuery{OwnerID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, []string{"n3", "n1"}, ids(notes))
	assert.ErrorIs(t, repo.DeleteNote(ctx, "n2", "alice"), ErrNotFound)
}

func TestMemoryUserEmailUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepo()

	require.NoError(t, repo.CreateUser(ctx, &model.User{ID: "u1", Email: "a@x.io"}))
	assert.ErrorIs(t, repo.CreateUser(ctx, &model.User{ID: "u2", Email: "a@x.io"}), ErrDuplicateEmail)

	found, err := repo.FindUserByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.ID)

	_, err = repo.FindUserByID(ctx, "u2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpdateUserAvatar(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepo()
	require.NoError(t, repo.CreateUser(ctx, &model.User{ID: "u1", Email: "a@x.io"}))

	user, err := repo.UpdateUserAvatar(ctx, "u1", "/uploads/avatars/x.png")
	require.NoError(t, err)
	require.NotNil(t, user.Avatar)
	assert.Equal(t, "/uploads/avatars/x.png", *user.Avatar)

	repo.DeleteUser("u1")
	_, err = repo.UpdateUserAvatar(ctx, "u1", "/uploads/avatars/y.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

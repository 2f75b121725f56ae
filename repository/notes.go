package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"keepnotes/model"
	"keepnotes/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotesRepo struct {
	MongoCollection *mongo.Collection
	// Now stamps updated_at on toggles.
	Now func() time.Time
}

func GetNotesRepo(db *mongo.Database) *NotesRepo {
	return &NotesRepo{
		MongoCollection: db.Collection(NotesCollection),
		Now:             time.Now,
	}
}

// CreateNote creates a new note
func (r *NotesRepo) CreateNote(ctx context.Context, note *model.Note) error {
	timer := utils.TrackDBOperation("insert", NotesCollection)
	defer timer.ObserveDuration()

	if note.UserID == "" {
		return ErrMissingOwner
	}
	if _, err := r.MongoCollection.InsertOne(ctx, note); err != nil {
		utils.TrackError("database", "note_creation_failed")
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

// FindNotes runs a scoped, filtered and sorted listing
func (r *NotesRepo) FindNotes(ctx context.Context, query model.NoteQuery) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", NotesCollection)
	defer timer.ObserveDuration()

	filter, err := BuildNoteFilter(query)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(BuildNoteSort(query.Sort))

	cursor, err := r.MongoCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.TrackError("database", "note_query_failed")
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer cursor.Close(ctx)

	notes := make([]*model.Note, 0)
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}
	return notes, nil
}

// FindNote retrieves a specific note
func (r *NotesRepo) FindNote(ctx context.Context, noteID, ownerID string) (*model.Note, error) {
	timer := utils.TrackDBOperation("find", NotesCollection)
	defer timer.ObserveDuration()

	var note model.Note
	err := r.MongoCollection.FindOne(ctx, ownedNote(noteID, ownerID)).Decode(&note)
	if err != nil {
		return nil, noteLookupError(err)
	}
	return &note, nil
}

// UpdateNote updates a specific note
func (r *NotesRepo) UpdateNote(ctx context.Context, note *model.Note) (*model.Note, error) {
	timer := utils.TrackDBOperation("update", NotesCollection)
	defer timer.ObserveDuration()

	update := bson.M{
		"$set": bson.M{
			"title":       note.Title,
			"content":     note.Content,
			"tags":        note.Tags,
			"color":       note.Color,
			"is_pinned":   note.IsPinned,
			"is_favorite": note.IsFavorite,
			"updated_at":  note.UpdatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated model.Note
	err := r.MongoCollection.FindOneAndUpdate(ctx, ownedNote(note.ID, note.UserID), update, opts).Decode(&updated)
	if err != nil {
		return nil, noteLookupError(err)
	}
	return &updated, nil
}

// DeleteNote deletes a specific note
func (r *NotesRepo) DeleteNote(ctx context.Context, noteID, ownerID string) error {
	timer := utils.TrackDBOperation("delete", NotesCollection)
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, ownedNote(noteID, ownerID))
	if err != nil {
		utils.TrackError("database", "note_delete_failed")
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleNoteFlag negates flag server-side with an update pipeline, so the
// read and the write happen in one document operation.
func (r *NotesRepo) ToggleNoteFlag(ctx context.Context, noteID, ownerID string, flag NoteFlag) (*model.Note, error) {
	timer := utils.TrackDBOperation("update", NotesCollection)
	defer timer.ObserveDuration()

	if flag != FlagPinned && flag != FlagFavorite {
		return nil, fmt.Errorf("unknown note flag %q", flag)
	}

	field := string(flag)
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: field, Value: bson.D{{Key: "$not", Value: bson.A{"$" + field}}}},
			{Key: "updated_at", Value: r.Now().UTC().Truncate(time.Millisecond)},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var note model.Note
	err := r.MongoCollection.FindOneAndUpdate(ctx, ownedNote(noteID, ownerID), update, opts).Decode(&note)
	if err != nil {
		return nil, noteLookupError(err)
	}
	return &note, nil
}

func ownedNote(noteID, ownerID string) bson.M {
	return bson.M{"_id": noteID, "user_id": ownerID}
}

func noteLookupError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	utils.TrackError("database", "note_lookup_error")
	return fmt.Errorf("failed to load note: %w", err)
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"keepnotes/dto"
	"keepnotes/model"
	"keepnotes/repository"
	"keepnotes/utils"
)

const msgNoteNotFound = "Note not found"

type NotesService struct {
	NotesRepo repository.NoteStore
	Now       func() time.Time
}

func NewNotesService(notes repository.NoteStore) *NotesService {
	return &NotesService{NotesRepo: notes, Now: time.Now}
}

// noteFields is the fully resolved note body that gets validated.
type noteFields struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Content string   `json:"content" validate:"required,max=50000"`
	Tags    []string `json:"tags" validate:"dive,max=30"`
	Color   string   `json:"color" validate:"notecolor"`
}

// BuildNoteQuery turns list parameters into a query scoped to ownerID. The
// boolean filters only apply for the literal value "true".
func BuildNoteQuery(ownerID string, params dto.ListNotesQuery) model.NoteQuery {
	sortMode := model.SortNewest
	if params.Sort != nil {
		sortMode = model.ParseSortMode(strings.TrimSpace(*params.Sort))
	}
	return model.NoteQuery{
		OwnerID:      ownerID,
		Sort:         sortMode,
		Search:       params.Search,
		Tag:          strings.ToLower(strings.TrimSpace(params.Tag)),
		FavoriteOnly: params.IsFavorite == "true",
		PinnedOnly:   params.IsPinned == "true",
	}
}

func (svc *NotesService) ListNotes(ctx context.Context, ownerID string, params dto.ListNotesQuery) ([]*model.Note, error) {
	notes, err := svc.NotesRepo.FindNotes(ctx, BuildNoteQuery(ownerID, params))
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return notes, nil
}

func (svc *NotesService) GetNote(ctx context.Context, ownerID, noteID string) (*model.Note, error) {
	note, err := svc.NotesRepo.FindNote(ctx, noteID, ownerID)
	if err != nil {
		return nil, noteError(err)
	}
	return note, nil
}

func (svc *NotesService) CreateNote(ctx context.Context, ownerID string, req dto.NoteRequest) (*model.Note, error) {
	req.Normalize()

	fields := noteFields{Tags: []string{}, Color: model.DefaultNoteColor}
	applyNoteRequest(&fields, req)
	if errs := utils.ValidateStruct(fields); errs != nil {
		return nil, utils.NewValidationError(errs)
	}

	now := svc.now()
	note := &model.Note{
		ID:         utils.NewID(),
		UserID:     ownerID,
		Title:      fields.Title,
		Content:    fields.Content,
		Tags:       fields.Tags,
		Color:      fields.Color,
		IsPinned:   req.IsPinned != nil && *req.IsPinned,
		IsFavorite: req.IsFavorite != nil && *req.IsFavorite,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := svc.NotesRepo.CreateNote(ctx, note); err != nil {
		return nil, utils.NewInternalError(err)
	}
	utils.TrackNoteOperation("create")
	return note, nil
}

// UpdateNote applies the fields present in req; absent fields keep their
// stored values. Owner and creation time never change.
func (svc *NotesService) UpdateNote(ctx context.Context, ownerID, noteID string, req dto.NoteRequest) (*model.Note, error) {
	existing, err := svc.NotesRepo.FindNote(ctx, noteID, ownerID)
	if err != nil {
		return nil, noteError(err)
	}

	req.Normalize()

	fields := noteFields{
		Title:   existing.Title,
		Content: existing.Content,
		Tags:    existing.Tags,
		Color:   existing.Color,
	}
	applyNoteRequest(&fields, req)
	if fields.Tags == nil {
		fields.Tags = []string{}
	}
	if errs := utils.ValidateStruct(fields); errs != nil {
		return nil, utils.NewValidationError(errs)
	}

	existing.Title = fields.Title
	existing.Content = fields.Content
	existing.Tags = fields.Tags
	existing.Color = fields.Color
	if req.IsPinned != nil {
		existing.IsPinned = *req.IsPinned
	}
	if req.IsFavorite != nil {
		existing.IsFavorite = *req.IsFavorite
	}
	existing.UpdatedAt = svc.now()

	updated, err := svc.NotesRepo.UpdateNote(ctx, existing)
	if err != nil {
		return nil, noteError(err)
	}
	utils.TrackNoteOperation("update")
	return updated, nil
}

func (svc *NotesService) DeleteNote(ctx context.Context, ownerID, noteID string) error {
	if err := svc.NotesRepo.DeleteNote(ctx, noteID, ownerID); err != nil {
		return noteError(err)
	}
	utils.TrackNoteOperation("delete")
	return nil
}

func (svc *NotesService) TogglePin(ctx context.Context, ownerID, noteID string) (*model.Note, error) {
	note, err := svc.NotesRepo.ToggleNoteFlag(ctx, noteID, ownerID, repository.FlagPinned)
	if err != nil {
		return nil, noteError(err)
	}
	utils.TrackNoteOperation("pin")
	return note, nil
}

func (svc *NotesService) ToggleFavorite(ctx context.Context, ownerID, noteID string) (*model.Note, error) {
	note, err := svc.NotesRepo.ToggleNoteFlag(ctx, noteID, ownerID, repository.FlagFavorite)
	if err != nil {
		return nil, noteError(err)
	}
	utils.TrackNoteOperation("favorite")
	return note, nil
}

func (svc *NotesService) now() time.Time {
	// Mongo keeps millisecond precision; match it so both stores agree.
	return svc.Now().UTC().Truncate(time.Millisecond)
}

func applyNoteRequest(fields *noteFields, req dto.NoteRequest) {
	if req.Title != nil {
		fields.Title = *req.Title
	}
	if req.Content != nil {
		fields.Content = *req.Content
	}
	if req.Tags != nil {
		fields.Tags = *req.Tags
	}
	if req.Color != nil && *req.Color != "" {
		fields.Color = *req.Color
	}
}

// noteError folds "absent" and "owned by someone else" into one NotFound.
func noteError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NewNotFoundError(msgNoteNotFound)
	}
	return utils.NewInternalError(err)
}

package handler

import (
	"keepnotes/dto"
	"keepnotes/usecase"
	"keepnotes/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotesHandler struct {
	NotesService *usecase.NotesService
	Logger       *zap.Logger
}

func NewNotesHandler(notesService *usecase.NotesService, logger *zap.Logger) *NotesHandler {
	return &NotesHandler{NotesService: notesService, Logger: logger}
}

// ListNotes handles GET /api/notes?sort=&search=&tag=&isFavorite=&isPinned=
func (h *NotesHandler) ListNotes(c *gin.Context) {
	userID, ok := currentUser(c, h.Logger)
	if !ok {
		return
	}

	var params dto.ListNotesQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		// Every parameter is a plain string; unreachable in practice.
		params = dto.ListNotesQuery{}
	}

	notes, err := h.NotesService.ListNotes(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	utils.SuccessList(c, dto.ToNoteResponses(notes), len(notes))
}

func (h *NotesHandler) GetNote(c *gin.Context) {
	userID, ok := currentUser(c, h.Logger)
	if !ok {
		return
	}

	note, err := h.NotesService.GetNote(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	utils.Success(c, "", dto.ToNoteResponse(note))
}

func (h *NotesHandler) CreateNote(c *gin.Context) {
	userID, ok := currentUser(c, h.Logger)
	if !ok {
		return
	}

	var req dto.NoteRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.Logger, err)
		return
	}

	note, err := h.NotesService.CreateNote(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	utils.Created(c, "Note created successfully", dto.ToNoteResponse(note))
}

func (h *NotesHandler) UpdateNote(c *gin.Context) {
	userID, ok := currentUser(c, h.Logger)
	if !ok {
		return
	}

	var req dto.NoteRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.Logger, err)
		return
	}

	note, err := h.NotesService.UpdateNote(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	utils.Success(c, "Note updated successfully", dto.ToNoteResponse(note))
}

func (h *NotesHandler) DeleteNote(c *gin.Context) {
	userID, ok := currentUser(c, h.Logger)
	if !ok {
		return
	}

	if err := h.NotesService.DeleteNote(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}

	utils.Success(c, "Note deleted successfully", gin.H{})
}

func (h *NotesHandler) TogglePin(c *gin.Context) {
	userID, ok := currentUser(c, h.Logger)
	if !ok {
		return
	}

	note, err := h.NotesService.TogglePin(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	message := "Note unpinned successfully"
	if note.IsPinned {
		message = "Note pinned successfully"
	}
	utils.Success(c, message, dto.ToNoteResponse(note))
}

func (h *NotesHandler) ToggleFavorite(c *gin.Context) {
	userID, ok := currentUser(c, h.Logger)
	if !ok {
		return
	}

	note, err := h.NotesService.ToggleFavorite(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	message := "Note removed from favorites"
	if note.IsFavorite {
		message = "Note marked as favorite"
	}
	utils.Success(c, message, dto.ToNoteResponse(note))
}

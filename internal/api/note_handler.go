package api

import (
	"errors"
	"net/http"

	"vamo/fellowship-app/internal/repository"
	"vamo/fellowship-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NoteHandler handles shared progress notes.
type NoteHandler struct {
	noteService service.NoteService
	userRepo    repository.UserRepository
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(noteService service.NoteService, userRepo repository.UserRepository) *NoteHandler {
	return &NoteHandler{noteService: noteService, userRepo: userRepo}
}

// --- DTOs ---

// NoteRequest is the payload for creating or updating a note.
type NoteRequest struct {
	Title            string   `json:"title" binding:"required"`
	Content          string   `json:"content" binding:"required"`
	SubscriberEmails []string `json:"subscriberEmails" binding:"omitempty,dive,email"`
}

func (r NoteRequest) toInput() service.NoteInput {
	return service.NoteInput{
		Title:            r.Title,
		Content:          r.Content,
		SubscriberEmails: r.SubscriberEmails,
	}
}

// --- Handler Methods ---

// CreateNote creates a note authored by the authenticated user and
// notifies its subscribers.
func (h *NoteHandler) CreateNote(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request data: "+err.Error())
		return
	}

	author, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusNotFound, "User not found")
		return
	}

	note, err := h.noteService.Create(c.Request.Context(), author, req.toInput())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create note: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, note)
}

// ListNotes returns every note, most recently updated first.
func (h *NoteHandler) ListNotes(c *gin.Context) {
	notes, err := h.noteService.List(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve notes: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, notes)
}

// UpdateNote rewrites a note the authenticated user authored.
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	noteID, err := primitive.ObjectIDFromHex(c.Param("noteId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid note ID format")
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request data: "+err.Error())
		return
	}

	note, err := h.noteService.Update(c.Request.Context(), noteID, userID, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoteNotFound):
			abortWithError(c, http.StatusNotFound, "Note not found")
		case errors.Is(err, service.ErrNotNoteOwner):
			abortWithError(c, http.StatusForbidden, "You can only edit your own notes")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update note: "+err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, note)
}

// DeleteNote removes a note the authenticated user authored.
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	noteID, err := primitive.ObjectIDFromHex(c.Param("noteId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid note ID format")
		return
	}

	if err := h.noteService.Delete(c.Request.Context(), noteID, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrNoteNotFound):
			abortWithError(c, http.StatusNotFound, "Note not found")
		case errors.Is(err, service.ErrNotNoteOwner):
			abortWithError(c, http.StatusForbidden, "You can only delete your own notes")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete note: "+err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note deleted successfully"})
}

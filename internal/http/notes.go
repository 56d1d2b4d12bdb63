package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/database/records"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// NotesController handles per-user free-text notes on ebooks.
type NotesController struct {
	db     *gorm.DB
	ebooks *records.Store[entities.EBook, *entities.EBook]
	notes  *records.Store[entities.Note, *entities.Note]
}

// NewNotesController creates a new NotesController.
func NewNotesController(db *gorm.DB) *NotesController {
	return &NotesController{
		db:     db,
		ebooks: records.NewStore[entities.EBook](db),
		notes:  records.NewStore[entities.Note](db),
	}
}

// ListNotes returns all active notes belonging to the caller.
func (nc *NotesController) ListNotes(c *gin.Context) {
	var notes []entities.Note
	err := nc.db.
		Where("user_id = ? AND is_deleted = ? AND is_active = ?", auth.CurrentUserID(c), false, true).
		Find(&notes).Error
	if err != nil {
		respondInternalError(c, err, "list notes")
		return
	}
	c.JSON(http.StatusOK, notes)
}

type noteCreateRequest struct {
	PageNumber int    `json:"page_number"`
	Content    string `json:"content" binding:"required"`
}

// AddNote attaches a note to a page of an ebook for the caller.
func (nc *NotesController) AddNote(c *gin.Context) {
	ebookID := c.Param("ebook_id")
	var req noteCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := nc.ebooks.Get(ebookID); err != nil {
		if errors.Is(err, records.ErrNotFound) {
			respondNotFound(c, fmt.Sprintf("EBook with id %s not found", ebookID))
			return
		}
		respondInternalError(c, err, "add note")
		return
	}

	note := &entities.Note{
		UserID:     auth.CurrentUserID(c),
		EBookID:    ebookID,
		PageNumber: req.PageNumber,
		Content:    req.Content,
	}
	if err := nc.notes.Create(note); err != nil {
		respondInternalError(c, err, "add note")
		return
	}
	c.JSON(http.StatusOK, note)
}

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

// ReadingSessionsController tracks per-user reading progress.
type ReadingSessionsController struct {
	db       *gorm.DB
	ebooks   *records.Store[entities.EBook, *entities.EBook]
	sessions *records.Store[entities.UserReadingSession, *entities.UserReadingSession]
}

// NewReadingSessionsController creates a new ReadingSessionsController.
func NewReadingSessionsController(db *gorm.DB) *ReadingSessionsController {
	return &ReadingSessionsController{
		db:       db,
		ebooks:   records.NewStore[entities.EBook](db),
		sessions: records.NewStore[entities.UserReadingSession](db),
	}
}

// ListSessions returns the caller's active reading sessions.
func (rc *ReadingSessionsController) ListSessions(c *gin.Context) {
	var sessions []entities.UserReadingSession
	err := rc.db.
		Where("user_id = ? AND is_deleted = ? AND is_active = ?", auth.CurrentUserID(c), false, true).
		Find(&sessions).Error
	if err != nil {
		respondInternalError(c, err, "list reading sessions")
		return
	}
	c.JSON(http.StatusOK, sessions)
}

type sessionCreateRequest struct {
	LastPage int `json:"last_page"`
}

// CreateSession starts tracking an ebook for the caller. At most one active
// session may exist per (user, ebook) pair; a second create fails.
func (rc *ReadingSessionsController) CreateSession(c *gin.Context) {
	userID := auth.CurrentUserID(c)
	ebookID := c.Param("ebook_id")

	var req sessionCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := rc.ebooks.Get(ebookID); err != nil {
		if errors.Is(err, records.ErrNotFound) {
			respondNotFound(c, fmt.Sprintf("EBook with id %s not found", ebookID))
			return
		}
		respondInternalError(c, err, "create reading session")
		return
	}

	var existing entities.UserReadingSession
	err := rc.db.
		Where("user_id = ? AND ebook_id = ? AND is_deleted = ? AND is_active = ?", userID, ebookID, false, true).
		First(&existing).Error
	if err == nil {
		respondBadRequest(c, "reading_session.already_exists",
			"A reading session already exists for this ebook", "ebook_id")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondInternalError(c, err, "create reading session")
		return
	}

	session := &entities.UserReadingSession{
		UserID:   userID,
		EBookID:  ebookID,
		LastPage: req.LastPage,
	}
	if err := rc.sessions.Create(session); err != nil {
		respondInternalError(c, err, "create reading session")
		return
	}
	c.JSON(http.StatusOK, session)
}

type sessionUpdateRequest struct {
	LastPage int `json:"last_page"`
}

// UpdateSession records reading progress. Sessions belonging to other users
// are indistinguishable from missing ones.
func (rc *ReadingSessionsController) UpdateSession(c *gin.Context) {
	sessionID := c.Param("id")
	var req sessionUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := rc.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			respondNotFound(c, "Reading session not found")
			return
		}
		respondInternalError(c, err, "update reading session")
		return
	}
	if session.UserID != auth.CurrentUserID(c) {
		respondNotFound(c, "Reading session not found")
		return
	}

	session.LastPage = req.LastPage
	if err := rc.sessions.Update(session); err != nil {
		respondInternalError(c, err, "update reading session")
		return
	}
	c.JSON(http.StatusOK, session)
}

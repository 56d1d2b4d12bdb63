package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/database/records"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// BookmarksController handles per-user bookmarks.
type BookmarksController struct {
	db        *gorm.DB
	ebooks    *records.Store[entities.EBook, *entities.EBook]
	bookmarks *records.Store[entities.Bookmark, *entities.Bookmark]
}

// NewBookmarksController creates a new BookmarksController.
func NewBookmarksController(db *gorm.DB) *BookmarksController {
	return &BookmarksController{
		db:        db,
		ebooks:    records.NewStore[entities.EBook](db),
		bookmarks: records.NewStore[entities.Bookmark](db),
	}
}

// ListBookmarks returns the ebooks the caller has bookmarked, with their
// bookmark rows preloaded.
func (bc *BookmarksController) ListBookmarks(c *gin.Context) {
	userID := auth.CurrentUserID(c)

	var ebooks []entities.EBook
	err := bc.db.
		Joins("JOIN bookmarks ON bookmarks.ebook_id = ebooks.id").
		Where("bookmarks.user_id = ? AND bookmarks.is_deleted = ? AND bookmarks.is_active = ?", userID, false, true).
		Where("ebooks.is_deleted = ? AND ebooks.is_active = ?", false, true).
		Distinct().
		Preload("Bookmarks", "user_id = ? AND is_deleted = ? AND is_active = ?", userID, false, true).
		Find(&ebooks).Error
	if err != nil {
		respondInternalError(c, err, "list bookmarks")
		return
	}
	c.JSON(http.StatusOK, ebooks)
}

// AddBookmark bookmarks a page in an ebook for the caller. Adding the same
// page twice is a no-op.
func (bc *BookmarksController) AddBookmark(c *gin.Context) {
	userID := auth.CurrentUserID(c)
	ebookID := c.Param("ebook_id")

	pageNumber, err := strconv.Atoi(c.Query("page_number"))
	if err != nil {
		respondBadRequest(c, "validation_error", "page_number must be an integer", "page_number")
		return
	}

	if _, err := bc.ebooks.Get(ebookID); err != nil {
		if errors.Is(err, records.ErrNotFound) {
			respondNotFound(c, fmt.Sprintf("EBook with id %s not found", ebookID))
			return
		}
		respondInternalError(c, err, "add bookmark")
		return
	}

	var existing entities.Bookmark
	err = bc.db.
		Where("user_id = ? AND ebook_id = ? AND page_number = ? AND is_deleted = ? AND is_active = ?",
			userID, ebookID, pageNumber, false, true).
		First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		respondInternalError(c, err, "add bookmark")
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		bookmark := &entities.Bookmark{
			UserID:     userID,
			EBookID:    ebookID,
			PageNumber: pageNumber,
		}
		if err := bc.bookmarks.Create(bookmark); err != nil {
			respondInternalError(c, err, "add bookmark")
			return
		}
	}

	var ebook entities.EBook
	err = bc.db.
		Where("id = ?", ebookID).
		Preload("Bookmarks", "user_id = ? AND is_deleted = ? AND is_active = ?", userID, false, true).
		First(&ebook).Error
	if err != nil {
		respondInternalError(c, err, "add bookmark")
		return
	}
	c.JSON(http.StatusOK, ebook)
}

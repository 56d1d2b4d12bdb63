package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/database/records"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// CatalogController handles e-book, category, and tag management.
type CatalogController struct {
	db         *gorm.DB
	categories *records.Store[entities.Category, *entities.Category]
	tags       *records.Store[entities.Tag, *entities.Tag]
	ebooks     *records.Store[entities.EBook, *entities.EBook]
	ebookTags  *records.Store[entities.EBookTag, *entities.EBookTag]
}

// NewCatalogController creates a new CatalogController.
func NewCatalogController(db *gorm.DB) *CatalogController {
	return &CatalogController{
		db:         db,
		categories: records.NewStore[entities.Category](db),
		tags:       records.NewStore[entities.Tag](db),
		ebooks:     records.NewStore[entities.EBook](db),
		ebookTags:  records.NewStore[entities.EBookTag](db),
	}
}

type categoryCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// GetCategories returns one category when ?id is given, or all of them.
func (cc *CatalogController) GetCategories(c *gin.Context) {
	getOneOrAll(c, cc.categories, "Category not found")
}

// CreateCategory creates a category with a unique name.
func (cc *CatalogController) CreateCategory(c *gin.Context) {
	var req categoryCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	category := &entities.Category{Name: req.Name, Description: req.Description}
	if err := cc.categories.Create(category); err != nil {
		if isUniqueViolation(err) {
			respondBadRequest(c, "category.already_exists", "Category already exists", "name")
			return
		}
		respondInternalError(c, err, "create category")
		return
	}
	c.JSON(http.StatusOK, category)
}

type tagCreateRequest struct {
	Name string `json:"name" binding:"required"`
}

// GetTags returns one tag when ?id is given, or all of them.
func (cc *CatalogController) GetTags(c *gin.Context) {
	getOneOrAll(c, cc.tags, "Tag not found")
}

// CreateTag creates a tag with a unique name.
func (cc *CatalogController) CreateTag(c *gin.Context) {
	var req tagCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	tag := &entities.Tag{Name: req.Name}
	if err := cc.tags.Create(tag); err != nil {
		if isUniqueViolation(err) {
			respondBadRequest(c, "tag.already_exists", "Tag already exists", "name")
			return
		}
		respondInternalError(c, err, "create tag")
		return
	}
	c.JSON(http.StatusOK, tag)
}

type ebookCreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author"`
	Description string `json:"description"`
	FileURL     string `json:"file_url" binding:"required"`
	CoverImage  string `json:"cover_image"`
	CategoryID  string `json:"category_id" binding:"required"`
}

// GetEBooks returns one ebook (with tags preloaded) when ?id is given, or
// all active ebooks.
func (cc *CatalogController) GetEBooks(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		ebook, err := cc.getEBookWithTags(id)
		if err != nil {
			if errors.Is(err, records.ErrNotFound) {
				respondNotFound(c, "EBook not found")
				return
			}
			respondInternalError(c, err, "get ebook")
			return
		}
		c.JSON(http.StatusOK, ebook)
		return
	}

	var ebooks []entities.EBook
	err := cc.db.
		Where("is_deleted = ? AND is_active = ?", false, true).
		Preload("Tags", "is_deleted = ? AND is_active = ?", false, true).
		Preload("Tags.Tag").
		Find(&ebooks).Error
	if err != nil {
		respondInternalError(c, err, "list ebooks")
		return
	}
	c.JSON(http.StatusOK, ebooks)
}

// CreateEBook creates a catalog entry. The category must exist.
func (cc *CatalogController) CreateEBook(c *gin.Context) {
	var req ebookCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := cc.categories.Get(req.CategoryID); err != nil {
		if errors.Is(err, records.ErrNotFound) {
			respondNotFound(c, fmt.Sprintf("Category with id %s not found", req.CategoryID))
			return
		}
		respondInternalError(c, err, "create ebook")
		return
	}

	ebook := &entities.EBook{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		FileURL:     req.FileURL,
		CoverImage:  req.CoverImage,
		CategoryID:  req.CategoryID,
	}
	if err := cc.ebooks.Create(ebook); err != nil {
		respondInternalError(c, err, "create ebook")
		return
	}
	c.JSON(http.StatusOK, ebook)
}

type attachTagsRequest struct {
	TagIDs []string `json:"tag_ids" binding:"required"`
}

// AttachTags links the given tags to an ebook. All tags must exist; pairs
// already linked are not duplicated.
func (cc *CatalogController) AttachTags(c *gin.Context) {
	ebookID := c.Param("id")
	var req attachTagsRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := cc.ebooks.Get(ebookID); err != nil {
		if errors.Is(err, records.ErrNotFound) {
			respondNotFound(c, fmt.Sprintf("EBook with id %s not found", ebookID))
			return
		}
		respondInternalError(c, err, "attach tags")
		return
	}

	var tags []entities.Tag
	err := cc.db.
		Where("id IN ? AND is_deleted = ? AND is_active = ?", req.TagIDs, false, true).
		Find(&tags).Error
	if err != nil {
		respondInternalError(c, err, "attach tags")
		return
	}
	if len(tags) != len(req.TagIDs) {
		found := make(map[string]bool, len(tags))
		for _, tag := range tags {
			found[tag.ID] = true
		}
		var missing []string
		for _, id := range req.TagIDs {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		respondNotFound(c, "Tags not found: "+strings.Join(missing, ", "))
		return
	}

	for _, tag := range tags {
		var existing entities.EBookTag
		err := cc.db.
			Where("ebook_id = ? AND tag_id = ? AND is_deleted = ? AND is_active = ?", ebookID, tag.ID, false, true).
			First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			respondInternalError(c, err, "attach tags")
			return
		}
		link := &entities.EBookTag{EBookID: ebookID, TagID: tag.ID}
		if err := cc.ebookTags.Create(link); err != nil {
			respondInternalError(c, err, "attach tags")
			return
		}
	}

	ebook, err := cc.getEBookWithTags(ebookID)
	if err != nil {
		respondInternalError(c, err, "attach tags")
		return
	}
	c.JSON(http.StatusOK, ebook)
}

func (cc *CatalogController) getEBookWithTags(id string) (*entities.EBook, error) {
	var ebook entities.EBook
	err := cc.db.
		Where("id = ? AND is_deleted = ? AND is_active = ?", id, false, true).
		Preload("Tags", "is_deleted = ? AND is_active = ?", false, true).
		Preload("Tags.Tag").
		First(&ebook).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, records.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ebook, nil
}

// getOneOrAll serves the shared "?id → one, otherwise all" lookup shape.
func getOneOrAll[T any, P records.Record[T]](c *gin.Context, store *records.Store[T, P], notFoundMsg string) {
	if id := c.Query("id"); id != "" {
		record, err := store.Get(id)
		if err != nil {
			if errors.Is(err, records.ErrNotFound) {
				respondNotFound(c, notFoundMsg)
				return
			}
			respondInternalError(c, err, "get record")
			return
		}
		c.JSON(http.StatusOK, record)
		return
	}

	list, err := store.List()
	if err != nil {
		respondInternalError(c, err, "list records")
		return
	}
	c.JSON(http.StatusOK, list)
}

// isUniqueViolation reports whether an insert failed a unique constraint.
// Matches both sqlite and postgres error texts.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func TestCategories(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	w := env.request(t, http.MethodPost, "/categories", gin.H{
		"name":        "fiction",
		"description": "made-up stories",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var category entities.Category
	decodeJSON(t, w, &category)
	assert.NotEmpty(t, category.ID)
	assert.Equal(t, "fiction", category.Name)

	w = env.request(t, http.MethodGet, "/categories", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var categories []entities.Category
	decodeJSON(t, w, &categories)
	assert.Len(t, categories, 1)

	w = env.request(t, http.MethodGet, "/categories?id="+category.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, "/categories?id=no-such-id", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateCategory_Duplicate(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	body := gin.H{"name": "fiction"}
	w := env.request(t, http.MethodPost, "/categories", body, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodPost, "/categories", body, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	errType, _ := decodeError(t, w)
	assert.Equal(t, "category.already_exists", errType)
}

func TestTags(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	w := env.request(t, http.MethodPost, "/tags", gin.H{"name": "sci-fi"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var tag entities.Tag
	decodeJSON(t, w, &tag)
	assert.NotEmpty(t, tag.ID)

	w = env.request(t, http.MethodPost, "/tags", gin.H{"name": "sci-fi"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	errType, _ := decodeError(t, w)
	assert.Equal(t, "tag.already_exists", errType)

	w = env.request(t, http.MethodGet, "/tags", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var tags []entities.Tag
	decodeJSON(t, w, &tags)
	assert.Len(t, tags, 1)
}

func TestCreateEBook(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	w := env.request(t, http.MethodPost, "/categories", gin.H{"name": "fiction"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var category entities.Category
	decodeJSON(t, w, &category)

	w = env.request(t, http.MethodPost, "/ebooks", gin.H{
		"title":       "Dune",
		"author":      "Frank Herbert",
		"file_url":    "https://files.example.com/dune.epub",
		"category_id": category.ID,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var ebook entities.EBook
	decodeJSON(t, w, &ebook)
	assert.NotEmpty(t, ebook.ID)
	assert.Equal(t, "Dune", ebook.Title)
	assert.Equal(t, category.ID, ebook.CategoryID)
}

func TestCreateEBook_MissingCategory(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	w := env.request(t, http.MethodPost, "/ebooks", gin.H{
		"title":       "Dune",
		"file_url":    "https://files.example.com/dune.epub",
		"category_id": "no-such-category",
	}, "")

	require.Equal(t, http.StatusNotFound, w.Code)
	_, msg := decodeError(t, w)
	assert.Contains(t, msg, "no-such-category")
}

func TestCreateEBook_MissingFields(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	w := env.request(t, http.MethodPost, "/ebooks", gin.H{"title": "Dune"}, "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	errType, _ := decodeError(t, w)
	assert.Equal(t, "validation_error", errType)
}

func TestAttachTags(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()
	ebookID := env.createEBook(t, "dune")

	var tagIDs []string
	for _, name := range []string{"sci-fi", "classics"} {
		w := env.request(t, http.MethodPost, "/tags", gin.H{"name": name}, "")
		require.Equal(t, http.StatusOK, w.Code)
		var tag entities.Tag
		decodeJSON(t, w, &tag)
		tagIDs = append(tagIDs, tag.ID)
	}

	w := env.request(t, http.MethodPut, "/ebooks/tags/"+ebookID, gin.H{"tag_ids": tagIDs}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var ebook entities.EBook
	decodeJSON(t, w, &ebook)
	assert.Len(t, ebook.Tags, 2)

	// Attaching again must not duplicate the links
	w = env.request(t, http.MethodPut, "/ebooks/tags/"+ebookID, gin.H{"tag_ids": tagIDs}, "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &ebook)
	assert.Len(t, ebook.Tags, 2)
}

func TestAttachTags_MissingTag(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()
	ebookID := env.createEBook(t, "dune")

	w := env.request(t, http.MethodPut, "/ebooks/tags/"+ebookID, gin.H{
		"tag_ids": []string{"no-such-tag"},
	}, "")

	require.Equal(t, http.StatusNotFound, w.Code)
	_, msg := decodeError(t, w)
	assert.Contains(t, msg, "no-such-tag")
}

func TestAttachTags_MissingEBook(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	w := env.request(t, http.MethodPut, "/ebooks/tags/no-such-ebook", gin.H{
		"tag_ids": []string{"whatever"},
	}, "")

	require.Equal(t, http.StatusNotFound, w.Code)
	_, msg := decodeError(t, w)
	assert.Contains(t, msg, "no-such-ebook")
}

func TestGetEBooks_PreloadsTags(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()
	ebookID := env.createEBook(t, "dune")

	w := env.request(t, http.MethodPost, "/tags", gin.H{"name": "sci-fi"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var tag entities.Tag
	decodeJSON(t, w, &tag)

	w = env.request(t, http.MethodPut, "/ebooks/tags/"+ebookID, gin.H{"tag_ids": []string{tag.ID}}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, "/ebooks?id="+ebookID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var ebook entities.EBook
	decodeJSON(t, w, &ebook)
	require.Len(t, ebook.Tags, 1)
	require.NotNil(t, ebook.Tags[0].Tag)
	assert.Equal(t, "sci-fi", ebook.Tags[0].Tag.Name)

	w = env.request(t, http.MethodGet, "/ebooks", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var ebooks []entities.EBook
	decodeJSON(t, w, &ebooks)
	require.Len(t, ebooks, 1)
	assert.Len(t, ebooks[0].Tags, 1)
}

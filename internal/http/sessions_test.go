package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func TestCreateSession(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()
	userID, token := env.registerAndLogin(t, "reader@example.com", "pw1")
	ebookID := env.createEBook(t, "dune")

	w := env.request(t, http.MethodPost, "/user/reading-sessions/"+ebookID, gin.H{"last_page": 5}, token)

	require.Equal(t, http.StatusOK, w.Code)
	var session entities.UserReadingSession
	decodeJSON(t, w, &session)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, ebookID, session.EBookID)
	assert.Equal(t, 5, session.LastPage)
}

func TestCreateSession_DuplicatePerEBook(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()
	_, token := env.registerAndLogin(t, "reader@example.com", "pw1")
	ebookID := env.createEBook(t, "dune")

	w := env.request(t, http.MethodPost, "/user/reading-sessions/"+ebookID, gin.H{"last_page": 5}, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodPost, "/user/reading-sessions/"+ebookID, gin.H{"last_page": 6}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	errType, _ := decodeError(t, w)
	assert.Equal(t, "reading_session.already_exists", errType)
}

func TestCreateSession_PerUserIsolation(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()
	_, token := env.registerAndLogin(t, "reader@example.com", "pw1")
	_, otherToken := env.registerAndLogin(t, "other@example.com", "pw2")
	ebookID := env.createEBook(t, "dune")

	// The same ebook can be tracked by each user independently
	w := env.request(t, http.MethodPost, "/user/reading-sessions/"+ebookID, gin.H{"last_page": 5}, token)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.request(t, http.MethodPost, "/user/reading-sessions/"+ebookID, gin.H{"last_page": 9}, otherToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, "/user/reading-sessions", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var sessions []entities.UserReadingSession
	decodeJSON(t, w, &sessions)
	require.Len(t, sessions, 1)
	assert.Equal(t, 5, sessions[0].LastPage)
}

func TestCreateSession_MissingEBook(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()
	_, token := env.registerAndLogin(t, "reader@example.com", "pw1")

	w := env.request(t, http.MethodPost, "/user/reading-sessions/no-such-ebook", gin.H{"last_page": 5}, token)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateSession(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()
	_, token := env.registerAndLogin(t, "reader@example.com", "pw1")
	ebookID := env.createEBook(t, "dune")

	w := env.request(t, http.MethodPost, "/user/reading-sessions/"+ebookID, gin.H{"last_page": 5}, token)
	require.Equal(t, http.StatusOK, w.Code)
	var session entities.UserReadingSession
	decodeJSON(t, w, &session)

	w = env.request(t, http.MethodPut, "/user/reading-sessions/"+session.ID, gin.H{"last_page": 120}, token)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &session)
	assert.Equal(t, 120, session.LastPage)

	// Progress can be reset to the start
	w = env.request(t, http.MethodPut, "/user/reading-sessions/"+session.ID, gin.H{"last_page": 0}, token)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &session)
	assert.Equal(t, 0, session.LastPage)
}

func TestUpdateSession_OtherUsersSessionHidden(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()
	_, token := env.registerAndLogin(t, "reader@example.com", "pw1")
	_, otherToken := env.registerAndLogin(t, "other@example.com", "pw2")
	ebookID := env.createEBook(t, "dune")

	w := env.request(t, http.MethodPost, "/user/reading-sessions/"+ebookID, gin.H{"last_page": 5}, token)
	require.Equal(t, http.StatusOK, w.Code)
	var session entities.UserReadingSession
	decodeJSON(t, w, &session)

	// Another user's session looks like a missing one
	w = env.request(t, http.MethodPut, "/user/reading-sessions/"+session.ID, gin.H{"last_page": 99}, otherToken)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateSession_Unknown(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()
	_, token := env.registerAndLogin(t, "reader@example.com", "pw1")

	w := env.request(t, http.MethodPut, "/user/reading-sessions/no-such-session", gin.H{"last_page": 1}, token)
	require.Equal(t, http.StatusNotFound, w.Code)
}

package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
)

type testEnv struct {
	router  *gin.Engine
	db      *gorm.DB
	service *auth.Service
}

func setupTestRouter(t *testing.T) (*testEnv, func()) {
	gin.SetMode(gin.TestMode)
	dbPath := "./test_http_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.UserProfile{},
		&entities.UserReadingSession{},
		&entities.Category{},
		&entities.Tag{},
		&entities.EBook{},
		&entities.EBookTag{},
		&entities.Bookmark{},
		&entities.Note{},
	)
	require.NoError(t, err)

	authCfg := config.Auth{
		SecretKey:                 "test-secret",
		RefreshSecretKey:          "test-refresh-secret",
		AccessTokenExpireMinutes:  30,
		RefreshTokenExpireMinutes: 60,
		BcryptCost:                bcrypt.MinCost,
	}
	issuer, err := auth.NewTokenIssuer(authCfg)
	require.NoError(t, err)
	service := auth.NewService(db, issuer, authCfg)

	router := NewRouter(RouterConfig{
		Database:       &database.Database{DB: db},
		AuthService:    service,
		AuthMiddleware: auth.NewMiddleware(issuer),
		Version:        "test",
	})

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return &testEnv{router: router, db: db, service: service}, cleanup
}

// request performs a JSON request against the test router. An empty token
// leaves the Authorization header unset.
func (e *testEnv) request(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// registerAndLogin creates an account and returns its id and access token.
func (e *testEnv) registerAndLogin(t *testing.T, email, password string) (string, string) {
	t.Helper()

	user, err := e.service.Register(email, password, "")
	require.NoError(t, err)
	pair, err := e.service.Login(email, password)
	require.NoError(t, err)
	return user.ID, pair.AccessToken
}

// createEBook seeds a category and an ebook directly through the API.
func (e *testEnv) createEBook(t *testing.T, title string) string {
	t.Helper()

	w := e.request(t, http.MethodPost, "/categories", gin.H{"name": "category for " + title}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var category entities.Category
	decodeJSON(t, w, &category)

	w = e.request(t, http.MethodPost, "/ebooks", gin.H{
		"title":       title,
		"file_url":    "https://files.example.com/" + title + ".epub",
		"category_id": category.ID,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var ebook entities.EBook
	decodeJSON(t, w, &ebook)
	return ebook.ID
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target))
}

type errorEnvelope struct {
	Detail []struct {
		Type string   `json:"type"`
		Msg  string   `json:"msg"`
		Loc  []string `json:"loc"`
	} `json:"detail"`
}

// decodeError unpacks the error envelope and asserts it carries one item.
func decodeError(t *testing.T, w *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var envelope errorEnvelope
	decodeJSON(t, w, &envelope)
	require.Len(t, envelope.Detail, 1)
	return envelope.Detail[0].Type, envelope.Detail[0].Msg
}

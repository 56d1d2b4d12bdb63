package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/records"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// RouterConfig carries the router's dependencies, improving testability and
// reducing parameter count.
type RouterConfig struct {
	Database       *database.Database
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	Version        string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	db := cfg.Database.DB
	requireAuth := cfg.AuthMiddleware.RequireAuth()

	health := NewHealthController(cfg.Database, cfg.Version)
	users := NewUsersController(
		cfg.AuthService,
		records.NewStore[entities.User](db),
		records.NewStore[entities.UserProfile](db),
	)
	catalog := NewCatalogController(db)
	bookmarks := NewBookmarksController(db)
	notes := NewNotesController(db)
	readingSessions := NewReadingSessionsController(db)

	// Health endpoints
	router.GET("/health", health.Status)

	// Authentication
	router.POST("/login", users.Login)
	router.POST("/refresh", users.Refresh)
	router.GET("/me", requireAuth, users.Me)

	// Account management
	router.POST("/user", users.Register)
	router.GET("/user", users.GetUser)
	router.PUT("/user", requireAuth, users.ChangePassword)
	router.DELETE("/user", requireAuth, users.DeleteUser)
	router.GET("/user/profile", requireAuth, users.GetProfile)
	router.PUT("/user/profile", requireAuth, users.UpdateProfile)

	// Catalog
	router.GET("/categories", catalog.GetCategories)
	router.POST("/categories", catalog.CreateCategory)
	router.GET("/tags", catalog.GetTags)
	router.POST("/tags", catalog.CreateTag)
	router.GET("/ebooks", catalog.GetEBooks)
	router.POST("/ebooks", catalog.CreateEBook)
	router.PUT("/ebooks/tags/:id", catalog.AttachTags)

	// Per-user reading data
	router.GET("/user/bookmarks", requireAuth, bookmarks.ListBookmarks)
	router.POST("/user/bookmarks/:ebook_id", requireAuth, bookmarks.AddBookmark)
	router.GET("/user/notes", requireAuth, notes.ListNotes)
	router.POST("/user/notes/:ebook_id", requireAuth, notes.AddNote)
	router.GET("/user/reading-sessions", requireAuth, readingSessions.ListSessions)
	router.POST("/user/reading-sessions/:ebook_id", requireAuth, readingSessions.CreateSession)
	router.PUT("/user/reading-sessions/:id", requireAuth, readingSessions.UpdateSession)

	return router
}

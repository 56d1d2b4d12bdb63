package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookshelf v%s", version)

	if cfg.Auth.SecretKey == "" || cfg.Auth.RefreshSecretKey == "" {
		log.Printf("WARNING: signing secrets not configured; generated secrets will invalidate tokens on restart. Set AUTH_SECRET_KEY and AUTH_REFRESH_SECRET_KEY to persist.")
	}

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	issuer, err := auth.NewTokenIssuer(cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize token issuer: %v", err)
	}
	authService := auth.NewService(db.DB, issuer, cfg.Auth)
	authMiddleware := auth.NewMiddleware(issuer)

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		Version:        version,
	})

	Serve(router, cfg, nil)
}

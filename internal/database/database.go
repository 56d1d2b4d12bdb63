package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the store and migrates all entities. A Postgres DSN in
// cfg.URL takes precedence; otherwise the sqlite file at cfg.Path is used.
// Pool settings are applied to the underlying sql.DB either way.
func NewDatabase(cfg config.Database) (*Database, error) {
	var dialector gorm.Dialector
	if cfg.URL != "" {
		dialector = postgres.Open(cfg.URL)
	} else {
		dialector = sqlite.Open(cfg.Path)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	if cfg.PoolSize > 0 {
		sqlDB.SetMaxOpenConns(cfg.PoolSize + cfg.MaxOverflow)
		sqlDB.SetMaxIdleConns(cfg.PoolSize)
	}
	if cfg.PoolRecycle > 0 {
		sqlDB.SetConnMaxLifetime(cfg.PoolRecycle)
	}
	if cfg.PoolTimeout > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.PoolTimeout)
	}
	if cfg.PoolPrePing {
		if err := sqlDB.Ping(); err != nil {
			return nil, fmt.Errorf("database liveness check failed: %w", err)
		}
	}

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
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if cfg.URL != "" {
		log.Printf("Database initialized (postgres)")
	} else {
		log.Printf("Database initialized at %s", cfg.Path)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping verifies a connection can be borrowed from the pool.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

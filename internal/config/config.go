package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		URL  string // Postgres DSN; when empty the sqlite Path is used
		Path string

		// Connection pool settings, applied to the underlying sql.DB
		PoolSize    int
		MaxOverflow int
		PoolTimeout time.Duration // max idle time per connection
		PoolRecycle time.Duration // max lifetime per connection
		PoolPrePing bool          // ping on startup to verify liveness
	}
	Auth struct {
		SecretKey                 string
		RefreshSecretKey          string
		AccessTokenExpireMinutes  int
		RefreshTokenExpireMinutes int
		BcryptCost                int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	// Database defaults
	v.SetDefault("database_url", "")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("db_pool_size", 10)
	v.SetDefault("db_max_overflow", 10)
	v.SetDefault("db_pool_timeout", "30s")
	v.SetDefault("db_pool_recycle", "1h")
	v.SetDefault("db_pool_pre_ping", true)

	// Auth defaults
	v.SetDefault("auth_secret_key", "")         // Auto-generated if empty
	v.SetDefault("auth_refresh_secret_key", "") // Auto-generated if empty
	v.SetDefault("auth_access_token_expire_minutes", 30)
	v.SetDefault("auth_refresh_token_expire_minutes", 1440)
	v.SetDefault("auth_bcrypt_cost", 12)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			URL:         v.GetString("DATABASE_URL"),
			Path:        v.GetString("DATABASE_PATH"),
			PoolSize:    v.GetInt("DB_POOL_SIZE"),
			MaxOverflow: v.GetInt("DB_MAX_OVERFLOW"),
			PoolTimeout: v.GetDuration("DB_POOL_TIMEOUT"),
			PoolRecycle: v.GetDuration("DB_POOL_RECYCLE"),
			PoolPrePing: v.GetBool("DB_POOL_PRE_PING"),
		},
		Auth: Auth{
			SecretKey:                 v.GetString("AUTH_SECRET_KEY"),
			RefreshSecretKey:          v.GetString("AUTH_REFRESH_SECRET_KEY"),
			AccessTokenExpireMinutes:  v.GetInt("AUTH_ACCESS_TOKEN_EXPIRE_MINUTES"),
			RefreshTokenExpireMinutes: v.GetInt("AUTH_REFRESH_TOKEN_EXPIRE_MINUTES"),
			BcryptCost:                v.GetInt("AUTH_BCRYPT_COST"),
		},
	}
}

package config

// DefaultDatabasePath is the sqlite file used when DATABASE_URL is not set.
const DefaultDatabasePath = "./bookshelf.db"

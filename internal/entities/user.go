package entities

// User is an account holder. The password column stores a bcrypt hash and is
// never serialized.
type User struct {
	Lifecycle
	Email    string `gorm:"uniqueIndex;size:255" json:"email"`
	Password string `gorm:"size:255" json:"-"`
	FullName string `gorm:"size:255" json:"full_name,omitempty"`

	Profile         *UserProfile         `gorm:"foreignKey:UserID" json:"-"`
	Bookmarks       []Bookmark           `gorm:"foreignKey:UserID" json:"-"`
	Notes           []Note               `gorm:"foreignKey:UserID" json:"-"`
	ReadingSessions []UserReadingSession `gorm:"foreignKey:UserID" json:"-"`
}

// UserProfile holds display preferences for exactly one user. The preference
// mapping is embedded into access-token claims at login.
type UserProfile struct {
	Lifecycle
	UserID      string  `gorm:"uniqueIndex;size:36" json:"user_id"`
	DarkMode    bool    `gorm:"default:false" json:"dark_mode"`
	Preferences JSONMap `gorm:"type:text" json:"preferences,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// UserReadingSession tracks the last page a user read in an ebook.
// At most one active session exists per (user, ebook) pair.
type UserReadingSession struct {
	Lifecycle
	UserID   string `gorm:"index;size:36" json:"user_id"`
	EBookID  string `gorm:"column:ebook_id;index;size:36" json:"ebook_id"`
	LastPage int    `json:"last_page"`

	User  *User  `gorm:"foreignKey:UserID" json:"-"`
	EBook *EBook `gorm:"foreignKey:EBookID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

func (UserReadingSession) TableName() string {
	return "user_reading_sessions"
}

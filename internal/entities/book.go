package entities

// EBook is a catalog entry. The file itself lives elsewhere; FileURL points
// at it.
type EBook struct {
	Lifecycle
	Title       string `gorm:"index;size:255" json:"title"`
	Author      string `gorm:"size:255" json:"author,omitempty"`
	Description string `gorm:"size:500" json:"description,omitempty"`
	FileURL     string `gorm:"size:500" json:"file_url"`
	CoverImage  string `gorm:"size:500" json:"cover_image,omitempty"`
	CategoryID  string `gorm:"index;size:36" json:"category_id"`

	Category  *Category            `gorm:"foreignKey:CategoryID" json:"-"`
	Tags      []EBookTag           `gorm:"foreignKey:EBookID" json:"tags,omitempty"`
	Bookmarks []Bookmark           `gorm:"foreignKey:EBookID" json:"bookmarks,omitempty"`
	Notes     []Note               `gorm:"foreignKey:EBookID" json:"-"`
	Sessions  []UserReadingSession `gorm:"foreignKey:EBookID" json:"-"`
}

// Category is a named lookup entity; every ebook belongs to one.
type Category struct {
	Lifecycle
	Name        string `gorm:"uniqueIndex;size:255" json:"name"`
	Description string `gorm:"size:500" json:"description,omitempty"`

	EBooks []EBook `gorm:"foreignKey:CategoryID" json:"-"`
}

// Tag is a named lookup entity attached to ebooks through EBookTag.
type Tag struct {
	Lifecycle
	Name string `gorm:"uniqueIndex;size:255" json:"name"`

	EBookTags []EBookTag `gorm:"foreignKey:TagID" json:"-"`
}

// EBookTag joins ebooks and tags.
type EBookTag struct {
	Lifecycle
	EBookID string `gorm:"column:ebook_id;index;size:36" json:"ebook_id"`
	TagID   string `gorm:"index;size:36" json:"tag_id"`

	EBook *EBook `gorm:"foreignKey:EBookID" json:"-"`
	Tag   *Tag   `gorm:"foreignKey:TagID" json:"tag,omitempty"`
}

// Bookmark marks a page in an ebook for a user.
type Bookmark struct {
	Lifecycle
	UserID     string `gorm:"index;size:36" json:"user_id"`
	EBookID    string `gorm:"column:ebook_id;index;size:36" json:"ebook_id"`
	PageNumber int    `json:"page_number"`

	User  *User  `gorm:"foreignKey:UserID" json:"-"`
	EBook *EBook `gorm:"foreignKey:EBookID" json:"-"`
}

// Note is a bookmark with free-text content.
type Note struct {
	Lifecycle
	UserID     string `gorm:"index;size:36" json:"user_id"`
	EBookID    string `gorm:"column:ebook_id;index;size:36" json:"ebook_id"`
	PageNumber int    `json:"page_number"`
	Content    string `gorm:"size:1000" json:"content"`

	User  *User  `gorm:"foreignKey:UserID" json:"-"`
	EBook *EBook `gorm:"foreignKey:EBookID" json:"-"`
}

func (EBook) TableName() string {
	return "ebooks"
}

func (Category) TableName() string {
	return "categories"
}

func (Tag) TableName() string {
	return "tags"
}

func (EBookTag) TableName() string {
	return "ebook_tags"
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

func (Note) TableName() string {
	return "notes"
}

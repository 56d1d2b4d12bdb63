package entities

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lifecycle is embedded by every persisted entity. It carries the generated
// UUID primary key, the gorm-managed timestamps, and the soft-delete flags.
// Records with IsDeleted=true or IsActive=false are invisible to regular
// reads; see internal/database/records.
type Lifecycle struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	IsActive  bool       `gorm:"index;default:true" json:"-"`
	IsDeleted bool       `gorm:"index;default:false" json:"-"`
	DeletedAt *time.Time `json:"-"`
}

// BeforeCreate assigns the UUID and forces new records into the active state.
func (l *Lifecycle) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.IsActive = true
	l.IsDeleted = false
	l.DeletedAt = nil
	return nil
}

// RecordID returns the primary key.
func (l *Lifecycle) RecordID() string {
	return l.ID
}

// MarkDeleted flips the soft-delete flags. The row itself is retained.
func (l *Lifecycle) MarkDeleted(at time.Time) {
	l.IsDeleted = true
	l.IsActive = false
	l.DeletedAt = &at
}

// JSONMap stores an arbitrary key-value mapping as a JSON column.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported source type for JSONMap")
	}
	return json.Unmarshal(data, m)
}

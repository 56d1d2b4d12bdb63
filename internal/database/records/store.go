// Package records implements the shared record lifecycle used by every
// persisted entity: create, get, list, update, soft delete, hard delete.
//
// All reads through a Store filter out rows where is_deleted is true or
// is_active is false. Soft-deleted rows stay in the table and remain
// reachable through GetAny for internal inspection.
//
// # Usage
//
//	users := records.NewStore[entities.User](db)
//	user, err := users.Get(id)
package records

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no active record matches the given id.
var ErrNotFound = errors.New("record not found")

// Record is the capability set a persisted entity gains by embedding
// entities.Lifecycle.
type Record[T any] interface {
	*T
	RecordID() string
	MarkDeleted(at time.Time)
}

// Store applies the record lifecycle to one entity type.
type Store[T any, P Record[T]] struct {
	db *gorm.DB
}

// NewStore creates a lifecycle store for T.
func NewStore[T any, P Record[T]](db *gorm.DB) *Store[T, P] {
	return &Store[T, P]{db: db}
}

// DB exposes the underlying handle for queries the lifecycle does not cover.
func (s *Store[T, P]) DB() *gorm.DB {
	return s.db
}

func (s *Store[T, P]) active() *gorm.DB {
	return s.db.Where("is_deleted = ? AND is_active = ?", false, true)
}

// Create persists a new record. The id and timestamps are assigned during
// the insert.
func (s *Store[T, P]) Create(record P) error {
	return s.db.Create(record).Error
}

// Get returns the single active record with the given id, or ErrNotFound.
func (s *Store[T, P]) Get(id string) (P, error) {
	record := P(new(T))
	err := s.active().First(record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrNotFound
	}
	if err != nil {
		var zero P
		return zero, err
	}
	return record, nil
}

// List returns all active records. Unbounded; there is no pagination.
func (s *Store[T, P]) List() ([]T, error) {
	var out []T
	err := s.active().Find(&out).Error
	return out, err
}

// Update re-persists the record and reloads it so the caller sees the
// refreshed updated_at. Last writer wins; there is no conflict detection.
func (s *Store[T, P]) Update(record P) error {
	if err := s.db.Save(record).Error; err != nil {
		return err
	}
	return s.db.First(record, "id = ?", record.RecordID()).Error
}

// SoftDelete flips the deletion flags and persists. The row is retained and
// disappears from Get/List.
func (s *Store[T, P]) SoftDelete(record P) error {
	record.MarkDeleted(time.Now().UTC())
	return s.db.Save(record).Error
}

// HardDelete removes the row permanently. No recovery.
func (s *Store[T, P]) HardDelete(record P) error {
	return s.db.Delete(record, "id = ?", record.RecordID()).Error
}

// GetAny returns the record regardless of its soft-delete state. Internal
// use only; handlers go through Get.
func (s *Store[T, P]) GetAny(id string) (P, error) {
	record := P(new(T))
	err := s.db.First(record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrNotFound
	}
	if err != nil {
		var zero P
		return zero, err
	}
	return record, nil
}

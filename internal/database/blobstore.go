package database

import (
	"errors"
	"fmt"

	"brokee-go/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlobStore is the named-string persistence collaborator: synchronous get/set
// of string values keyed by name, last-write-wins, no cross-key guarantees.
type BlobStore struct {
	db *gorm.DB
}

// NewBlobStore creates a blob store over an existing database connection.
func NewBlobStore(db *gorm.DB) *BlobStore {
	return &BlobStore{db: db}
}

// Get returns the stored value for key. The second return is false when the
// key has never been written.
func (s *BlobStore) Get(key string) (string, bool, error) {
	var blob models.Blob
	err := s.db.Where("key = ?", key).First(&blob).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read blob %q: %w", key, err)
	}
	return blob.Value, true, nil
}

// Set upserts the value for key, replacing any previous write.
func (s *BlobStore) Set(key, value string) error {
	blob := models.Blob{Key: key, Value: value}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&blob).Error
	if err != nil {
		return fmt.Errorf("failed to write blob %q: %w", key, err)
	}
	return nil
}

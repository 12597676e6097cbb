package models

import "gorm.io/gorm"

// Blob is one named string value in the key/value store. Writes are
// last-write-wins; there are no transactional guarantees across keys.
type Blob struct {
	gorm.Model
	Key   string `gorm:"uniqueIndex;not null"`
	Value string
}

// internal/store/store.go
package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ArowuTest/entropy-backend/internal/models"
)

// PersistStore loads and saves the generator's pool-seeding blob. Load is
// called once at boot; Save whenever the host decides to checkpoint.
type PersistStore interface {
	// Load returns the most recent blob, or ok=false when none exists.
	Load() (blob string, ok bool, err error)
	Save(blob string) error
}

// GormStore keeps seed blobs in the seed_blobs table, newest row wins.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Load() (string, bool, error) {
	var row models.SeedBlob
	err := s.db.Order("created_at desc").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("store: failed to load seed blob: %w", err)
	}
	return row.Blob, true, nil
}

func (s *GormStore) Save(blob string) error {
	if err := s.db.Create(&models.SeedBlob{ID: uuid.New(), Blob: blob}).Error; err != nil {
		return fmt.Errorf("store: failed to save seed blob: %w", err)
	}
	return nil
}

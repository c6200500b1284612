package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminUserRole enumerates allowed roles.
type AdminUserRole string

const (
	RoleAdmin    AdminUserRole = "ADMIN"    // may change paranoia and persist state
	RoleOperator AdminUserRole = "OPERATOR" // may draw randomness
)

// UserStatus enumerates user account states.
type UserStatus string

const (
	StatusActive   UserStatus = "Active"
	StatusInactive UserStatus = "Inactive"
	StatusLocked   UserStatus = "Locked"
)

// AdminUser is an operator account for the guarded endpoints.
type AdminUser struct {
	ID           uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Username     string        `gorm:"uniqueIndex;not null"`
	PasswordHash string        `gorm:"not null"`
	Role         AdminUserRole `gorm:"not null"`
	Status       UserStatus    `gorm:"not null;default:'Active'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SeedBlob is one persisted pool-seeding blob: 128 bits of generator
// output, hex-encoded. On boot the newest row is replayed into the pools
// with zero claimed entropy.
type SeedBlob struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Blob      string    `gorm:"not null"` // 32 hex chars
	CreatedAt time.Time `gorm:"index"`
}

// DrawAudit records one successful randomness draw: who asked, how many
// words, at which paranoia level.
type DrawAudit struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Words       int       `gorm:"not null"`
	Paranoia    int       `gorm:"not null"`
	RequestedBy string    `gorm:"index"` // admin user id from the JWT, if any
	CreatedAt   time.Time
}

// Migrate will create/update the tables.
func Migrate(db *gorm.DB) {
	db.AutoMigrate(
		&AdminUser{},
		&SeedBlob{},
		&DrawAudit{},
	)
}

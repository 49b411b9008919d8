package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the journal account row. Identity is the immutable UUID;
// claim records and ledgers key on it, never on the editable nickname.
type User struct {
	ID        string     `gorm:"primaryKey;type:uuid" json:"user_id"`
	Nickname  string     `gorm:"uniqueIndex;not null" json:"nickname"`
	LastLogin *time.Time `json:"last_login,omitempty"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

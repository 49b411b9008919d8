package models

import "time"

// XpLedger tracks gamified progression for each user (denormalized for performance).
// One row per user; the single source of truth for "how much XP right now".
// CurrentXP only ever grows, and only through the claim service's accept path.
type XpLedger struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`

	CurrentXP int64 `json:"current_xp" gorm:"default:0"`
	Streak    int   `json:"streak" gorm:"default:0"` // consecutive days with a mood entry

	LastUpdated time.Time `json:"last_updated"`

	Timestamps
}

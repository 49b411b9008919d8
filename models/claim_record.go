package models

import "time"

// ClaimSource is the action that earned XP
type ClaimSource string

const (
	SourceMoodEntry     ClaimSource = "mood_entry"
	SourceChatbotRating ClaimSource = "chatbot_rating"
)

// Valid reports whether the source is one of the known reward actions.
func (s ClaimSource) Valid() bool {
	return s == SourceMoodEntry || s == SourceChatbotRating
}

// ClaimRecord = user redeemed a reward source on a calendar day.
// The composite unique index is the whole point: two claims for the same
// (user, source, day) cannot both insert, so a concurrent duplicate loses
// with a constraint violation instead of double-awarding XP.
type ClaimRecord struct {
	ID       string      `gorm:"primaryKey;type:uuid" json:"id"`
	UserID   string      `gorm:"not null;uniqueIndex:idx_claims_user_source_day" json:"user_id"`
	Source   ClaimSource `gorm:"not null;uniqueIndex:idx_claims_user_source_day" json:"source"`
	Day      string      `gorm:"size:10;not null;uniqueIndex:idx_claims_user_source_day" json:"day"` // YYYY-MM-DD
	XPEarned int64       `json:"xp_earned" gorm:"not null"`

	ClaimedAt time.Time `json:"claimed_at" gorm:"autoCreateTime"`
}

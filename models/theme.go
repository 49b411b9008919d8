package models

import (
	"github.com/gosimple/slug"
)

// RewardTier is a cosmetic theme unlocked at an XP threshold.
// Static configuration, not user data.
type RewardTier struct {
	Name        string `json:"name"`
	Key         string `json:"key"` // slugged name, the value clients persist
	XPThreshold int64  `json:"xp_threshold"`
}

// DefaultRewardTiers in unlock order. Autumn is the starting theme.
var DefaultRewardTiers = []RewardTier{
	{Name: "Autumn", Key: slug.Make("Autumn"), XPThreshold: 0},
	{Name: "Spring", Key: slug.Make("Spring"), XPThreshold: 25},
	{Name: "Summer", Key: slug.Make("Summer"), XPThreshold: 50},
	{Name: "Winter", Key: slug.Make("Winter"), XPThreshold: 75},
}

// ThemeSelection persists the user's chosen theme key (one row per user).
type ThemeSelection struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID   string `gorm:"uniqueIndex;not null" json:"user_id"`
	ThemeKey string `gorm:"not null" json:"theme_key"`

	Timestamps
}

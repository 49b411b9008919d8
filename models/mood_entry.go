package models

import (
	"fmt"
	"strings"
	"time"
)

// Mood is the coarse five-point mood scale
type Mood string

const (
	MoodRad   Mood = "rad"
	MoodGood  Mood = "good"
	MoodMeh   Mood = "meh"
	MoodBad   Mood = "bad"
	MoodAwful Mood = "awful"
)

// MoodScores map moods to numerical scores for averages (rad=5 … awful=1)
var MoodScores = map[Mood]int{
	MoodRad:   5,
	MoodGood:  4,
	MoodMeh:   3,
	MoodBad:   2,
	MoodAwful: 1,
}

// AllowedEmotions is the fixed emotion vocabulary (not case-sensitive on input).
var AllowedEmotions = map[string]bool{
	"energetic": true, "confident": true, "calm": true, "hopeful": true,
	"nervous": true, "sad": true, "stressed": true, "confused": true,
	"excited": true, "happy": true, "grateful": true, "anxious": true,
	"bored": true, "fearful": true, "angry": true, "irritated": true,
}

// MoodEntry is one daily journal record: a mood, a set of emotions and
// optional free-text journal. Emotions are stored as a comma-joined string.
type MoodEntry struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string    `gorm:"index;not null" json:"user_id"`
	Mood       Mood      `gorm:"not null" json:"mood"`
	Emotions   string    `gorm:"not null" json:"emotions"`
	Journal    string    `gorm:"type:text" json:"journal,omitempty"`
	LoggedDate time.Time `gorm:"index;not null" json:"logged_date"`

	Timestamps
}

// EmotionList splits the stored CSV back into a slice.
func (m *MoodEntry) EmotionList() []string {
	if m.Emotions == "" {
		return []string{}
	}
	return strings.Split(m.Emotions, ",")
}

// ValidateMood checks the mood against the five-point scale.
func ValidateMood(mood Mood) error {
	if _, ok := MoodScores[mood]; !ok {
		return fmt.Errorf("invalid mood %q: must be one of rad, good, meh, bad, awful", mood)
	}
	return nil
}

// NormalizeEmotions lowercases, filters against the allowed vocabulary and
// joins for storage. At least one valid emotion is required.
func NormalizeEmotions(emotions []string) (string, error) {
	var valid []string
	for _, e := range emotions {
		e = strings.ToLower(strings.TrimSpace(e))
		if AllowedEmotions[e] {
			valid = append(valid, e)
		}
	}
	if len(valid) == 0 {
		return "", fmt.Errorf("invalid emotions provided")
	}
	return strings.Join(valid, ","), nil
}

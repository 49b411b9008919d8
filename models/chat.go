package models

import "time"

// ChatSession is one conversation with the scripted companion bot.
type ChatSession struct {
	ID        string     `gorm:"primaryKey;type:uuid" json:"chat_session_id"`
	UserID    string     `gorm:"index;not null" json:"user_id"`
	StartTime time.Time  `gorm:"not null" json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	Timestamps
}

// Ended reports whether the session has been closed.
func (s *ChatSession) Ended() bool {
	return s.EndTime != nil
}

// ChatMessage is a single line in a session, user or bot side.
type ChatMessage struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	SessionID string    `gorm:"index;not null" json:"chat_session_id"`
	IsUser    bool      `json:"is_user"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"timestamp" gorm:"autoCreateTime"`
}

// ChatRating is the post-session 1–5 star rating plus optional feedback.
// One rating per session; submitting it is the chatbot_rating XP action.
type ChatRating struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	SessionID string    `gorm:"uniqueIndex;not null" json:"chat_session_id"`
	UserID    string    `gorm:"index;not null" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Feedback  string    `gorm:"type:text" json:"feedback_text,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

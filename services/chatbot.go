package services

import (
	"fmt"
	"strings"
	"time"

	"mood-journal-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatbotService struct {
	DB     *gorm.DB
	Claims *ClaimService
}

func NewChatbotService(db *gorm.DB, claims *ClaimService) *ChatbotService {
	return &ChatbotService{DB: db, Claims: claims}
}

// replyRule matches any of its keywords as a substring of the lowercased
// user message. Rules are checked in order; first hit wins.
type replyRule struct {
	keywords []string
	response string
}

// The companion bot is a fixed keyword table, not a model. Rule order
// matters: "bad"/"sad" must be checked before "good" so "not good, sad"
// gets the supportive reply.
var replyRules = []replyRule{
	{
		keywords: []string{"hello", "hi", "hey"},
		response: "Hello there! It's great to chat with you. How are you feeling today?",
	},
	{
		keywords: []string{"how are you"},
		response: "I'm doing well, thanks for asking! I'm here to chat with you and help you track your moods.",
	},
	{
		keywords: []string{"bad", "sad", "unhappy"},
		response: "I'm sorry to hear you're not feeling great. Remember that it's okay to have off days. Would you like to talk more about what's bothering you?",
	},
	{
		keywords: []string{"good", "great", "happy"},
		response: "That's wonderful to hear! It's always nice to celebrate the good moments. What's been making you feel good today?",
	},
	{
		keywords: []string{"thank"},
		response: "You're welcome! I'm always here if you need someone to talk to.",
	},
	{
		keywords: []string{"help"},
		response: "I'm here to help! You can talk to me about how you're feeling, or I can help you track your moods. What would you like to chat about?",
	},
}

const fallbackReply = "Thanks for sharing that. How has the rest of your day been going?"

// Reply picks the canned response for a user message.
func Reply(input string) string {
	lower := strings.ToLower(input)
	for _, rule := range replyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.response
			}
		}
	}
	return fallbackReply
}

// StartSession opens a new chat session.
func (s *ChatbotService) StartSession(userID string) (*models.ChatSession, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}
	session := models.ChatSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartTime: time.Now(),
	}
	if err := s.DB.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("start chat session: %w", err)
	}
	return &session, nil
}

// EndSession stamps the session's end time.
func (s *ChatbotService) EndSession(userID, sessionID string) (*models.ChatSession, error) {
	session, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	session.EndTime = &now
	if err := s.DB.Save(session).Error; err != nil {
		return nil, fmt.Errorf("end chat session %s: %w", sessionID, err)
	}
	return session, nil
}

// Sessions lists a user's sessions, newest first.
func (s *ChatbotService) Sessions(userID string) ([]models.ChatSession, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}
	var sessions []models.ChatSession
	err := s.DB.Where("user_id = ?", userID).
		Order("start_time DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("fetch chat sessions: %w", err)
	}
	return sessions, nil
}

// AddMessage stores the user's line, generates the bot reply and stores
// that too. Returns both messages in order.
func (s *ChatbotService) AddMessage(userID, sessionID, text string) ([]models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("message text is required")
	}
	session, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Ended() {
		return nil, fmt.Errorf("chat session %s has ended", sessionID)
	}

	userMsg := models.ChatMessage{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		IsUser:    true,
		Message:   text,
	}
	botMsg := models.ChatMessage{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		IsUser:    false,
		Message:   Reply(text),
	}
	if err := s.DB.Create(&userMsg).Error; err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}
	if err := s.DB.Create(&botMsg).Error; err != nil {
		return nil, fmt.Errorf("save bot message: %w", err)
	}
	return []models.ChatMessage{userMsg, botMsg}, nil
}

// Messages returns a session's transcript in order.
func (s *ChatbotService) Messages(userID, sessionID string) ([]models.ChatMessage, error) {
	if _, err := s.ownedSession(userID, sessionID); err != nil {
		return nil, err
	}
	var messages []models.ChatMessage
	err := s.DB.Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("fetch messages for %s: %w", sessionID, err)
	}
	return messages, nil
}

// RateSession stores the post-session rating and attempts the day's
// chatbot_rating XP claim. One rating per session.
func (s *ChatbotService) RateSession(userID, sessionID string, rating int, feedback string) (*models.ChatRating, *ClaimResult, error) {
	if rating < 1 || rating > 5 {
		return nil, nil, fmt.Errorf("rating must be between 1 and 5")
	}
	session, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return nil, nil, err
	}

	record := models.ChatRating{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		UserID:    userID,
		Rating:    rating,
		Feedback:  feedback,
	}
	if err := s.DB.Create(&record).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, nil, fmt.Errorf("session %s has already been rated", sessionID)
		}
		return nil, nil, fmt.Errorf("save rating: %w", err)
	}

	claim, err := s.Claims.ClaimAndAward(userID, models.SourceChatbotRating, time.Now())
	if err != nil {
		return &record, nil, err
	}
	return &record, claim, nil
}

func (s *ChatbotService) ownedSession(userID, sessionID string) (*models.ChatSession, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}
	var session models.ChatSession
	err := s.DB.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("chat session %s not found", sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch chat session %s: %w", sessionID, err)
	}
	return &session, nil
}

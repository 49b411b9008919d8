package services

import (
	"fmt"
	"sort"
	"time"

	"mood-journal-system/models"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

type MoodService struct {
	DB     *gorm.DB
	Claims *ClaimService
}

func NewMoodService(db *gorm.DB, claims *ClaimService) *MoodService {
	return &MoodService{DB: db, Claims: claims}
}

// AddEntry saves a mood entry and then attempts the day's mood_entry XP
// claim. The claim outcome rides along so the UI can show the reward popup
// on accept and stay silent on a duplicate.
//
// loggedDate only positions the entry on the calendar. The claim is always
// made against the current day, so backdated entries cannot mint awards
// for days that already passed.
func (s *MoodService) AddEntry(userID string, mood models.Mood, emotions []string, journal string, loggedDate time.Time) (*models.MoodEntry, *ClaimResult, error) {
	if userID == "" {
		return nil, nil, ErrInvalidUser
	}
	if err := models.ValidateMood(mood); err != nil {
		return nil, nil, err
	}
	emotionCSV, err := models.NormalizeEmotions(emotions)
	if err != nil {
		return nil, nil, err
	}

	entry := models.MoodEntry{
		ID:         uuid.NewString(),
		UserID:     userID,
		Mood:       mood,
		Emotions:   emotionCSV,
		Journal:    journal,
		LoggedDate: loggedDate,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		return nil, nil, fmt.Errorf("create mood entry: %w", err)
	}

	claim, err := s.Claims.ClaimAndAward(userID, models.SourceMoodEntry, time.Now())
	if err != nil {
		// The entry itself saved; surface the claim failure to the caller.
		return &entry, nil, err
	}
	return &entry, claim, nil
}

// Entries returns all mood entries for a user, newest first.
func (s *MoodService) Entries(userID string) ([]models.MoodEntry, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}
	var entries []models.MoodEntry
	err := s.DB.Where("user_id = ?", userID).
		Order("logged_date DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("fetch mood entries: %w", err)
	}
	return entries, nil
}

// EntriesInRange returns entries with logged_date in [start, end] for
// calendar views.
func (s *MoodService) EntriesInRange(userID string, start, end time.Time) ([]models.MoodEntry, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}
	var entries []models.MoodEntry
	err := s.DB.Where("user_id = ? AND logged_date >= ? AND logged_date <= ?", userID, start, end).
		Order("logged_date ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("fetch mood entries in range: %w", err)
	}
	return entries, nil
}

// EmotionCount pairs an emotion with how often it was logged.
type EmotionCount struct {
	Emotion string `json:"emotion"`
	Count   int    `json:"count"`
}

// TrendPoint is one day on the average-score trend line.
type TrendPoint struct {
	Day   string  `json:"day"` // YYYY-MM-DD
	Score float64 `json:"score"`
}

// MoodStats is the stats-page payload computed over a window of entries.
type MoodStats struct {
	TotalEntries      int            `json:"total_entries"`
	MoodCounts        map[string]int `json:"mood_counts"` // display-cased mood -> count
	AvgScore          float64        `json:"avg_score"`   // rad=5 ... awful=1
	TopEmotions       []EmotionCount `json:"top_emotions"`
	JournalPercentage float64        `json:"journal_percentage"`
	Streak            int            `json:"streak"` // consecutive entry days ending today/yesterday
	DailyTrend        []TrendPoint   `json:"daily_trend"`
}

// Stats computes the statistics view over the last N days of entries
// (days <= 0 means all time).
func (s *MoodService) Stats(userID string, days int) (*MoodStats, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}

	query := s.DB.Where("user_id = ?", userID)
	if days > 0 {
		cutoff := time.Now().AddDate(0, 0, -days)
		query = query.Where("logged_date >= ?", cutoff)
	}
	var entries []models.MoodEntry
	if err := query.Order("logged_date ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("fetch entries for stats: %w", err)
	}

	stats := &MoodStats{
		TotalEntries: len(entries),
		MoodCounts:   map[string]int{},
		TopEmotions:  []EmotionCount{},
		DailyTrend:   []TrendPoint{},
	}
	if len(entries) == 0 {
		return stats, nil
	}

	// Casers carry internal state, so build one per call
	titleCaser := cases.Title(language.English)

	scoreSum := 0
	withJournal := 0
	emotionCounts := map[string]int{}
	dayScores := map[string][]int{}
	var dayOrder []string

	for _, e := range entries {
		stats.MoodCounts[titleCaser.String(string(e.Mood))]++
		score := models.MoodScores[e.Mood]
		scoreSum += score
		if len(e.Journal) > 0 {
			withJournal++
		}
		for _, emotion := range e.EmotionList() {
			emotionCounts[emotion]++
		}
		day := DayKey(e.LoggedDate)
		if _, seen := dayScores[day]; !seen {
			dayOrder = append(dayOrder, day)
		}
		dayScores[day] = append(dayScores[day], score)
	}

	stats.AvgScore = float64(scoreSum) / float64(len(entries))
	stats.JournalPercentage = float64(withJournal) / float64(len(entries)) * 100

	// Top 3 emotions, most frequent first; ties broken alphabetically so
	// the ordering is stable.
	for emotion, count := range emotionCounts {
		stats.TopEmotions = append(stats.TopEmotions, EmotionCount{Emotion: titleCaser.String(emotion), Count: count})
	}
	sort.Slice(stats.TopEmotions, func(i, j int) bool {
		if stats.TopEmotions[i].Count != stats.TopEmotions[j].Count {
			return stats.TopEmotions[i].Count > stats.TopEmotions[j].Count
		}
		return stats.TopEmotions[i].Emotion < stats.TopEmotions[j].Emotion
	})
	if len(stats.TopEmotions) > 3 {
		stats.TopEmotions = stats.TopEmotions[:3]
	}

	for _, day := range dayOrder {
		scores := dayScores[day]
		sum := 0
		for _, sc := range scores {
			sum += sc
		}
		stats.DailyTrend = append(stats.DailyTrend, TrendPoint{
			Day:   day,
			Score: float64(sum) / float64(len(scores)),
		})
	}

	stats.Streak = entryStreak(dayScores, time.Now())
	return stats, nil
}

// entryStreak counts consecutive days with at least one entry, walking
// back from today (or yesterday, if today has no entry yet).
func entryStreak(dayScores map[string][]int, now time.Time) int {
	day := now
	if _, ok := dayScores[DayKey(day)]; !ok {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for {
		if _, ok := dayScores[DayKey(day)]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"mood-journal-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// XPAwards define how much each action is worth (tunable via config/env later)
type XPAwards struct {
	MoodEntryXP     int64
	ChatbotRatingXP int64
}

var DefaultXPAwards = XPAwards{
	MoodEntryXP:     5,
	ChatbotRatingXP: 20,
}

// ClaimResult is what an award attempt produced. Accepted=false is the
// normal "already claimed today" outcome, not an error; handlers return
// it with 200 so clients silently skip the reward popup.
type ClaimResult struct {
	Accepted  bool  `json:"accepted"`
	XPEarned  int64 `json:"xp_earned"`
	CurrentXP int64 `json:"current_xp"`
	Streak    int   `json:"streak"`
}

// ClaimService enforces at most one XP award per (user, source, calendar
// day). The unique index on claim_records turns a concurrent duplicate
// into a constraint violation, which the loser reads as "already claimed".
type ClaimService struct {
	DB     *gorm.DB
	Ledger *LedgerService
	Awards XPAwards
}

func NewClaimService(db *gorm.DB, ledger *LedgerService) *ClaimService {
	return &ClaimService{DB: db, Ledger: ledger, Awards: DefaultXPAwards}
}

// amountFor returns the XP value and whether the source extends the streak.
// Only mood entries count toward the streak; chatbot ratings never do.
func (s *ClaimService) amountFor(source models.ClaimSource) (int64, bool, error) {
	switch source {
	case models.SourceMoodEntry:
		return s.Awards.MoodEntryXP, true, nil
	case models.SourceChatbotRating:
		return s.Awards.ChatbotRatingXP, false, nil
	default:
		return 0, false, fmt.Errorf("invalid claim source %q", source)
	}
}

// TryClaim records the claim for (user, source, today) without touching the
// ledger. Returns false when the day's claim already exists.
func (s *ClaimService) TryClaim(userID string, source models.ClaimSource, now time.Time) (bool, error) {
	if userID == "" {
		return false, ErrInvalidUser
	}
	amount, _, err := s.amountFor(source)
	if err != nil {
		return false, err
	}
	return s.tryClaimTx(s.DB, userID, source, DayKey(now), amount)
}

func (s *ClaimService) tryClaimTx(tx *gorm.DB, userID string, source models.ClaimSource, day string, amount int64) (bool, error) {
	record := models.ClaimRecord{
		ID:       uuid.NewString(),
		UserID:   userID,
		Source:   source,
		Day:      day,
		XPEarned: amount,
	}
	err := tx.Create(&record).Error
	if err == nil {
		return true, nil
	}
	if isDuplicateErr(err) {
		return false, nil
	}
	return false, fmt.Errorf("insert claim %s/%s/%s: %w", userID, source, day, err)
}

// ClaimAndAward is the whole accept path in one transaction: insert the
// claim record, then add XP and bump the streak. Either both persist or
// neither does, so there is no window where a user burns the day's claim
// without receiving XP.
func (s *ClaimService) ClaimAndAward(userID string, source models.ClaimSource, now time.Time) (*ClaimResult, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}
	amount, extendsStreak, err := s.amountFor(source)
	if err != nil {
		return nil, err
	}
	day := DayKey(now)

	var result ClaimResult
	var updated *models.XpLedger
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		accepted, txErr := s.tryClaimTx(tx, userID, source, day, amount)
		if txErr != nil {
			return txErr
		}
		if !accepted {
			return nil
		}

		var newStreak *int
		if extendsStreak {
			ledger, txErr := s.ledgerForUpdate(tx, userID)
			if txErr != nil {
				return txErr
			}
			next := ledger.Streak + 1
			newStreak = &next
		}

		updated, txErr = s.Ledger.addXPTx(tx, userID, amount, newStreak)
		if txErr != nil {
			return txErr
		}

		result = ClaimResult{
			Accepted:  true,
			XPEarned:  amount,
			CurrentXP: updated.CurrentXP,
			Streak:    updated.Streak,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.Accepted {
		// Duplicate: report current totals so the client can still render.
		ledger, err := s.Ledger.GetLedger(userID)
		if err != nil {
			return nil, err
		}
		return &ClaimResult{Accepted: false, CurrentXP: ledger.CurrentXP, Streak: ledger.Streak}, nil
	}

	s.Ledger.cacheSet(updated)
	log.Printf("🎮 XP claimed: %s +%d via %s → XP=%d, streak=%d", userID, amount, source, result.CurrentXP, result.Streak)
	return &result, nil
}

// ledgerForUpdate reads the current ledger inside tx, creating the row if
// this is the user's first award.
func (s *ClaimService) ledgerForUpdate(tx *gorm.DB, userID string) (*models.XpLedger, error) {
	if err := s.Ledger.ensureLedgerTx(tx, userID); err != nil {
		return nil, err
	}
	var ledger models.XpLedger
	if err := tx.Where("user_id = ?", userID).First(&ledger).Error; err != nil {
		return nil, fmt.Errorf("load ledger for %s: %w", userID, err)
	}
	return &ledger, nil
}

// HasClaim reports whether a claim exists for the given day key.
func (s *ClaimService) HasClaim(userID string, source models.ClaimSource, day string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.ClaimRecord{}).
		Where("user_id = ? AND source = ? AND day = ?", userID, source, day).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count claims: %w", err)
	}
	return count > 0, nil
}

// LapseStreaks zeroes the streak for every ledger whose owner has no mood
// entry claim for today or yesterday. Streaks break silently; the claim
// path itself always does prev+1, so consecutiveness is enforced here.
func (s *ClaimService) LapseStreaks(now time.Time) (int64, error) {
	today := DayKey(now)
	yesterday := DayKey(now.AddDate(0, 0, -1))

	var lapsed []models.XpLedger
	err := s.DB.
		Where("streak > 0").
		Where("user_id NOT IN (?)", s.DB.Model(&models.ClaimRecord{}).
			Select("user_id").
			Where("source = ? AND day IN ?", models.SourceMoodEntry, []string{today, yesterday})).
		Find(&lapsed).Error
	if err != nil {
		return 0, fmt.Errorf("find lapsed streaks: %w", err)
	}
	if len(lapsed) == 0 {
		return 0, nil
	}

	ids := make([]string, len(lapsed))
	for i, l := range lapsed {
		ids[i] = l.UserID
	}
	err = s.DB.Model(&models.XpLedger{}).
		Where("user_id IN ?", ids).
		Updates(map[string]interface{}{"streak": 0, "last_updated": time.Now()}).Error
	if err != nil {
		return 0, fmt.Errorf("reset lapsed streaks: %w", err)
	}
	for _, id := range ids {
		s.Ledger.cacheDrop(id)
	}
	return int64(len(ids)), nil
}

// PruneClaims deletes claim records older than the retention window.
// Old records only matter for that day's duplicate check, so this is safe.
func (s *ClaimService) PruneClaims(now time.Time, retainDays int) (int64, error) {
	cutoff := DayKey(now.AddDate(0, 0, -retainDays))
	res := s.DB.Where("day < ?", cutoff).Delete(&models.ClaimRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("prune claims before %s: %w", cutoff, res.Error)
	}
	return res.RowsAffected, nil
}

// isDuplicateErr recognizes unique-constraint violations across the
// postgres and sqlite drivers.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"mood-journal-system/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInvalidDelta = caller tried to award a zero or negative XP amount.
	// Programmer error, fails loudly instead of clamping.
	ErrInvalidDelta = errors.New("xp delta must be a positive integer")

	// ErrInvalidUser = no user identity supplied for a ledger operation.
	ErrInvalidUser = errors.New("missing user id")
)

// appLocation is the single day-boundary policy for the whole service.
// Set once at boot from APP_TIMEZONE; defaults to the host's local zone.
var appLocation = time.Local

// SetTimezone configures the calendar-day boundary used for claims.
func SetTimezone(name string) {
	if name == "" {
		return
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("⚠️  Invalid APP_TIMEZONE %q, keeping %s: %v", name, appLocation, err)
		return
	}
	appLocation = loc
}

// DayKey formats t as YYYY-MM-DD in the configured timezone.
// Every claim-related date in the system goes through here.
func DayKey(t time.Time) string {
	return t.In(appLocation).Format("2006-01-02")
}

const ledgerCacheTTL = 1 * time.Hour

// LedgerService owns the per-user XP/streak rows. The database row is the
// source of truth; Redis (when configured) is a read-through cache that is
// only written after the DB write succeeds.
type LedgerService struct {
	DB    *gorm.DB
	Cache *redis.Client // nil when REDIS_URL is unset
}

func NewLedgerService(db *gorm.DB, cache *redis.Client) *LedgerService {
	return &LedgerService{DB: db, Cache: cache}
}

// NewRedisClient connects to REDIS_URL, or returns nil when it is unset.
func NewRedisClient() *redis.Client {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("⚠️  Invalid REDIS_URL, running without ledger cache: %v", err)
		return nil
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("⚠️  Redis unreachable, running without ledger cache: %v", err)
		return nil
	}
	log.Println("✅ Ledger cache connected")
	return client
}

func ledgerCacheKey(userID string) string {
	return "ledger:" + userID
}

// GetLedger returns the user's ledger, normalizing "no row yet" to a zero
// ledger so callers never handle a not-found case.
func (s *LedgerService) GetLedger(userID string) (*models.XpLedger, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}

	if cached := s.cacheGet(userID); cached != nil {
		return cached, nil
	}

	var ledger models.XpLedger
	err := s.DB.Where("user_id = ?", userID).First(&ledger).Error
	if err == gorm.ErrRecordNotFound {
		return &models.XpLedger{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch ledger for %s: %w", userID, err)
	}

	s.cacheSet(&ledger)
	return &ledger, nil
}

// EnsureLedger idempotently guarantees a zeroed ledger row exists.
// Single upsert, not check-then-insert, so concurrent callers are safe.
func (s *LedgerService) EnsureLedger(userID string) error {
	return s.ensureLedgerTx(s.DB, userID)
}

func (s *LedgerService) ensureLedgerTx(tx *gorm.DB, userID string) error {
	if userID == "" {
		return ErrInvalidUser
	}
	ledger := models.XpLedger{
		ID:          uuid.NewString(),
		UserID:      userID,
		CurrentXP:   0,
		Streak:      0,
		LastUpdated: time.Now(),
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&ledger).Error
	if err != nil {
		return fmt.Errorf("ensure ledger for %s: %w", userID, err)
	}
	return nil
}

// AddXP atomically adds delta to the user's XP and, when newStreak is
// non-nil, overwrites the streak. Returns the post-update ledger.
//
// This is the only mutation path for XP totals. Route handlers never call
// it directly; only the claim service's accept path does, which is what
// keeps the once-per-day invariant in one place.
func (s *LedgerService) AddXP(userID string, delta int64, newStreak *int) (*models.XpLedger, error) {
	var updated *models.XpLedger
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		updated, txErr = s.addXPTx(tx, userID, delta, newStreak)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	s.cacheSet(updated)
	return updated, nil
}

// addXPTx is AddXP inside an existing transaction. The claim service uses
// it so the claim insert and the XP add commit or roll back together.
func (s *LedgerService) addXPTx(tx *gorm.DB, userID string, delta int64, newStreak *int) (*models.XpLedger, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}
	if delta <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDelta, delta)
	}

	if err := s.ensureLedgerTx(tx, userID); err != nil {
		return nil, err
	}

	// Atomic in-place add, no read-modify-write race
	updates := map[string]interface{}{
		"current_xp":   gorm.Expr("current_xp + ?", delta),
		"last_updated": time.Now(),
	}
	if newStreak != nil {
		updates["streak"] = *newStreak
	}
	if err := tx.Model(&models.XpLedger{}).
		Where("user_id = ?", userID).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("add xp for %s: %w", userID, err)
	}

	var ledger models.XpLedger
	if err := tx.Where("user_id = ?", userID).First(&ledger).Error; err != nil {
		return nil, fmt.Errorf("reload ledger for %s: %w", userID, err)
	}
	return &ledger, nil
}

func (s *LedgerService) cacheGet(userID string) *models.XpLedger {
	if s.Cache == nil {
		return nil
	}
	raw, err := s.Cache.Get(context.Background(), ledgerCacheKey(userID)).Bytes()
	if err != nil {
		return nil // miss or cache down, fall through to the DB
	}
	var ledger models.XpLedger
	if err := json.Unmarshal(raw, &ledger); err != nil {
		return nil
	}
	return &ledger
}

// cacheSet refreshes the cached copy. Only ever called after a successful
// DB read or commit, so the cache can lag but never lead the database.
func (s *LedgerService) cacheSet(ledger *models.XpLedger) {
	if s.Cache == nil || ledger == nil {
		return
	}
	raw, err := json.Marshal(ledger)
	if err != nil {
		return
	}
	if err := s.Cache.Set(context.Background(), ledgerCacheKey(ledger.UserID), raw, ledgerCacheTTL).Err(); err != nil {
		log.Printf("⚠️  Ledger cache write failed for %s: %v", ledger.UserID, err)
	}
}

// cacheDrop evicts a user's cached ledger (used by the streak lapse job).
func (s *LedgerService) cacheDrop(userID string) {
	if s.Cache == nil {
		return
	}
	_ = s.Cache.Del(context.Background(), ledgerCacheKey(userID)).Err()
}

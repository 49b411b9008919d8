package services

import (
	"fmt"
	"time"

	"mood-journal-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrThemeLocked = user tried to select a tier above their XP.
var ErrThemeLocked = fmt.Errorf("theme is not unlocked yet")

type ThemeService struct {
	DB     *gorm.DB
	Ledger *LedgerService
	Tiers  []models.RewardTier
}

func NewThemeService(db *gorm.DB, ledger *LedgerService) *ThemeService {
	return &ThemeService{DB: db, Ledger: ledger, Tiers: models.DefaultRewardTiers}
}

// Palette is a tier annotated with the user's unlock state.
type Palette struct {
	models.RewardTier
	Unlocked bool `json:"unlocked"`
	Selected bool `json:"selected"`
}

// Palettes lists every tier with unlocked/selected flags for the picker UI.
func (s *ThemeService) Palettes(userID string) ([]Palette, error) {
	ledger, err := s.Ledger.GetLedger(userID)
	if err != nil {
		return nil, err
	}
	selected, err := s.selectedKey(userID)
	if err != nil {
		return nil, err
	}
	if selected == "" && len(s.Tiers) > 0 {
		selected = s.Tiers[0].Key // starting theme
	}

	palettes := make([]Palette, len(s.Tiers))
	for i, tier := range s.Tiers {
		palettes[i] = Palette{
			RewardTier: tier,
			Unlocked:   TierUnlocked(ledger.CurrentXP, tier),
			Selected:   tier.Key == selected,
		}
	}
	return palettes, nil
}

// Select persists the user's theme choice after checking the unlock
// threshold against the ledger.
func (s *ThemeService) Select(userID, themeKey string) (*models.ThemeSelection, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}
	tier, ok := FindTier(themeKey, s.Tiers)
	if !ok {
		return nil, fmt.Errorf("unknown theme %q", themeKey)
	}

	ledger, err := s.Ledger.GetLedger(userID)
	if err != nil {
		return nil, err
	}
	if !TierUnlocked(ledger.CurrentXP, tier) {
		return nil, fmt.Errorf("%w: %s needs %d XP, user has %d", ErrThemeLocked, tier.Name, tier.XPThreshold, ledger.CurrentXP)
	}

	selection := models.ThemeSelection{
		ID:       uuid.NewString(),
		UserID:   userID,
		ThemeKey: tier.Key,
	}
	err = s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"theme_key": tier.Key, "updated_at": time.Now()}),
	}).Create(&selection).Error
	if err != nil {
		return nil, fmt.Errorf("save theme selection: %w", err)
	}
	return &selection, nil
}

func (s *ThemeService) selectedKey(userID string) (string, error) {
	var selection models.ThemeSelection
	err := s.DB.Where("user_id = ?", userID).First(&selection).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("fetch theme selection: %w", err)
	}
	return selection.ThemeKey, nil
}

package services

import "mood-journal-system/models"

// UnlockedTiers maps cumulative XP to the reward tiers it unlocks, in tier
// order. Pure function: a tier is unlocked iff current_xp >= its threshold,
// so the result only ever grows as XP grows.
func UnlockedTiers(currentXP int64, tiers []models.RewardTier) []string {
	var unlocked []string
	for _, tier := range tiers {
		if currentXP >= tier.XPThreshold {
			unlocked = append(unlocked, tier.Name)
		}
	}
	return unlocked
}

// TierUnlocked checks a single tier against the XP total.
func TierUnlocked(currentXP int64, tier models.RewardTier) bool {
	return currentXP >= tier.XPThreshold
}

// FindTier looks up a tier by its slugged key.
func FindTier(key string, tiers []models.RewardTier) (models.RewardTier, bool) {
	for _, tier := range tiers {
		if tier.Key == key {
			return tier, true
		}
	}
	return models.RewardTier{}, false
}

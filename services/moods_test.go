package services_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"mood-journal-system/models"
	"mood-journal-system/services"
)

func testMoodService(t *testing.T) (*services.MoodService, *services.LedgerService) {
	t.Helper()
	db := testDB(t)
	ledger := services.NewLedgerService(db, nil)
	claims := services.NewClaimService(db, ledger)
	return services.NewMoodService(db, claims), ledger
}

func TestAddEntry_AwardsXPAndStreak(t *testing.T) {
	moods, _ := testMoodService(t)

	entry, claim, err := moods.AddEntry("u1", models.MoodGood, []string{"happy", "calm"}, "nice day", time.Now())
	if err != nil {
		t.Fatalf("add entry: %v", err)
	}
	if entry.Mood != models.MoodGood {
		t.Errorf("unexpected mood %s", entry.Mood)
	}
	if !claim.Accepted {
		t.Fatal("first entry of the day must claim XP")
	}
	if claim.XPEarned != 5 || claim.CurrentXP != 5 || claim.Streak != 1 {
		t.Errorf("expected +5/5/1, got %+v", claim)
	}
}

func TestAddEntry_SecondSameDayNoAward(t *testing.T) {
	moods, ledger := testMoodService(t)

	now := time.Now()
	if _, _, err := moods.AddEntry("u1", models.MoodGood, []string{"happy"}, "", now); err != nil {
		t.Fatalf("first: %v", err)
	}
	entry, claim, err := moods.AddEntry("u1", models.MoodBad, []string{"sad"}, "", now)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if entry == nil {
		t.Fatal("second entry must still save")
	}
	if claim.Accepted {
		t.Error("second entry same day must not claim XP")
	}

	got, _ := ledger.GetLedger("u1")
	if got.CurrentXP != 5 || got.Streak != 1 {
		t.Errorf("ledger must stay at 5/1, got %d/%d", got.CurrentXP, got.Streak)
	}
}

func TestAddEntry_BackdatedEntriesClaimOnce(t *testing.T) {
	moods, ledger := testMoodService(t)

	// Backfilling old calendar days is allowed, but the XP claim is keyed
	// on the real current day, so only one award can come out of it.
	now := time.Now()
	accepted := 0
	for daysAgo := 0; daysAgo < 10; daysAgo++ {
		_, claim, err := moods.AddEntry("u1", models.MoodGood, []string{"calm"}, "", now.AddDate(0, 0, -daysAgo))
		if err != nil {
			t.Fatalf("entry %d days back: %v", daysAgo, err)
		}
		if claim.Accepted {
			accepted++
		}
	}
	if accepted != 1 {
		t.Errorf("expected exactly 1 accepted claim, got %d", accepted)
	}

	got, _ := ledger.GetLedger("u1")
	if got.CurrentXP != 5 || got.Streak != 1 {
		t.Errorf("backdating must not farm XP, got xp=%d streak=%d", got.CurrentXP, got.Streak)
	}
}

func TestAddEntry_RejectsUnknownMood(t *testing.T) {
	moods, _ := testMoodService(t)

	if _, _, err := moods.AddEntry("u1", "ecstatic", []string{"happy"}, "", time.Now()); err == nil {
		t.Fatal("expected error for unknown mood")
	}
}

func TestAddEntry_FiltersEmotions(t *testing.T) {
	moods, _ := testMoodService(t)

	entry, _, err := moods.AddEntry("u1", models.MoodMeh, []string{" Happy ", "vibing", "CALM"}, "", time.Now())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if entry.Emotions != "happy,calm" {
		t.Errorf("expected normalized happy,calm, got %q", entry.Emotions)
	}

	if _, _, err := moods.AddEntry("u2", models.MoodMeh, []string{"vibing"}, "", time.Now()); err == nil {
		t.Fatal("expected error when no emotion survives filtering")
	}
}

func TestEntriesInRange(t *testing.T) {
	moods, _ := testMoodService(t)

	base := time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local)
	for i := 0; i < 5; i++ {
		if _, _, err := moods.AddEntry("u1", models.MoodGood, []string{"happy"}, "", base.AddDate(0, 0, i)); err != nil {
			t.Fatalf("day %d: %v", i, err)
		}
	}

	got, err := moods.EntriesInRange("u1", base.AddDate(0, 0, 1), base.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 entries in range, got %d", len(got))
	}
}

func TestStats_Fixture(t *testing.T) {
	moods, _ := testMoodService(t)

	now := time.Now()
	entries := []struct {
		mood     models.Mood
		emotions []string
		journal  string
		daysAgo  int
	}{
		{models.MoodRad, []string{"happy", "excited"}, "great day", 2},
		{models.MoodGood, []string{"happy", "calm"}, "", 1},
		{models.MoodBad, []string{"sad"}, "rough one", 0},
	}
	for _, e := range entries {
		if _, _, err := moods.AddEntry("u1", e.mood, e.emotions, e.journal, now.AddDate(0, 0, -e.daysAgo)); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	stats, err := moods.Stats("u1", 0)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.TotalEntries != 3 {
		t.Errorf("expected 3 entries, got %d", stats.TotalEntries)
	}
	// (5 + 4 + 2) / 3
	if math.Abs(stats.AvgScore-11.0/3.0) > 1e-9 {
		t.Errorf("unexpected avg score %f", stats.AvgScore)
	}
	if stats.MoodCounts["Rad"] != 1 || stats.MoodCounts["Good"] != 1 || stats.MoodCounts["Bad"] != 1 {
		t.Errorf("unexpected mood counts %v", stats.MoodCounts)
	}
	if math.Abs(stats.JournalPercentage-200.0/3.0) > 1e-9 {
		t.Errorf("unexpected journal percentage %f", stats.JournalPercentage)
	}
	if len(stats.TopEmotions) == 0 || stats.TopEmotions[0].Emotion != "Happy" || stats.TopEmotions[0].Count != 2 {
		t.Errorf("expected Happy x2 on top, got %v", stats.TopEmotions)
	}
	if stats.Streak != 3 {
		t.Errorf("expected 3-day entry streak, got %d", stats.Streak)
	}
	if len(stats.DailyTrend) != 3 {
		t.Errorf("expected 3 trend points, got %d", len(stats.DailyTrend))
	}
}

func TestStats_EmptyWindow(t *testing.T) {
	moods, _ := testMoodService(t)

	stats, err := moods.Stats("u1", 7)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalEntries != 0 || stats.Streak != 0 {
		t.Errorf("expected empty stats, got %+v", stats)
	}
}

func TestEmotionList_RoundTrip(t *testing.T) {
	entry := models.MoodEntry{Emotions: "happy,calm"}
	got := entry.EmotionList()
	if strings.Join(got, "|") != "happy|calm" {
		t.Errorf("unexpected emotion list %v", got)
	}
}

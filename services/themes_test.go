package services_test

import (
	"errors"
	"testing"

	"mood-journal-system/services"
)

func testThemeService(t *testing.T) (*services.ThemeService, *services.LedgerService) {
	t.Helper()
	db := testDB(t)
	ledger := services.NewLedgerService(db, nil)
	return services.NewThemeService(db, ledger), ledger
}

func TestPalettes_NewUserGetsStartingThemeOnly(t *testing.T) {
	themes, _ := testThemeService(t)

	palettes, err := themes.Palettes("u1")
	if err != nil {
		t.Fatalf("palettes: %v", err)
	}
	if len(palettes) != 4 {
		t.Fatalf("expected 4 palettes, got %d", len(palettes))
	}
	if !palettes[0].Unlocked || !palettes[0].Selected {
		t.Error("Autumn must be unlocked and selected by default")
	}
	for _, p := range palettes[1:] {
		if p.Unlocked {
			t.Errorf("%s must be locked at 0 XP", p.Name)
		}
	}
}

func TestSelect_LockedThemeRejected(t *testing.T) {
	themes, _ := testThemeService(t)

	_, err := themes.Select("u1", "winter")
	if !errors.Is(err, services.ErrThemeLocked) {
		t.Fatalf("expected ErrThemeLocked, got %v", err)
	}
}

func TestSelect_UnlockedAfterXP(t *testing.T) {
	themes, ledger := testThemeService(t)

	if _, err := ledger.AddXP("u1", 30, nil); err != nil {
		t.Fatalf("seed xp: %v", err)
	}

	selection, err := themes.Select("u1", "spring")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if selection.ThemeKey != "spring" {
		t.Errorf("unexpected key %s", selection.ThemeKey)
	}

	// Changing the choice upserts the same row
	if _, err := themes.Select("u1", "autumn"); err != nil {
		t.Fatalf("re-select: %v", err)
	}
	palettes, err := themes.Palettes("u1")
	if err != nil {
		t.Fatalf("palettes: %v", err)
	}
	for _, p := range palettes {
		if p.Selected && p.Key != "autumn" {
			t.Errorf("expected autumn selected, got %s", p.Key)
		}
	}
}

func TestSelect_UnknownTheme(t *testing.T) {
	themes, _ := testThemeService(t)

	if _, err := themes.Select("u1", "neon"); err == nil {
		t.Fatal("expected error for unknown theme key")
	}
}

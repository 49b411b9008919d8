package services_test

import (
	"path/filepath"
	"testing"

	"mood-journal-system/models"
	"mood-journal-system/services"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens a temporary sqlite database with the full schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.XpLedger{},
		&models.ClaimRecord{},
		&models.MoodEntry{},
		&models.ChatSession{},
		&models.ChatMessage{},
		&models.ChatRating{},
		&models.ThemeSelection{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// testServices wires the ledger+claim pair every test needs.
func testServices(t *testing.T) (*services.LedgerService, *services.ClaimService) {
	t.Helper()
	db := testDB(t)
	ledger := services.NewLedgerService(db, nil)
	claims := services.NewClaimService(db, ledger)
	return ledger, claims
}

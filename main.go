package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mood-journal-system/handlers"
	"mood-journal-system/middleware"
	"mood-journal-system/models"
	"mood-journal-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	// One day-boundary policy for the whole deployment
	services.SetTimezone(os.Getenv("APP_TIMEZONE"))

	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024, // journal text only, 1MB is generous
	})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowedOriginsList, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-Device-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	db := openDatabase()

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
		log.Fatal("failed to migrate database:", err)
	}

	ledgerService := services.NewLedgerService(db, services.NewRedisClient())
	claimService := services.NewClaimService(db, ledgerService)
	userService := services.NewUserService(db)
	moodService := services.NewMoodService(db, claimService)
	chatbotService := services.NewChatbotService(db, claimService)
	themeService := services.NewThemeService(db, ledgerService)

	claimService.StartMaintenanceScheduler()

	handlers.SetupUserRoutes(app, userService)
	handlers.SetupXPRoutes(app, ledgerService, claimService)
	handlers.SetupMoodRoutes(app, moodService)
	handlers.SetupChatbotRoutes(app, chatbotService)
	handlers.SetupThemeRoutes(app, themeService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Maintenance scheduler running (streak lapse + claim pruning)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// openDatabase connects to postgres when DATABASE_URL is set, otherwise a
// local sqlite file. TranslateError lets the claim path see duplicate-key
// violations as gorm.ErrDuplicatedKey on both drivers.
func openDatabase() *gorm.DB {
	cfg := &gorm.Config{TranslateError: true}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), cfg)
		if err != nil {
			log.Fatal("failed to connect to postgres:", err)
		}
		log.Println("✅ Connected to postgres")
		return db
	}

	path := os.Getenv("SQLITE_PATH")
	if path == "" {
		path = "mood.db"
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		log.Fatal("failed to open sqlite database:", err)
	}
	log.Printf("✅ Using sqlite database at %s", path)
	return db
}

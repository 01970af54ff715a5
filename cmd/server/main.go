package main

import (
	"fmt"
	"log"

	"attendly/internal/auth"
	"attendly/internal/config"
	"attendly/internal/database"
	"attendly/internal/handlers"
	"attendly/internal/services"
	"attendly/internal/slack"
	"attendly/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// This is our main function - the entry point of our application
func main() {
	// Load .env file if present (real deployments use environment variables)
	_ = godotenv.Load()

	cfg := config.Load()

	// Initialize database
	if err := database.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	db := database.GetDB()

	// Stores
	ledger := store.NewAttendanceLedger(db)
	queue := store.NewReminderQueueStore(db)
	settings := store.NewSettingsStore(db, cfg.DefaultReminderTime)
	runs := store.NewRunLogStore(db)

	// External collaborators and gates, constructed once and injected
	provider := slack.NewClient(cfg.SlackBotToken)
	links := auth.NewSignedLinkService(cfg.SigningSecret, cfg.BaseURL)
	gate := auth.NewNetworkGate(cfg.OfficeNetworks)
	alerts := services.NewAlertService(cfg.SendGridAPIKey, cfg.AlertFromEmail, cfg.AlertToEmail)
	scheduler := services.NewReminderScheduler(queue, settings, runs, provider, alerts,
		cfg.RosterChannelID, cfg.SchedulePause)

	h := handlers.New(links, gate, ledger, queue, settings, provider, scheduler, cfg)

	// Initialize Gin router
	router := gin.Default()
	router.Use(cors.Default())

	// Configure trusted proxies
	router.SetTrustedProxies([]string{"127.0.0.1"})

	// Basic routes
	router.GET("/", h.Home)
	router.GET("/health", h.Health)

	// Attendance gates (signed links, always reply 200 with an HTML page)
	router.GET("/checkin", h.CheckIn)
	router.GET("/checkout", h.CheckOut)

	// Cron trigger for the daily reminder run
	router.GET("/cron/schedule-reminders", h.CronScheduleReminders)

	// Admin settings
	router.GET("/admin/reminder-settings", h.GetReminderSettings)
	router.POST("/admin/reminder-settings", h.UpdateReminderSettings)

	// Start the server
	fmt.Printf("Server starting on port %s...\n", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

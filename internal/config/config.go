package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Location is the office's civil timezone (UTC+5, no DST). Every dateKey
// and reminder instant is computed in this zone regardless of server locale.
var Location = time.FixedZone("UTC+5", 5*60*60)

// Config holds all environment-backed settings. Required secrets are
// validated at load time so a misconfigured process dies at startup
// instead of failing per-request.
type Config struct {
	Port    string
	Env     string
	BaseURL string

	// Secrets gating the HTTP surface.
	SigningSecret  string
	CronSecret     string
	AdminKey       string
	OfficeNetworks string // comma-separated exact addresses

	// Slack.
	SlackBotToken     string
	RosterChannelID   string
	AnnounceChannelID string

	// Reminder scheduling.
	DefaultReminderTime string
	SchedulePause       time.Duration

	// Ops alerting (optional; alerts disabled when API key is empty).
	SendGridAPIKey string
	AlertFromEmail string
	AlertToEmail   string
}

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		Port:    getEnv("PORT", "8080"),
		Env:     getEnv("GIN_MODE", "debug"),
		BaseURL: strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),

		SigningSecret:  getEnvRequired("LINK_SIGNING_SECRET"),
		CronSecret:     getEnvRequired("CRON_SECRET"),
		AdminKey:       getEnvRequired("ADMIN_KEY"),
		OfficeNetworks: os.Getenv("OFFICE_NETWORKS"),

		SlackBotToken:     getEnvRequired("SLACK_BOT_TOKEN"),
		RosterChannelID:   getEnvRequired("ROSTER_CHANNEL_ID"),
		AnnounceChannelID: getEnvRequired("ANNOUNCE_CHANNEL_ID"),

		DefaultReminderTime: getEnv("DEFAULT_REMINDER_TIME", "09:30"),
		SchedulePause:       getEnvDurationMs("SCHEDULE_PAUSE_MS", 1200),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		AlertFromEmail: os.Getenv("SENDGRID_ALERTS_FROM_EMAIL"),
		AlertToEmail:   os.Getenv("OPS_ALERT_EMAIL"),
	}
}

// DateKey formats an instant as the daily partition key in office time.
func DateKey(t time.Time) string {
	return t.In(Location).Format("2006-01-02")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvRequired returns the environment variable value or exits the process
func getEnvRequired(key string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	log.Fatalf("Required environment variable %s is not set", key)
	return "" // unreachable
}

func getEnvDurationMs(key string, fallbackMs int64) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallbackMs) * time.Millisecond
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms < 0 {
		log.Fatalf("Environment variable %s must be a non-negative integer, got %q", key, raw)
	}
	return time.Duration(ms) * time.Millisecond
}

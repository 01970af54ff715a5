package handlers

import (
	"log"
	"net/http"

	"attendly/internal/auth"
	"attendly/internal/config"
	"attendly/internal/services"
	"attendly/internal/store"

	"github.com/gin-gonic/gin"
)

// Handler carries the wired dependencies for all HTTP endpoints. Everything
// is injected at startup; handlers hold no mutable state of their own.
type Handler struct {
	links     *auth.SignedLinkService
	gate      *auth.NetworkGate
	ledger    *store.AttendanceLedger
	queue     *store.ReminderQueueStore
	settings  *store.SettingsStore
	provider  services.Provider
	scheduler *services.ReminderScheduler
	cfg       *config.Config
}

// New wires the handler set.
func New(links *auth.SignedLinkService, gate *auth.NetworkGate, ledger *store.AttendanceLedger,
	queue *store.ReminderQueueStore, settings *store.SettingsStore, provider services.Provider,
	scheduler *services.ReminderScheduler, cfg *config.Config) *Handler {
	return &Handler{
		links:     links,
		gate:      gate,
		ledger:    ledger,
		queue:     queue,
		settings:  settings,
		provider:  provider,
		scheduler: scheduler,
		cfg:       cfg,
	}
}

// handleError provides a consistent way to handle and log errors
func handleError(c *gin.Context, status int, message string, err error) {
	log.Printf("Error: %v", err)
	c.JSON(status, gin.H{"error": message})
}

// Home handles requests to the root path "/"
func (h *Handler) Home(c *gin.Context) {
	c.String(http.StatusOK, "Attendly is running")
}

// Health is a simple health check endpoint
func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

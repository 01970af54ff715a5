package handlers

import (
	"crypto/subtle"
	"net/http"
	"regexp"

	"attendly/internal/models"

	"github.com/gin-gonic/gin"
)

// reminderTimePattern validates the daily reminder time as 24h "HH:mm".
var reminderTimePattern = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

func (h *Handler) adminAuthorized(c *gin.Context) bool {
	key := c.Query("key")
	if subtle.ConstantTimeCompare([]byte(key), []byte(h.cfg.AdminKey)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return false
	}
	return true
}

// GetReminderSettings handles GET /admin/reminder-settings.
func (h *Handler) GetReminderSettings(c *gin.Context) {
	if !h.adminAuthorized(c) {
		return
	}

	reminderTime, err := h.settings.ReminderTime()
	if err != nil {
		handleError(c, http.StatusInternalServerError, "failed to read settings", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminderTime": reminderTime})
}

// UpdateReminderSettings handles POST /admin/reminder-settings.
func (h *Handler) UpdateReminderSettings(c *gin.Context) {
	if !h.adminAuthorized(c) {
		return
	}

	var req models.UpdateReminderSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reminderTime is required"})
		return
	}

	if !reminderTimePattern.MatchString(req.ReminderTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reminderTime must be in HH:mm 24-hour format"})
		return
	}

	if err := h.settings.SetReminderTime(req.ReminderTime); err != nil {
		handleError(c, http.StatusInternalServerError, "failed to save settings", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminderTime": req.ReminderTime})
}

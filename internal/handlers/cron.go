package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CronScheduleReminders handles GET /cron/schedule-reminders. The external
// cron service authenticates with a shared key in the query string.
func (h *Handler) CronScheduleReminders(c *gin.Context) {
	key := c.Query("key")
	if subtle.ConstantTimeCompare([]byte(key), []byte(h.cfg.CronSecret)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	report, err := h.scheduler.Run(c.Request.Context())
	if err != nil {
		handleError(c, http.StatusInternalServerError, "reminder run failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"date":         report.DateKey,
		"reminderTime": report.ReminderTime,
		"total":        report.Total,
		"scheduled":    report.Scheduled,
		"skipped":      report.Skipped,
		"errors":       report.Errored,
	})
}

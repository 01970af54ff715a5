package handlers

import (
	"fmt"
	"html"
	"log"
	"net/http"
	"strconv"
	"time"

	"attendly/internal/auth"
	"attendly/internal/config"
	"attendly/internal/models"
	"attendly/internal/utils"

	"github.com/gin-gonic/gin"
)

// Attendance links are opened from chat clients that render non-200 pages
// poorly, so both gates always answer 200 with the outcome in the body.
const pageTemplate = `<!DOCTYPE html>
<html>
<head><title>%s</title><meta name="viewport" content="width=device-width, initial-scale=1"></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4em;">
<h2>%s</h2>
<p>%s</p>
</body>
</html>`

func respondPage(c *gin.Context, title, message string) {
	body := fmt.Sprintf(pageTemplate, html.EscapeString(title), html.EscapeString(title), html.EscapeString(message))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
}

// verifySignedRequest runs the two gates shared by check-in and checkout:
// token verification, then the office-network allowlist. It writes the
// rejection page itself and reports whether the caller may proceed.
func (h *Handler) verifySignedRequest(c *gin.Context, action auth.Action) (string, bool) {
	subject := c.Query("subject")
	signature := c.Query("signature")
	issuedAt, parseErr := strconv.ParseInt(c.Query("issuedAt"), 10, 64)

	if subject == "" || signature == "" || parseErr != nil ||
		!h.links.Verify(action, subject, issuedAt, signature) {
		respondPage(c, "Link invalid", "This link is invalid or has expired. Please request a fresh one.")
		return "", false
	}

	address := utils.GetCallerAddress(c)
	if !h.gate.IsAllowed(address) {
		respondPage(c, "Not on office network",
			fmt.Sprintf("Your network address (%s) is not recognized as the office network.", address))
		return "", false
	}

	return subject, true
}

// CheckIn handles GET /checkin. On the first claim of the day it also
// cancels the member's pending reminder and announces the check-in.
func (h *Handler) CheckIn(c *gin.Context) {
	subject, ok := h.verifySignedRequest(c, auth.ActionCheckIn)
	if !ok {
		return
	}

	displayName, err := h.provider.LookupDisplayName(c.Request.Context(), subject)
	if err != nil {
		// Cosmetic only; the claim proceeds under the subject id.
		log.Printf("Failed to look up display name for %s: %v", subject, err)
		displayName = subject
	}

	now := time.Now()
	dateKey := config.DateKey(now)

	result, err := h.ledger.ClaimCheckIn(dateKey, subject, displayName, now)
	if err != nil {
		log.Printf("Check-in claim failed for %s on %s: %v", subject, dateKey, err)
		respondPage(c, "Something went wrong", "Could not record your check-in. Please try again.")
		return
	}

	if !result.Created {
		respondPage(c, "Already checked in",
			fmt.Sprintf("You already checked in at %s.", result.Record.CheckInTime))
		return
	}

	// The check-in is durably recorded; from here on nothing may fail the
	// response. The reminder can still fire if Slack delivers it before the
	// cancellation lands — accepted best-effort race.
	h.cancelPendingReminder(c, dateKey, subject)

	announcement := fmt.Sprintf("%s checked in at %s", displayName, result.Record.CheckInTime)
	if err := h.provider.PostMessage(c.Request.Context(), h.cfg.AnnounceChannelID, announcement); err != nil {
		log.Printf("Failed to announce check-in for %s: %v", subject, err)
	}

	respondPage(c, "Checked in", fmt.Sprintf("Check-in recorded at %s. Have a great day!", result.Record.CheckInTime))
}

// cancelPendingReminder cancels today's scheduled reminder for the subject,
// if one exists. Errors are logged and swallowed.
func (h *Handler) cancelPendingReminder(c *gin.Context, dateKey, subject string) {
	entry, err := h.queue.Find(dateKey, subject)
	if err != nil {
		log.Printf("Failed to look up reminder for %s on %s: %v", subject, dateKey, err)
		return
	}
	if entry == nil || entry.Status != models.ReminderStatusScheduled {
		return
	}

	if err := h.provider.CancelScheduledMessage(c.Request.Context(), entry.ChannelID, entry.MessageHandle); err != nil {
		log.Printf("Failed to cancel scheduled reminder for %s: %v", subject, err)
		return
	}
	if err := h.queue.SetStatus(dateKey, subject, models.ReminderStatusCancelled); err != nil {
		log.Printf("Failed to mark reminder cancelled for %s: %v", subject, err)
	}
}

// CheckOut handles GET /checkout.
func (h *Handler) CheckOut(c *gin.Context) {
	subject, ok := h.verifySignedRequest(c, auth.ActionCheckOut)
	if !ok {
		return
	}

	now := time.Now()
	dateKey := config.DateKey(now)

	result, err := h.ledger.ClaimCheckOut(dateKey, subject, now)
	if err != nil {
		log.Printf("Checkout claim failed for %s on %s: %v", subject, dateKey, err)
		respondPage(c, "Something went wrong", "Could not record your checkout. Please try again.")
		return
	}

	if !result.Eligible {
		respondPage(c, "No check-in found", "No check-in found for today. Please check in first.")
		return
	}

	if result.AlreadyDone {
		respondPage(c, "Already checked out",
			fmt.Sprintf("You already checked out at %s (total: %s).",
				result.Record.CheckOutTime, result.Record.DurationString()))
		return
	}

	announcement := fmt.Sprintf("%s checked out at %s after %s",
		result.Record.DisplayName, result.Record.CheckOutTime, result.Record.DurationString())
	if err := h.provider.PostMessage(c.Request.Context(), h.cfg.AnnounceChannelID, announcement); err != nil {
		log.Printf("Failed to announce checkout for %s: %v", subject, err)
	}

	respondPage(c, "Checked out",
		fmt.Sprintf("Checkout recorded at %s. Time in office: %s.",
			result.Record.CheckOutTime, result.Record.DurationString()))
}

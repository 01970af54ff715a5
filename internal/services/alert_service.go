package services

import (
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// AlertService emails the ops inbox when a scheduler run ends with errors.
type AlertService struct {
	client    *sendgrid.Client
	fromEmail string
	toEmail   string
}

// NewAlertService builds the alert sender. Returns nil when the API key or
// either address is missing, which disables alerting.
func NewAlertService(apiKey, fromEmail, toEmail string) *AlertService {
	if apiKey == "" || fromEmail == "" || toEmail == "" {
		return nil
	}
	return &AlertService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		toEmail:   toEmail,
	}
}

// SendRunAlert reports a run's failures to the ops inbox.
func (s *AlertService) SendRunAlert(report *RunReport) error {
	from := mail.NewEmail("Attendly", s.fromEmail)
	to := mail.NewEmail("Ops", s.toEmail)
	subject := fmt.Sprintf("Reminder run %s: %d of %d members errored", report.DateKey, report.Errored, report.Total)

	var lines []string
	for member, msg := range report.MemberErrors {
		lines = append(lines, fmt.Sprintf("%s: %s", member, msg))
	}
	plainContent := fmt.Sprintf("Run %s for %s (reminder time %s)\nscheduled=%d skipped=%d errored=%d\n\n%s",
		report.RunID, report.DateKey, report.ReminderTime,
		report.Scheduled, report.Skipped, report.Errored, strings.Join(lines, "\n"))
	htmlContent := fmt.Sprintf("<p>Run %s for %s (reminder time %s)</p><p>scheduled=%d skipped=%d errored=%d</p><pre>%s</pre>",
		report.RunID, report.DateKey, report.ReminderTime,
		report.Scheduled, report.Skipped, report.Errored, strings.Join(lines, "\n"))

	message := mail.NewSingleEmail(from, subject, to, plainContent, htmlContent)
	response, err := s.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send alert email: %d", response.StatusCode)
	}
	return nil
}

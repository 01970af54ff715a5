package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"attendly/internal/config"
	"attendly/internal/models"
	"attendly/internal/store"
)

// reminderText is the fixed payload delivered to members who have not
// checked in by the reminder time.
const reminderText = "Good morning! You haven't checked in yet today. Please check in when you reach the office."

// RunReport aggregates one scheduler run's outcome.
type RunReport struct {
	RunID        string
	DateKey      string
	ReminderTime string
	Total        int
	Scheduled    int
	Skipped      int
	Errored      int
	MemberErrors map[string]string
}

// ReminderScheduler runs the daily job that schedules a check-in reminder
// DM for every roster member who doesn't already have one queued today.
// Delivery timing is owned entirely by the provider's own scheduling; this
// job only books and records the deliveries.
type ReminderScheduler struct {
	queue           *store.ReminderQueueStore
	settings        *store.SettingsStore
	runs            *store.RunLogStore
	provider        Provider
	alerts          *AlertService
	rosterChannelID string
	pause           time.Duration
	now             func() time.Time
}

// NewReminderScheduler wires the scheduler. alerts may be nil when ops
// alerting is not configured.
func NewReminderScheduler(queue *store.ReminderQueueStore, settings *store.SettingsStore, runs *store.RunLogStore,
	provider Provider, alerts *AlertService, rosterChannelID string, pause time.Duration) *ReminderScheduler {
	return &ReminderScheduler{
		queue:           queue,
		settings:        settings,
		runs:            runs,
		provider:        provider,
		alerts:          alerts,
		rosterChannelID: rosterChannelID,
		pause:           pause,
		now:             time.Now,
	}
}

// Run executes one scheduling pass over the roster. One member's failure
// never aborts the run; failures are collected into the report.
func (s *ReminderScheduler) Run(ctx context.Context) (*RunReport, error) {
	now := s.now().In(config.Location)
	dateKey := now.Format("2006-01-02")

	reminderTime, err := s.settings.ReminderTime()
	if err != nil {
		return nil, err
	}
	target, err := reminderInstant(dateKey, reminderTime)
	if err != nil {
		return nil, err
	}

	// Entries from earlier days still marked scheduled have fired by now;
	// reflect that before booking today's batch.
	if flipped, err := s.queue.MarkSentBefore(now); err != nil {
		log.Printf("Failed to reconcile delivered reminders: %v", err)
	} else if flipped > 0 {
		log.Printf("Marked %d previously scheduled reminders as sent", flipped)
	}

	members, err := s.provider.ListChannelMembers(ctx, s.rosterChannelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster members: %w", err)
	}

	report := &RunReport{
		DateKey:      dateKey,
		ReminderTime: reminderTime,
		Total:        len(members),
		MemberErrors: make(map[string]string),
	}

	for i, member := range members {
		// Fixed pause between members for provider rate limits only.
		if i > 0 && s.pause > 0 {
			time.Sleep(s.pause)
		}

		existing, err := s.queue.Find(dateKey, member)
		if err != nil {
			s.recordMemberError(report, member, err)
			continue
		}
		if existing != nil {
			// Already booked today, or already decided (a decided entry
			// never re-enters the scheduled state).
			report.Skipped++
			continue
		}

		if err := s.scheduleFor(ctx, dateKey, member, target); err != nil {
			s.recordMemberError(report, member, err)
			continue
		}
		report.Scheduled++
	}

	s.persistRunLog(report)

	if report.Errored > 0 && s.alerts != nil {
		if err := s.alerts.SendRunAlert(report); err != nil {
			log.Printf("Failed to send scheduler alert email: %v", err)
		}
	}

	log.Printf("Reminder run for %s at %s: %d total, %d scheduled, %d skipped, %d errored",
		report.DateKey, report.ReminderTime, report.Total, report.Scheduled, report.Skipped, report.Errored)
	return report, nil
}

func (s *ReminderScheduler) scheduleFor(ctx context.Context, dateKey, member string, target time.Time) error {
	channelID, err := s.provider.OpenDirectChannel(ctx, member)
	if err != nil {
		return err
	}

	handle, err := s.provider.ScheduleMessage(ctx, channelID, reminderText, target.Unix())
	if err != nil {
		return err
	}

	return s.queue.Upsert(&models.ReminderQueueEntry{
		DateKey:       dateKey,
		SubjectID:     member,
		ChannelID:     channelID,
		MessageHandle: handle,
		TargetEpoch:   target.Unix(),
		Status:        models.ReminderStatusScheduled,
	})
}

func (s *ReminderScheduler) recordMemberError(report *RunReport, member string, err error) {
	log.Printf("Failed to schedule reminder for %s: %v", member, err)
	report.Errored++
	report.MemberErrors[member] = err.Error()
}

func (s *ReminderScheduler) persistRunLog(report *RunReport) {
	memberErrors, err := json.Marshal(report.MemberErrors)
	if err != nil {
		memberErrors = []byte("{}")
	}

	runLog := &models.SchedulerRunLog{
		DateKey:      report.DateKey,
		ReminderTime: report.ReminderTime,
		Total:        report.Total,
		Scheduled:    report.Scheduled,
		Skipped:      report.Skipped,
		Errored:      report.Errored,
		MemberErrors: memberErrors,
	}
	if err := s.runs.Record(runLog); err != nil {
		// The run itself succeeded; losing the audit row is not fatal.
		log.Printf("Failed to persist scheduler run log: %v", err)
		return
	}
	report.RunID = runLog.ID
}

// reminderInstant converts the configured "HH:mm" office-local time into an
// absolute instant on the given date.
func reminderInstant(dateKey, reminderTime string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", dateKey+" "+reminderTime, config.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reminder time %q: %w", reminderTime, err)
	}
	return t, nil
}

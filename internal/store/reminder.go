package store

import (
	"errors"
	"fmt"
	"time"

	"attendly/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrEntryNotFound is returned when a status change targets a key with no
// queue entry.
var ErrEntryNotFound = errors.New("reminder queue entry not found")

// ReminderQueueStore is the durable queue of scheduled-reminder attempts,
// one entry per (date_key, subject_id). Entries are never deleted; the
// table doubles as an audit trail.
type ReminderQueueStore struct {
	db *gorm.DB
}

func NewReminderQueueStore(db *gorm.DB) *ReminderQueueStore {
	return &ReminderQueueStore{db: db}
}

// Find returns the entry for the key, or nil if none exists.
func (s *ReminderQueueStore) Find(dateKey, subjectID string) (*models.ReminderQueueEntry, error) {
	var entry models.ReminderQueueEntry
	err := s.db.Where("date_key = ? AND subject_id = ?", dateKey, subjectID).First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up reminder entry: %w", err)
	}
	return &entry, nil
}

// Upsert inserts the entry or, if one exists for the key, updates its
// delivery fields in place. The update is guarded on status='scheduled':
// a decided entry (cancelled or sent) is never pulled back to scheduled,
// so re-running the scheduler over a decided key is a no-op.
func (s *ReminderQueueStore) Upsert(entry *models.ReminderQueueEntry) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date_key"}, {Name: "subject_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"channel_id":     entry.ChannelID,
			"message_handle": entry.MessageHandle,
			"target_epoch":   entry.TargetEpoch,
			"updated_at":     time.Now(),
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: "status", Value: models.ReminderStatusScheduled},
		}},
	}).Create(entry).Error
	if err != nil {
		return fmt.Errorf("failed to upsert reminder entry: %w", err)
	}
	return nil
}

// SetStatus moves the entry for the key out of the scheduled state. It
// returns ErrEntryNotFound if no entry exists. Flipping an entry that was
// already decided is a no-op, preserving status monotonicity.
func (s *ReminderQueueStore) SetStatus(dateKey, subjectID, status string) error {
	entry, err := s.Find(dateKey, subjectID)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrEntryNotFound
	}

	err = s.db.Model(&models.ReminderQueueEntry{}).
		Where("date_key = ? AND subject_id = ? AND status = ?", dateKey, subjectID, models.ReminderStatusScheduled).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
	if err != nil {
		return fmt.Errorf("failed to update reminder status: %w", err)
	}
	return nil
}

// MarkSentBefore flips still-scheduled entries whose delivery instant has
// passed to sent. The provider fires scheduled messages itself and offers
// no delivery callback, so the flip happens lazily on the next run.
func (s *ReminderQueueStore) MarkSentBefore(cutoff time.Time) (int64, error) {
	result := s.db.Model(&models.ReminderQueueEntry{}).
		Where("status = ? AND target_epoch < ?", models.ReminderStatusScheduled, cutoff.Unix()).
		Updates(map[string]interface{}{"status": models.ReminderStatusSent, "updated_at": time.Now()})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark delivered reminders: %w", result.Error)
	}
	return result.RowsAffected, nil
}

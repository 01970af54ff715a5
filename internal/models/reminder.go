package models

import (
	"time"

	"gorm.io/gorm"
)

// Reminder lifecycle statuses. Transitions are monotonic: a row leaves
// "scheduled" for "cancelled" or "sent" and never goes back.
const (
	ReminderStatusScheduled = "scheduled"
	ReminderStatusCancelled = "cancelled"
	ReminderStatusSent      = "sent"
)

// ReminderQueueEntry records one scheduled-reminder attempt per
// (date_key, subject_id). Rows are an audit trail and are never deleted.
type ReminderQueueEntry struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	DateKey   string `gorm:"size:10;not null;uniqueIndex:idx_reminder_day_subject;index" json:"date_key"`
	SubjectID string `gorm:"size:32;not null;uniqueIndex:idx_reminder_day_subject" json:"subject_id"`

	// DM channel the provider will deliver into, and the provider's handle
	// for the scheduled message (needed to cancel it).
	ChannelID     string `gorm:"size:32;not null" json:"channel_id"`
	MessageHandle string `gorm:"size:64;not null" json:"message_handle"`

	// Absolute delivery instant, epoch seconds.
	TargetEpoch int64  `gorm:"not null" json:"target_epoch"`
	Status      string `gorm:"size:10;not null;default:'scheduled';index" json:"status"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Decided reports whether the entry has left the scheduled state.
func (e *ReminderQueueEntry) Decided() bool {
	return e.Status != ReminderStatusScheduled
}

// BeforeCreate hook for reminder queue entries
func (e *ReminderQueueEntry) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = now
	}
	if e.Status == "" {
		e.Status = ReminderStatusScheduled
	}
	return nil
}

// TableName specifies the table name for the ReminderQueueEntry model
func (ReminderQueueEntry) TableName() string {
	return "reminder_queue"
}

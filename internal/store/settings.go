package store

import (
	"fmt"
	"time"

	"attendly/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// settingsRowID is the single row holding the reminder time.
const settingsRowID = 1

// SettingsStore persists the configured daily reminder time-of-day.
type SettingsStore struct {
	db       *gorm.DB
	fallback string
}

// NewSettingsStore creates a settings store that reports fallback until an
// admin persists a value.
func NewSettingsStore(db *gorm.DB, fallback string) *SettingsStore {
	return &SettingsStore{db: db, fallback: fallback}
}

// ReminderTime returns the configured "HH:mm" reminder time.
func (s *SettingsStore) ReminderTime() (string, error) {
	var setting models.ReminderSetting
	err := s.db.First(&setting, settingsRowID).Error
	if err == gorm.ErrRecordNotFound {
		return s.fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read reminder setting: %w", err)
	}
	return setting.ReminderTime, nil
}

// SetReminderTime persists a new "HH:mm" reminder time. Format validation
// happens at the handler boundary.
func (s *SettingsStore) SetReminderTime(value string) error {
	setting := models.ReminderSetting{
		ID:           settingsRowID,
		ReminderTime: value,
		UpdatedAt:    time.Now(),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"reminder_time", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return fmt.Errorf("failed to save reminder setting: %w", err)
	}
	return nil
}

package models

import "time"

// ReminderSetting holds the configured daily reminder time-of-day as an
// office-local "HH:mm" string. A single row (ID 1) is used.
type ReminderSetting struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ReminderTime string    `gorm:"size:5;not null" json:"reminder_time"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

// TableName specifies the table name for the ReminderSetting model
func (ReminderSetting) TableName() string {
	return "reminder_setting"
}

// UpdateReminderSettingRequest is the admin payload for changing the
// daily reminder time.
type UpdateReminderSettingRequest struct {
	ReminderTime string `json:"reminderTime" binding:"required"`
}

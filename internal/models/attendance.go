package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// AttendanceRecord is one attendance row per (date_key, subject_id). The row
// is created by the first check-in of the day and only ever gains checkout
// fields afterwards; check-in values are never overwritten.
type AttendanceRecord struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	DateKey     string `gorm:"size:10;not null;uniqueIndex:idx_attendance_day_subject;index" json:"date_key"`
	SubjectID   string `gorm:"size:32;not null;uniqueIndex:idx_attendance_day_subject" json:"subject_id"`
	DisplayName string `gorm:"size:100" json:"display_name"`

	// Formatted office-local clock times shown back to users.
	CheckInTime  string `gorm:"size:8" json:"check_in_time"`
	CheckOutTime string `gorm:"size:8" json:"check_out_time"`

	// Absolute instants backing the duration computation.
	CheckInAt  time.Time `gorm:"not null" json:"check_in_at"`
	CheckOutAt time.Time `json:"check_out_at"`

	// Seconds between first check-in and last checkout, filled at checkout.
	TotalSeconds int64 `gorm:"not null;default:0" json:"total_seconds"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// CheckedOut reports whether the checkout half of the row has been filled.
func (r *AttendanceRecord) CheckedOut() bool {
	return r.CheckOutTime != ""
}

// DurationString renders the recorded total as e.g. "8h 32m".
func (r *AttendanceRecord) DurationString() string {
	d := time.Duration(r.TotalSeconds) * time.Second
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// BeforeCreate hook for attendance records
func (r *AttendanceRecord) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = now
	}
	return nil
}

// BeforeSave hook for attendance records
func (r *AttendanceRecord) BeforeSave(tx *gorm.DB) error {
	r.UpdatedAt = time.Now()
	return nil
}

// TableName specifies the table name for the AttendanceRecord model
func (AttendanceRecord) TableName() string {
	return "attendance_record"
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SchedulerRunLog is the audit row persisted after every reminder-scheduler
// run. MemberErrors maps subject id to the failure message for members that
// errored during the run.
type SchedulerRunLog struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	DateKey      string         `gorm:"size:10;not null;index" json:"date_key"`
	ReminderTime string         `gorm:"size:5;not null" json:"reminder_time"`
	Total        int            `gorm:"not null" json:"total"`
	Scheduled    int            `gorm:"not null" json:"scheduled"`
	Skipped      int            `gorm:"not null" json:"skipped"`
	Errored      int            `gorm:"not null" json:"errored"`
	MemberErrors datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"member_errors"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
}

// BeforeCreate hook assigns the run id
func (l *SchedulerRunLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for the SchedulerRunLog model
func (SchedulerRunLog) TableName() string {
	return "scheduler_run_log"
}

package store

import (
	"fmt"
	"time"

	"attendly/internal/config"
	"attendly/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttendanceLedger is the durable record of one attendance row per
// (date_key, subject_id). All writes are single conditional operations so
// duplicate requests (a double-clicked link) cannot corrupt a row.
type AttendanceLedger struct {
	db *gorm.DB
}

func NewAttendanceLedger(db *gorm.DB) *AttendanceLedger {
	return &AttendanceLedger{db: db}
}

// CheckInResult reports the outcome of a check-in claim.
type CheckInResult struct {
	Created bool
	Record  models.AttendanceRecord
}

// CheckOutResult reports the outcome of a checkout claim.
type CheckOutResult struct {
	Eligible    bool
	AlreadyDone bool
	Record      models.AttendanceRecord
}

// ClaimCheckIn atomically claims today's attendance row. If the row already
// exists the existing record is returned with Created=false and nothing is
// mutated; check-in time is written at most once per key.
func (l *AttendanceLedger) ClaimCheckIn(dateKey, subjectID, displayName string, now time.Time) (*CheckInResult, error) {
	var existing models.AttendanceRecord
	err := l.db.Where("date_key = ? AND subject_id = ?", dateKey, subjectID).First(&existing).Error
	if err == nil {
		return &CheckInResult{Created: false, Record: existing}, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to look up attendance record: %w", err)
	}

	record := models.AttendanceRecord{
		DateKey:     dateKey,
		SubjectID:   subjectID,
		DisplayName: displayName,
		CheckInTime: now.In(config.Location).Format("15:04"),
		CheckInAt:   now,
	}

	// DoNothing on the (date_key, subject_id) unique index: if a concurrent
	// duplicate request won the insert race, zero rows are affected and the
	// winner's row is returned instead.
	result := l.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date_key"}, {Name: "subject_id"}},
		DoNothing: true,
	}).Create(&record)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to create attendance record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if err := l.db.Where("date_key = ? AND subject_id = ?", dateKey, subjectID).First(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to re-read attendance record after insert race: %w", err)
		}
		return &CheckInResult{Created: false, Record: existing}, nil
	}

	return &CheckInResult{Created: true, Record: record}, nil
}

// ClaimCheckOut fills the checkout half of today's row. Checkout without a
// prior check-in is rejected (Eligible=false, no row is created). A second
// checkout observes AlreadyDone and performs no mutation.
func (l *AttendanceLedger) ClaimCheckOut(dateKey, subjectID string, now time.Time) (*CheckOutResult, error) {
	var record models.AttendanceRecord
	err := l.db.Where("date_key = ? AND subject_id = ?", dateKey, subjectID).First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return &CheckOutResult{Eligible: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up attendance record: %w", err)
	}

	if record.CheckedOut() {
		return &CheckOutResult{Eligible: true, AlreadyDone: true, Record: record}, nil
	}

	total := now.Sub(record.CheckInAt)
	if total < 0 {
		total = 0
	}

	updates := map[string]interface{}{
		"check_out_time": now.In(config.Location).Format("15:04"),
		"check_out_at":   now,
		"total_seconds":  int64(total.Seconds()),
		"updated_at":     time.Now(),
	}

	// Conditional on checkout still being empty so a concurrent duplicate
	// cannot overwrite the first checkout.
	result := l.db.Model(&models.AttendanceRecord{}).
		Where("id = ? AND (check_out_time = '' OR check_out_time IS NULL)", record.ID).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to record checkout: %w", result.Error)
	}

	if err := l.db.First(&record, record.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to re-read attendance record: %w", err)
	}
	if result.RowsAffected == 0 {
		return &CheckOutResult{Eligible: true, AlreadyDone: true, Record: record}, nil
	}
	return &CheckOutResult{Eligible: true, Record: record}, nil
}

package store

import (
	"fmt"

	"attendly/internal/models"

	"gorm.io/gorm"
)

// RunLogStore persists one audit row per scheduler run.
type RunLogStore struct {
	db *gorm.DB
}

func NewRunLogStore(db *gorm.DB) *RunLogStore {
	return &RunLogStore{db: db}
}

// Record saves the run log and fills in its generated id.
func (s *RunLogStore) Record(runLog *models.SchedulerRunLog) error {
	if err := s.db.Create(runLog).Error; err != nil {
		return fmt.Errorf("failed to record scheduler run: %w", err)
	}
	return nil
}

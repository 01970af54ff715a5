package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"attendly/internal/config"
	"attendly/internal/models"
	"attendly/internal/store"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.AttendanceRecord{},
		&models.ReminderQueueEntry{},
		&models.ReminderSetting{},
		&models.SchedulerRunLog{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

type scheduledCall struct {
	channelID string
	text      string
	atEpoch   int64
}

// fakeProvider implements Provider for tests, recording calls and failing
// on demand per subject.
type fakeProvider struct {
	members   []string
	failFor   map[string]bool
	scheduled []scheduledCall
	posts     []string
	cancels   int
}

func (f *fakeProvider) OpenDirectChannel(ctx context.Context, subjectID string) (string, error) {
	if f.failFor[subjectID] {
		return "", fmt.Errorf("provider unavailable for %s", subjectID)
	}
	return "D-" + subjectID, nil
}

func (f *fakeProvider) ScheduleMessage(ctx context.Context, channelID, text string, atEpochSeconds int64) (string, error) {
	f.scheduled = append(f.scheduled, scheduledCall{channelID: channelID, text: text, atEpoch: atEpochSeconds})
	return fmt.Sprintf("Q%d", len(f.scheduled)), nil
}

func (f *fakeProvider) CancelScheduledMessage(ctx context.Context, channelID, messageHandle string) error {
	f.cancels++
	return nil
}

func (f *fakeProvider) PostMessage(ctx context.Context, channelID, text string) error {
	f.posts = append(f.posts, text)
	return nil
}

func (f *fakeProvider) LookupDisplayName(ctx context.Context, subjectID string) (string, error) {
	return "Name of " + subjectID, nil
}

func (f *fakeProvider) ListChannelMembers(ctx context.Context, channelID string) ([]string, error) {
	return f.members, nil
}

func newTestScheduler(t *testing.T, db *gorm.DB, provider Provider) (*ReminderScheduler, *store.ReminderQueueStore) {
	t.Helper()
	queue := store.NewReminderQueueStore(db)
	settings := store.NewSettingsStore(db, "09:30")
	runs := store.NewRunLogStore(db)
	s := NewReminderScheduler(queue, settings, runs, provider, nil, "C-ROSTER", 0)
	s.now = func() time.Time {
		return time.Date(2025, 6, 2, 8, 0, 0, 0, config.Location)
	}
	return s, queue
}

func TestRunSchedulesRosterAndSkipsExisting(t *testing.T) {
	db := openTestDB(t)
	provider := &fakeProvider{members: []string{"U1", "U2"}}
	s, queue := newTestScheduler(t, db, provider)

	// U1 already has a scheduled entry for today.
	if err := queue.Upsert(&models.ReminderQueueEntry{
		DateKey: "2025-06-02", SubjectID: "U1", ChannelID: "D-U1",
		MessageHandle: "Q0", TargetEpoch: 9999, Status: models.ReminderStatusScheduled,
	}); err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if report.Total != 2 || report.Scheduled != 1 || report.Skipped != 1 || report.Errored != 0 {
		t.Fatalf("report = %+v, want total=2 scheduled=1 skipped=1 errors=0", report)
	}
	if len(provider.scheduled) != 1 {
		t.Fatalf("provider.scheduled = %d calls, want 1", len(provider.scheduled))
	}

	// Delivery instant is 09:30 office time on the run's date.
	wantTarget := time.Date(2025, 6, 2, 9, 30, 0, 0, config.Location).Unix()
	if provider.scheduled[0].atEpoch != wantTarget {
		t.Fatalf("scheduled at %d, want %d", provider.scheduled[0].atEpoch, wantTarget)
	}

	entry, err := queue.Find("2025-06-02", "U2")
	if err != nil || entry == nil {
		t.Fatalf("U2 entry missing after run: %v", err)
	}
	if entry.Status != models.ReminderStatusScheduled || entry.ChannelID != "D-U2" {
		t.Fatalf("U2 entry = %+v", entry)
	}
}

func TestRunIsolatesMemberFailures(t *testing.T) {
	db := openTestDB(t)
	provider := &fakeProvider{
		members: []string{"U1", "U2", "U3"},
		failFor: map[string]bool{"U2": true},
	}
	s, queue := newTestScheduler(t, db, provider)

	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if report.Scheduled != 2 || report.Errored != 1 {
		t.Fatalf("report = %+v, want scheduled=2 errors=1", report)
	}
	if _, ok := report.MemberErrors["U2"]; !ok {
		t.Fatalf("member errors missing U2: %v", report.MemberErrors)
	}

	// Members after the failing one were still processed.
	if entry, _ := queue.Find("2025-06-02", "U3"); entry == nil {
		t.Fatal("U3 was not scheduled after U2 failed")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	provider := &fakeProvider{members: []string{"U1"}}
	s, _ := newTestScheduler(t, db, provider)

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if report.Scheduled != 0 || report.Skipped != 1 {
		t.Fatalf("second run report = %+v, want scheduled=0 skipped=1", report)
	}
	if len(provider.scheduled) != 1 {
		t.Fatalf("provider booked %d deliveries across two runs, want 1", len(provider.scheduled))
	}
}

func TestRunReconcilesDeliveredEntries(t *testing.T) {
	db := openTestDB(t)
	provider := &fakeProvider{members: []string{"U1"}}
	s, queue := newTestScheduler(t, db, provider)

	// Yesterday's entry fired long ago but was never reconciled.
	if err := queue.Upsert(&models.ReminderQueueEntry{
		DateKey: "2025-06-01", SubjectID: "U1", ChannelID: "D-U1",
		MessageHandle: "Q0",
		TargetEpoch:   time.Date(2025, 6, 1, 9, 30, 0, 0, config.Location).Unix(),
		Status:        models.ReminderStatusScheduled,
	}); err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	old, _ := queue.Find("2025-06-01", "U1")
	if old.Status != models.ReminderStatusSent {
		t.Fatalf("stale entry status = %q, want sent", old.Status)
	}
}

func TestRunPersistsRunLog(t *testing.T) {
	db := openTestDB(t)
	provider := &fakeProvider{members: []string{"U1"}}
	s, _ := newTestScheduler(t, db, provider)

	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.RunID == "" {
		t.Fatal("run id not assigned")
	}

	var runLog models.SchedulerRunLog
	if err := db.First(&runLog, "id = ?", report.RunID).Error; err != nil {
		t.Fatalf("run log not persisted: %v", err)
	}
	if runLog.DateKey != "2025-06-02" || runLog.Scheduled != 1 {
		t.Fatalf("run log = %+v", runLog)
	}
}

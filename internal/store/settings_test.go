package store

import "testing"

func TestReminderTimeFallsBackToDefault(t *testing.T) {
	settings := NewSettingsStore(openTestDB(t), "09:30")

	got, err := settings.ReminderTime()
	if err != nil {
		t.Fatalf("reminder time: %v", err)
	}
	if got != "09:30" {
		t.Fatalf("reminder time = %q, want fallback 09:30", got)
	}
}

func TestSetReminderTimePersists(t *testing.T) {
	settings := NewSettingsStore(openTestDB(t), "09:30")

	if err := settings.SetReminderTime("08:45"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := settings.ReminderTime(); got != "08:45" {
		t.Fatalf("reminder time = %q, want 08:45", got)
	}

	// Overwrites, single-row table.
	if err := settings.SetReminderTime("10:15"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got, _ := settings.ReminderTime(); got != "10:15" {
		t.Fatalf("reminder time = %q, want 10:15", got)
	}
}

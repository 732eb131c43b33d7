package report

import (
	"testing"
	"time"
)

func TestGenerateSchedule(t *testing.T) {
	// Wednesday
	start := time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC)
	rows, err := GenerateSchedule(start, 2, 5)
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}
	if len(rows) != 10 {
		t.Fatalf("len(rows) = %d, want 10", len(rows))
	}

	wantDates := []string{
		"2025-07-02", "2025-07-03", "2025-07-04", "2025-07-05", "2025-07-07",
		"2025-07-14", "2025-07-15", "2025-07-16", "2025-07-17", "2025-07-18",
	}
	for i, want := range wantDates {
		if rows[i].Date != want {
			t.Errorf("rows[%d].Date = %s, want %s", i, rows[i].Date, want)
		}
		if rows[i].Day == "Sunday" {
			t.Errorf("rows[%d] falls on a Sunday", i)
		}
	}
	if rows[0].Week != "Week 1" || rows[5].Week != "Week 2" {
		t.Errorf("week labels = %q, %q", rows[0].Week, rows[5].Week)
	}
	if rows[5].Day != "Monday" {
		t.Errorf("week 2 starts on %s, want Monday", rows[5].Day)
	}
}

func TestGenerateScheduleRejectsBadInput(t *testing.T) {
	start := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name        string
		weeks, days int
	}{
		{"no weeks", 0, 5},
		{"too many weeks", 53, 5},
		{"no days", 4, 0},
		{"seven days", 4, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := GenerateSchedule(start, tt.weeks, tt.days); err == nil {
				t.Error("GenerateSchedule() error = nil, want error")
			}
		})
	}
}

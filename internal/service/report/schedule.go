package report

import (
	"fmt"
	"time"

	models "reportdesk/internal/domain/models/report"
)

// ScheduleDateLayout is the date format stored in schedule rows.
const ScheduleDateLayout = "2006-01-02"

// GenerateSchedule lays out working days for the weekly overview. Sundays are
// skipped and each new week starts on the following Monday. Topics are left
// for the student.
func GenerateSchedule(start time.Time, weeks, daysPerWeek int) ([]models.ScheduleRow, error) {
	if weeks < 1 || weeks > 52 {
		return nil, fmt.Errorf("weeks must be between 1 and 52, got %d", weeks)
	}
	if daysPerWeek < 1 || daysPerWeek > 6 {
		return nil, fmt.Errorf("days per week must be between 1 and 6, got %d", daysPerWeek)
	}

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	rows := make([]models.ScheduleRow, 0, weeks*daysPerWeek)
	for w := 1; w <= weeks; w++ {
		for added := 0; added < daysPerWeek; {
			if day.Weekday() != time.Sunday {
				rows = append(rows, models.ScheduleRow{
					Week: fmt.Sprintf("Week %d", w),
					Date: day.Format(ScheduleDateLayout),
					Day:  day.Weekday().String(),
				})
				added++
			}
			day = day.AddDate(0, 0, 1)
		}
		for day.Weekday() != time.Monday {
			day = day.AddDate(0, 0, 1)
		}
	}
	return rows, nil
}

package render

import (
	"fmt"
	"io"

	models "reportdesk/internal/domain/models/report"

	"github.com/xuri/excelize/v2"
)

const scheduleSheet = "Weekly Overview"

// WriteScheduleWorkbook writes the weekly overview rows as an XLSX sheet
// with a bold header row.
func WriteScheduleWorkbook(w io.Writer, rows []models.ScheduleRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scheduleSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := []interface{}{"Week", "Date", "Day", "Topic"}
	if err := f.SetSheetRow(scheduleSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{row.Week, row.Date, row.Day, row.Topic}
		if err := f.SetSheetRow(scheduleSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetCellStyle(scheduleSheet, "A1", "D1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(scheduleSheet, "A", "C", 14); err != nil {
		return err
	}
	if err := f.SetColWidth(scheduleSheet, "D", "D", 60); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ReadScheduleWorkbook reads rows back from a workbook written by
// WriteScheduleWorkbook. The header row is skipped.
func ReadScheduleWorkbook(r io.Reader) ([]models.ScheduleRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	cells, err := f.GetRows(scheduleSheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	rows := make([]models.ScheduleRow, 0, len(cells))
	for i, c := range cells {
		if i == 0 {
			continue
		}
		c = append(c, make([]string, 4)...)
		rows = append(rows, models.ScheduleRow{Week: c[0], Date: c[1], Day: c[2], Topic: c[3]})
	}
	return rows, nil
}

package roster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"classroom-roster/db"
	"classroom-roster/logger"
	"classroom-roster/models"

	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Roster"

// ImportFromExcel appends one student per row of the first sheet (column A is
// the name, row 1 is a header). The classroom is created if missing and the
// whole batch is written once.
func (m *Manager) ImportFromExcel(ctx context.Context, className string, file io.Reader) (int, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return 0, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Logger.Warn().Err(err).Msg("Error closing excel file")
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return 0, errors.New("excel file does not contain any sheets")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return 0, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}

	var names []string
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			logger.Logger.Debug().Int("row", i+1).Msg("Skipping row with no name")
			continue
		}
		names = append(names, strings.TrimSpace(row[0]))
	}

	existing, err := m.store.GetClassroom(ctx, className)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		logger.Logger.Info().Str("class", className).Msg("Import target classroom does not exist, creating it")
		if _, err := m.store.AddClassroom(ctx, className); err != nil && !errors.Is(err, db.ErrClassroomExists) {
			return 0, fmt.Errorf("failed to create classroom %s: %w", className, err)
		}
	}

	_, err = m.store.UpdateClassroom(ctx, className, func(c *models.Classroom) error {
		if len(names) == 0 {
			return db.ErrNoChange
		}
		for _, name := range names {
			c.Students = append(c.Students, models.Student{
				ID:         m.newID(),
				Name:       name,
				Attendance: []models.AttendanceRecord{},
			})
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Logger.Info().Str("class", className).Int("count", len(names)).Msg("Imported students")
	return len(names), nil
}

// ExportToExcel writes the roster as a workbook with Name, ID and Present columns.
// A record counts as present when it is an object with "present": true.
func (m *Manager) ExportToExcel(ctx context.Context, className string, w io.Writer) error {
	students, err := m.LoadRoster(ctx, className)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &[]interface{}{"Name", "ID", "Present"}); err != nil {
		return err
	}
	for i, s := range students {
		present := 0
		for _, a := range s.Attendance {
			if gjson.GetBytes(a, "present").Bool() {
				present++
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{s.Name, s.ID, fmt.Sprintf("%d/%d", present, len(s.Attendance))}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}

	_, err = f.WriteTo(w)
	return err
}

// Package export writes the roster, shifts, time off and availability either as an
// XLSX workbook or as one JSON file per collection.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository"
	"github.com/xuri/excelize/v2"
)

const (
	SheetEmployees    = "Employees"
	SheetShifts       = "Shifts"
	SheetTimeOff      = "TimeOff"
	SheetAvailability = "Availability"
)

type Dataset struct {
	Employees      []*domain.Employee       `json:"employees"`
	Shifts         []*domain.Shift          `json:"shifts"`
	TimeOff        []*domain.TimeOffRequest `json:"timeOffRequests"`
	Availabilities []*domain.Availability   `json:"availabilities"`
}

// Load reads everything owned by employeeIDs. A nil slice means every employee.
func Load(repo repository.Repository, employeeIDs []string) (*Dataset, error) {
	var (
		employees []*domain.Employee
		err       error
	)
	if employeeIDs == nil {
		employees, err = repo.GetAllEmployees()
	} else {
		employees, err = repo.GetEmployeesByIDs(employeeIDs)
	}
	if err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}

	ids := make([]string, 0, len(employees))
	for _, e := range employees {
		ids = append(ids, e.ID)
	}

	ds := &Dataset{Employees: employees}
	if ds.Shifts, err = repo.GetShifts(ids); err != nil {
		return nil, fmt.Errorf("load shifts: %w", err)
	}
	if ds.TimeOff, err = repo.GetTimeOffRequests(ids); err != nil {
		return nil, fmt.Errorf("load time off: %w", err)
	}
	if ds.Availabilities, err = repo.GetAvailabilities(ids); err != nil {
		return nil, fmt.Errorf("load availabilities: %w", err)
	}
	return ds, nil
}

func (ds *Dataset) names() map[string]string {
	names := make(map[string]string, len(ds.Employees))
	for _, e := range ds.Employees {
		names[e.ID] = e.Name
	}
	return names
}

// WriteWorkbook renders one sheet per collection, header row first.
func WriteWorkbook(w io.Writer, ds *Dataset) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetEmployees); err != nil {
		return err
	}
	for _, sheet := range []string{SheetShifts, SheetTimeOff, SheetAvailability} {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}

	names := ds.names()

	employees := [][]any{{"ID", "Name", "Email", "Role", "Location", "Hourly Rate", "Eligible", "Active", "Manager", "Manager ID"}}
	for _, e := range ds.Employees {
		managerID := ""
		if e.ManagerID != nil {
			managerID = *e.ManagerID
		}
		employees = append(employees, []any{
			e.ID, e.Name, e.Email, e.Role, e.Location, e.HourlyRate.InexactFloat64(), e.Eligible, e.Active, e.IsManager, managerID,
		})
	}

	shifts := [][]any{{"ID", "Employee ID", "Employee", "Date", "Start", "End", "Location", "Status"}}
	for _, s := range ds.Shifts {
		shifts = append(shifts, []any{s.ID, s.EmployeeID, names[s.EmployeeID], s.Date, s.StartTime, s.EndTime, s.Location, string(s.Status)})
	}

	timeOff := [][]any{{"ID", "Employee ID", "Employee", "Start Date", "End Date", "Reason", "Status"}}
	for _, t := range ds.TimeOff {
		timeOff = append(timeOff, []any{t.ID, t.EmployeeID, names[t.EmployeeID], t.StartDate, t.EndDate, t.Reason, string(t.Status)})
	}

	availability := [][]any{{"Employee ID", "Employee", "Day Of Week", "Start", "End"}}
	for _, a := range ds.Availabilities {
		availability = append(availability, []any{a.EmployeeID, names[a.EmployeeID], a.DayOfWeek, a.StartTime, a.EndTime})
	}

	sheets := []struct {
		name string
		rows [][]any
	}{
		{SheetEmployees, employees},
		{SheetShifts, shifts},
		{SheetTimeOff, timeOff},
		{SheetAvailability, availability},
	}
	for _, sheet := range sheets {
		if err := writeRows(f, sheet.name, sheet.rows); err != nil {
			return fmt.Errorf("write %s sheet: %w", sheet.name, err)
		}
	}

	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes employees.json, shifts.json, timeOffRequests.json and availabilities.json into dir.
func WriteJSON(dir string, ds *Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	files := map[string]any{
		"employees.json":       ds.Employees,
		"shifts.json":          ds.Shifts,
		"timeOffRequests.json": ds.TimeOff,
		"availabilities.json":  ds.Availabilities,
	}
	for name, v := range files {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

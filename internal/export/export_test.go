package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seededRepository(t *testing.T) (*memory.Repository, *domain.Employee, *domain.Employee) {
	t.Helper()

	repo := memory.NewRepository()
	manager := &domain.Employee{Name: "Jordan Miles", Email: "jordan@example.com", IsManager: true, HourlyRate: decimal.NewFromInt(28)}
	require.NoError(t, repo.CreateEmployee(manager))
	barista := &domain.Employee{Name: "Priya Patel", Email: "priya@example.com", ManagerID: &manager.ID, HourlyRate: decimal.RequireFromString("18.5")}
	require.NoError(t, repo.CreateEmployee(barista))

	require.NoError(t, repo.CreateShift(&domain.Shift{EmployeeID: barista.ID, Date: "2024-05-20", StartTime: "08:00", EndTime: "14:00", Location: "Cambridge Cafe", Status: domain.ShiftStatusScheduled}))
	require.NoError(t, repo.CreateShift(&domain.Shift{EmployeeID: manager.ID, Date: "2024-05-21", StartTime: "09:00", EndTime: "17:00", Status: domain.ShiftStatusScheduled}))
	require.NoError(t, repo.CreateTimeOffRequest(&domain.TimeOffRequest{EmployeeID: barista.ID, StartDate: "2024-05-21", EndDate: "2024-05-23", Reason: "Family trip", Status: domain.TimeOffStatusApproved}))
	_, err := repo.UpsertAvailability(&domain.Availability{EmployeeID: barista.ID, DayOfWeek: 1, StartTime: "08:00", EndTime: "16:00"})
	require.NoError(t, err)

	return repo, manager, barista
}

func TestLoadScopesToEmployees(t *testing.T) {
	repo, _, barista := seededRepository(t)

	ds, err := Load(repo, []string{barista.ID})
	require.NoError(t, err)
	assert.Len(t, ds.Employees, 1)
	assert.Len(t, ds.Shifts, 1)
	assert.Len(t, ds.TimeOff, 1)
	assert.Len(t, ds.Availabilities, 1)

	all, err := Load(repo, nil)
	require.NoError(t, err)
	assert.Len(t, all.Employees, 2)
	assert.Len(t, all.Shifts, 2)
}

func TestWriteWorkbook(t *testing.T) {
	repo, _, _ := seededRepository(t)
	ds, err := Load(repo, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, ds))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetEmployees, SheetShifts, SheetTimeOff, SheetAvailability}, f.GetSheetList())

	employees, err := f.GetRows(SheetEmployees)
	require.NoError(t, err)
	require.Len(t, employees, 3)
	assert.Equal(t, "Name", employees[0][1])
	assert.Equal(t, "Jordan Miles", employees[1][1])
	assert.Equal(t, "18.5", employees[2][5])

	shifts, err := f.GetRows(SheetShifts)
	require.NoError(t, err)
	require.Len(t, shifts, 3)
	assert.Equal(t, "Priya Patel", shifts[1][2])
	assert.Equal(t, "2024-05-20", shifts[1][3])

	timeOff, err := f.GetRows(SheetTimeOff)
	require.NoError(t, err)
	require.Len(t, timeOff, 2)
	assert.Equal(t, "approved", timeOff[1][6])
}

func TestWriteJSON(t *testing.T) {
	repo, _, _ := seededRepository(t)
	ds, err := Load(repo, nil)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, WriteJSON(dir, ds))

	for _, name := range []string{"employees.json", "shifts.json", "timeOffRequests.json", "availabilities.json"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	data, err := os.ReadFile(filepath.Join(dir, "employees.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "passwordHash")

	var employees []map[string]any
	require.NoError(t, json.Unmarshal(data, &employees))
	assert.Len(t, employees, 2)
}

package handler

import (
	"net/http"
	"testing"

	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportSchedule(t *testing.T) {
	f := newFixture(t)
	f.addShift(f.alice.ID, "2024-06-04", "09:00", "17:00")
	f.addShift(f.carol.ID, "2024-06-04", "09:00", "17:00")
	require.NoError(t, f.repo.CreateTimeOffRequest(&domain.TimeOffRequest{
		EmployeeID: f.bob.ID, StartDate: "2024-07-01", EndDate: "2024-07-02", Status: domain.TimeOffStatusPending,
	}))

	res := f.do(http.MethodGet, "/export/schedule", f.login(f.manager.Email), nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	assert.Equal(t, xlsxContentType, res.Header().Get("Content-Type"))
	assert.Contains(t, res.Header().Get("Content-Disposition"), "attachment; filename=\"schedule-")

	wb, err := excelize.OpenReader(res.Body)
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	employees, err := wb.GetRows("Employees")
	require.NoError(t, err)
	assert.Len(t, employees, 4, "header plus manager and two reports")

	shifts, err := wb.GetRows("Shifts")
	require.NoError(t, err)
	assert.Len(t, shifts, 2, "header plus the one accessible shift")

	timeOff, err := wb.GetRows("TimeOff")
	require.NoError(t, err)
	assert.Len(t, timeOff, 2)
}

func TestExportScheduleRequiresManager(t *testing.T) {
	f := newFixture(t)

	res := f.do(http.MethodGet, "/export/schedule", f.login(f.alice.Email), nil)
	assert.Equal(t, http.StatusForbidden, res.Code)
}

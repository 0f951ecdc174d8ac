package mongodb

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shiftboard/shift-scheduler/backend/internal/config"
	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// newTestRepository connects to MONGODB_TEST_URI and uses a throwaway database.
func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	cfg := &config.Config{}
	cfg.Database.Name = fmt.Sprintf("shiftboard_test_%d", time.Now().UnixNano())
	cfg.Database.ConnectTimeout = 10
	cfg.Database.QueryTimeout = 10
	cfg.Database.TransactionTimeout = 20

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	require.NoError(t, err)

	repo := NewRepository(cfg, client)
	require.NoError(t, repo.EnsureIndexes())

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = repo.db.Drop(ctx)
		_ = repo.Close()
	})
	return repo
}

func TestEmployeeLifecycle(t *testing.T) {
	repo := newTestRepository(t)

	manager := &domain.Employee{Name: "Morgan Price", Email: "morgan@example.com", IsManager: true, Eligible: true, Active: true}
	require.NoError(t, repo.CreateEmployee(manager))
	assert.Len(t, manager.ID, 24)
	assert.Equal(t, int32(1), manager.Version)

	report := &domain.Employee{
		Name:       "Avery Stone",
		Email:      "avery@example.com",
		HourlyRate: decimal.RequireFromString("19.50"),
		ManagerID:  &manager.ID,
		Eligible:   true,
		Active:     true,
	}
	require.NoError(t, repo.CreateEmployee(report))

	err := repo.CreateEmployee(&domain.Employee{Name: "Dup", Email: "avery@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	ids, err := repo.GetManagedEmployeeIDs(manager.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{report.ID}, ids)

	got, err := repo.GetEmployeeByEmail("avery@example.com")
	require.NoError(t, err)
	assert.True(t, got.HourlyRate.Equal(decimal.RequireFromString("19.5")))

	got.Role = "Barista"
	require.NoError(t, repo.UpdateEmployee(got))
	assert.Equal(t, int32(2), got.Version)

	stale := *got
	stale.Version = 1
	assert.ErrorIs(t, repo.UpdateEmployee(&stale), repository.ErrEditConflict)

	inserted, err := repo.UpsertAvailability(&domain.Availability{EmployeeID: report.ID, DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"})
	require.NoError(t, err)
	assert.True(t, inserted)
	inserted, err = repo.UpsertAvailability(&domain.Availability{EmployeeID: report.ID, DayOfWeek: 1, StartTime: "10:00", EndTime: "18:00"})
	require.NoError(t, err)
	assert.False(t, inserted)

	availabilities, err := repo.GetAvailabilities([]string{report.ID})
	require.NoError(t, err)
	require.Len(t, availabilities, 1)
	assert.Equal(t, "10:00", availabilities[0].StartTime)

	require.NoError(t, repo.CreateShift(&domain.Shift{EmployeeID: report.ID, Date: "2025-01-06", StartTime: "09:00", EndTime: "17:00", Status: domain.ShiftStatusScheduled}))

	require.NoError(t, repo.DeleteEmployee(manager.ID))
	got, err = repo.GetEmployeeByID(report.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ManagerID)

	require.NoError(t, repo.DeleteEmployee(report.ID))
	shifts, err := repo.GetShifts([]string{report.ID})
	require.NoError(t, err)
	assert.Empty(t, shifts)

	_, err = repo.GetEmployeeByID(report.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetEmployeeByID("not-an-object-id")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTimeOffStatus(t *testing.T) {
	repo := newTestRepository(t)

	request := &domain.TimeOffRequest{EmployeeID: "e1", StartDate: "2025-02-01", EndDate: "2025-02-03", Status: domain.TimeOffStatusPending}
	require.NoError(t, repo.CreateTimeOffRequest(request))

	updated, err := repo.UpdateTimeOffStatus(request.ID, domain.TimeOffStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.TimeOffStatusApproved, updated.Status)

	require.NoError(t, repo.DeleteTimeOffRequest(request.ID))
	assert.ErrorIs(t, repo.DeleteTimeOffRequest(request.ID), repository.ErrNotFound)
}

func TestBackfillManagerScope(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	boss, err := repo.employees().InsertOne(ctx, map[string]any{"name": "Legacy Boss", "email": "boss@example.com", "role": "Staff", "managerId": nil})
	require.NoError(t, err)
	_, err = repo.employees().InsertOne(ctx, map[string]any{"name": "Legacy Staff", "email": "staff@example.com", "role": "Barista", "managerId": boss.InsertedID})
	require.NoError(t, err)
	_, err = repo.employees().InsertOne(ctx, map[string]any{"name": "Legacy Hire", "email": "hire@example.com", "role": "Employee"})
	require.NoError(t, err)

	updated, err := repo.BackfillManagerScope()
	require.NoError(t, err)
	assert.Equal(t, 3, updated)

	hire, err := repo.GetEmployeeByEmail("hire@example.com")
	require.NoError(t, err)
	assert.False(t, hire.IsManager)

	staff, err := repo.GetEmployeeByEmail("staff@example.com")
	require.NoError(t, err)
	assert.False(t, staff.IsManager)

	bossEmployee, err := repo.GetEmployeeByEmail("boss@example.com")
	require.NoError(t, err)
	assert.True(t, bossEmployee.IsManager)

	updated, err = repo.BackfillManagerScope()
	require.NoError(t, err)
	assert.Zero(t, updated)
}

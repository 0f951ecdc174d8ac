package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeesRequireManager(t *testing.T) {
	f := newFixture(t)
	token := f.login(f.alice.Email)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/employees", token, nil).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/employees", token, map[string]string{"name": "X", "email": "x@example.com"}).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodDelete, "/employees/"+f.bob.ID, token, nil).Code)
}

func TestListEmployees(t *testing.T) {
	f := newFixture(t)
	token := f.login(f.manager.Email)

	res := f.do(http.MethodGet, "/employees", token, nil)
	require.Equal(t, http.StatusOK, res.Code)

	var employees []domain.Employee
	decodeData(t, res, &employees)

	names := make([]string, 0, len(employees))
	for _, e := range employees {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Alice Adams", "Bob Brown", "Morgan Manager"}, names)
}

func TestCreateEmployee(t *testing.T) {
	f := newFixture(t)
	token := f.login(f.manager.Email)

	body := map[string]any{"name": "A", "email": "a@x.com", "password": "longenough1"}
	res := f.do(http.MethodPost, "/employees", token, body)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	assert.NotContains(t, res.Body.String(), "passwordHash")
	assert.NotContains(t, res.Body.String(), "longenough1")

	var created domain.Employee
	decodeData(t, res, &created)
	assert.Equal(t, "a@x.com", created.Email)
	assert.True(t, created.Eligible)
	assert.True(t, created.Active)
	require.NotNil(t, created.ManagerID)
	assert.Equal(t, f.manager.ID, *created.ManagerID)
	assert.Empty(t, f.notifier.sent(), "an explicit password is not emailed")

	res = f.do(http.MethodPost, "/employees", token, body)
	assert.Equal(t, http.StatusConflict, res.Code)

	body["email"] = "A@X.COM"
	res = f.do(http.MethodPost, "/employees", token, body)
	assert.Equal(t, http.StatusConflict, res.Code)
}

func TestCreateEmployeeGeneratesPassword(t *testing.T) {
	f := newFixture(t)
	token := f.login(f.manager.Email)

	res := f.do(http.MethodPost, "/employees", token, map[string]any{
		"name":       "Dana Diaz",
		"email":      "dana@example.com",
		"managerId":  "",
		"hourlyRate": "18.50",
		"eligible":   false,
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	var created domain.Employee
	decodeData(t, res, &created)
	assert.Nil(t, created.ManagerID)
	assert.False(t, created.Eligible)
	assert.Equal(t, "18.5", created.HourlyRate.String())

	sent := f.notifier.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, domain.MailTypeNewEmployee, sent[0].Type)
	assert.Equal(t, "dana@example.com", sent[0].To)
	assert.Len(t, sent[0].Data.(domain.NewEmployeeMailData).Password, 12)
}

func TestCreateEmployeeValidation(t *testing.T) {
	f := newFixture(t)
	token := f.login(f.manager.Email)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"email": "n@example.com"}},
		{"missing email", map[string]any{"name": "N"}},
		{"bad email", map[string]any{"name": "N", "email": "not-an-email"}},
		{"short password", map[string]any{"name": "N", "email": "n@example.com", "password": "short"}},
		{"negative rate", map[string]any{"name": "N", "email": "n@example.com", "hourlyRate": -1}},
		{"unknown manager", map[string]any{"name": "N", "email": "n@example.com", "managerId": "missing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := f.do(http.MethodPost, "/employees", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, res.Code, res.Body.String())
			assert.NotEmpty(t, messageOf(t, res))
		})
	}
}

func TestCreateEmployeeManagerOutsideScope(t *testing.T) {
	f := newFixture(t)
	token := f.login(f.manager.Email)

	res := f.do(http.MethodPost, "/employees", token, map[string]any{
		"name":      "Erin Evans",
		"email":     "erin@example.com",
		"managerId": f.otherManager.ID,
	})
	assert.Equal(t, http.StatusForbidden, res.Code, res.Body.String())

	_, err := f.repo.GetEmployeeByEmail("erin@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateEmployee(t *testing.T) {
	f := newFixture(t)
	token := f.login(f.manager.Email)

	res := f.do(http.MethodPatch, "/employees/"+f.alice.ID, token, map[string]any{
		"location":   "Downtown",
		"hourlyRate": 21.25,
		"active":     false,
	})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var updated domain.Employee
	decodeData(t, res, &updated)
	assert.Equal(t, "Alice Adams", updated.Name)
	assert.Equal(t, "Downtown", updated.Location)
	assert.Equal(t, "21.25", updated.HourlyRate.String())
	assert.False(t, updated.Active)

	t.Run("email taken", func(t *testing.T) {
		res := f.do(http.MethodPatch, "/employees/"+f.alice.ID, token, map[string]any{"email": f.bob.Email})
		assert.Equal(t, http.StatusConflict, res.Code)
	})

	t.Run("self as manager", func(t *testing.T) {
		res := f.do(http.MethodPatch, "/employees/"+f.alice.ID, token, map[string]any{"managerId": f.alice.ID})
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("outside scope", func(t *testing.T) {
		res := f.do(http.MethodPatch, "/employees/"+f.carol.ID, token, map[string]any{"name": "Nope"})
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("manager outside scope", func(t *testing.T) {
		res := f.do(http.MethodPatch, "/employees/"+f.alice.ID, token, map[string]any{"managerId": f.carol.ID})
		assert.Equal(t, http.StatusForbidden, res.Code)

		alice, err := f.repo.GetEmployeeByID(f.alice.ID)
		require.NoError(t, err)
		require.NotNil(t, alice.ManagerID)
		assert.Equal(t, f.manager.ID, *alice.ManagerID)
	})

	t.Run("manager within scope", func(t *testing.T) {
		res := f.do(http.MethodPatch, "/employees/"+f.alice.ID, token, map[string]any{"managerId": f.bob.ID})
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())

		var moved domain.Employee
		decodeData(t, res, &moved)
		require.NotNil(t, moved.ManagerID)
		assert.Equal(t, f.bob.ID, *moved.ManagerID)
	})
}

func TestUpdateEmployeeVersionConflict(t *testing.T) {
	f := newFixture(t)

	stale, err := f.repo.GetEmployeeByID(f.alice.ID)
	require.NoError(t, err)
	fresh, err := f.repo.GetEmployeeByID(f.alice.ID)
	require.NoError(t, err)

	fresh.Name = "Alice A."
	require.NoError(t, f.repo.UpdateEmployee(fresh))

	stale.Name = "Alice B."
	assert.ErrorIs(t, f.repo.UpdateEmployee(stale), repository.ErrEditConflict)
}

func TestDeleteEmployee(t *testing.T) {
	f := newFixture(t)
	token := f.login(f.manager.Email)

	shift := &domain.Shift{EmployeeID: f.bob.ID, Date: "2024-05-01", StartTime: "09:00", EndTime: "17:00", Status: domain.ShiftStatusScheduled}
	require.NoError(t, f.repo.CreateShift(shift))

	t.Run("cannot delete self", func(t *testing.T) {
		res := f.do(http.MethodDelete, "/employees/"+f.manager.ID, token, nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("outside scope", func(t *testing.T) {
		res := f.do(http.MethodDelete, "/employees/"+f.carol.ID, token, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("cascades", func(t *testing.T) {
		res := f.do(http.MethodDelete, "/employees/"+f.bob.ID, token, nil)
		require.Equal(t, http.StatusNoContent, res.Code)

		_, err := f.repo.GetEmployeeByID(f.bob.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		shifts, err := f.repo.GetShifts([]string{f.bob.ID})
		require.NoError(t, err)
		assert.Empty(t, shifts)
	})

	t.Run("already gone", func(t *testing.T) {
		res := f.do(http.MethodDelete, "/employees/"+f.bob.ID, token, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestInvalidJSONBody(t *testing.T) {
	f := newFixture(t)
	token := f.login(f.manager.Email)

	res := f.do(http.MethodPost, "/employees", token, json.RawMessage(`{"name": 5}`))
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "name has the wrong type", messageOf(t, res))
}

// Package memory is a process-local Repository for development and tests.
// Nothing is persisted.
package memory

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository"
)

type Repository struct {
	mu             sync.RWMutex
	employees      map[string]domain.Employee
	availabilities map[string]domain.Availability
	shifts         map[string]domain.Shift
	timeOff        map[string]domain.TimeOffRequest
}

var _ repository.Repository = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{
		employees:      make(map[string]domain.Employee),
		availabilities: make(map[string]domain.Availability),
		shifts:         make(map[string]domain.Shift),
		timeOff:        make(map[string]domain.TimeOffRequest),
	}
}

func (r *Repository) Close() error {
	return nil
}

func (r *Repository) CreateEmployee(employee *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.employees {
		if e.Email == employee.Email {
			return repository.ErrDuplicate
		}
	}

	now := time.Now().UTC()
	employee.ID = uuid.NewString()
	employee.CreatedAt = now
	employee.UpdatedAt = now
	employee.Version = 1
	r.employees[employee.ID] = *employee
	return nil
}

func (r *Repository) GetEmployeeByID(id string) (*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.employees[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *Repository) GetEmployeeByEmail(email string) (*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.employees {
		if e.Email == email {
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Repository) sortedEmployees(keep func(domain.Employee) bool) []*domain.Employee {
	employees := make([]*domain.Employee, 0)
	for _, e := range r.employees {
		if keep(e) {
			employees = append(employees, &e)
		}
	}
	slices.SortFunc(employees, func(a, b *domain.Employee) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return employees
}

func ids(employees []*domain.Employee) []string {
	out := make([]string, 0, len(employees))
	for _, e := range employees {
		out = append(out, e.ID)
	}
	return out
}

func (r *Repository) GetEmployeesByIDs(employeeIDs []string) ([]*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedEmployees(func(e domain.Employee) bool { return slices.Contains(employeeIDs, e.ID) }), nil
}

func (r *Repository) GetAllEmployees() ([]*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedEmployees(func(domain.Employee) bool { return true }), nil
}

func (r *Repository) GetAllEmployeeIDs() ([]string, error) {
	employees, _ := r.GetAllEmployees()
	return ids(employees), nil
}

func (r *Repository) GetManagedEmployeeIDs(managerID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return ids(r.sortedEmployees(func(e domain.Employee) bool {
		return e.ManagerID != nil && *e.ManagerID == managerID
	})), nil
}

func (r *Repository) UpdateEmployee(employee *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.employees[employee.ID]
	if !ok || current.Version != employee.Version {
		return repository.ErrEditConflict
	}
	for id, e := range r.employees {
		if id != employee.ID && e.Email == employee.Email {
			return repository.ErrDuplicate
		}
	}

	employee.UpdatedAt = time.Now().UTC()
	employee.Version++
	r.employees[employee.ID] = *employee
	return nil
}

func (r *Repository) DeleteEmployee(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.employees[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.employees, id)

	for key, a := range r.availabilities {
		if a.EmployeeID == id {
			delete(r.availabilities, key)
		}
	}
	for key, s := range r.shifts {
		if s.EmployeeID == id {
			delete(r.shifts, key)
		}
	}
	for key, t := range r.timeOff {
		if t.EmployeeID == id {
			delete(r.timeOff, key)
		}
	}
	for key, e := range r.employees {
		if e.ManagerID != nil && *e.ManagerID == id {
			e.ManagerID = nil
			r.employees[key] = e
		}
	}
	return nil
}

func availabilityKey(employeeID string, dayOfWeek int) string {
	return fmt.Sprintf("%s/%d", employeeID, dayOfWeek)
}

func (r *Repository) GetAvailabilities(employeeIDs []string) ([]*domain.Availability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Availability, 0)
	for _, a := range r.availabilities {
		if slices.Contains(employeeIDs, a.EmployeeID) {
			out = append(out, &a)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Availability) int {
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek - b.DayOfWeek
		}
		if c := strings.Compare(a.StartTime, b.StartTime); c != 0 {
			return c
		}
		return strings.Compare(a.EmployeeID, b.EmployeeID)
	})
	return out, nil
}

func (r *Repository) UpsertAvailability(availability *domain.Availability) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	key := availabilityKey(availability.EmployeeID, availability.DayOfWeek)

	existing, ok := r.availabilities[key]
	if ok {
		availability.ID = existing.ID
		availability.CreatedAt = existing.CreatedAt
	} else {
		availability.ID = uuid.NewString()
		availability.CreatedAt = now
	}
	availability.UpdatedAt = now
	r.availabilities[key] = *availability
	return !ok, nil
}

func (r *Repository) DeleteAvailability(employeeID string, dayOfWeek int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.availabilities, availabilityKey(employeeID, dayOfWeek))
	return nil
}

func (r *Repository) GetShifts(employeeIDs []string) ([]*domain.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Shift, 0)
	for _, s := range r.shifts {
		if slices.Contains(employeeIDs, s.EmployeeID) {
			out = append(out, &s)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Shift) int {
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		if c := strings.Compare(a.StartTime, b.StartTime); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *Repository) GetShiftByID(id string) (*domain.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.shifts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *Repository) CreateShift(shift *domain.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.employees[shift.EmployeeID]; !ok {
		return repository.ErrNotFound
	}

	now := time.Now().UTC()
	shift.ID = uuid.NewString()
	shift.CreatedAt = now
	shift.UpdatedAt = now
	r.shifts[shift.ID] = *shift
	return nil
}

func (r *Repository) UpdateShift(shift *domain.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shifts[shift.ID]; !ok {
		return repository.ErrNotFound
	}
	shift.UpdatedAt = time.Now().UTC()
	r.shifts[shift.ID] = *shift
	return nil
}

func (r *Repository) DeleteShift(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shifts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.shifts, id)
	return nil
}

func (r *Repository) GetTimeOffRequests(employeeIDs []string) ([]*domain.TimeOffRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.TimeOffRequest, 0)
	for _, t := range r.timeOff {
		if slices.Contains(employeeIDs, t.EmployeeID) {
			out = append(out, &t)
		}
	}
	slices.SortFunc(out, func(a, b *domain.TimeOffRequest) int {
		if c := strings.Compare(a.StartDate, b.StartDate); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *Repository) GetTimeOffRequestByID(id string) (*domain.TimeOffRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.timeOff[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *Repository) CreateTimeOffRequest(request *domain.TimeOffRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.employees[request.EmployeeID]; !ok {
		return repository.ErrNotFound
	}

	now := time.Now().UTC()
	request.ID = uuid.NewString()
	request.CreatedAt = now
	request.UpdatedAt = now
	r.timeOff[request.ID] = *request
	return nil
}

func (r *Repository) UpdateTimeOffStatus(id string, status domain.TimeOffStatus) (*domain.TimeOffRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.timeOff[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	r.timeOff[id] = t
	return &t, nil
}

func (r *Repository) DeleteTimeOffRequest(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.timeOff[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.timeOff, id)
	return nil
}

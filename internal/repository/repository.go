// Package repository defines the persistence contract shared by the MongoDB and
// PostgreSQL backends. Implementations translate driver errors into the sentinels below.
package repository

import (
	"errors"

	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("duplicate key")
	ErrEditConflict = errors.New("edit conflict")
)

type Repository interface {
	CreateEmployee(employee *domain.Employee) error
	GetEmployeeByID(id string) (*domain.Employee, error)
	GetEmployeeByEmail(email string) (*domain.Employee, error)
	GetEmployeesByIDs(ids []string) ([]*domain.Employee, error)
	GetAllEmployees() ([]*domain.Employee, error)
	GetAllEmployeeIDs() ([]string, error)
	// GetManagedEmployeeIDs returns the ids of employees whose managerId references managerID.
	GetManagedEmployeeIDs(managerID string) ([]string, error)
	// UpdateEmployee fails with ErrEditConflict when employee.Version is stale.
	UpdateEmployee(employee *domain.Employee) error
	// DeleteEmployee removes the employee with its availability, shift and time-off rows.
	DeleteEmployee(id string) error

	GetAvailabilities(employeeIDs []string) ([]*domain.Availability, error)
	// UpsertAvailability reports whether a new row was inserted.
	UpsertAvailability(availability *domain.Availability) (bool, error)
	// DeleteAvailability is idempotent.
	DeleteAvailability(employeeID string, dayOfWeek int) error

	GetShifts(employeeIDs []string) ([]*domain.Shift, error)
	GetShiftByID(id string) (*domain.Shift, error)
	CreateShift(shift *domain.Shift) error
	UpdateShift(shift *domain.Shift) error
	DeleteShift(id string) error

	GetTimeOffRequests(employeeIDs []string) ([]*domain.TimeOffRequest, error)
	GetTimeOffRequestByID(id string) (*domain.TimeOffRequest, error)
	CreateTimeOffRequest(request *domain.TimeOffRequest) error
	UpdateTimeOffStatus(id string, status domain.TimeOffStatus) (*domain.TimeOffRequest, error)
	DeleteTimeOffRequest(id string) error

	Close() error
}

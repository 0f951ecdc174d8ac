// Package seed inserts demo and random data and runs one-off maintenance over the roster.
package seed

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository"
	"github.com/shiftboard/shift-scheduler/backend/internal/utils"
	"github.com/shopspring/decimal"
)

var ErrAlreadySeeded = errors.New("demo data already present")

// Credential is a temporary login handed out by BackfillPasswords.
type Credential struct {
	Name     string
	Email    string
	Password string
}

type demoEmployee struct {
	code      string
	name      string
	email     string
	role      string
	location  string
	rate      string
	active    bool
	isManager bool
	manager   string
}

type demoShift struct {
	employee                   string
	date, start, end, location string
	status                     domain.ShiftStatus
}

type demoTimeOff struct {
	employee           string
	start, end, reason string
	status             domain.TimeOffStatus
}

type demoAvailability struct {
	employee   string
	day        int
	start, end string
}

var demoEmployees = []demoEmployee{
	{"EMP001", "Jordan Miles", "jordan.miles@example.com", "Shift Supervisor", "Boston HQ", "28", true, true, ""},
	{"EMP002", "Priya Patel", "priya.patel@example.com", "Barista", "Cambridge Cafe", "18.5", true, false, "EMP001"},
	{"EMP003", "Andres Castillo", "andres.castillo@example.com", "Line Cook", "Seaport Kitchen", "20", false, false, "EMP001"},
	{"EMP004", "Sasha Green", "sasha.green@example.com", "Prep Cook", "Seaport Kitchen", "17", true, false, "EMP001"},
	{"EMP005", "Marcus Lee", "marcus.lee@example.com", "Barista", "Cambridge Cafe", "19", true, false, "EMP001"},
}

var demoShifts = []demoShift{
	{"EMP002", "2024-05-20", "08:00", "14:00", "Cambridge Cafe", domain.ShiftStatusScheduled},
	{"EMP002", "2024-05-22", "12:00", "18:00", "Cambridge Cafe", domain.ShiftStatusScheduled},
	{"EMP003", "2024-05-21", "16:00", "22:00", "Seaport Kitchen", domain.ShiftStatusScheduled},
	{"EMP004", "2024-05-22", "09:00", "17:00", "Seaport Kitchen", domain.ShiftStatusScheduled},
	{"EMP005", "2024-05-20", "07:00", "13:00", "Cambridge Cafe", domain.ShiftStatusCompleted},
}

var demoTimeOffs = []demoTimeOff{
	{"EMP002", "2024-05-21", "2024-05-23", "Family trip", domain.TimeOffStatusApproved},
	{"EMP003", "2024-05-28", "2024-05-30", "Medical appointment", domain.TimeOffStatusPending},
}

var demoAvailabilities = []demoAvailability{
	{"EMP002", 1, "07:00", "15:00"},
	{"EMP002", 3, "07:00", "15:00"},
	{"EMP003", 2, "14:00", "23:00"},
	{"EMP004", 0, "09:00", "17:00"},
	{"EMP004", 6, "09:00", "17:00"},
	{"EMP005", 5, "06:00", "12:00"},
}

// Demo inserts the five demo employees and their shifts, time off and availability.
// Every demo account gets password. It refuses to run twice against the same store.
func Demo(repo repository.Repository, password string) error {
	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	ids := make(map[string]string, len(demoEmployees))
	for _, d := range demoEmployees {
		rate, err := decimal.NewFromString(d.rate)
		if err != nil {
			return err
		}

		employee := &domain.Employee{
			Name:         d.name,
			Email:        d.email,
			Role:         d.role,
			Location:     d.location,
			HourlyRate:   rate,
			Eligible:     true,
			Active:       d.active,
			IsManager:    d.isManager,
			PasswordHash: passwordHash,
		}
		if d.manager != "" {
			managerID, ok := ids[d.manager]
			if !ok {
				return fmt.Errorf("demo employee %s references unknown manager %s", d.code, d.manager)
			}
			employee.ManagerID = &managerID
		}

		if err := repo.CreateEmployee(employee); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return fmt.Errorf("%w: %s", ErrAlreadySeeded, d.email)
			}
			return fmt.Errorf("insert employee %s: %w", d.code, err)
		}
		ids[d.code] = employee.ID
	}

	for _, d := range demoShifts {
		shift := &domain.Shift{
			EmployeeID: ids[d.employee],
			Date:       d.date,
			StartTime:  d.start,
			EndTime:    d.end,
			Location:   d.location,
			Status:     d.status,
		}
		if err := repo.CreateShift(shift); err != nil {
			return fmt.Errorf("insert shift for %s: %w", d.employee, err)
		}
	}

	for _, d := range demoTimeOffs {
		request := &domain.TimeOffRequest{
			EmployeeID: ids[d.employee],
			StartDate:  d.start,
			EndDate:    d.end,
			Reason:     d.reason,
			Status:     d.status,
		}
		if err := repo.CreateTimeOffRequest(request); err != nil {
			return fmt.Errorf("insert time-off request for %s: %w", d.employee, err)
		}
	}

	for _, d := range demoAvailabilities {
		availability := &domain.Availability{
			EmployeeID: ids[d.employee],
			DayOfWeek:  d.day,
			StartTime:  d.start,
			EndTime:    d.end,
		}
		if _, err := repo.UpsertAvailability(availability); err != nil {
			return fmt.Errorf("insert availability for %s: %w", d.employee, err)
		}
	}

	slog.Info("inserted demo data",
		"employees", len(demoEmployees),
		"shifts", len(demoShifts),
		"time_off_requests", len(demoTimeOffs),
		"availabilities", len(demoAvailabilities),
	)
	return nil
}

// Random inserts n random employees reporting to managerID and returns how many were stored.
// Individual failures are logged and skipped.
func Random(repo repository.Repository, password string, n int, managerID *string) int {
	inserted := 0
	for i := 0; i < n; i++ {
		employee, err := utils.GenerateRandomEmployee(password, i+1, managerID)
		if err != nil {
			slog.Error("failed to generate random employee", "error", err)
			continue
		}

		if err := repo.CreateEmployee(employee); err != nil {
			slog.Error("failed to insert employee", "email", employee.Email, "error", err)
			continue
		}
		inserted++
	}
	return inserted
}

// BackfillPasswords gives every employee without a password hash a temporary password.
// The plain passwords are only returned, never stored.
func BackfillPasswords(repo repository.Repository) ([]Credential, error) {
	employees, err := repo.GetAllEmployees()
	if err != nil {
		return nil, err
	}

	issued := make([]Credential, 0)
	for _, employee := range employees {
		if employee.PasswordHash != "" {
			continue
		}

		password := utils.GenerateTempPassword(employee.Name)
		hash, err := utils.HashPassword(password)
		if err != nil {
			return issued, err
		}
		employee.PasswordHash = hash

		if err := repo.UpdateEmployee(employee); err != nil {
			return issued, fmt.Errorf("update %s: %w", employee.Email, err)
		}
		issued = append(issued, Credential{Name: employee.Name, Email: employee.Email, Password: password})
	}
	return issued, nil
}

// EnsureInitialManager creates a top-level manager unless the email is already taken.
// It reports whether an account was created.
func EnsureInitialManager(repo repository.Repository, name, email, password string) (bool, error) {
	email = utils.NormalizeEmail(email)

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return false, err
	}

	manager := &domain.Employee{
		Name:         name,
		Email:        email,
		Role:         "Manager",
		Eligible:     true,
		Active:       true,
		IsManager:    true,
		PasswordHash: passwordHash,
	}
	if err := repo.CreateEmployee(manager); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

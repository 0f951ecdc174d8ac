package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/shiftboard/shift-scheduler/backend/internal/access"
	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository"
	"github.com/shiftboard/shift-scheduler/backend/internal/utils"
	"github.com/shopspring/decimal"
)

var errNegativeRate = errors.New("hourlyRate must not be negative")

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.repository.GetEmployeesByIDs(access.AccessibleEmployeeIDs(claimsFrom(r)))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.dataResponse(w, r, http.StatusOK, employees)
}

// checkManagerID validates a managerId value: "" means top level, anything else must exist,
// must not be the employee itself and must be within the caller's scope.
func (h *Handler) checkManagerID(w http.ResponseWriter, r *http.Request, managerID, selfID string) bool {
	if managerID == "" {
		return true
	}
	if managerID == selfID {
		h.badRequest(w, r, errors.New("an employee cannot manage themselves"))
		return false
	}

	if _, err := h.repository.GetEmployeeByID(managerID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.badRequest(w, r, errors.New("managerId must reference an existing employee"))
		default:
			h.internalServerError(w, r, err)
		}
		return false
	}
	if !access.CanAccess(claimsFrom(r), managerID) {
		h.forbidden(w, r)
		return false
	}
	return true
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string           `json:"name" validate:"required,max=200"`
		Email      string           `json:"email" validate:"required,email"`
		Role       string           `json:"role" validate:"max=100"`
		Location   string           `json:"location" validate:"max=200"`
		HourlyRate *decimal.Decimal `json:"hourlyRate"`
		Eligible   *bool            `json:"eligible"`
		Active     *bool            `json:"active"`
		IsManager  bool             `json:"isManager"`
		ManagerID  *string          `json:"managerId"`
		Password   string           `json:"password" validate:"omitempty,min=8"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	req.Email = utils.NormalizeEmail(req.Email)
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.HourlyRate != nil && req.HourlyRate.IsNegative() {
		h.badRequest(w, r, errNegativeRate)
		return
	}

	employee := &domain.Employee{
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		Location:  req.Location,
		Eligible:  true,
		Active:    true,
		IsManager: req.IsManager,
	}
	if req.HourlyRate != nil {
		employee.HourlyRate = *req.HourlyRate
	}
	if req.Eligible != nil {
		employee.Eligible = *req.Eligible
	}
	if req.Active != nil {
		employee.Active = *req.Active
	}

	// absent managerId reports to the creating manager, an empty one makes a top-level employee
	switch {
	case req.ManagerID == nil:
		creator := claimsFrom(r).Subject
		employee.ManagerID = &creator
	case *req.ManagerID == "":
		employee.ManagerID = nil
	default:
		if !h.checkManagerID(w, r, *req.ManagerID, "") {
			return
		}
		employee.ManagerID = req.ManagerID
	}

	password := req.Password
	generated := password == ""
	if generated {
		password = utils.GenerateRandomPassword(h.config.NewEmployee.PasswordLength)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	employee.PasswordHash = hash

	if err := h.repository.CreateEmployee(employee); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			h.conflict(w, r, "An employee with this email already exists.")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if generated {
		mailMessage := domain.MailMessage{
			Type: domain.MailTypeNewEmployee,
			To:   employee.Email,
			Data: domain.NewEmployeeMailData{
				Name:     employee.Name,
				Email:    employee.Email,
				Password: password,
			},
		}
		if err := h.notifier.Notify(mailMessage); err != nil {
			// the account exists, the password can still be reset by email
			slog.Error("failed to queue new employee email", "employee_id", employee.ID, "error", err)
		}
	}

	h.dataResponse(w, r, http.StatusCreated, employee)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeInfoCtxKey).(*domain.Employee)

	var req struct {
		Name       *string          `json:"name" validate:"omitempty,min=1,max=200"`
		Email      *string          `json:"email" validate:"omitempty,email"`
		Role       *string          `json:"role" validate:"omitempty,max=100"`
		Location   *string          `json:"location" validate:"omitempty,max=200"`
		HourlyRate *decimal.Decimal `json:"hourlyRate"`
		Eligible   *bool            `json:"eligible"`
		Active     *bool            `json:"active"`
		IsManager  *bool            `json:"isManager"`
		ManagerID  *string          `json:"managerId"`
		Password   *string          `json:"password" validate:"omitempty,min=8"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.Email != nil {
		normalized := utils.NormalizeEmail(*req.Email)
		req.Email = &normalized
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.HourlyRate != nil && req.HourlyRate.IsNegative() {
		h.badRequest(w, r, errNegativeRate)
		return
	}

	if req.Name != nil {
		employee.Name = *req.Name
	}
	if req.Email != nil && *req.Email != employee.Email {
		other, err := h.repository.GetEmployeeByEmail(*req.Email)
		switch {
		case err == nil && other.ID != employee.ID:
			h.conflict(w, r, "An employee with this email already exists.")
			return
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			h.internalServerError(w, r, err)
			return
		}
		employee.Email = *req.Email
	}
	if req.Role != nil {
		employee.Role = *req.Role
	}
	if req.Location != nil {
		employee.Location = *req.Location
	}
	if req.HourlyRate != nil {
		employee.HourlyRate = *req.HourlyRate
	}
	if req.Eligible != nil {
		employee.Eligible = *req.Eligible
	}
	if req.Active != nil {
		employee.Active = *req.Active
	}
	if req.IsManager != nil {
		employee.IsManager = *req.IsManager
	}
	if req.ManagerID != nil {
		if !h.checkManagerID(w, r, *req.ManagerID, employee.ID) {
			return
		}
		if *req.ManagerID == "" {
			employee.ManagerID = nil
		} else {
			employee.ManagerID = req.ManagerID
		}
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		employee.PasswordHash = hash
	}

	if err := h.repository.UpdateEmployee(employee); err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			h.conflict(w, r, "The employee was changed by another request, please retry.")
		case errors.Is(err, repository.ErrDuplicate):
			h.conflict(w, r, "An employee with this email already exists.")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.dataResponse(w, r, http.StatusOK, employee)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeInfoCtxKey).(*domain.Employee)

	if err := h.repository.DeleteEmployee(employee.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.notFound(w, r, "Employee not found.")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.noContent(w)
}

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/shiftboard/shift-scheduler/backend/internal/access"
	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shiftboard/shift-scheduler/backend/internal/otp"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository"
	"github.com/shiftboard/shift-scheduler/backend/internal/token"
	"github.com/shiftboard/shift-scheduler/backend/internal/utils"
)

const invalidCredentials = "Invalid email or password."

type loginResponse struct {
	Token string         `json:"token"`
	User  domain.Profile `json:"user"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
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

	// unknown email, missing hash and wrong password all answer the same way
	employee, err := h.repository.GetEmployeeByEmail(req.Email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.unauthenticated(w, r, invalidCredentials)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	ok, err := utils.ComparePassword(employee.PasswordHash, req.Password)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !ok {
		h.unauthenticated(w, r, invalidCredentials)
		return
	}

	permissions, err := h.permissionsFor(employee)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	claims := &token.Claims{
		Email:       employee.Email,
		Role:        employee.Role,
		Permissions: permissions,
	}
	claims.Subject = employee.ID

	ss, _, err := h.tokens.Issue(claims)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, loginResponse{
		Token: ss,
		User: domain.Profile{
			ID:          employee.ID,
			Name:        employee.Name,
			Email:       employee.Email,
			Role:        employee.Role,
			ManagerID:   employee.ManagerID,
			IsManager:   employee.IsManager,
			Permissions: permissions,
		},
	})
}

// permissionsFor resolves the managed ids for a manager session.
func (h *Handler) permissionsFor(employee *domain.Employee) (domain.Permissions, error) {
	if !employee.IsManager {
		return access.BuildPermissions(employee, nil), nil
	}

	reports, err := h.repository.GetManagedEmployeeIDs(employee.ID)
	if err != nil {
		return domain.Permissions{}, err
	}

	permissions := access.BuildPermissions(employee, reports)
	if len(permissions.ManagedEmployeeIDs) == 0 && h.config.Access.ManagerFallbackAll {
		all, err := h.repository.GetAllEmployeeIDs()
		if err != nil {
			return domain.Permissions{}, err
		}
		slog.Warn("manager has no linked reports, granting access to every employee",
			"employee_id", employee.ID,
			"employees", len(all),
		)
		permissions = access.BuildPermissions(employee, all)
	}
	return permissions, nil
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"currentPassword" validate:"required"`
		NewPassword     string `json:"newPassword" validate:"required,min=8"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee, err := h.repository.GetEmployeeByID(claimsFrom(r).Subject)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.unauthenticated(w, r, "Account no longer exists.")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	ok, err := utils.ComparePassword(employee.PasswordHash, req.CurrentPassword)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !ok {
		h.badRequest(w, r, errors.New("current password is incorrect"))
		return
	}

	if !h.setPassword(w, r, employee, req.NewPassword) {
		return
	}

	h.noContent(w)
}

// setPassword hashes and stores password, writing the error response itself on failure.
func (h *Handler) setPassword(w http.ResponseWriter, r *http.Request, employee *domain.Employee, password string) bool {
	hash, err := utils.HashPassword(password)
	if err != nil {
		h.internalServerError(w, r, err)
		return false
	}
	employee.PasswordHash = hash

	if err := h.repository.UpdateEmployee(employee); err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			h.conflict(w, r, "The account was changed by another request, please retry.")
		default:
			h.internalServerError(w, r, err)
		}
		return false
	}
	return true
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	employee, err := h.repository.GetEmployeeByID(claimsFrom(r).Subject)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.notFound(w, r, "Employee not found.")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.dataResponse(w, r, http.StatusOK, employee)
}

func (h *Handler) RequireResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
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

	employee, err := h.repository.GetEmployeeByEmail(req.Email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			// same answer as a real account so the endpoint cannot probe emails
			h.noContent(w)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	code, err := h.otps.Issue(otp.PurposeResetPassword, employee.Email)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	mailMessage := domain.MailMessage{
		Type: domain.MailTypeResetPassword,
		To:   employee.Email,
		Data: domain.ResetPasswordMailData{
			Name:       employee.Name,
			OTP:        code,
			Expiration: h.config.OTP.Expiration / 60, // config is in seconds, the email shows minutes
		},
	}
	if err := h.notifier.Notify(mailMessage); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.noContent(w)
}

func (h *Handler) ConfirmResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		OTP      string `json:"otp" validate:"required,len=6,numeric"`
		Password string `json:"password" validate:"required,min=8"`
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

	if err := h.otps.Verify(otp.PurposeResetPassword, req.Email, req.OTP); err != nil {
		switch {
		case errors.Is(err, otp.ErrInvalidCode):
			h.badRequest(w, r, errors.New("invalid or expired code"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	employee, err := h.repository.GetEmployeeByEmail(req.Email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.badRequest(w, r, errors.New("invalid or expired code"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if !h.setPassword(w, r, employee, req.Password) {
		return
	}

	if err := h.otps.Revoke(otp.PurposeResetPassword, req.Email); err != nil {
		// the password is already changed, a stale code expires on its own
		slog.Error("failed to revoke reset code", "email", req.Email, "error", err)
	}

	h.noContent(w)
}

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository"
	"github.com/shiftboard/shift-scheduler/backend/internal/utils"
)

func (h *Handler) ListTimeOffRequests(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.listScope(w, r)
	if !ok {
		return
	}

	requests, err := h.repository.GetTimeOffRequests(ids)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.dataResponse(w, r, http.StatusOK, requests)
}

func (h *Handler) CreateTimeOffRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID string `json:"employeeId"`
		StartDate  string `json:"startDate" validate:"required,datetime=2006-01-02"`
		EndDate    string `json:"endDate" validate:"required,datetime=2006-01-02"`
		Reason     string `json:"reason" validate:"max=1000"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateDateRange(req.StartDate, req.EndDate); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employeeID, ok := h.writeTarget(w, r, req.EmployeeID)
	if !ok {
		return
	}
	if !h.requireEmployee(w, r, employeeID) {
		return
	}

	request := &domain.TimeOffRequest{
		EmployeeID: employeeID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Reason:     req.Reason,
		Status:     domain.TimeOffStatusPending,
	}
	if err := h.repository.CreateTimeOffRequest(request); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.notFound(w, r, "Employee not found.")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.dataResponse(w, r, http.StatusCreated, request)
}

// UpdateTimeOffStatus accepts any of the four statuses from any current status.
func (h *Handler) UpdateTimeOffStatus(w http.ResponseWriter, r *http.Request) {
	request := r.Context().Value(TimeOffCtxKey).(*domain.TimeOffRequest)

	var req struct {
		Status string `json:"status" validate:"required,oneof=pending approved rejected cancelled"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	updated, err := h.repository.UpdateTimeOffStatus(request.ID, domain.TimeOffStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.notFound(w, r, "Time-off request not found.")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if updated.Status != request.Status {
		h.notifyTimeOffStatus(updated)
	}

	h.dataResponse(w, r, http.StatusOK, updated)
}

// notifyTimeOffStatus emails the owner. Failures are logged since the status change already happened.
func (h *Handler) notifyTimeOffStatus(request *domain.TimeOffRequest) {
	employee, err := h.repository.GetEmployeeByID(request.EmployeeID)
	if err != nil {
		slog.Error("failed to load employee for time-off email", "employee_id", request.EmployeeID, "error", err)
		return
	}

	mailMessage := domain.MailMessage{
		Type: domain.MailTypeTimeOffStatus,
		To:   employee.Email,
		Data: domain.TimeOffStatusMailData{
			Name:      employee.Name,
			StartDate: request.StartDate,
			EndDate:   request.EndDate,
			Status:    string(request.Status),
		},
	}
	if err := h.notifier.Notify(mailMessage); err != nil {
		slog.Error("failed to queue time-off email", "request_id", request.ID, "error", err)
	}
}

func (h *Handler) DeleteTimeOffRequest(w http.ResponseWriter, r *http.Request) {
	request := r.Context().Value(TimeOffCtxKey).(*domain.TimeOffRequest)

	if err := h.repository.DeleteTimeOffRequest(request.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.notFound(w, r, "Time-off request not found.")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.noContent(w)
}

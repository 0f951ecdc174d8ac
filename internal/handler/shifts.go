package handler

import (
	"errors"
	"net/http"

	"github.com/shiftboard/shift-scheduler/backend/internal/access"
	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository"
	"github.com/shiftboard/shift-scheduler/backend/internal/utils"
)

func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.listScope(w, r)
	if !ok {
		return
	}

	shifts, err := h.repository.GetShifts(ids)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.dataResponse(w, r, http.StatusOK, shifts)
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID string `json:"employeeId" validate:"required"`
		Date       string `json:"date" validate:"required,datetime=2006-01-02"`
		StartTime  string `json:"startTime" validate:"required"`
		EndTime    string `json:"endTime" validate:"required"`
		Location   string `json:"location" validate:"max=200"`
		Status     string `json:"status" validate:"omitempty,oneof=scheduled in-progress completed cancelled"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateClockRange(req.StartTime, req.EndTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if !access.CanAccess(claimsFrom(r), req.EmployeeID) {
		h.forbidden(w, r)
		return
	}
	if !h.requireEmployee(w, r, req.EmployeeID) {
		return
	}

	shift := &domain.Shift{
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Location:   req.Location,
		Status:     domain.ShiftStatusScheduled,
	}
	if req.Status != "" {
		shift.Status = domain.ShiftStatus(req.Status)
	}

	if err := h.repository.CreateShift(shift); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.notFound(w, r, "Employee not found.")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.dataResponse(w, r, http.StatusCreated, shift)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtxKey).(*domain.Shift)

	var req struct {
		EmployeeID *string `json:"employeeId" validate:"omitempty,min=1"`
		Date       *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
		StartTime  *string `json:"startTime"`
		EndTime    *string `json:"endTime"`
		Location   *string `json:"location" validate:"omitempty,max=200"`
		Status     *string `json:"status" validate:"omitempty,oneof=scheduled in-progress completed cancelled"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.EmployeeID != nil && *req.EmployeeID != shift.EmployeeID {
		if !access.CanAccess(claimsFrom(r), *req.EmployeeID) {
			h.forbidden(w, r)
			return
		}
		if !h.requireEmployee(w, r, *req.EmployeeID) {
			return
		}
		shift.EmployeeID = *req.EmployeeID
	}
	if req.Date != nil {
		shift.Date = *req.Date
	}
	if req.StartTime != nil {
		shift.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		shift.EndTime = *req.EndTime
	}
	if req.Location != nil {
		shift.Location = *req.Location
	}
	if req.Status != nil {
		shift.Status = domain.ShiftStatus(*req.Status)
	}

	if err := utils.ValidateClockRange(shift.StartTime, shift.EndTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateShift(shift); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.notFound(w, r, "Shift not found.")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.dataResponse(w, r, http.StatusOK, shift)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtxKey).(*domain.Shift)

	if err := h.repository.DeleteShift(shift.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.notFound(w, r, "Shift not found.")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.noContent(w)
}

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shiftboard/shift-scheduler/backend/internal/utils"
)

func (h *Handler) ListAvailabilities(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.listScope(w, r)
	if !ok {
		return
	}

	availabilities, err := h.repository.GetAvailabilities(ids)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.dataResponse(w, r, http.StatusOK, availabilities)
}

// UpsertAvailability writes one day's window. A blank start or end clears the day instead.
func (h *Handler) UpsertAvailability(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID string `json:"employeeId"`
		DayOfWeek  *int   `json:"dayOfWeek" validate:"required,min=0,max=6"`
		StartTime  string `json:"startTime"`
		EndTime    string `json:"endTime"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employeeID, ok := h.writeTarget(w, r, req.EmployeeID)
	if !ok {
		return
	}

	startTime := strings.TrimSpace(req.StartTime)
	endTime := strings.TrimSpace(req.EndTime)
	if startTime == "" || endTime == "" {
		if err := h.repository.DeleteAvailability(employeeID, *req.DayOfWeek); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		h.noContent(w)
		return
	}

	if err := utils.ValidateClockRange(startTime, endTime); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if !h.requireEmployee(w, r, employeeID) {
		return
	}

	availability := &domain.Availability{
		EmployeeID: employeeID,
		DayOfWeek:  *req.DayOfWeek,
		StartTime:  startTime,
		EndTime:    endTime,
	}
	inserted, err := h.repository.UpsertAvailability(availability)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	h.dataResponse(w, r, status, availability)
}

// DeleteAvailability accepts employeeId and dayOfWeek from a JSON body or the query string.
func (h *Handler) DeleteAvailability(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID string `json:"employeeId"`
		DayOfWeek  *int   `json:"dayOfWeek"`
	}

	if err := h.readJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		h.badRequest(w, r, err)
		return
	}

	query := r.URL.Query()
	if req.EmployeeID == "" {
		req.EmployeeID = query.Get("employeeId")
	}
	if req.DayOfWeek == nil && query.Get("dayOfWeek") != "" {
		day, err := strconv.Atoi(query.Get("dayOfWeek"))
		if err != nil {
			h.badRequest(w, r, errors.New("dayOfWeek must be a number between 0 and 6"))
			return
		}
		req.DayOfWeek = &day
	}
	if req.DayOfWeek == nil || *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
		h.badRequest(w, r, errors.New("dayOfWeek must be a number between 0 and 6"))
		return
	}

	employeeID, ok := h.writeTarget(w, r, req.EmployeeID)
	if !ok {
		return
	}

	if err := h.repository.DeleteAvailability(employeeID, *req.DayOfWeek); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.noContent(w)
}

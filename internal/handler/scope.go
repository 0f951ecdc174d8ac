package handler

import (
	"errors"
	"net/http"

	"github.com/shiftboard/shift-scheduler/backend/internal/access"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository"
)

// listScope resolves which employees a list request covers. Non-managers always get themselves,
// managers get every accessible id or the single requested one. ok is false once a response is written.
func (h *Handler) listScope(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	claims := claimsFrom(r)
	if !access.IsManager(claims) {
		return []string{claims.Subject}, true
	}

	requested := r.URL.Query().Get("employeeId")
	if requested == "" {
		return access.AccessibleEmployeeIDs(claims), true
	}
	if !access.CanAccess(claims, requested) {
		h.forbidden(w, r)
		return nil, false
	}
	return []string{requested}, true
}

// writeTarget resolves the employee a create request acts for.
// Managers may name any accessible employee, everyone else is pinned to themselves.
func (h *Handler) writeTarget(w http.ResponseWriter, r *http.Request, requested string) (string, bool) {
	claims := claimsFrom(r)
	if !access.IsManager(claims) || requested == "" {
		return claims.Subject, true
	}
	if !access.CanAccess(claims, requested) {
		h.forbidden(w, r)
		return "", false
	}
	return requested, true
}

// requireEmployee checks that the target employee still exists.
func (h *Handler) requireEmployee(w http.ResponseWriter, r *http.Request, id string) bool {
	if _, err := h.repository.GetEmployeeByID(id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.notFound(w, r, "Employee not found.")
		default:
			h.internalServerError(w, r, err)
		}
		return false
	}
	return true
}
